// Package reader splits an input stream into parse records.
//
// Two modes: plain newline delimiting, or a record-boundary pattern
// applied to an accumulating buffer. In boundary mode, once the pattern
// matches, its capture groups are joined with single spaces to form the
// record and the buffer resets. Trailing buffered text that never matches
// is dropped at end of stream.
package reader

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const maxRecordSize = 1 << 20

// Reader yields one record per Next call.
type Reader struct {
	scanner  *bufio.Scanner
	boundary *regexp.Regexp
	buf      strings.Builder
}

// New creates a Reader over r. An empty boundary selects newline mode.
func New(r io.Reader, boundary string) (*Reader, error) {
	var re *regexp.Regexp
	if boundary != "" {
		var err error
		re, err = regexp.Compile(boundary)
		if err != nil {
			return nil, fmt.Errorf("reader: boundary pattern: %w", err)
		}
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxRecordSize)
	return &Reader{scanner: s, boundary: re}, nil
}

// Next returns the next record, or io.EOF at end of stream.
func (r *Reader) Next() (string, error) {
	if r.boundary == nil {
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return "", fmt.Errorf("reader: %w", err)
			}
			return "", io.EOF
		}
		return r.scanner.Text(), nil
	}

	for r.scanner.Scan() {
		if r.buf.Len() > 0 {
			r.buf.WriteByte('\n')
		}
		r.buf.WriteString(r.scanner.Text())

		m := r.boundary.FindStringSubmatch(r.buf.String())
		if m == nil {
			continue
		}
		r.buf.Reset()
		if len(m) == 1 {
			return m[0], nil
		}
		return strings.Join(m[1:], " "), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", fmt.Errorf("reader: %w", err)
	}
	return "", io.EOF
}
