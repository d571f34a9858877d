// Package output emits structured parse results as NDJSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Record is one emitted object: event type id (stringified for JSON) to
// the resolved value strings for that event.
type Record map[string][]string

// FromResolved converts a registry parse result to a Record.
func FromResolved(resolved map[int][]string) Record {
	rec := make(Record, len(resolved))
	for id, values := range resolved {
		if values == nil {
			values = []string{}
		}
		rec[strconv.Itoa(id)] = values
	}
	return rec
}

// Writer emits one JSON object per line. Records that matched no
// template produce no output: callers skip empty results entirely.
type Writer struct {
	enc *json.Encoder
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// Write emits rec as one NDJSON line. Keys are sorted by the encoder, so
// output is deterministic.
func (w *Writer) Write(rec Record) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}
