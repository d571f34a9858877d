// Package catalog loads the template table emitted by the upstream
// control-flow analysis tool.
//
// The table is CSV, one row per event type:
//
//	dominatorId (empty or integer), id, sourcePath, level, template
//
// Blank lines and lines starting with '#' are skipped. Any malformed row
// aborts the load; parsing never starts on a partial table.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sensemill/logweave/internal/model"
	"github.com/sensemill/logweave/internal/registry"
)

// Load reads the template table at path.
func Load(path string) ([]registry.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	defer f.Close()
	rows, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return rows, nil
}

// Parse reads a template table from r.
func Parse(r io.Reader) ([]registry.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // length checked per row for a better message

	var rows []registry.Row
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(rec[0]), "#") {
			continue
		}
		if len(rec) != 5 {
			return nil, fmt.Errorf("row %d: want 5 fields, got %d", line, len(rec))
		}

		var dom *int
		if s := strings.TrimSpace(rec[0]); s != "" {
			d, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("row %d: dominator id %q is not an integer", line, rec[0])
			}
			dom = &d
		}
		id, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, fmt.Errorf("row %d: id %q is not an integer", line, rec[1])
		}
		level, err := model.ParseLevel(rec[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		rows = append(rows, registry.Row{
			DominatorID: dom,
			ID:          id,
			SourcePath:  strings.TrimSpace(rec[2]),
			Level:       level,
			Template:    rec[4],
		})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty template table")
	}
	return rows, nil
}
