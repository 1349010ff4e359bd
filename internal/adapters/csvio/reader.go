// Package csvio reads the calendar, habit and tracker tables from CSV files and
// writes the derived streak table back out.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrMissingColumn = errors.New("csv: missing required column")

type table struct {
	header map[string]int
	names  []string
	rows   [][]string
}

func readTable(r io.Reader) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	if len(records) == 0 {
		return &table{header: map[string]int{}}, nil
	}

	t := &table{
		header: make(map[string]int, len(records[0])),
		rows:   records[1:],
	}
	for i, name := range records[0] {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		t.header[name] = i
		t.names = append(t.names, name)
	}
	return t, nil
}

// column returns the index of the first header matching one of names.
func (t *table) column(names ...string) (int, error) {
	for _, n := range names {
		if i, ok := t.header[n]; ok {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(names, " or "))
}

func (t *table) optional(names ...string) int {
	i, err := t.column(names...)
	if err != nil {
		return -1
	}
	return i
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
