package csvio

import (
	"fmt"
	"io"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/tracker"
)

// ReadTracker parses the daily tracker. Every column except the date becomes a
// raw string cell keyed by its header.
func ReadTracker(r io.Reader) ([]tracker.Row, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	dateCol, err := t.column("Date", "date")
	if err != nil {
		return nil, err
	}

	rows := make([]tracker.Row, 0, len(t.rows))
	for n, record := range t.rows {
		if blank(record) {
			continue
		}

		date, err := domain.ParseDate(field(record, dateCol))
		if err != nil {
			return nil, fmt.Errorf("tracker line %d: %w", n+2, err)
		}

		values := make(map[string]any, len(t.names)-1)
		for i, name := range t.names {
			if i == dateCol || name == "" {
				continue
			}
			values[name] = field(record, i)
		}
		rows = append(rows, tracker.Row{Date: date, Values: values})
	}
	return rows, nil
}
