// Package tracker turns raw daily tracker rows into the fully populated,
// date-ordered observation grid the streak driver consumes.
package tracker

import (
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

// Row is one day of the habit tracker as read from a source. Values holds the
// raw cell per habit name: bool, number, string or nil.
type Row struct {
	Date   time.Time
	Values map[string]any
}

// Window bounds the processed dates, inclusive. Zero bounds are open.
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) Contains(d time.Time) bool {
	if !w.From.IsZero() && d.Before(domain.Day(w.From)) {
		return false
	}
	if !w.To.IsZero() && d.After(domain.Day(w.To)) {
		return false
	}
	return true
}

type Grid struct {
	Observations []domain.Observation
	// DroppedRows counts tracker rows whose date is not covered by the calendar.
	DroppedRows int
	// MissingColumns lists habits that never appear in any tracker row.
	MissingColumns []string
	Days           int
}

// BuildObservations lays the tracker rows over the calendar dates inside the
// window and fills every gap with the habit's missing value.
func BuildObservations(cal *domain.CalendarIndex, habits []domain.HabitDefinition, rows []Row, window Window) (*Grid, error) {
	byDate := make(map[string]Row, len(rows))
	seen := make(map[string]bool, len(habits))
	grid := &Grid{}

	for _, r := range rows {
		day := domain.Day(r.Date)
		key := domain.FormatDate(day)
		if !cal.Contains(day) {
			grid.DroppedRows++
			continue
		}
		if _, dup := byDate[key]; dup {
			return nil, domain.NewRowError("", day, domain.ErrDuplicateTrackerRow)
		}
		byDate[key] = r
		for name := range r.Values {
			seen[name] = true
		}
	}

	for _, h := range habits {
		if !seen[h.Name] {
			grid.MissingColumns = append(grid.MissingColumns, h.Name)
		}
	}

	for _, day := range cal.Dates() {
		if !window.Contains(day) {
			continue
		}
		grid.Days++

		row := byDate[domain.FormatDate(day)]
		for _, h := range habits {
			value, err := cell(row.Values, h)
			if err != nil {
				return nil, domain.NewRowError(h.Name, day, err)
			}
			grid.Observations = append(grid.Observations, domain.Observation{
				Date:  day,
				Habit: h.Name,
				Value: value,
			})
		}
	}

	return grid, nil
}

func cell(values map[string]any, h domain.HabitDefinition) (domain.Completion, error) {
	raw, ok := values[h.Name]
	if !ok {
		return h.MissingValue(), nil
	}

	c, err := domain.ParseCompletion(raw)
	if err != nil {
		return domain.Completion{}, fmt.Errorf("column %q: %w", h.Name, err)
	}
	if c.IsMissing() {
		return h.MissingValue(), nil
	}
	return c, nil
}
