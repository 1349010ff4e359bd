package csvio

import (
	"fmt"
	"io"
	"strconv"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

// ReadCalendar parses a calendar table with date, day_of_week_name (or the
// older day_of_week) and week_number columns. Other columns are ignored.
func ReadCalendar(r io.Reader) ([]domain.CalendarEntry, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	dateCol, err := t.column("date", "Date")
	if err != nil {
		return nil, err
	}
	dayCol, err := t.column("day_of_week_name", "day_of_week")
	if err != nil {
		return nil, err
	}
	weekCol, err := t.column("week_number")
	if err != nil {
		return nil, err
	}

	entries := make([]domain.CalendarEntry, 0, len(t.rows))
	for n, row := range t.rows {
		if blank(row) {
			continue
		}
		line := n + 2

		date, err := domain.ParseDate(field(row, dateCol))
		if err != nil {
			return nil, fmt.Errorf("calendar line %d: %w", line, err)
		}
		weekday, err := domain.ParseWeekday(field(row, dayCol))
		if err != nil {
			return nil, fmt.Errorf("calendar line %d: %w", line, err)
		}
		week, err := strconv.Atoi(field(row, weekCol))
		if err != nil {
			return nil, fmt.Errorf("calendar line %d: invalid week_number: %w", line, err)
		}

		entries = append(entries, domain.CalendarEntry{Date: date, Weekday: weekday, WeekNumber: week})
	}
	return entries, nil
}
