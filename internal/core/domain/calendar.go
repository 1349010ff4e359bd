package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type CalendarEntry struct {
	Date       time.Time    `json:"date"`
	Weekday    time.Weekday `json:"weekday"`
	WeekNumber int          `json:"week_number"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
}

func ParseWeekday(name string) (time.Weekday, error) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
	}
	return d, nil
}

func IsWorkday(d time.Weekday) bool {
	return d >= time.Monday && d <= time.Friday
}

type calendarDay struct {
	weekday  time.Weekday
	week     int
	daysLeft int
}

// CalendarIndex answers weekday and week-number lookups for the dates of the
// calendar side table. It is immutable once built.
type CalendarIndex struct {
	days  map[string]calendarDay
	first time.Time
	last  time.Time
}

// NewCalendarIndex validates the entries and builds the lookup. Week numbers must
// be non-decreasing in date order and advance by at most one between adjacent dates.
func NewCalendarIndex(entries []CalendarEntry) (*CalendarIndex, error) {
	sorted := make([]CalendarEntry, len(entries))
	copy(sorted, entries)
	for i := range sorted {
		sorted[i].Date = Day(sorted[i].Date)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	idx := &CalendarIndex{days: make(map[string]calendarDay, len(sorted))}

	weekSizes := make(map[int]int)
	for i, e := range sorted {
		key := FormatDate(e.Date)
		if _, dup := idx.days[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCalendarDate, key)
		}
		if i > 0 {
			step := e.WeekNumber - sorted[i-1].WeekNumber
			if step < 0 || step > 1 {
				return nil, fmt.Errorf("%w: week %d on %s follows week %d",
					ErrCalendarNotDense, e.WeekNumber, key, sorted[i-1].WeekNumber)
			}
		}
		idx.days[key] = calendarDay{weekday: e.Weekday, week: e.WeekNumber}
		weekSizes[e.WeekNumber]++
	}

	seen := make(map[int]int)
	for _, e := range sorted {
		key := FormatDate(e.Date)
		d := idx.days[key]
		seen[e.WeekNumber]++
		d.daysLeft = weekSizes[e.WeekNumber] - seen[e.WeekNumber]
		idx.days[key] = d
	}

	if len(sorted) > 0 {
		idx.first = sorted[0].Date
		idx.last = sorted[len(sorted)-1].Date
	}

	return idx, nil
}

func (c *CalendarIndex) lookup(date time.Time) (calendarDay, error) {
	key := FormatDate(date)
	d, ok := c.days[key]
	if !ok {
		return calendarDay{}, fmt.Errorf("%w: %s", ErrDateNotInCalendar, key)
	}
	return d, nil
}

func (c *CalendarIndex) Contains(date time.Time) bool {
	_, ok := c.days[FormatDate(date)]
	return ok
}

func (c *CalendarIndex) Weekday(date time.Time) (time.Weekday, error) {
	d, err := c.lookup(date)
	return d.weekday, err
}

func (c *CalendarIndex) WeekNumber(date time.Time) (int, error) {
	d, err := c.lookup(date)
	return d.week, err
}

// DaysLeftInWeek counts the calendar dates of date's week strictly after date.
func (c *CalendarIndex) DaysLeftInWeek(date time.Time) (int, error) {
	d, err := c.lookup(date)
	return d.daysLeft, err
}

func (c *CalendarIndex) Len() int {
	return len(c.days)
}

// Range returns the first and last calendar dates. Both are zero for an empty calendar.
func (c *CalendarIndex) Range() (time.Time, time.Time) {
	return c.first, c.last
}

// Dates returns every calendar date in ascending order.
func (c *CalendarIndex) Dates() []time.Time {
	dates := make([]time.Time, 0, len(c.days))
	for key := range c.days {
		t, _ := time.Parse(DateLayout, key)
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}
