package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrDateNotInCalendar      = errors.New("date not found in calendar")
	ErrCalendarNotDense       = errors.New("calendar week numbers are not dense")
	ErrDuplicateCalendarDate  = errors.New("duplicate calendar date")
	ErrInvalidWeekday         = errors.New("invalid weekday name")
	ErrUnknownHabit           = errors.New("unknown habit")
	ErrDuplicateHabit         = errors.New("duplicate habit definition")
	ErrUnknownCadence         = errors.New("unknown cadence")
	ErrUnknownHabitKind       = errors.New("unknown habit kind (must be check or value)")
	ErrMalformedObservation   = errors.New("malformed observation value")
	ErrObservationsOutOfOrder = errors.New("observations are not sorted by date")
	ErrDuplicateTrackerRow    = errors.New("duplicate tracker row for date")
	ErrStreakNotFound         = errors.New("streak not found")
	ErrStreakClosed           = errors.New("streak is closed")
	ErrStreakInvariant        = errors.New("streak invariant violated")
)

// RowError locates a failure on a single (habit, date) cell of the input grid.
type RowError struct {
	Habit string
	Date  time.Time
	Err   error
}

func (e *RowError) Error() string {
	if e.Habit == "" {
		return fmt.Sprintf("%s: %v", FormatDate(e.Date), e.Err)
	}
	return fmt.Sprintf("habit %q on %s: %v", e.Habit, FormatDate(e.Date), e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func NewRowError(habit string, date time.Time, err error) *RowError {
	return &RowError{Habit: habit, Date: date, Err: err}
}
