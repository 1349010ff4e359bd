package streaks

import (
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

// Calendar is the lookup the cadence rules need. *domain.CalendarIndex satisfies it.
type Calendar interface {
	Weekday(date time.Time) (time.Weekday, error)
	WeekNumber(date time.Time) (int, error)
	DaysLeftInWeek(date time.Time) (int, error)
}

type Action int

const (
	ActionNone Action = iota
	ActionExtend
	ActionExtra
	ActionOpen
	ActionClose
)

func (a Action) String() string {
	switch a {
	case ActionExtend:
		return "extend"
	case ActionExtra:
		return "extra"
	case ActionOpen:
		return "open"
	case ActionClose:
		return "close"
	}
	return "none"
}

// Decision is what a rule wants done to the ledger for one observation.
// Count and Extra are the initial values of a record opened by ActionOpen.
type Decision struct {
	Action Action
	Count  int
	Extra  int
}

var (
	noop   = Decision{Action: ActionNone}
	extend = Decision{Action: ActionExtend}
	extra  = Decision{Action: ActionExtra}
	closed = Decision{Action: ActionClose}
	opened = Decision{Action: ActionOpen, Count: 1}
)

// Rule decides the transition of a habit's streak for one day. active is nil
// when the habit has no open record.
type Rule interface {
	Completed(cal Calendar, active *domain.Streak, date time.Time) (Decision, error)
	Missed(cal Calendar, active *domain.Streak, date time.Time) (Decision, error)
}

func RuleFor(c domain.Cadence) (Rule, error) {
	switch c {
	case domain.CadenceDaily:
		return Daily{}, nil
	case domain.CadenceWeekdays:
		return Weekdays{}, nil
	case domain.CadenceWeekly:
		return Weekly{}, nil
	case domain.CadenceThreeTimesPerWeek:
		return ThreeTimesPerWeek{}, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCadence, c)
}

// Daily requires a completion every calendar day.
type Daily struct{}

func (Daily) Completed(_ Calendar, active *domain.Streak, _ time.Time) (Decision, error) {
	if active == nil {
		return opened, nil
	}
	return extend, nil
}

func (Daily) Missed(_ Calendar, active *domain.Streak, _ time.Time) (Decision, error) {
	if active == nil {
		return noop, nil
	}
	return closed, nil
}

// Weekdays requires Monday to Friday. Weekend completions only count as extra.
type Weekdays struct{}

func (Weekdays) Completed(cal Calendar, active *domain.Streak, date time.Time) (Decision, error) {
	wd, err := cal.Weekday(date)
	if err != nil {
		return noop, err
	}

	if active == nil {
		if domain.IsWorkday(wd) {
			return opened, nil
		}
		return Decision{Action: ActionOpen, Count: 0, Extra: 1}, nil
	}

	if domain.IsWorkday(wd) {
		return extend, nil
	}
	return extra, nil
}

func (Weekdays) Missed(cal Calendar, active *domain.Streak, date time.Time) (Decision, error) {
	if active == nil {
		return noop, nil
	}

	wd, err := cal.Weekday(date)
	if err != nil {
		return noop, err
	}
	if domain.IsWorkday(wd) {
		return closed, nil
	}
	return noop, nil
}

// Weekly requires one completion per calendar week.
type Weekly struct{}

func (Weekly) Completed(cal Calendar, active *domain.Streak, date time.Time) (Decision, error) {
	if active == nil {
		return opened, nil
	}

	week, endWeek, err := weekPair(cal, date, active.EndDate)
	if err != nil {
		return noop, err
	}

	switch week {
	case endWeek:
		return extra, nil
	case endWeek + 1:
		return extend, nil
	}
	// A gap of two or more weeks is left to the missed branch to close.
	return noop, nil
}

func (Weekly) Missed(cal Calendar, active *domain.Streak, date time.Time) (Decision, error) {
	if active == nil {
		return noop, nil
	}

	week, endWeek, err := weekPair(cal, date, active.EndDate)
	if err != nil {
		return noop, err
	}
	if week >= endWeek+2 {
		return closed, nil
	}
	return noop, nil
}

func weekPair(cal Calendar, date, end time.Time) (int, int, error) {
	week, err := cal.WeekNumber(date)
	if err != nil {
		return 0, 0, err
	}
	endWeek, err := cal.WeekNumber(end)
	if err != nil {
		return 0, 0, err
	}
	return week, endWeek, nil
}

// ThreeTimesPerWeek requires three completions in every week since the streak started.
type ThreeTimesPerWeek struct{}

const timesPerWeek = 3

func (ThreeTimesPerWeek) target(cal Calendar, active *domain.Streak, date time.Time) (int, error) {
	startWeek, err := cal.WeekNumber(active.StartDate)
	if err != nil {
		return 0, err
	}
	week, err := cal.WeekNumber(date)
	if err != nil {
		return 0, err
	}
	return (week - startWeek + 1) * timesPerWeek, nil
}

func (r ThreeTimesPerWeek) Completed(cal Calendar, active *domain.Streak, date time.Time) (Decision, error) {
	if active == nil {
		return opened, nil
	}

	target, err := r.target(cal, active, date)
	if err != nil {
		return noop, err
	}

	switch {
	case active.Count < target:
		return extend, nil
	case active.Count == target:
		return extra, nil
	}
	return noop, nil
}

func (r ThreeTimesPerWeek) Missed(cal Calendar, active *domain.Streak, date time.Time) (Decision, error) {
	if active == nil {
		return noop, nil
	}

	target, err := r.target(cal, active, date)
	if err != nil {
		return noop, err
	}
	left, err := cal.DaysLeftInWeek(date)
	if err != nil {
		return noop, err
	}

	if active.Count+left < target {
		return closed, nil
	}
	return noop, nil
}
