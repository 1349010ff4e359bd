package streaks

import (
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

// Driver replays a date-ordered observation grid against the cadence rules.
type Driver struct {
	calendar *domain.CalendarIndex
}

func NewDriver(calendar *domain.CalendarIndex) *Driver {
	return &Driver{calendar: calendar}
}

// Run derives the streak table. It is a pure function of its input: every call
// starts from an empty ledger. The first bad row aborts the whole run.
func (d *Driver) Run(habits []domain.HabitDefinition, observations []domain.Observation) ([]domain.Streak, error) {
	rules, err := ResolveRules(habits)
	if err != nil {
		return nil, err
	}

	ledger := NewLedger()
	var last time.Time
	for i, o := range observations {
		if i > 0 && o.Date.Before(last) {
			return nil, domain.NewRowError(o.Habit, o.Date, domain.ErrObservationsOutOfOrder)
		}
		last = o.Date

		if err := d.Step(ledger, rules, o); err != nil {
			return nil, err
		}
	}

	return ledger.Records(), nil
}

// ResolveRules maps every habit to its cadence rule, rejecting duplicates and
// unknown cadences up front.
func ResolveRules(habits []domain.HabitDefinition) (map[string]Rule, error) {
	rules := make(map[string]Rule, len(habits))
	for _, h := range habits {
		if _, dup := rules[h.Name]; dup {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateHabit, h.Name)
		}
		rule, err := RuleFor(h.Cadence)
		if err != nil {
			return nil, fmt.Errorf("habit %q: %w", h.Name, err)
		}
		rules[h.Name] = rule
	}
	return rules, nil
}

// Step applies one observation to the ledger.
func (d *Driver) Step(ledger *Ledger, rules map[string]Rule, o domain.Observation) error {
	rule, ok := rules[o.Habit]
	if !ok {
		return domain.NewRowError(o.Habit, o.Date, domain.ErrUnknownHabit)
	}
	if !d.calendar.Contains(o.Date) {
		return domain.NewRowError(o.Habit, o.Date, domain.ErrDateNotInCalendar)
	}

	var active *domain.Streak
	if s, ok := ledger.ActiveFor(o.Habit); ok {
		active = &s
	}

	var decision Decision
	var err error
	if o.Value.Done() {
		decision, err = rule.Completed(d.calendar, active, o.Date)
	} else {
		decision, err = rule.Missed(d.calendar, active, o.Date)
	}
	if err != nil {
		return domain.NewRowError(o.Habit, o.Date, err)
	}

	if err := apply(ledger, active, o, decision); err != nil {
		return domain.NewRowError(o.Habit, o.Date, err)
	}
	return nil
}

func apply(ledger *Ledger, active *domain.Streak, o domain.Observation, decision Decision) error {
	if decision.Action == ActionNone {
		return nil
	}

	if decision.Action == ActionOpen {
		_, err := ledger.Create(o.Habit, o.Date, decision.Count, decision.Extra)
		return err
	}

	if active == nil {
		return fmt.Errorf("%w: %s without an active streak", domain.ErrStreakInvariant, decision.Action)
	}

	switch decision.Action {
	case ActionExtend:
		return ledger.Mutate(active.ID, func(s *domain.Streak) {
			s.Count++
			s.EndDate = o.Date
		})
	case ActionExtra:
		return ledger.Mutate(active.ID, func(s *domain.Streak) {
			s.Extra++
		})
	case ActionClose:
		return ledger.Close(active.ID)
	}

	return fmt.Errorf("unknown action %d", decision.Action)
}
