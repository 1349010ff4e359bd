package streaks

import (
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

// Ledger owns the streak records produced by one derivation pass.
// At most one record per habit is active at any time.
type Ledger struct {
	records []domain.Streak
	byID    map[int64]int
	active  map[string]int64
	nextID  int64
}

func NewLedger() *Ledger {
	return &Ledger{
		byID:   make(map[int64]int),
		active: make(map[string]int64),
		nextID: 1,
	}
}

// ActiveFor returns a copy of the habit's active record, if any.
func (l *Ledger) ActiveFor(habit string) (domain.Streak, bool) {
	id, ok := l.active[habit]
	if !ok {
		return domain.Streak{}, false
	}
	return l.records[l.byID[id]], true
}

// Create opens a new active record for habit and returns its id.
func (l *Ledger) Create(habit string, date time.Time, count, extra int) (int64, error) {
	if _, ok := l.active[habit]; ok {
		return 0, fmt.Errorf("%w: habit %q already has an active streak", domain.ErrStreakInvariant, habit)
	}

	s := domain.Streak{
		ID:        l.nextID,
		Name:      habit,
		StartDate: date,
		EndDate:   date,
		Count:     count,
		Extra:     extra,
		Active:    true,
	}
	if err := s.Validate(); err != nil {
		return 0, err
	}

	l.nextID++
	l.byID[s.ID] = len(l.records)
	l.records = append(l.records, s)
	l.active[habit] = s.ID

	return s.ID, nil
}

// Mutate applies fn to an active record. The record is left untouched if the
// result would break a record invariant.
func (l *Ledger) Mutate(id int64, fn func(s *domain.Streak)) error {
	pos, ok := l.byID[id]
	if !ok {
		return fmt.Errorf("%w: id %d", domain.ErrStreakNotFound, id)
	}
	if !l.records[pos].Active {
		return fmt.Errorf("%w: id %d", domain.ErrStreakClosed, id)
	}

	next := l.records[pos]
	fn(&next)
	if next.ID != id || next.Name != l.records[pos].Name || !next.Active {
		return fmt.Errorf("%w: identity and active flag are immutable through Mutate", domain.ErrStreakInvariant)
	}
	if err := next.Validate(); err != nil {
		return err
	}

	l.records[pos] = next
	return nil
}

// Close deactivates a record permanently.
func (l *Ledger) Close(id int64) error {
	pos, ok := l.byID[id]
	if !ok {
		return fmt.Errorf("%w: id %d", domain.ErrStreakNotFound, id)
	}
	if !l.records[pos].Active {
		return fmt.Errorf("%w: id %d", domain.ErrStreakClosed, id)
	}

	l.records[pos].Active = false
	delete(l.active, l.records[pos].Name)
	return nil
}

// Records returns a copy of all records in creation order.
func (l *Ledger) Records() []domain.Streak {
	out := make([]domain.Streak, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Ledger) ActiveCount() int {
	return len(l.active)
}
