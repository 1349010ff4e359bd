package domain

import (
	"time"
)

// Streak is one run of adherence for a habit. Once Active is false the record is final.
type Streak struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`
	Count     int       `json:"streak_count" db:"streak_count"`
	Extra     int       `json:"extra" db:"extra"`
	Active    bool      `json:"active" db:"active"`
}

func (s Streak) Validate() error {
	if s.EndDate.Before(s.StartDate) || s.Count < 0 || s.Extra < 0 {
		return ErrStreakInvariant
	}
	return nil
}

// StreakFilter narrows a listing. ActiveOnly and ClosedOnly are exclusive; the
// zero value matches every streak.
type StreakFilter struct {
	Habit      string
	ActiveOnly bool
	ClosedOnly bool
}

func (f StreakFilter) Match(s Streak) bool {
	if f.Habit != "" && s.Name != f.Habit {
		return false
	}
	if f.ActiveOnly && !s.Active {
		return false
	}
	if f.ClosedOnly && s.Active {
		return false
	}
	return true
}

// HabitSummary condenses the streak history of one habit.
type HabitSummary struct {
	Name          string     `json:"name"`
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	TotalExtra    int        `json:"total_extra"`
	Streaks       int        `json:"streaks"`
	ActiveSince   *time.Time `json:"active_since,omitempty"`
}

const (
	SyncStatusSucceeded = "succeeded"
	SyncStatusFailed    = "failed"
)

// SyncRun describes one end-to-end derivation: load sources, derive, persist.
type SyncRun struct {
	ID           string    `json:"id"`
	Reason       string    `json:"reason"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Habits       int       `json:"habits"`
	Observations int       `json:"observations"`
	Streaks      int       `json:"streaks"`
	Active       int       `json:"active"`
	DroppedRows  int       `json:"dropped_rows"`
}
