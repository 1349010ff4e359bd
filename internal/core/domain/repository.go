package domain

import (
	"context"
)

type StreakRepository interface {
	// ReplaceAll swaps the stored streak table for the result of a new derivation.
	// Derivation is a pure function of its input, so a full replace is always safe.
	ReplaceAll(ctx context.Context, runID string, streaks []Streak) error

	// List returns streaks matching the filter ordered by id.
	List(ctx context.Context, filter StreakFilter) ([]Streak, error)

	// GetByID retrieves a single streak record.
	GetByID(ctx context.Context, id int64) (*Streak, error)
}
