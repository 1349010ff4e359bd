package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

var _ domain.StreakRepository = (*InMemoryStreakRepository)(nil)

type InMemoryStreakRepository struct {
	store map[int64]domain.Streak
	runID string

	mu sync.RWMutex
}

func NewInMemoryStreakRepository() *InMemoryStreakRepository {
	return &InMemoryStreakRepository{
		store: make(map[int64]domain.Streak),
	}
}

func (r *InMemoryStreakRepository) ReplaceAll(ctx context.Context, runID string, streaks []domain.Streak) error {
	if err := validateTable(streaks); err != nil {
		return err
	}

	next := make(map[int64]domain.Streak, len(streaks))
	for _, s := range streaks {
		next[s.ID] = s
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store = next
	r.runID = runID
	return nil
}

func (r *InMemoryStreakRepository) List(ctx context.Context, filter domain.StreakFilter) ([]domain.Streak, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Streak{}
	for _, s := range r.store {
		if filter.Match(s) {
			out = append(out, s)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *InMemoryStreakRepository) GetByID(ctx context.Context, id int64) (*domain.Streak, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.store[id]
	if !ok {
		return nil, domain.ErrStreakNotFound
	}
	return &s, nil
}

// LastRunID is the id of the sync run that produced the stored table.
func (r *InMemoryStreakRepository) LastRunID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.runID
}
