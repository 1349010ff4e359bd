package services

import (
	"context"
	"sort"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

type StreakService struct {
	repo domain.StreakRepository
}

func NewStreakService(repo domain.StreakRepository) *StreakService {
	return &StreakService{
		repo: repo,
	}
}

func (s *StreakService) List(ctx context.Context, filter domain.StreakFilter) ([]domain.Streak, error) {
	return s.repo.List(ctx, filter)
}

func (s *StreakService) GetByID(ctx context.Context, id int64) (*domain.Streak, error) {
	return s.repo.GetByID(ctx, id)
}

// Summaries reports, per habit, the running streak and the best one on record.
func (s *StreakService) Summaries(ctx context.Context) ([]domain.HabitSummary, error) {
	all, err := s.repo.List(ctx, domain.StreakFilter{})
	if err != nil {
		return nil, err
	}
	return Summarize(all), nil
}

func Summarize(records []domain.Streak) []domain.HabitSummary {
	byName := make(map[string]*domain.HabitSummary)
	var order []string

	for _, st := range records {
		sum, ok := byName[st.Name]
		if !ok {
			sum = &domain.HabitSummary{Name: st.Name}
			byName[st.Name] = sum
			order = append(order, st.Name)
		}

		sum.Streaks++
		sum.TotalExtra += st.Extra
		if st.Count > sum.LongestStreak {
			sum.LongestStreak = st.Count
		}
		if st.Active {
			start := st.StartDate
			sum.CurrentStreak = st.Count
			sum.ActiveSince = &start
		}
	}

	sort.Strings(order)
	out := make([]domain.HabitSummary, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out
}
