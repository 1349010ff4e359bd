package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

func TestSummarize(t *testing.T) {
	records := []domain.Streak{
		{ID: 1, Name: "Read", StartDate: date("2025-01-01"), EndDate: date("2025-01-05"), Count: 5, Extra: 1},
		{ID: 2, Name: "Exercise", StartDate: date("2025-01-01"), EndDate: date("2025-01-02"), Count: 2},
		{ID: 3, Name: "Read", StartDate: date("2025-01-07"), EndDate: date("2025-01-09"), Count: 3, Extra: 2, Active: true},
	}

	got := services.Summarize(records)
	require.Len(t, got, 2)

	assert.Equal(t, "Exercise", got[0].Name)
	assert.Equal(t, 0, got[0].CurrentStreak)
	assert.Equal(t, 2, got[0].LongestStreak)
	assert.Nil(t, got[0].ActiveSince)

	assert.Equal(t, "Read", got[1].Name)
	assert.Equal(t, 3, got[1].CurrentStreak)
	assert.Equal(t, 5, got[1].LongestStreak)
	assert.Equal(t, 3, got[1].TotalExtra)
	assert.Equal(t, 2, got[1].Streaks)
	require.NotNil(t, got[1].ActiveSince)
	assert.Equal(t, date("2025-01-07"), *got[1].ActiveSince)

	assert.Empty(t, services.Summarize(nil))
}

func TestStreakService(t *testing.T) {
	ctx := context.Background()

	t.Run("List delegates the filter", func(t *testing.T) {
		repo := new(MockStreakRepo)
		filter := domain.StreakFilter{Habit: "Read", ActiveOnly: true}
		repo.On("List", ctx, filter).Return([]domain.Streak{{ID: 3, Name: "Read", Active: true}}, nil)

		got, err := services.NewStreakService(repo).List(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		repo.AssertExpectations(t)
	})

	t.Run("GetByID not found", func(t *testing.T) {
		repo := new(MockStreakRepo)
		repo.On("GetByID", ctx, int64(9)).Return(nil, domain.ErrStreakNotFound)

		_, err := services.NewStreakService(repo).GetByID(ctx, 9)
		assert.ErrorIs(t, err, domain.ErrStreakNotFound)
	})

	t.Run("Summaries propagate repository errors", func(t *testing.T) {
		repo := new(MockStreakRepo)
		repo.On("List", ctx, domain.StreakFilter{}).Return(nil, errors.New("db down"))

		_, err := services.NewStreakService(repo).Summaries(ctx)
		assert.Error(t, err)
	})
}
