package http_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

type MockStreakRepo struct {
	mock.Mock
}

func (m *MockStreakRepo) ReplaceAll(ctx context.Context, runID string, streaks []domain.Streak) error {
	return m.Called(ctx, runID, streaks).Error(0)
}

func (m *MockStreakRepo) List(ctx context.Context, filter domain.StreakFilter) ([]domain.Streak, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Streak), args.Error(1)
}

func (m *MockStreakRepo) GetByID(ctx context.Context, id int64) (*domain.Streak, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Streak), args.Error(1)
}

type MockSyncQueue struct {
	mock.Mock
}

func (m *MockSyncQueue) Enqueue(reason string) bool {
	return m.Called(reason).Bool(0)
}

func (m *MockSyncQueue) Status() (*domain.SyncRun, bool) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.SyncRun), args.Bool(1)
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
