package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/tracker"
)

type MockSources struct {
	mock.Mock
}

func (m *MockSources) ListHabits(ctx context.Context) ([]domain.HabitDefinition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HabitDefinition), args.Error(1)
}

func (m *MockSources) ListRows(ctx context.Context) ([]tracker.Row, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tracker.Row), args.Error(1)
}

func (m *MockSources) LoadCalendar(ctx context.Context) ([]domain.CalendarEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CalendarEntry), args.Error(1)
}

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

type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, streaks []domain.Streak) error {
	return m.Called(ctx, streaks).Error(0)
}

type recordingMetrics struct {
	runs []domain.SyncRun
}

func (r *recordingMetrics) ObserveSync(run domain.SyncRun, _ time.Duration) {
	r.runs = append(r.runs, run)
}

func date(s string) time.Time {
	t, _ := time.Parse(domain.DateLayout, s)
	return t
}

func weekCalendar(monday string, weekNumber int) []domain.CalendarEntry {
	var entries []domain.CalendarEntry
	for i := 0; i < 7; i++ {
		d := date(monday).AddDate(0, 0, i)
		entries = append(entries, domain.CalendarEntry{Date: d, Weekday: d.Weekday(), WeekNumber: weekNumber})
	}
	return entries
}
