package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/streaks"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/tracker"
)

type HabitSource interface {
	ListHabits(ctx context.Context) ([]domain.HabitDefinition, error)
}

type TrackerSource interface {
	ListRows(ctx context.Context) ([]tracker.Row, error)
}

type CalendarSource interface {
	LoadCalendar(ctx context.Context) ([]domain.CalendarEntry, error)
}

// StreakExporter receives every successfully derived streak table, e.g. a CSV file.
type StreakExporter interface {
	Export(ctx context.Context, streaks []domain.Streak) error
}

type SyncMetrics interface {
	ObserveSync(run domain.SyncRun, duration time.Duration)
}

type SyncService struct {
	habits   HabitSource
	rows     TrackerSource
	calendar CalendarSource
	repo     domain.StreakRepository
	window   tracker.Window
	exporter StreakExporter
	metrics  SyncMetrics
	now      func() time.Time
}

type SyncOption func(*SyncService)

func WithWindow(w tracker.Window) SyncOption {
	return func(s *SyncService) { s.window = w }
}

func WithExporter(e StreakExporter) SyncOption {
	return func(s *SyncService) { s.exporter = e }
}

func WithMetrics(m SyncMetrics) SyncOption {
	return func(s *SyncService) { s.metrics = m }
}

func NewSyncService(habits HabitSource, rows TrackerSource, calendar CalendarSource, repo domain.StreakRepository, opts ...SyncOption) *SyncService {
	s := &SyncService{
		habits:   habits,
		rows:     rows,
		calendar: calendar,
		repo:     repo,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run loads every source, derives the streak table and replaces the stored one.
// The returned run is populated even when err is not nil.
func (s *SyncService) Run(ctx context.Context, reason string) (*domain.SyncRun, error) {
	run := &domain.SyncRun{
		ID:        uuid.NewString(),
		Reason:    reason,
		StartedAt: s.now(),
	}

	err := s.run(ctx, run)

	run.FinishedAt = s.now()
	run.Status = domain.SyncStatusSucceeded
	if err != nil {
		run.Status = domain.SyncStatusFailed
		run.Error = err.Error()
		log.Printf("[SYNC] Run %s (%s) failed: %v", run.ID, reason, err)
	} else {
		log.Printf("[SYNC] Run %s (%s): %d habits, %d observations, %d streaks (%d active)",
			run.ID, reason, run.Habits, run.Observations, run.Streaks, run.Active)
	}

	if s.metrics != nil {
		s.metrics.ObserveSync(*run, run.FinishedAt.Sub(run.StartedAt))
	}

	return run, err
}

func (s *SyncService) run(ctx context.Context, run *domain.SyncRun) error {
	entries, err := s.calendar.LoadCalendar(ctx)
	if err != nil {
		return fmt.Errorf("sync: load calendar: %w", err)
	}
	cal, err := domain.NewCalendarIndex(entries)
	if err != nil {
		return fmt.Errorf("sync: build calendar: %w", err)
	}

	habits, err := s.habits.ListHabits(ctx)
	if err != nil {
		return fmt.Errorf("sync: load habits: %w", err)
	}
	run.Habits = len(habits)

	rows, err := s.rows.ListRows(ctx)
	if err != nil {
		return fmt.Errorf("sync: load tracker rows: %w", err)
	}

	grid, err := tracker.BuildObservations(cal, habits, rows, s.window)
	if err != nil {
		return fmt.Errorf("sync: build observations: %w", err)
	}
	run.Observations = len(grid.Observations)
	run.DroppedRows = grid.DroppedRows

	if grid.DroppedRows > 0 {
		log.Printf("[SYNC] Dropped %d tracker rows outside the calendar", grid.DroppedRows)
	}
	for _, name := range grid.MissingColumns {
		log.Printf("[SYNC] Warning: habit %q not found in tracker, treating every day as missed", name)
	}

	result, err := streaks.NewDriver(cal).Run(habits, grid.Observations)
	if err != nil {
		return fmt.Errorf("sync: derive streaks: %w", err)
	}
	run.Streaks = len(result)
	for _, st := range result {
		if st.Active {
			run.Active++
		}
	}

	if err := s.repo.ReplaceAll(ctx, run.ID, result); err != nil {
		return fmt.Errorf("sync: store streaks: %w", err)
	}

	if s.exporter != nil {
		if err := s.exporter.Export(ctx, result); err != nil {
			return fmt.Errorf("sync: export streaks: %w", err)
		}
	}

	return nil
}
