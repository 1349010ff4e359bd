package csvio

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/tracker"
)

// FileSource serves habits, tracker rows and the calendar from CSV files.
type FileSource struct {
	HabitsPath   string
	TrackerPath  string
	CalendarPath string
}

func (s FileSource) ListHabits(_ context.Context) ([]domain.HabitDefinition, error) {
	var habits []domain.HabitDefinition
	err := readFile(s.HabitsPath, func(r io.Reader) (err error) {
		habits, err = ReadHabits(r)
		return err
	})
	return habits, err
}

func (s FileSource) ListRows(_ context.Context) ([]tracker.Row, error) {
	var rows []tracker.Row
	err := readFile(s.TrackerPath, func(r io.Reader) (err error) {
		rows, err = ReadTracker(r)
		return err
	})
	return rows, err
}

func (s FileSource) LoadCalendar(_ context.Context) ([]domain.CalendarEntry, error) {
	var entries []domain.CalendarEntry
	err := readFile(s.CalendarPath, func(r io.Reader) (err error) {
		entries, err = ReadCalendar(r)
		return err
	})
	return entries, err
}

func readFile(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// FileExporter writes the streak table to Path, replacing the previous file
// only once the new one is complete.
type FileExporter struct {
	Path string
}

func (e FileExporter) Export(_ context.Context, streaks []domain.Streak) error {
	dir := filepath.Dir(e.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".streaks-*.csv")
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteStreaks(tmp, streaks); err != nil {
		tmp.Close()
		return fmt.Errorf("export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := os.Rename(tmp.Name(), e.Path); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	log.Printf("[EXPORT] Wrote %d streaks to %s", len(streaks), e.Path)
	return nil
}
