package notion

import (
	"context"
	"fmt"
	"log"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/tracker"
)

// Columns names the properties the habits and tracker databases are read from.
type Columns struct {
	Name      string
	Frequency string
	Kind      string
	Date      string
}

func DefaultColumns() Columns {
	return Columns{
		Name:      "Short Name",
		Frequency: "Frequency",
		Kind:      "Check",
		Date:      "Date",
	}
}

type Querier interface {
	QueryDatabase(ctx context.Context, databaseID string) ([]Page, error)
}

// Source exposes the two Notion databases as habit and tracker sources.
type Source struct {
	client    Querier
	habitsDB  string
	trackerDB string
	columns   Columns
}

func NewSource(client Querier, habitsDB, trackerDB string, columns Columns) *Source {
	return &Source{
		client:    client,
		habitsDB:  habitsDB,
		trackerDB: trackerDB,
		columns:   columns,
	}
}

func (s *Source) ListHabits(ctx context.Context) ([]domain.HabitDefinition, error) {
	pages, err := s.client.QueryDatabase(ctx, s.habitsDB)
	if err != nil {
		return nil, err
	}

	habits := make([]domain.HabitDefinition, 0, len(pages))
	for _, p := range pages {
		name := p.Properties[s.columns.Name].Text()
		if name == "" {
			log.Printf("[NOTION] Skipping habit page %s without %q", p.ID, s.columns.Name)
			continue
		}

		h, err := domain.NewHabitDefinition(
			name,
			p.Properties[s.columns.Frequency].Text(),
			p.Properties[s.columns.Kind].Text(),
		)
		if err != nil {
			return nil, fmt.Errorf("notion page %s: %w", p.ID, err)
		}
		habits = append(habits, h)
	}
	return habits, nil
}

// ListRows maps tracker pages to rows. Pages without a date are skipped.
func (s *Source) ListRows(ctx context.Context) ([]tracker.Row, error) {
	pages, err := s.client.QueryDatabase(ctx, s.trackerDB)
	if err != nil {
		return nil, err
	}

	rows := make([]tracker.Row, 0, len(pages))
	skipped := 0
	for _, p := range pages {
		raw := p.Properties[s.columns.Date].Text()
		if raw == "" {
			skipped++
			continue
		}
		date, err := domain.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("notion page %s: %w", p.ID, err)
		}

		values := make(map[string]any, len(p.Properties))
		for name, prop := range p.Properties {
			if name == s.columns.Date {
				continue
			}
			v, err := prop.Value()
			if err != nil {
				return nil, fmt.Errorf("notion page %s column %q: %w", p.ID, name, err)
			}
			values[name] = v
		}
		rows = append(rows, tracker.Row{Date: date, Values: values})
	}

	if skipped > 0 {
		log.Printf("[NOTION] Skipped %d tracker pages without %q", skipped, s.columns.Date)
	}
	return rows, nil
}
