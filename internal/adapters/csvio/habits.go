package csvio

import (
	"fmt"
	"io"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

// ReadHabits parses the habit table. The Check column is optional and holds
// "Check" or "Value"; habits without it are treated as checkboxes.
func ReadHabits(r io.Reader) ([]domain.HabitDefinition, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	nameCol, err := t.column("Short Name", "name")
	if err != nil {
		return nil, err
	}
	freqCol, err := t.column("Frequency", "frequency")
	if err != nil {
		return nil, err
	}
	kindCol := t.optional("Check", "kind")

	var habits []domain.HabitDefinition
	for n, row := range t.rows {
		if blank(row) {
			continue
		}
		h, err := domain.NewHabitDefinition(field(row, nameCol), field(row, freqCol), field(row, kindCol))
		if err != nil {
			return nil, fmt.Errorf("habits line %d: %w", n+2, err)
		}
		habits = append(habits, h)
	}
	return habits, nil
}
