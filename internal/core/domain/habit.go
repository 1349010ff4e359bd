package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrHabitNameEmpty   = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong = errors.New("habit name is too long (max 100 chars)")
)

type Cadence string

const (
	CadenceDaily             Cadence = "daily"
	CadenceWeekdays          Cadence = "weekdays"
	CadenceWeekly            Cadence = "weekly"
	CadenceThreeTimesPerWeek Cadence = "three_times_per_week"
)

type HabitKind string

const (
	HabitKindCheck HabitKind = "check"
	HabitKindValue HabitKind = "value"
	MaxNameLen               = 100
)

var cadenceAliases = map[string]Cadence{
	"daily":                CadenceDaily,
	"weekdays":             CadenceWeekdays,
	"weekly":               CadenceWeekly,
	"3x-a-week":            CadenceThreeTimesPerWeek,
	"3x a week":            CadenceThreeTimesPerWeek,
	"3x-week":              CadenceThreeTimesPerWeek,
	"threetimesperweek":    CadenceThreeTimesPerWeek,
	"three_times_per_week": CadenceThreeTimesPerWeek,
}

// ParseCadence accepts the canonical tags and the labels used by the habits table
// ("Daily", "Weekdays", "Weekly", "3x-a-Week").
func ParseCadence(s string) (Cadence, error) {
	c, ok := cadenceAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCadence, s)
	}
	return c, nil
}

func (c Cadence) Valid() bool {
	switch c {
	case CadenceDaily, CadenceWeekdays, CadenceWeekly, CadenceThreeTimesPerWeek:
		return true
	}
	return false
}

// ParseHabitKind maps the habits table "Check" column. An empty value means check.
func ParseHabitKind(s string) (HabitKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "check", "checkbox", "boolean":
		return HabitKindCheck, nil
	case "value", "number", "numeric":
		return HabitKindValue, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownHabitKind, s)
}

type HabitDefinition struct {
	Name    string    `json:"name"`
	Cadence Cadence   `json:"cadence"`
	Kind    HabitKind `json:"kind"`
}

func NewHabitDefinition(name, cadence, kind string) (HabitDefinition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return HabitDefinition{}, ErrHabitNameEmpty
	}
	if len(name) > MaxNameLen {
		return HabitDefinition{}, ErrHabitNameTooLong
	}

	c, err := ParseCadence(cadence)
	if err != nil {
		return HabitDefinition{}, fmt.Errorf("habit %q: %w", name, err)
	}

	k, err := ParseHabitKind(kind)
	if err != nil {
		return HabitDefinition{}, fmt.Errorf("habit %q: %w", name, err)
	}

	return HabitDefinition{Name: name, Cadence: c, Kind: k}, nil
}

// MissingValue is the fill value for an unobserved cell of this habit.
func (h HabitDefinition) MissingValue() Completion {
	if h.Kind == HabitKindValue {
		return Number(0)
	}
	return Bool(false)
}
