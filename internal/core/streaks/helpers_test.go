package streaks

import (
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

func date(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// calendarFrom builds weeks Monday..Sunday starting at monday, numbered from firstWeek.
func calendarFrom(monday string, weeks, firstWeek int) *domain.CalendarIndex {
	start := date(monday)
	var entries []domain.CalendarEntry
	for i := 0; i < weeks*7; i++ {
		d := start.AddDate(0, 0, i)
		entries = append(entries, domain.CalendarEntry{
			Date:       d,
			Weekday:    d.Weekday(),
			WeekNumber: firstWeek + i/7,
		})
	}
	idx, err := domain.NewCalendarIndex(entries)
	if err != nil {
		panic(err)
	}
	return idx
}

// series turns a run of "T"/"F" marks into consecutive daily observations.
func series(habit, from, marks string) []domain.Observation {
	start := date(from)
	obs := make([]domain.Observation, 0, len(marks))
	for i, m := range marks {
		obs = append(obs, domain.Observation{
			Date:  start.AddDate(0, 0, i),
			Habit: habit,
			Value: domain.Bool(m == 'T'),
		})
	}
	return obs
}

func habit(name string, c domain.Cadence) domain.HabitDefinition {
	return domain.HabitDefinition{Name: name, Cadence: c, Kind: domain.HabitKindCheck}
}
