package notion

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) QueryDatabase(ctx context.Context, databaseID string) ([]Page, error) {
	args := m.Called(ctx, databaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Page), args.Error(1)
}

func pagesFrom(t *testing.T, raw string) []Page {
	t.Helper()
	var pages []Page
	require.NoError(t, json.Unmarshal([]byte(raw), &pages))
	return pages
}

func TestSource_ListHabits(t *testing.T) {
	ctx := context.Background()
	q := new(MockQuerier)
	q.On("QueryDatabase", ctx, "habits").Return(pagesFrom(t, `[
		{"id":"h1","properties":{
			"Short Name":{"type":"title","title":[{"plain_text":"Exercise"}]},
			"Frequency":{"type":"select","select":{"name":"Daily"}},
			"Check":{"type":"select","select":{"name":"Check"}}}},
		{"id":"h2","properties":{
			"Short Name":{"type":"title","title":[{"plain_text":"Pages"}]},
			"Frequency":{"type":"select","select":{"name":"3x-a-Week"}},
			"Check":{"type":"select","select":{"name":"Value"}}}},
		{"id":"h3","properties":{"Short Name":{"type":"title","title":[]}}}
	]`), nil)

	habits, err := NewSource(q, "habits", "tracker", DefaultColumns()).ListHabits(ctx)
	require.NoError(t, err)

	assert.Equal(t, []domain.HabitDefinition{
		{Name: "Exercise", Cadence: domain.CadenceDaily, Kind: domain.HabitKindCheck},
		{Name: "Pages", Cadence: domain.CadenceThreeTimesPerWeek, Kind: domain.HabitKindValue},
	}, habits)
}

func TestSource_ListHabits_UnknownFrequency(t *testing.T) {
	ctx := context.Background()
	q := new(MockQuerier)
	q.On("QueryDatabase", ctx, "habits").Return(pagesFrom(t, `[
		{"id":"h1","properties":{
			"Short Name":{"type":"title","title":[{"plain_text":"Exercise"}]},
			"Frequency":{"type":"select","select":{"name":"Monthly"}}}}
	]`), nil)

	_, err := NewSource(q, "habits", "tracker", DefaultColumns()).ListHabits(ctx)
	assert.ErrorIs(t, err, domain.ErrUnknownCadence)
	assert.ErrorContains(t, err, "h1")
}

func TestSource_ListRows(t *testing.T) {
	ctx := context.Background()
	q := new(MockQuerier)
	q.On("QueryDatabase", ctx, "tracker").Return(pagesFrom(t, `[
		{"id":"r1","properties":{
			"Date":{"type":"date","date":{"start":"2025-01-06"}},
			"Exercise":{"type":"checkbox","checkbox":true},
			"Pages":{"type":"number","number":null}}},
		{"id":"r2","properties":{
			"Date":{"type":"date","date":null},
			"Exercise":{"type":"checkbox","checkbox":true}}}
	]`), nil)

	rows, err := NewSource(q, "habits", "tracker", DefaultColumns()).ListRows(ctx)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, map[string]any{"Exercise": true, "Pages": nil}, rows[0].Values)
}

func TestSource_PropagatesClientErrors(t *testing.T) {
	ctx := context.Background()
	q := new(MockQuerier)
	boom := errors.New("boom")
	q.On("QueryDatabase", ctx, "tracker").Return(nil, boom)

	_, err := NewSource(q, "habits", "tracker", DefaultColumns()).ListRows(ctx)
	assert.ErrorIs(t, err, boom)
}
