package history

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/ironfocus/internal/model"
)

func completed(id string, created time.Time, updated *time.Time) model.Task {
	return model.Task{ID: id, Name: id, CreatedAt: created, UpdatedAt: updated}
}

func at(t time.Time) *time.Time { return &t }

func TestAggregateEmpty(t *testing.T) {
	h := Aggregate(nil, time.UTC)
	assert.Zero(t, h.Len())
	assert.Empty(t, h.Counts())
	assert.Empty(t, h.Values())
	assert.Zero(t, h.Total())
}

func TestAggregateSameDayCountsTwo(t *testing.T) {
	day := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		completed("a", day.Add(-48*time.Hour), at(day.Add(9*time.Hour))),
		completed("b", day.Add(-24*time.Hour), at(day.Add(17*time.Hour))),
	}

	h := Aggregate(tasks, time.UTC)
	assert.Equal(t, map[Day]int{{2026, time.October, 12}: 2}, h.Counts())
	assert.Equal(t, []Value{{Date: "2026-10-12", Count: 2}}, h.Values())
	assert.Equal(t, 2, h.Total())
}

func TestAggregateFallsBackToCreatedAt(t *testing.T) {
	created := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	h := Aggregate([]model.Task{completed("legacy", created, nil)}, time.UTC)
	assert.Equal(t, 1, h.Count(Day{2026, time.January, 5}))
}

func TestAggregateSkipsActiveTasks(t *testing.T) {
	task := completed("a", time.Now(), nil)
	task.IsActive = true
	assert.Zero(t, Aggregate([]model.Task{task}, time.UTC).Len())
}

func TestAggregateUsesLocalDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 20:00 UTC on the 3rd is 05:00 on the 4th in Tokyo.
	ts := time.Date(2026, 4, 3, 20, 0, 0, 0, time.UTC)
	tasks := []model.Task{completed("a", ts.Add(-time.Hour), at(ts))}

	assert.Equal(t, 1, Aggregate(tasks, time.UTC).Count(Day{2026, time.April, 3}))
	assert.Equal(t, 1, Aggregate(tasks, tokyo).Count(Day{2026, time.April, 4}))
	assert.Equal(t, 1, Aggregate(tasks, tokyo).CountAt(ts))
}

func TestAggregateOrderIndependent(t *testing.T) {
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	var tasks []model.Task
	for i := 0; i < 40; i++ {
		ts := base.Add(time.Duration(i*7) * time.Hour)
		if i%5 == 0 {
			tasks = append(tasks, completed("legacy", ts, nil))
			continue
		}
		tasks = append(tasks, completed("t", ts.Add(-time.Hour), at(ts)))
	}

	want := Aggregate(tasks, time.UTC)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]model.Task(nil), tasks...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := Aggregate(shuffled, time.UTC)
		assert.Equal(t, want.Counts(), got.Counts())
		assert.Equal(t, want.Values(), got.Values())
	}
}

func TestValuesSortedOldestFirst(t *testing.T) {
	tasks := []model.Task{
		completed("c", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), nil),
		completed("a", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), nil),
		completed("b", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), nil),
	}
	values := Aggregate(tasks, time.UTC).Values()
	require.Len(t, values, 3)
	assert.Equal(t, "2025-12-31", values[0].Date)
	assert.Equal(t, "2026-01-02", values[1].Date)
	assert.Equal(t, "2026-03-09", values[2].Date)
}

func TestLevel(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 3},
		{12, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.count), "count %d", tt.count)
	}
}

func TestWindow(t *testing.T) {
	end := time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC)
	first, last := Window(end, 6, time.UTC)
	assert.Equal(t, Day{2026, time.April, 17}, first)
	assert.Equal(t, Day{2026, time.October, 17}, last)
}

func TestWindowClampsShortMonths(t *testing.T) {
	tests := []struct {
		name   string
		end    time.Time
		months int
		want   Day
	}{
		{"aug 31 back to feb", time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC), 6, Day{2026, time.February, 28}},
		{"leap february", time.Date(2028, 3, 31, 9, 0, 0, 0, time.UTC), 1, Day{2028, time.February, 29}},
		{"across year end", time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC), 4, Day{2025, time.November, 30}},
		{"no clamp needed", time.Date(2026, 7, 15, 9, 0, 0, 0, time.UTC), 6, Day{2026, time.January, 15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, _ := Window(tt.end, tt.months, time.UTC)
			assert.Equal(t, tt.want, first)
		})
	}
}

func TestWeeks(t *testing.T) {
	// 2026-10-01 is a Thursday.
	first := Day{2026, time.October, 1}
	last := Day{2026, time.October, 12}

	weeks := Weeks(first, last)
	require.Len(t, weeks, 3)

	assert.True(t, weeks[0][0].IsZero())
	assert.True(t, weeks[0][3].IsZero())
	assert.Equal(t, first, weeks[0][4])
	assert.Equal(t, Day{2026, time.October, 4}, weeks[1][0])
	assert.Equal(t, last, weeks[2][1])
	assert.True(t, weeks[2][2].IsZero())

	assert.Nil(t, Weeks(last, first))
}
