package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/ironfocus/internal/db"
	"github.com/existflow/ironfocus/internal/store"
	"github.com/existflow/ironfocus/internal/testutil"
)

func newDB(t *testing.T) (*db.DB, *testutil.Clock) {
	t.Helper()
	clock := testutil.NewClock(time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC))
	return testutil.NewTestDB(t, db.WithClock(clock.Now)), clock
}

func TestCreateTaskAssignsIdentity(t *testing.T) {
	d, clock := newDB(t)
	ctx := context.Background()

	task, err := d.CreateTask(ctx, "  Write report  ")
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Write report", task.Name)
	assert.True(t, task.IsActive)
	assert.Nil(t, task.UpdatedAt)
	assert.True(t, task.CreatedAt.Equal(clock.Now()))

	active, err := d.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, task.ID, active[0].ID)
	assert.True(t, active[0].CreatedAt.Equal(task.CreatedAt))
}

func TestCreateTaskRejectsBlankName(t *testing.T) {
	d, _ := newDB(t)

	_, err := d.CreateTask(context.Background(), "   ")
	assert.ErrorIs(t, err, store.ErrEmptyName)
}

func TestListActiveNewestFirst(t *testing.T) {
	d, clock := newDB(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"first", "second", "third"} {
		task, err := d.CreateTask(ctx, name)
		require.NoError(t, err)
		ids = append(ids, task.ID)
		clock.Advance(time.Minute)
	}

	active, err := d.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]},
		[]string{active[0].ID, active[1].ID, active[2].ID})
}

func TestCompleteTaskMovesToCompleted(t *testing.T) {
	d, clock := newDB(t)
	ctx := context.Background()

	task, err := d.CreateTask(ctx, "Write report")
	require.NoError(t, err)

	clock.Advance(25 * time.Minute)
	require.NoError(t, d.CompleteTask(ctx, task.ID))

	active, err := d.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	done, err := d.ListCompleted(ctx, store.CompletedLimit)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.False(t, done[0].IsActive)
	require.NotNil(t, done[0].UpdatedAt)
	assert.True(t, done[0].UpdatedAt.Equal(clock.Now()))
	assert.False(t, done[0].UpdatedAt.Before(done[0].CreatedAt))
}

func TestCompleteTaskTwiceKeepsFirstTimestamp(t *testing.T) {
	d, clock := newDB(t)
	ctx := context.Background()

	task, err := d.CreateTask(ctx, "Write report")
	require.NoError(t, err)
	require.NoError(t, d.CompleteTask(ctx, task.ID))
	first := clock.Now()

	clock.Advance(time.Hour)
	assert.ErrorIs(t, d.CompleteTask(ctx, task.ID), store.ErrAlreadyCompleted)

	got, err := d.FindTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, got.UpdatedAt.Equal(first))
}

func TestCompleteUnknownTask(t *testing.T) {
	d, _ := newDB(t)
	assert.ErrorIs(t, d.CompleteTask(context.Background(), "missing"), store.ErrNotFound)
}

func TestListCompletedOrderAndLimit(t *testing.T) {
	d, clock := newDB(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 4; i++ {
		task, err := d.CreateTask(ctx, "task")
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}
	// Complete in reverse creation order.
	for i := len(ids) - 1; i >= 0; i-- {
		clock.Advance(time.Minute)
		require.NoError(t, d.CompleteTask(ctx, ids[i]))
	}

	done, err := d.ListCompleted(ctx, 3)
	require.NoError(t, err)
	require.Len(t, done, 3)
	assert.Equal(t, ids[0], done[0].ID)
	assert.Equal(t, ids[1], done[1].ID)
	assert.Equal(t, ids[2], done[2].ID)
}

func TestFindTaskByPrefix(t *testing.T) {
	d, _ := newDB(t)
	ctx := context.Background()

	task, err := d.CreateTask(ctx, "Write report")
	require.NoError(t, err)

	got, err := d.FindTask(ctx, task.ShortID())
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	_, err = d.FindTask(ctx, "zzzz")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = d.FindTask(ctx, "%")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFindTaskAmbiguousPrefix(t *testing.T) {
	d, _ := newDB(t)
	ctx := context.Background()

	// With enough tasks at least two share a first hex digit.
	seen := map[byte]bool{}
	var shared byte
	for i := 0; i < 17 && shared == 0; i++ {
		task, err := d.CreateTask(ctx, "task")
		require.NoError(t, err)
		if seen[task.ID[0]] {
			shared = task.ID[0]
		}
		seen[task.ID[0]] = true
	}
	require.NotZero(t, shared)

	_, err := d.FindTask(ctx, string(shared))
	assert.ErrorIs(t, err, store.ErrAmbiguous)
}
