package timer

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/ironfocus/internal/store"
)

type fakeCompleter struct {
	calls []string
	err   error
}

func (f *fakeCompleter) CompleteTask(_ context.Context, id string) error {
	f.calls = append(f.calls, id)
	return f.err
}

func newTimer() (*Timer, *fakeCompleter, *int) {
	c := &fakeCompleter{}
	refreshes := 0
	return New(c, func() { refreshes++ }), c, &refreshes
}

func TestFocusOpensPausedSession(t *testing.T) {
	tm, _, _ := newTimer()
	assert.Equal(t, Idle, tm.State())

	require.NoError(t, tm.Focus("t1", "Write report"))
	assert.Equal(t, Paused, tm.State())
	assert.Equal(t, SessionSeconds, tm.Remaining())
	assert.Equal(t, "t1", tm.TaskID())
	assert.Equal(t, "Write report", tm.TaskName())
	assert.Equal(t, "25:00", tm.Clock())
}

func TestFocusWhileOpenIsRejected(t *testing.T) {
	tm, _, _ := newTimer()
	require.NoError(t, tm.Focus("t1", "one"))

	assert.ErrorIs(t, tm.Focus("t2", "two"), ErrSessionOpen)
	assert.Equal(t, "t1", tm.TaskID())
}

func TestOperationsWithoutSession(t *testing.T) {
	tm, c, refreshes := newTimer()

	assert.ErrorIs(t, tm.Start(), ErrNoSession)
	assert.ErrorIs(t, tm.Pause(), ErrNoSession)
	assert.ErrorIs(t, tm.Complete(context.Background()), ErrNoSession)
	assert.False(t, tm.Tick())
	assert.Empty(t, c.calls)
	assert.Zero(t, *refreshes)
}

func TestStartPauseTick(t *testing.T) {
	tm, _, _ := newTimer()
	require.NoError(t, tm.Focus("t1", "x"))

	// Paused sessions ignore ticks.
	assert.False(t, tm.Tick())
	assert.Equal(t, SessionSeconds, tm.Remaining())

	require.NoError(t, tm.Start())
	assert.Equal(t, Running, tm.State())
	assert.True(t, tm.Tick())
	assert.True(t, tm.Tick())
	assert.Equal(t, SessionSeconds-2, tm.Remaining())

	require.NoError(t, tm.Pause())
	assert.Equal(t, Paused, tm.State())
	assert.False(t, tm.Tick())
	assert.Equal(t, SessionSeconds-2, tm.Remaining())

	require.NoError(t, tm.Toggle())
	assert.Equal(t, Running, tm.State())
	require.NoError(t, tm.Toggle())
	assert.Equal(t, Paused, tm.State())
}

func TestCountdownToZeroPauses(t *testing.T) {
	tm, c, _ := newTimer()
	require.NoError(t, tm.Focus("t1", "Write report"))
	require.NoError(t, tm.Start())

	for i := 0; i < SessionSeconds; i++ {
		tm.Tick()
	}
	assert.Equal(t, Paused, tm.State())
	assert.Equal(t, 0, tm.Remaining())
	assert.Equal(t, "00:00", tm.Clock())

	// Extra ticks never go negative and never complete the task.
	for i := 0; i < 10; i++ {
		assert.False(t, tm.Tick())
	}
	assert.Equal(t, 0, tm.Remaining())
	assert.Empty(t, c.calls)

	assert.ErrorIs(t, tm.Start(), ErrExpired)
	assert.Equal(t, Paused, tm.State())
}

func TestPauseResumeNeverDrifts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		tm, _, _ := newTimer()
		require.NoError(t, tm.Focus("t", "x"))

		counted := 0
		for step := 0; step < 4000; step++ {
			switch rng.Intn(10) {
			case 0:
				_ = tm.Pause()
			case 1:
				_ = tm.Start()
			default:
				if tm.State() == Running && tm.Remaining() > 0 {
					counted++
				}
				tm.Tick()
			}
			require.GreaterOrEqual(t, tm.Remaining(), 0)
			require.Equal(t, counted, tm.Elapsed())
		}
	}
}

func TestCompleteFromRunningAndPaused(t *testing.T) {
	for _, running := range []bool{true, false} {
		tm, c, refreshes := newTimer()
		require.NoError(t, tm.Focus("t1", "x"))
		require.NoError(t, tm.Start())
		tm.Tick()
		if !running {
			require.NoError(t, tm.Pause())
		}

		var seen State
		tm.onComplete = func() {
			seen = tm.State()
			*refreshes++
		}

		require.NoError(t, tm.Complete(context.Background()))
		assert.Equal(t, []string{"t1"}, c.calls)
		assert.Equal(t, 1, *refreshes)
		assert.Equal(t, Completed, seen)
		assert.Equal(t, Idle, tm.State())
		assert.Empty(t, tm.TaskID())
	}
}

func TestCompleteFailureKeepsSessionOpen(t *testing.T) {
	tm, c, refreshes := newTimer()
	c.err = errors.New("store unreachable")

	require.NoError(t, tm.Focus("t1", "x"))
	require.NoError(t, tm.Start())
	tm.Tick()

	err := tm.Complete(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, c.err)
	assert.Len(t, c.calls, 1)
	assert.Zero(t, *refreshes)
	assert.Equal(t, Running, tm.State())
	assert.Equal(t, "t1", tm.TaskID())
	assert.Equal(t, SessionSeconds-1, tm.Remaining())

	// The user retries once the store is back.
	c.err = nil
	require.NoError(t, tm.Complete(context.Background()))
	assert.Len(t, c.calls, 2)
	assert.Equal(t, 1, *refreshes)
}

func TestCompleteAlreadyCompletedCountsAsSuccess(t *testing.T) {
	tm, c, refreshes := newTimer()
	c.err = store.ErrAlreadyCompleted

	require.NoError(t, tm.Focus("t1", "x"))
	require.NoError(t, tm.Complete(context.Background()))
	assert.Equal(t, 1, *refreshes)
	assert.Equal(t, Idle, tm.State())
}

func TestCloseNeverMutatesStore(t *testing.T) {
	tm, c, refreshes := newTimer()
	require.NoError(t, tm.Focus("t1", "x"))
	require.NoError(t, tm.Start())
	tm.Tick()

	tm.Close()
	assert.Equal(t, Idle, tm.State())
	assert.Empty(t, c.calls)
	assert.Zero(t, *refreshes)

	// A new session can open after close.
	require.NoError(t, tm.Focus("t2", "y"))
	assert.Equal(t, SessionSeconds, tm.Remaining())
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{1500, "25:00"},
		{61, "01:01"},
		{9, "00:09"},
		{0, "00:00"},
		{-3, "00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatClock(tt.seconds))
	}
}
