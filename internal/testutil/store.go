package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/existflow/ironfocus/internal/db"
)

// Clock is a settable clock for deterministic timestamps.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock stopped at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// NewTestDB creates an in-memory SQLite store with migrations applied.
// It automatically closes the store when the test completes.
func NewTestDB(t *testing.T, opts ...db.Option) *db.DB {
	t.Helper()

	d, err := db.Open(":memory:", opts...)
	if err != nil {
		t.Fatalf("creating test db: %v", err)
	}

	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("closing test db: %v", err)
		}
	})

	return d
}
