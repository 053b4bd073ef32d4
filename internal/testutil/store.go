package testutil

import (
	"testing"
	"time"

	"github.com/nhle/todoapp/internal/store"
)

// FixedNow is the instant test clocks start from: 2024-03-15 10:30 UTC.
var FixedNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

// Clock is a manually advanced time source.
type Clock struct {
	now time.Time
}

// NewClock returns a clock frozen at FixedNow.
func NewClock() *Clock {
	return &Clock{now: FixedNow}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// NewTestStore creates an in-memory SQLiteStore with all migrations applied
// and a clock frozen at FixedNow. It automatically closes the store when the
// test completes.
func NewTestStore(t *testing.T, opts ...store.Option) *store.SQLiteStore {
	t.Helper()

	opts = append([]store.Option{store.WithClock(NewClock().Now)}, opts...)
	s, err := store.NewSQLiteStore(":memory:", opts...)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}
