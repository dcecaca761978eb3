package rest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	at time.Time
	ch chan time.Time
}

// fakeClock only moves when Advance is called.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.now
		return ch
	}
	c.timers = append(c.timers, fakeTimer{at: c.now.Add(d), ch: ch})
	return ch
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	pending := c.timers[:0]
	for _, t := range c.timers {
		if !t.at.After(c.now) {
			t.ch <- c.now
			continue
		}
		pending = append(pending, t)
	}
	c.timers = pending
}

func (c *fakeClock) Waiters() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func TestNewRateBudget(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		window   time.Duration
		wantErr  bool
	}{
		{name: "defaults", capacity: DefaultRateCapacity, window: DefaultRateWindow},
		{name: "zero capacity", capacity: 0, window: time.Minute, wantErr: true},
		{name: "negative window", capacity: 1, window: -time.Second, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget, err := NewRateBudget(tt.capacity, tt.window, newFakeClock(), zerolog.Nop())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			snap := budget.Snapshot()
			assert.Equal(t, tt.capacity, snap.Capacity)
			assert.Equal(t, tt.capacity, snap.Remaining)
		})
	}
}

func TestRateBudgetAdmitsCapacityWithoutWaiting(t *testing.T) {
	clock := newFakeClock()
	budget, err := NewRateBudget(DefaultRateCapacity, DefaultRateWindow, clock, zerolog.Nop())
	require.NoError(t, err)

	for i := 0; i < DefaultRateCapacity; i++ {
		require.NoError(t, budget.Admit(context.Background()))
	}

	snap := budget.Snapshot()
	assert.Equal(t, 0, snap.Remaining)
	assert.Equal(t, 0, clock.Waiters())
}

func TestRateBudgetWaitsForNextWindow(t *testing.T) {
	clock := newFakeClock()
	start := clock.Now()
	budget, err := NewRateBudget(DefaultRateCapacity, DefaultRateWindow, clock, zerolog.Nop())
	require.NoError(t, err)

	for i := 0; i < DefaultRateCapacity; i++ {
		require.NoError(t, budget.Admit(context.Background()))
	}

	done := make(chan error, 1)
	go func() {
		done <- budget.Admit(context.Background())
	}()

	require.Eventually(t, func() bool { return clock.Waiters() == 1 }, time.Second, time.Millisecond)
	select {
	case <-done:
		t.Fatal("call admitted before the window ended")
	default:
	}

	clock.Advance(59 * time.Second)
	select {
	case <-done:
		t.Fatal("call admitted before the window ended")
	case <-time.After(20 * time.Millisecond):
	}

	clock.Advance(time.Second)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("call not admitted after the window ended")
	}

	snap := budget.Snapshot()
	assert.Equal(t, DefaultRateCapacity-1, snap.Remaining)
	assert.Equal(t, start.Add(2*DefaultRateWindow), snap.WindowEnd)
}

func TestRateBudgetWindowPhaseIsStable(t *testing.T) {
	clock := newFakeClock()
	start := clock.Now()
	budget, err := NewRateBudget(10, time.Minute, clock, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, budget.Admit(context.Background()))

	// Idle for two and a half windows.
	clock.Advance(150 * time.Second)
	require.NoError(t, budget.Admit(context.Background()))

	snap := budget.Snapshot()
	assert.Equal(t, 9, snap.Remaining)
	assert.Equal(t, start.Add(3*time.Minute), snap.WindowEnd)
}

func TestRateBudgetAdmitHonorsContext(t *testing.T) {
	clock := newFakeClock()
	budget, err := NewRateBudget(1, time.Minute, clock, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, budget.Admit(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- budget.Admit(ctx)
	}()

	require.Eventually(t, func() bool { return clock.Waiters() == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Admit did not return after cancel")
	}
	assert.Equal(t, 0, budget.Snapshot().Remaining)
}

func TestRateBudgetConcurrentAdmits(t *testing.T) {
	clock := newFakeClock()
	budget, err := NewRateBudget(500, time.Minute, clock, zerolog.Nop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				assert.NoError(t, budget.Admit(context.Background()))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, budget.Snapshot().Remaining)
	assert.Equal(t, 0, clock.Waiters())
}
