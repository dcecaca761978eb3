package rest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultRateCapacity is the number of calls admitted per window.
	DefaultRateCapacity = 166
	// DefaultRateWindow is the length of one rate window.
	DefaultRateWindow = 60 * time.Second
)

// Clock abstracts time for the rate budget.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// BudgetSnapshot is a point-in-time view of a RateBudget.
type BudgetSnapshot struct {
	Capacity  int
	Remaining int
	WindowEnd time.Time
}

// RateBudget is a fixed-window admission counter shared by every call of a
// dispatcher. The window phase is fixed when the budget is created.
type RateBudget struct {
	mu        sync.Mutex
	capacity  int
	remaining int
	window    time.Duration
	windowEnd time.Time

	clock     Clock
	logger    zerolog.Logger
	exhausted rate.Sometimes
	metrics   *Metrics
}

// NewRateBudget creates a budget whose first window starts now.
func NewRateBudget(capacity int, window time.Duration, clock Clock, logger zerolog.Logger) (*RateBudget, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("rate capacity must be positive, got %d", capacity)
	}
	if window <= 0 {
		return nil, fmt.Errorf("rate window must be positive, got %s", window)
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &RateBudget{
		capacity:  capacity,
		remaining: capacity,
		window:    window,
		windowEnd: clock.Now().Add(window),
		clock:     clock,
		logger:    logger,
		exhausted: rate.Sometimes{Interval: 10 * time.Second},
	}, nil
}

// Admit consumes one unit of budget, waiting for the next window when the
// current one is spent. It returns ctx.Err() if ctx ends while waiting.
func (b *RateBudget) Admit(ctx context.Context) error {
	var waited time.Duration
	for {
		b.mu.Lock()
		now := b.clock.Now()
		b.advance(now)
		if b.remaining > 0 {
			b.remaining--
			remaining := b.remaining
			b.mu.Unlock()
			b.observe(remaining, waited)
			return nil
		}
		wait := b.windowEnd.Sub(now)
		b.mu.Unlock()

		b.exhausted.Do(func() {
			b.logger.Warn().
				Int("capacity", b.capacity).
				Dur("wait", wait).
				Msg("Rate budget exhausted, waiting for next window")
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.clock.After(wait):
			waited += wait
		}
	}
}

// advance moves windowEnd forward by whole windows until it is after now
// and refills the budget. Caller holds mu.
func (b *RateBudget) advance(now time.Time) {
	if now.Before(b.windowEnd) {
		return
	}
	elapsed := now.Sub(b.windowEnd)
	windows := elapsed/b.window + 1
	b.windowEnd = b.windowEnd.Add(windows * b.window)
	b.remaining = b.capacity
}

// Snapshot returns the budget state after applying any pending reset.
func (b *RateBudget) Snapshot() BudgetSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance(b.clock.Now())
	return BudgetSnapshot{
		Capacity:  b.capacity,
		Remaining: b.remaining,
		WindowEnd: b.windowEnd,
	}
}

func (b *RateBudget) observe(remaining int, waited time.Duration) {
	if b.metrics == nil {
		return
	}
	b.metrics.BudgetRemaining.Set(float64(remaining))
	b.metrics.RateWait.Observe(waited.Seconds())
}
