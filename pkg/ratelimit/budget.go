package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"blogfinder/pkg/logger"
)

// ErrDailyBudgetExhausted is returned once the daily call window is full
var ErrDailyBudgetExhausted = errors.New("daily API call budget exhausted")

// window tracks call times inside a sliding interval
type window struct {
	size  time.Duration
	max   int
	calls []time.Time
}

func (w *window) prune(now time.Time) {
	cutoff := now.Add(-w.size)
	i := 0
	for i < len(w.calls) && !w.calls[i].After(cutoff) {
		i++
	}
	w.calls = w.calls[i:]
}

func (w *window) full() bool {
	return w.max > 0 && len(w.calls) >= w.max
}

// wait returns how long until the oldest call leaves the window
func (w *window) wait(now time.Time) time.Duration {
	if len(w.calls) == 0 {
		return 0
	}
	return w.calls[0].Add(w.size).Sub(now)
}

// Budget caps API calls per hour and per day using sliding windows.
// When the hourly window is full Acquire waits for room; when the daily
// window is full it fails with ErrDailyBudgetExhausted.
type Budget struct {
	mu     sync.Mutex
	hourly window
	daily  window
	now    func() time.Time
	logger logger.Logger
}

// NewBudget creates a budget with the given limits. Zero disables a window.
func NewBudget(perHour, perDay int, log logger.Logger) *Budget {
	return newBudget(perHour, time.Hour, perDay, 24*time.Hour, log)
}

func newBudget(hourMax int, hourSize time.Duration, dayMax int, daySize time.Duration, log logger.Logger) *Budget {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Budget{
		hourly: window{size: hourSize, max: hourMax},
		daily:  window{size: daySize, max: dayMax},
		now:    time.Now,
		logger: log,
	}
}

// Acquire records one call against the budget. A nil Budget allows everything.
func (b *Budget) Acquire(ctx context.Context) error {
	if b == nil {
		return nil
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		b.mu.Lock()
		now := b.now()
		b.hourly.prune(now)
		b.daily.prune(now)

		if b.daily.full() {
			b.mu.Unlock()
			return ErrDailyBudgetExhausted
		}
		if !b.hourly.full() {
			b.hourly.calls = append(b.hourly.calls, now)
			b.daily.calls = append(b.daily.calls, now)
			b.mu.Unlock()
			return nil
		}
		wait := b.hourly.wait(now)
		used := len(b.hourly.calls)
		b.mu.Unlock()

		logger.LogBudgetWait(b.logger, wait, used)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Used returns the calls counted in the current hourly and daily windows
func (b *Budget) Used() (hour, day int) {
	if b == nil {
		return 0, 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	b.hourly.prune(now)
	b.daily.prune(now)
	return len(b.hourly.calls), len(b.daily.calls)
}
