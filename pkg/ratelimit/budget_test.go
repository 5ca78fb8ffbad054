package ratelimit

import (
	"context"
	"testing"
	"time"

	"blogfinder/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetHourlyWindowWaits(t *testing.T) {
	log := logger.NewTestLogger()
	b := newBudget(2, 100*time.Millisecond, 0, 0, log)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, b.Acquire(ctx))
	require.NoError(t, b.Acquire(ctx))
	require.NoError(t, b.Acquire(ctx))

	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	assert.True(t, log.HasMessage("WARN", "budget"))
}

func TestBudgetDailyExhausted(t *testing.T) {
	b := newBudget(0, time.Hour, 2, 24*time.Hour, nil)
	ctx := context.Background()

	require.NoError(t, b.Acquire(ctx))
	require.NoError(t, b.Acquire(ctx))
	assert.ErrorIs(t, b.Acquire(ctx), ErrDailyBudgetExhausted)

	hour, day := b.Used()
	assert.Equal(t, 2, hour)
	assert.Equal(t, 2, day)
}

func TestBudgetWindowSlides(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b := NewBudget(0, 1, nil)
	b.now = func() time.Time { return now }

	require.NoError(t, b.Acquire(context.Background()))
	assert.ErrorIs(t, b.Acquire(context.Background()), ErrDailyBudgetExhausted)

	now = now.Add(24*time.Hour + time.Second)
	assert.NoError(t, b.Acquire(context.Background()))
}

func TestBudgetCancelledWhileWaiting(t *testing.T) {
	b := newBudget(1, time.Hour, 0, 0, nil)
	require.NoError(t, b.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, b.Acquire(ctx), context.DeadlineExceeded)
}

func TestNilBudgetAllows(t *testing.T) {
	var b *Budget
	assert.NoError(t, b.Acquire(context.Background()))
	hour, day := b.Used()
	assert.Zero(t, hour+day)
}
