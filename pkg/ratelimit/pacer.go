package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Kind identifies a class of API call with its own spacing
type Kind string

const (
	KindSearch  Kind = "search"
	KindProfile Kind = "profile"
)

// Default minimum spacing between consecutive calls of each kind
const (
	DefaultSearchInterval  = time.Second
	DefaultProfileInterval = 500 * time.Millisecond
)

// Limiter blocks until a call of the given kind may be issued
type Limiter interface {
	Wait(ctx context.Context, kind Kind) error
}

// Pacer enforces a minimum interval between consecutive calls of the same
// kind. Kinds are independent: a search call does not delay a profile call.
type Pacer struct {
	mu       sync.Mutex
	limiters map[Kind]*rate.Limiter
}

// NewPacer creates a pacer with the given per-kind intervals. A zero
// interval disables spacing for that kind.
func NewPacer(intervals map[Kind]time.Duration) *Pacer {
	p := &Pacer{limiters: make(map[Kind]*rate.Limiter, len(intervals))}
	for kind, interval := range intervals {
		p.limiters[kind] = newKindLimiter(interval)
	}
	return p
}

// NewDefaultPacer creates a pacer using the default search and profile intervals
func NewDefaultPacer() *Pacer {
	return NewPacer(map[Kind]time.Duration{
		KindSearch:  DefaultSearchInterval,
		KindProfile: DefaultProfileInterval,
	})
}

func newKindLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	// burst 1: the first call passes, every later one waits a full interval
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Wait blocks until interval has elapsed since the previous call of kind,
// or returns the context's error if it is cancelled first.
func (p *Pacer) Wait(ctx context.Context, kind Kind) error {
	p.mu.Lock()
	lim, ok := p.limiters[kind]
	p.mu.Unlock()
	if !ok {
		return fmt.Errorf("ratelimit: unknown call kind %q", kind)
	}
	return lim.Wait(ctx)
}

// Interval returns the configured spacing for kind
func (p *Pacer) Interval(kind Kind) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	lim, ok := p.limiters[kind]
	if !ok || lim.Limit() == rate.Inf {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(lim.Limit()))
}
