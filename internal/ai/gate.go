package ai

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// DefaultRequestInterval spaces completion requests to stay under provider rate limits
const DefaultRequestInterval = 500 * time.Millisecond

// RequestGate admits completion requests.
// The returned release func must be called once the request finishes.
type RequestGate interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// Gate combines a token bucket (one request per interval, burst 1) with a
// limit on in-flight requests. Both waits end early when ctx is canceled.
type Gate struct {
	limiter  *rate.Limiter
	inFlight *semaphore.Weighted
}

// NewGate creates a gate. interval <= 0 disables spacing and
// maxInFlight <= 0 disables the in-flight limit.
func NewGate(interval time.Duration, maxInFlight int) *Gate {
	g := &Gate{}
	if interval > 0 {
		g.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	if maxInFlight > 0 {
		g.inFlight = semaphore.NewWeighted(int64(maxInFlight))
	}
	return g
}

func (g *Gate) Acquire(ctx context.Context) (func(), error) {
	if g == nil {
		return func() {}, nil
	}

	if g.inFlight != nil {
		if err := g.inFlight.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("failed to acquire request slot: %w", err)
		}
	}

	release := func() {
		if g.inFlight != nil {
			g.inFlight.Release(1)
		}
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			release()
			return nil, fmt.Errorf("rate limit wait canceled: %w", err)
		}
	}

	return release, nil
}
