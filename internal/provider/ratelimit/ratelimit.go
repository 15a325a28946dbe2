// Package ratelimit gates outbound provider calls. Each provider gets
// an independent token bucket plus an optional minimum inter-call
// interval, so throttling one provider never serializes the others.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type Action int

const (
	// Allowed means the call may proceed now; a token was consumed.
	Allowed Action = iota
	// Deferred means the call may proceed after Decision.Wait.
	Deferred
	// Rejected means the wait would exceed the gate's defer budget.
	Rejected
)

func (a Action) String() string {
	switch a {
	case Allowed:
		return "allowed"
	case Deferred:
		return "deferred"
	default:
		return "rejected"
	}
}

// Decision is the outcome of Admit. Wait is only meaningful for
// Deferred.
type Decision struct {
	Action Action
	Wait   time.Duration
}

// Limit configures one provider's cadence.
type Limit struct {
	// RequestsPerMinute refills the bucket; <= 0 disables the bucket.
	RequestsPerMinute int
	// Burst is the bucket capacity; defaults to 1.
	Burst int
	// MinInterval is the minimum spacing between consecutive calls.
	MinInterval time.Duration
	// DeferBudget is the longest wait Admit may hand back before the
	// call is Rejected outright. <= 0 rejects any wait.
	DeferBudget time.Duration
}

// bucket tracks one provider's state under its own lock.
type bucket struct {
	mu       sync.Mutex
	limit    Limit
	rate     float64 // tokens per second
	capacity float64
	tokens   float64
	last     time.Time // last refill
	lastCall time.Time // last admitted call
}

// Gate admits calls per provider name. Safe for concurrent use by
// multiple analysis requests.
type Gate struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
	now     func() time.Time // test hook
}

func NewGate() *Gate {
	return &Gate{buckets: make(map[string]*bucket), now: time.Now}
}

// Register installs a limit for a provider. Unregistered providers are
// always Allowed.
func (g *Gate) Register(providerID string, l Limit) {
	b := &bucket{limit: l}
	if l.RequestsPerMinute > 0 {
		b.rate = float64(l.RequestsPerMinute) / 60.0
		b.capacity = float64(l.Burst)
		if b.capacity < 1 {
			b.capacity = 1
		}
		b.tokens = b.capacity // start full to allow an initial burst
	}
	g.mu.Lock()
	g.buckets[providerID] = b
	g.mu.Unlock()
}

// Admit decides whether a call to the provider may proceed now. On
// Allowed the token is consumed and the call counts immediately; the
// caller must either perform the call or accept the wasted slot.
func (g *Gate) Admit(providerID string) Decision {
	g.mu.RLock()
	b := g.buckets[providerID]
	g.mu.RUnlock()
	if b == nil {
		return Decision{Action: Allowed}
	}
	return b.admit(g.now())
}

func (b *bucket) admit(now time.Time) Decision {
	b.mu.Lock()
	defer b.mu.Unlock()

	var wait time.Duration

	if b.limit.MinInterval > 0 && !b.lastCall.IsZero() {
		if d := b.limit.MinInterval - now.Sub(b.lastCall); d > wait {
			wait = d
		}
	}

	if b.rate > 0 {
		// Refill since last observation.
		if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
			b.tokens += elapsed * b.rate
			if b.tokens > b.capacity {
				b.tokens = b.capacity
			}
		}
		b.last = now
		if b.tokens < 1 {
			deficit := 1 - b.tokens
			if d := time.Duration(deficit / b.rate * float64(time.Second)); d > wait {
				wait = d
			}
		}
	}

	if wait <= 0 {
		if b.rate > 0 {
			b.tokens--
		}
		b.lastCall = now
		return Decision{Action: Allowed}
	}
	if wait > b.limit.DeferBudget {
		return Decision{Action: Rejected, Wait: wait}
	}
	return Decision{Action: Deferred, Wait: wait}
}

// Wait blocks until the provider admits a call, the decision turns
// Rejected, or ctx is done. It returns the terminal decision.
func (g *Gate) Wait(ctx context.Context, providerID string) (Decision, error) {
	for {
		d := g.Admit(providerID)
		if d.Action != Deferred {
			return d, nil
		}
		t := time.NewTimer(d.Wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return d, ctx.Err()
		case <-t.C:
		}
	}
}
