package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGate_UnregisteredProviderAlwaysAllowed(t *testing.T) {
	g := NewGate()
	for i := 0; i < 10; i++ {
		require.Equal(t, Allowed, g.Admit("unknown").Action)
	}
}

func TestGate_BurstThenDeferred(t *testing.T) {
	g := NewGate()
	g.Register("p", Limit{RequestsPerMinute: 60, Burst: 2, DeferBudget: 5 * time.Second})

	require.Equal(t, Allowed, g.Admit("p").Action)
	require.Equal(t, Allowed, g.Admit("p").Action)

	d := g.Admit("p")
	require.Equal(t, Deferred, d.Action)
	require.Greater(t, d.Wait, time.Duration(0))
	require.LessOrEqual(t, d.Wait, time.Second+100*time.Millisecond)
}

func TestGate_RejectedBeyondDeferBudget(t *testing.T) {
	g := NewGate()
	// 1 rpm means the next token is a minute away, far past the budget.
	g.Register("p", Limit{RequestsPerMinute: 1, Burst: 1, DeferBudget: 2 * time.Second})

	require.Equal(t, Allowed, g.Admit("p").Action)
	d := g.Admit("p")
	require.Equal(t, Rejected, d.Action)
}

func TestGate_ZeroBudgetRejectsAnyWait(t *testing.T) {
	g := NewGate()
	g.Register("p", Limit{RequestsPerMinute: 60, Burst: 1})

	require.Equal(t, Allowed, g.Admit("p").Action)
	require.Equal(t, Rejected, g.Admit("p").Action)
}

func TestGate_MinIntervalSpacesCalls(t *testing.T) {
	g := NewGate()
	g.Register("p", Limit{MinInterval: time.Hour, DeferBudget: time.Hour * 2})

	require.Equal(t, Allowed, g.Admit("p").Action)
	d := g.Admit("p")
	require.Equal(t, Deferred, d.Action)
	require.Greater(t, d.Wait, 59*time.Minute)
}

func TestGate_TokensRefillOverTime(t *testing.T) {
	g := NewGate()
	g.Register("p", Limit{RequestsPerMinute: 600, Burst: 1, DeferBudget: time.Second})

	now := time.Now()
	g.now = func() time.Time { return now }
	require.Equal(t, Allowed, g.Admit("p").Action)
	require.Equal(t, Deferred, g.Admit("p").Action)

	now = now.Add(200 * time.Millisecond) // two tokens' worth at 10/s
	require.Equal(t, Allowed, g.Admit("p").Action)
}

func TestGate_WaitHonorsContext(t *testing.T) {
	g := NewGate()
	g.Register("p", Limit{RequestsPerMinute: 6, Burst: 1, DeferBudget: time.Minute})
	require.Equal(t, Allowed, g.Admit("p").Action)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := g.Wait(ctx, "p")
	require.Error(t, err)
	require.Less(t, time.Since(start), time.Second)
}

func TestGate_IndependentBuckets(t *testing.T) {
	g := NewGate()
	g.Register("a", Limit{RequestsPerMinute: 1, Burst: 1})
	g.Register("b", Limit{RequestsPerMinute: 1, Burst: 1})

	require.Equal(t, Allowed, g.Admit("a").Action)
	// Exhausting a must not affect b.
	require.Equal(t, Rejected, g.Admit("a").Action)
	require.Equal(t, Allowed, g.Admit("b").Action)
}

func TestGate_ConcurrentAdmitsBounded(t *testing.T) {
	g := NewGate()
	g.Register("p", Limit{RequestsPerMinute: 1, Burst: 3})

	results := make(chan Action, 20)
	for i := 0; i < 20; i++ {
		go func() { results <- g.Admit("p").Action }()
	}
	allowed := 0
	for i := 0; i < 20; i++ {
		if <-results == Allowed {
			allowed++
		}
	}
	require.Equal(t, 3, allowed)
}
