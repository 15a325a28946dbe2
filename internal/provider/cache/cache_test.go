package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStore_PutGetRoundtrip(t *testing.T) {
	s := New[string](time.Minute, 0)
	s.Put("AAPL", "payload", "yahoo")

	e, ok := s.Get("AAPL")
	require.True(t, ok)
	require.Equal(t, "payload", e.Value)
	require.Equal(t, "yahoo", e.Provider)
	require.False(t, e.StoredAt.IsZero())
}

func TestStore_MissWhenAbsent(t *testing.T) {
	s := New[int](time.Minute, 0)
	_, ok := s.Get("MSFT")
	require.False(t, ok)
}

func TestStore_ExpiredEntryMisses(t *testing.T) {
	s := New[string](5*time.Minute, 0)
	base := time.Now()
	s.now = func() time.Time { return base }
	s.Put("AAPL", "stale", "yahoo")

	s.now = func() time.Time { return base.Add(5*time.Minute + time.Second) }
	_, ok := s.Get("AAPL")
	require.False(t, ok)

	// Exactly at the TTL the entry is still fresh.
	s.now = func() time.Time { return base.Add(5 * time.Minute) }
	_, ok = s.Get("AAPL")
	require.True(t, ok)
}

func TestStore_ZeroTTLDisablesCaching(t *testing.T) {
	s := New[string](0, 0)
	s.Put("AAPL", "payload", "yahoo")
	_, ok := s.Get("AAPL")
	require.False(t, ok)
	require.Equal(t, 0, s.Len())
}

func TestStore_OverwriteReplacesProvider(t *testing.T) {
	s := New[string](time.Minute, 0)
	s.Put("AAPL", "old", "yahoo")
	s.Put("AAPL", "new", "alphavantage")

	e, ok := s.Get("AAPL")
	require.True(t, ok)
	require.Equal(t, "new", e.Value)
	require.Equal(t, "alphavantage", e.Provider)
}

func TestStore_MaxItemsCapsSize(t *testing.T) {
	s := New[int](time.Minute, 3)
	for i := 0; i < 10; i++ {
		s.Put(fmt.Sprintf("T%d", i), i, "yahoo")
	}
	require.LessOrEqual(t, s.Len(), 3)
}

func TestStore_CapEvictsExpiredFirst(t *testing.T) {
	s := New[int](time.Minute, 2)
	base := time.Now()
	s.now = func() time.Time { return base }
	s.Put("OLD", 1, "yahoo")

	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	s.Put("A", 2, "yahoo")
	s.Put("B", 3, "yahoo")

	_, ok := s.Get("A")
	require.True(t, ok)
	_, ok = s.Get("B")
	require.True(t, ok)
	_, ok = s.Get("OLD")
	require.False(t, ok)
}
