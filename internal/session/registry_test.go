package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chasedut/crystaline/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func appendTurn(t *testing.T, r *Registry, id, content string) {
	t.Helper()
	require.NoError(t, r.Do(id, func(s *State) error {
		s.AppendUserTurn(content)
		return nil
	}))
}

func TestRegistryDoCreatesOnce(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	id := NewID()

	var first, second *State
	require.NoError(t, r.Do(id, func(s *State) error { first = s; return nil }))
	require.NoError(t, r.Do(id, func(s *State) error { second = s; return nil }))
	assert.Same(t, first, second)
	assert.Equal(t, 1, r.Len())
}

func TestRegistrySnapshotDoesNotCreate(t *testing.T) {
	t.Parallel()

	r := NewRegistry(WithDefaultTheme(theme.Terminal))
	snap := r.Snapshot(NewID())
	assert.Equal(t, theme.Terminal, snap.Theme)
	assert.Empty(t, snap.Transcript)
	assert.Equal(t, 0, r.Len())

	appendTurn(t, r, "a", "hello")
	snap = r.Snapshot("a")
	assert.Equal(t, 1, snap.MessageCount)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryIsolatesSessions(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Do("a", func(s *State) error { return s.SetCredential("gsk_a") }))
	appendTurn(t, r, "a", "only in a")
	appendTurn(t, r, "b", "only in b")

	a, b := r.Snapshot("a"), r.Snapshot("b")
	assert.Equal(t, "gsk_a", a.Credential)
	assert.Empty(t, b.Credential)
	require.Len(t, b.Transcript, 1)
	assert.Equal(t, "only in b", b.Transcript[0].Content())
}

func TestRegistryDoSerialisesEvents(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	var inside atomic.Int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := r.Do("same", func(s *State) error {
				assert.Equal(t, int32(1), inside.Add(1))
				s.AppendUserTurn("q")
				time.Sleep(time.Millisecond)
				s.AppendAssistantTurn("a")
				inside.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap := r.Snapshot("same")
	assert.Equal(t, 40, snap.MessageCount)
	assert.Equal(t, 20, snap.UserTurns)
}

func TestRegistryDoReturnsError(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	boom := errors.New("boom")
	err := r.Do("x", func(*State) error { return boom })
	require.ErrorIs(t, err, boom)
}

func TestRegistrySweep(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRegistry(WithTTL(time.Hour), WithClock(clock.Now))

	appendTurn(t, r, "old", "hi")
	clock.Advance(45 * time.Minute)
	appendTurn(t, r, "fresh", "hi")
	clock.Advance(30 * time.Minute)

	assert.Equal(t, 1, r.Sweep())
	_, stillThere := r.sessions.Get("fresh")
	assert.True(t, stillThere)
	_, gone := r.sessions.Get("old")
	assert.False(t, gone)

	assert.Empty(t, r.Snapshot("old").Transcript)
	assert.Equal(t, 1, r.Len())
}

func TestRunJanitorStopsOnCancel(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.RunJanitor(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestRunJanitorTinyTTL(t *testing.T) {
	t.Parallel()

	r := NewRegistry(WithTTL(3 * time.Nanosecond))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NotPanics(t, func() { r.RunJanitor(ctx, 0) })
}

func TestRegistryDefaultTheme(t *testing.T) {
	t.Parallel()

	r := NewRegistry(WithDefaultTheme(theme.Professional))
	appendTurn(t, r, "a", "hi")
	assert.Equal(t, theme.Professional, r.Snapshot("a").Theme)

	r = NewRegistry(WithDefaultTheme("neon"))
	appendTurn(t, r, "a", "hi")
	assert.Equal(t, theme.Default, r.Snapshot("a").Theme)
}
