package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chasedut/crystaline/internal/csync"
	"github.com/chasedut/crystaline/internal/theme"
	"github.com/google/uuid"
)

const (
	// DefaultTTL is how long an idle session is kept before it is dropped.
	DefaultTTL = 24 * time.Hour

	minSweepInterval = time.Second
)

type entry struct {
	state *State

	// events serialises the handling of user events for this session.
	events   sync.Mutex
	lastSeen time.Time
	seenMu   sync.Mutex
}

func (e *entry) touch(now time.Time) {
	e.seenMu.Lock()
	e.lastSeen = now
	e.seenMu.Unlock()
}

func (e *entry) idleSince() time.Time {
	e.seenMu.Lock()
	defer e.seenMu.Unlock()
	return e.lastSeen
}

// Registry owns every live session, keyed by session id. Sessions never share
// state; the registry map is the only structure all requests touch.
type Registry struct {
	sessions     *csync.Map[string, *entry]
	ttl          time.Duration
	now          func() time.Time
	defaultTheme theme.ID
}

type RegistryOption func(*Registry)

func WithTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithDefaultTheme sets the theme new sessions start with. Unknown ids are
// ignored.
func WithDefaultTheme(id theme.ID) RegistryOption {
	return func(r *Registry) {
		if theme.Valid(id) {
			r.defaultTheme = id
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions:     csync.NewMap[string, *entry](),
		ttl:          DefaultTTL,
		now:          time.Now,
		defaultTheme: theme.Default,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// Snapshot reads the session without creating it. An unknown id reads as a
// fresh session with the default theme.
func (r *Registry) Snapshot(id string) Snapshot {
	e, ok := r.sessions.Get(id)
	if !ok {
		return r.newState().Snapshot()
	}
	e.touch(r.now())
	return e.state.Snapshot()
}

// Do runs fn with exclusive access to the session's event stream, creating
// the session on first use. Events for the same session never interleave;
// different sessions run independently.
func (r *Registry) Do(id string, fn func(*State) error) error {
	e := r.entry(id)
	e.events.Lock()
	defer e.events.Unlock()
	defer func() { e.touch(r.now()) }()
	return fn(e.state)
}

func (r *Registry) entry(id string) *entry {
	e, created := r.sessions.GetOrSet(id, func() *entry {
		return &entry{state: r.newState()}
	})
	e.touch(r.now())
	if created {
		slog.Debug("Session created", "session_id", id)
	}
	return e
}

func (r *Registry) newState() *State {
	st := NewState()
	st.theme = r.defaultTheme
	return st
}

func (r *Registry) Len() int {
	return r.sessions.Len()
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)
	removed := r.sessions.DeleteFunc(func(_ string, e *entry) bool {
		return e.idleSince().Before(cutoff)
	})
	if removed > 0 {
		slog.Info("Expired idle sessions", "count", removed, "remaining", r.Len())
	}
	return removed
}

// RunJanitor sweeps idle sessions every interval until ctx is done. A zero
// interval means a quarter of the TTL. Intervals are never shorter than a
// second.
func (r *Registry) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = r.ttl / 4
	}
	interval = max(interval, minSweepInterval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
