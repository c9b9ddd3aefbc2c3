// Package session keeps the dialogue sessions of the network front ends.
//
// Every conversation (a websocket connection, a Discord channel member) owns
// exactly one [dialog.Session]. The registry lock only guards the lookup
// maps; turns are serialised by each session's own lock, so a slow guest
// never blocks another.
package session

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrWong99/paraiso/internal/dialog"
	"github.com/MrWong99/paraiso/internal/observe"
)

// ErrNotFound is returned when a session ID is unknown or already closed.
var ErrNotFound = errors.New("session: not found")

// Info describes one live session.
type Info struct {
	ID         string
	Key        string
	State      dialog.State
	Created    time.Time
	LastActive time.Time
}

type entry struct {
	id         string
	key        string
	session    *dialog.Session
	created    time.Time
	lastActive time.Time
	done       chan struct{}
}

// Option is a functional option for configuring a [Registry].
type Option func(*Registry)

// WithMetrics sets the metrics used for the active-session gauge.
// Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(r *Registry) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithClock overrides the time source for activity tracking.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// Registry maps session IDs and external keys to live sessions. It is safe
// for concurrent use.
type Registry struct {
	metrics *observe.Metrics
	now     func() time.Time

	mu     sync.Mutex
	engine *dialog.Engine
	byID   map[string]*entry
	byKey  map[string]*entry
}

// NewRegistry returns an empty registry whose new sessions are created from
// engine.
func NewRegistry(engine *dialog.Engine, opts ...Option) *Registry {
	r := &Registry{
		now:    time.Now,
		engine: engine,
		byID:   make(map[string]*entry),
		byKey:  make(map[string]*entry),
	}
	for _, o := range opts {
		o(r)
	}
	if r.metrics == nil {
		r.metrics = observe.DefaultMetrics()
	}
	return r
}

// Engine returns the engine used for new sessions.
func (r *Registry) Engine() *dialog.Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine
}

// SetEngine swaps the engine used for sessions opened from now on. Live
// sessions keep the engine they were created with.
func (r *Registry) SetEngine(e *dialog.Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engine = e
}

// Open starts an anonymous session and returns its ID.
func (r *Registry) Open(ctx context.Context) (string, *dialog.Session) {
	r.mu.Lock()
	e := r.openLocked("")
	r.mu.Unlock()

	r.metrics.SessionOpened(ctx)
	return e.id, e.session
}

// Acquire returns the session bound to key, creating it on first use.
// created reports whether a new session was started.
func (r *Registry) Acquire(ctx context.Context, key string) (id string, s *dialog.Session, created bool) {
	r.mu.Lock()
	e, ok := r.byKey[key]
	if ok {
		e.lastActive = r.now()
	} else {
		e = r.openLocked(key)
	}
	r.mu.Unlock()

	if !ok {
		r.metrics.SessionOpened(ctx)
	}
	return e.id, e.session, !ok
}

func (r *Registry) openLocked(key string) *entry {
	now := r.now()
	e := &entry{
		id:         uuid.NewString(),
		key:        key,
		session:    r.engine.NewSession(),
		created:    now,
		lastActive: now,
		done:       make(chan struct{}),
	}
	r.byID[e.id] = e
	if key != "" {
		r.byKey[key] = e
	}
	return e
}

// Get returns the session with the given ID.
func (r *Registry) Get(id string) (*dialog.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e.session, nil
}

// Done returns a channel that is closed once session id is closed, released
// or swept.
func (r *Registry) Done(id string) (<-chan struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e.done, nil
}

// Respond runs one turn on session id and marks it active.
func (r *Registry) Respond(ctx context.Context, id, text string) ([]string, error) {
	r.mu.Lock()
	e, ok := r.byID[id]
	if ok {
		e.lastActive = r.now()
	}
	r.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}
	return e.session.Respond(ctx, text), nil
}

// Close forgets session id.
func (r *Registry) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	e, ok := r.byID[id]
	if ok {
		r.removeLocked(e)
	}
	r.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	r.metrics.SessionClosed(ctx)
	return nil
}

// Release forgets the session bound to key so the next [Registry.Acquire]
// starts over.
func (r *Registry) Release(ctx context.Context, key string) error {
	r.mu.Lock()
	e, ok := r.byKey[key]
	if ok {
		r.removeLocked(e)
	}
	r.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	r.metrics.SessionClosed(ctx)
	return nil
}

func (r *Registry) removeLocked(e *entry) {
	close(e.done)
	delete(r.byID, e.id)
	if e.key != "" && r.byKey[e.key] == e {
		delete(r.byKey, e.key)
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// List returns every live session, oldest first.
func (r *Registry) List() []Info {
	r.mu.Lock()
	entries := make([]*entry, 0, len(r.byID))
	for _, e := range r.byID {
		entries = append(entries, e)
	}
	infos := make([]Info, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, Info{ID: e.id, Key: e.key, Created: e.created, LastActive: e.lastActive})
	}
	r.mu.Unlock()

	// State takes the session lock; read it outside the registry lock.
	for i, e := range entries {
		infos[i].State = e.session.State()
	}
	slices.SortFunc(infos, func(a, b Info) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return infos
}

// Sweep closes every session idle for longer than idle and returns how many
// were closed.
func (r *Registry) Sweep(ctx context.Context, idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var n int
	for _, e := range r.byID {
		if e.lastActive.Before(cutoff) {
			r.removeLocked(e)
			n++
		}
	}
	r.mu.Unlock()

	for range n {
		r.metrics.SessionClosed(ctx)
	}
	return n
}
