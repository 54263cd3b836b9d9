package pipeline

import (
	"sync"

	"github.com/google/uuid"
)

// EchoGuard lets the host suppress the file-change notification triggered by
// its own write of serialized text. It counts in-flight self-writes instead
// of relying on timing, so suppression stays correct however slowly the
// watcher fires.
type EchoGuard struct {
	mu      sync.Mutex
	pending int
}

// MarkSelfWrite records that the host is about to write serialized text to
// the persisted file.
func (g *EchoGuard) MarkSelfWrite() {
	g.mu.Lock()
	g.pending++
	g.mu.Unlock()
}

// SuppressChange reports whether an observed file change is an echo of a
// recorded self-write, consuming one pending write if so.
func (g *EchoGuard) SuppressChange() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending > 0 {
		g.pending--
		return true
	}
	return false
}

// Session identifies one open editor instance and the resource base its
// documents resolve against.
type Session struct {
	ID   string
	Base string
}

// Registry routes commands to the editor instance that currently has focus.
// Registration and activation are explicit and keyed by session ID; there is
// no implicit "most recently created" target.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	active   string
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Register adds a session for the given resource base and returns it. The
// new session does not become active until Activate is called.
func (r *Registry) Register(base string) *Session {
	s := &Session{ID: uuid.NewString(), Base: base}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Activate marks the session with the given ID as the focused one. It
// reports whether the ID is registered.
func (r *Registry) Activate(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	r.active = id
	return true
}

// Deactivate clears focus if the given session currently holds it. Called on
// focus-loss events.
func (r *Registry) Deactivate(id string) {
	r.mu.Lock()
	if r.active == id {
		r.active = ""
	}
	r.mu.Unlock()
}

// Deregister removes a session entirely.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	if r.active == id {
		r.active = ""
	}
	r.mu.Unlock()
}

// Active returns the focused session, if any.
func (r *Registry) Active() (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[r.active]
	return s, ok
}
