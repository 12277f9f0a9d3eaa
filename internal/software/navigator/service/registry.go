package service

import (
	"sync"

	"city-guide/internal/domain/geo"
	"city-guide/internal/domain/session"
)

// userEntry is everything tracked per user. The entry mutex serializes
// all navigation work for one user; different users never contend.
type userEntry struct {
	mu sync.Mutex

	session *session.Session // nil when the user is not navigating

	// last known position, kept even when no session is active so a new
	// route can start from it
	lastPosition geo.Position
	hasPosition  bool
}

// Registry holds per-user navigation state. The registry lock only
// guards the map; per-user work happens under the entry lock.
type Registry struct {
	mu    sync.RWMutex
	users map[string]*userEntry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{users: make(map[string]*userEntry)}
}

// entry returns the existing entry for a user, or nil.
func (r *Registry) entry(userID string) *userEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[userID]
}

// entryOrCreate returns the entry for a user, creating it if needed.
func (r *Registry) entryOrCreate(userID string) *userEntry {
	r.mu.RLock()
	e := r.users[userID]
	r.mu.RUnlock()
	if e != nil {
		return e
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e = r.users[userID]; e == nil {
		e = &userEntry{}
		r.users[userID] = e
	}
	return e
}

// ActiveSessions counts users currently navigating.
func (r *Registry) ActiveSessions() int {
	r.mu.RLock()
	entries := make([]*userEntry, 0, len(r.users))
	for _, e := range r.users {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	n := 0
	for _, e := range entries {
		e.mu.Lock()
		if e.session != nil {
			n++
		}
		e.mu.Unlock()
	}
	return n
}
