// Package keyed provides a mutex keyed by string. Aggregate mutation is not
// internally synchronized, so callers serialize event application per subject
// ident while leaving distinct subjects fully parallel.
package keyed

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// Mutex hands out one lock per key. Entries are dropped once the last holder
// releases, so the map stays bounded by in-flight keys.
type Mutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewMutex returns an empty keyed mutex.
func NewMutex() *Mutex {
	return &Mutex{entries: make(map[string]*entry)}
}

// Lock acquires the lock for key and returns the matching unlock func.
func (m *Mutex) Lock(key string) (unlock func()) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		m.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(m.entries, key)
		}
		m.mu.Unlock()
	}
}
