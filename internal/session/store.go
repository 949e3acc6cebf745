package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cell-monitor/internal/registry"
)

// entry is one session's registry plus the lock that serializes its requests.
type entry struct {
	mu       sync.Mutex
	reg      *registry.Registry
	lastSeen time.Time
}

// Store keeps one registry per browser session in memory.
//
// Sessions idle for longer than the TTL are dropped by Purge, which the
// background loop started by Start calls periodically. Nothing survives a
// process restart.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration

	newRegistry func() *registry.Registry
	now         func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewStore creates an empty store. newRegistry builds the registry for each
// new session.
func NewStore(ttl time.Duration, newRegistry func() *registry.Registry) *Store {
	if newRegistry == nil {
		newRegistry = func() *registry.Registry { return registry.New() }
	}
	return &Store{
		entries:     make(map[string]*entry),
		ttl:         ttl,
		newRegistry: newRegistry,
		now:         time.Now,
		stop:        make(chan struct{}),
	}
}

// NewID returns a fresh session id.
func (s *Store) NewID() string {
	return uuid.NewString()
}

// With runs fn against the registry for id, creating it on first use.
// Calls for the same id never overlap.
func (s *Store) With(id string, fn func(*registry.Registry) error) error {
	e := s.get(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.reg)
}

func (s *Store) get(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		e = &entry{reg: s.newRegistry()}
		s.entries[id] = e
		logrus.WithField("session", id).Debug("session created")
	}
	e.lastSeen = s.now()
	return e
}

// Has reports whether id names a live session.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[id]
	return ok
}

// Delete ends a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Purge removes sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// Start purges expired sessions every interval until Close is called.
func (s *Store) Start(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := s.Purge(); n > 0 {
					logrus.WithField("count", n).Info("expired sessions purged")
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Close stops the purge loop. It is safe to call more than once.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}
