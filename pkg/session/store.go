package session

import "sync"

// Store is the capability interface over credential persistence. Implementors
// must degrade gracefully: reads of unavailable storage report absence and
// failed writes are dropped rather than surfaced, so storage trouble forces a
// re-login instead of crashing the caller.
type Store interface {
	// Write stores value under key, replacing any previous value.
	Write(key, value string)
	// Read returns the stored value and whether it was present.
	Read(key string) (string, bool)
	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string)
}

// Discard is a Store for execution contexts with no credential storage (the
// equivalent of running outside a browser). Writes vanish, reads are absent.
var Discard Store = discardStore{}

type discardStore struct{}

func (discardStore) Write(string, string) {}

func (discardStore) Read(string) (string, bool) { return "", false }

func (discardStore) Remove(string) {}

// MemoryStore is a process-local Store. It backs tests and contexts where
// persistence across restarts is not wanted.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Write(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStore) Read(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}
