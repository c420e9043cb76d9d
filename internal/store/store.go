// Package store provides the in-memory result store shared by benchmark workers.
package store

import (
	"sort"
	"sync"

	"github.com/aryankumar/tempbench/internal/stats"
)

// Snapshot maps a location name to its per-day statistics
type Snapshot map[string]stats.Daily

// Names returns the snapshot's location names in sorted order
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResultStore is a concurrency-safe mapping from location name to daily stats.
//
// Put may be called from many workers at once. Every Clear starts a new
// generation; PutAt only writes when its generation is still current, so a
// writer left over from an abandoned trial cannot land in the next one.
type ResultStore struct {
	mu         sync.RWMutex
	data       map[string]stats.Daily
	generation uint64
}

// New creates an empty ResultStore
func New() *ResultStore {
	return &ResultStore{
		data: make(map[string]stats.Daily),
	}
}

// Put inserts or replaces the entry for name in the current generation.
// Last writer wins.
func (s *ResultStore) Put(name string, daily stats.Daily) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(name, daily)
}

// PutAt is Put for a writer bound to generation gen. It reports false and
// writes nothing when Clear has run since gen was read.
func (s *ResultStore) PutAt(gen uint64, name string, daily stats.Daily) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}
	s.put(name, daily)
	return true
}

func (s *ResultStore) put(name string, daily stats.Daily) {
	if daily == nil {
		daily = stats.Daily{}
	}
	s.data[name] = daily
}

// Generation returns the current generation
func (s *ResultStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Snapshot returns a copy of all entries. Later writes to the store do not
// affect a returned snapshot.
func (s *ResultStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(Snapshot, len(s.data))
	for name, daily := range s.data {
		out[name] = daily.Clone()
	}
	return out
}

// Len returns the number of stored locations
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Clear removes every entry and starts a new generation
func (s *ResultStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]stats.Daily)
	s.generation++
}
