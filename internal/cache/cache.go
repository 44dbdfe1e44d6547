package cache

import (
	"sync"
	"time"

	"github.com/lukajvnic/Avocado/pkg/hash"
)

// Resource kinds namespacing cache entries for the same URL.
const (
	KindMetadata   = "metadata"
	KindTranscript = "transcript"
)

type entry struct {
	value      any
	insertedAt time.Time
}

// Store is a bounded, time-expiring fingerprint cache keyed by
// SHA256("<kind>:<url>"). A nil value is a valid entry: it marks a resource
// confirmed absent upstream (e.g. no transcript for a video), which is distinct
// from the key not being cached at all.
//
// Expiry is lazy — entries past the TTL are dropped on the next lookup, there
// is no background sweep. When the store is full, the least-recently-inserted
// key is evicted first. All operations take the mutex: fetches run on separate
// goroutines, so check-then-set must be atomic here.
type Store struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	entries map[string]*entry
	order   []string // keys in insertion order, oldest first
}

// New creates a Store holding at most maxSize entries, each valid for ttl.
func New(maxSize int, ttl time.Duration) *Store {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Store{
		maxSize: maxSize,
		ttl:     ttl,
		entries: make(map[string]*entry),
	}
}

// Get returns the cached value for (kind, url). The second return reports
// whether the key was present and fresh; a (nil, true) result means the
// resource is confirmed absent upstream.
func (s *Store) Get(kind, url string) (any, bool) {
	key := cacheKey(kind, url)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(e.insertedAt) > s.ttl {
		s.remove(key)
		return nil, false
	}
	return e.value, true
}

// Put stores a value for (kind, url). Pass nil to record a confirmed-absent
// resource. Re-inserting an existing key refreshes its insertion time.
func (s *Store) Put(kind, url string, value any) {
	key := cacheKey(kind, url)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; exists {
		s.remove(key)
	}
	for len(s.entries) >= s.maxSize {
		s.remove(s.order[0])
	}

	s.entries[key] = &entry{value: value, insertedAt: time.Now()}
	s.order = append(s.order, key)
}

// Len returns the number of stored entries, including any not yet lazily expired.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// remove deletes key from both the map and the insertion-order list.
// Caller must hold the mutex.
func (s *Store) remove(key string) {
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func cacheKey(kind, url string) string {
	return hash.SHA256Hex(kind + ":" + url)
}
