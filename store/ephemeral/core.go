// Package ephemeral holds short-lived string values in memory with per-key expiry.
package ephemeral

import (
	"errors"
	"sync"
	"time"

	"github.com/Goofygiraffe06/prepwise/internal/logging"
	"github.com/Goofygiraffe06/prepwise/internal/utils"
)

var (
	ErrTooLong   = errors.New("key too long")
	ErrStoreFull = errors.New("ephemeral store full")
)

const (
	maxKeyLength    = 255
	defaultMaxItems = 10_000
	cleanupInterval = time.Minute
)

type item struct {
	value     string
	expiresAt time.Time
}

// Store is a bounded in-memory map with expiring entries.
type Store struct {
	data     map[string]item
	mu       sync.Mutex
	maxItems int
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures a Store.
type Option func(*Store)

// WithMaxItems caps the number of live entries.
func WithMaxItems(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxItems = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		data:     make(map[string]item),
		maxItems: defaultMaxItems,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.cleanup()
	return s
}

// Set stores value under key until ttl elapses.
func (s *Store) Set(key, value string, ttl time.Duration) error {
	if len(key) > maxKeyLength {
		logging.DebugLog("Store set failed: key too long [%s] (length: %d)", utils.HashKey(key), len(key))
		return ErrTooLong
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; !exists && len(s.data) >= s.maxItems {
		s.evictExpiredLocked()
		if len(s.data) >= s.maxItems {
			logging.WarnLog("Store set failed: store full (size: %d)", len(s.data))
			return ErrStoreFull
		}
	}

	s.data[key] = item{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

// Get returns the live value for key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.data[key]
	if !ok || !s.now().Before(it.expiresAt) {
		return "", false
	}
	return it.value, true
}

// Take returns the live value for key and removes it.
func (s *Store) Take(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.data[key]
	if !ok {
		return "", false
	}
	delete(s.data, key)
	if !s.now().Before(it.expiresAt) {
		return "", false
	}
	return it.value, true
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Len counts stored entries, expired ones included until the next sweep.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Close stops the background sweeper.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) evictExpiredLocked() int {
	now := s.now()
	expired := 0
	for k, v := range s.data {
		if !now.Before(v.expiresAt) {
			delete(s.data, k)
			expired++
		}
	}
	return expired
}

func (s *Store) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			expired := s.evictExpiredLocked()
			size := len(s.data)
			s.mu.Unlock()

			if expired > 0 {
				logging.DebugLog("Store cleanup: removed %d expired items (current size: %d)", expired, size)
			}
		}
	}
}
