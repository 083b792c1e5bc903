// Package cache holds the stores that remember which domain events were already consumed.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/aquafarm/backend/internal/domain/shared"
)

const defaultSweepInterval = 5 * time.Minute

// InMemoryIdempotencyStore keeps claimed event IDs in a map.
// Claims are not shared between processes.
type InMemoryIdempotencyStore struct {
	mu        sync.Mutex
	expiresAt map[string]time.Time
	now       func() time.Time

	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates a store that sweeps expired claims every five minutes
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return newInMemoryIdempotencyStore(defaultSweepInterval, time.Now)
}

func newInMemoryIdempotencyStore(sweep time.Duration, now func() time.Time) *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		expiresAt: make(map[string]time.Time),
		now:       now,
		stop:      make(chan struct{}),
	}
	s.wg.Add(1)
	go s.sweepLoop(sweep)
	return s
}

// MarkProcessed claims eventID until ttl elapses
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.expiresAt[eventID]; ok && now.Before(exp) {
		return false, nil
	}
	s.expiresAt[eventID] = now.Add(ttl)
	return true, nil
}

// IsProcessed reports whether eventID holds an unexpired claim
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expiresAt[eventID]
	return ok && s.now().Before(exp), nil
}

// Release drops the claim on eventID
func (s *InMemoryIdempotencyStore) Release(_ context.Context, eventID string) error {
	s.mu.Lock()
	delete(s.expiresAt, eventID)
	s.mu.Unlock()
	return nil
}

// Close stops the sweeper. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of stored claims, expired ones included until swept
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expiresAt)
}

func (s *InMemoryIdempotencyStore) sweepLoop(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, exp := range s.expiresAt {
		if !now.Before(exp) {
			delete(s.expiresAt, id)
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
