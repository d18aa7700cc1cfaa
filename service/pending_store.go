package service

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// PendingWithdrawal is the ephemeral first half of a withdrawal request:
// the user has named an amount but not yet a market ID. Entries live only
// in process memory and are lost on restart.
type PendingWithdrawal struct {
	UserID    int64
	Amount    int64
	CreatedAt time.Time
}

// PendingWithdrawalStore holds pending withdrawals keyed by user id.
// Entries expire after the configured TTL, both lazily on access and
// proactively via RunCleanup.
type PendingWithdrawalStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[int64]*PendingWithdrawal
	now     func() time.Time
}

// NewPendingWithdrawalStore creates a store with the given entry TTL.
func NewPendingWithdrawalStore(ttl time.Duration) *PendingWithdrawalStore {
	return &PendingWithdrawalStore{
		ttl:     ttl,
		entries: make(map[int64]*PendingWithdrawal),
		now:     time.Now,
	}
}

// Put stores or replaces the pending amount for a user.
func (s *PendingWithdrawalStore) Put(userID int64, amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = &PendingWithdrawal{
		UserID:    userID,
		Amount:    amount,
		CreatedAt: s.now(),
	}
}

// Get returns the pending amount for a user, expiring stale entries.
func (s *PendingWithdrawalStore) Get(userID int64) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[userID]
	if !ok {
		return 0, false
	}
	if s.now().Sub(entry.CreatedAt) > s.ttl {
		delete(s.entries, userID)
		return 0, false
	}
	return entry.Amount, true
}

// Remove deletes the pending entry for a user.
func (s *PendingWithdrawalStore) Remove(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}

// Cleanup removes all expired entries and returns how many were dropped.
func (s *PendingWithdrawalStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for userID, entry := range s.entries {
		if now.Sub(entry.CreatedAt) > s.ttl {
			delete(s.entries, userID)
			dropped++
		}
	}
	return dropped
}

// RunCleanup expires entries periodically until the context is cancelled.
func (s *PendingWithdrawalStore) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dropped := s.Cleanup(); dropped > 0 {
				log.WithField("expired", dropped).Debug("Expired pending withdrawals")
			}
		}
	}
}
