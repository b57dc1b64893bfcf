// Package service implements the showroom lifecycle workflows, the admin
// moderation queue, the account delete guard and the engagement
// (favorite/view) operations. Services orchestrate repositories inside
// single store transactions and publish domain events only after commit.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DedupStore suppresses repeated actions by the same actor on the same
// resource within a TTL window. It is injected rather than held as a
// package-level singleton so tests can isolate and reset it.
type DedupStore interface {
	// FirstSeen marks (actorUID, resourceType, resourceID) and reports
	// whether the key was not already marked within its TTL window.
	FirstSeen(ctx context.Context, actorUID, resourceType, resourceID string, ttl time.Duration) (bool, error)
}

func dedupKey(actorUID, resourceType, resourceID string) string {
	return "dedup:" + resourceType + ":" + actorUID + ":" + resourceID
}

// RedisDedupStore implements DedupStore on redis SET NX with expiry, so
// the window holds across process restarts and replicas.
type RedisDedupStore struct {
	client *redis.Client
}

// NewRedisDedupStore wraps a connected redis client.
func NewRedisDedupStore(client *redis.Client) *RedisDedupStore {
	return &RedisDedupStore{client: client}
}

// FirstSeen sets the key only when absent; the boolean result of SETNX is
// exactly the first-seen answer.
func (s *RedisDedupStore) FirstSeen(ctx context.Context, actorUID, resourceType, resourceID string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, dedupKey(actorUID, resourceType, resourceID), 1, ttl).Result()
}

// MemoryDedupStore implements DedupStore in process memory. Used by tests
// and as the degraded mode when redis is unavailable at startup.
type MemoryDedupStore struct {
	mu        sync.Mutex
	expiry    map[string]time.Time
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryDedupStore builds an empty in-memory store. A nil clock uses
// wall time.
func NewMemoryDedupStore(now func() time.Time) *MemoryDedupStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryDedupStore{
		expiry: make(map[string]time.Time),
		now:    now,
	}
}

const sweepInterval = time.Minute

// FirstSeen marks the key in memory. Expired keys are compacted lazily at
// most once per sweep interval.
func (s *MemoryDedupStore) FirstSeen(ctx context.Context, actorUID, resourceType, resourceID string, ttl time.Duration) (bool, error) {
	key := dedupKey(actorUID, resourceType, resourceID)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= sweepInterval {
		for k, exp := range s.expiry {
			if !exp.After(now) {
				delete(s.expiry, k)
			}
		}
		s.lastSweep = now
	}

	if exp, ok := s.expiry[key]; ok && exp.After(now) {
		return false, nil
	}
	s.expiry[key] = now.Add(ttl)
	return true, nil
}

// Reset drops all marks. Test isolation helper.
func (s *MemoryDedupStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiry = make(map[string]time.Time)
}
