package iot

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterStore hands out one token bucket per key, e.g. per
// (user, device) for actuator commands or per gRPC service name.
type RateLimiterStore struct {
	limiters     map[string]*keyedLimiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[string]*keyedLimiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
}

func LimiterKey(parts ...string) string {
	return strings.Join(parts, "/")
}

func (s *RateLimiterStore) GetLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.limiters[key]
	if !exists {
		entry = &keyedLimiter{limiter: rate.NewLimiter(s.defaultRate, s.defaultBurst)}
		s.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (s *RateLimiterStore) SetLimiter(key string, keyRate rate.Limit, keyBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[key] = &keyedLimiter{limiter: rate.NewLimiter(keyRate, keyBurst), lastSeen: time.Now()}
}

func (s *RateLimiterStore) Allow(key string) bool {
	return s.GetLimiter(key).Allow()
}

// Prune drops limiters not used for idle and returns how many were removed.
func (s *RateLimiterStore) Prune(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-idle)
	removed := 0
	for key, entry := range s.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(s.limiters, key)
			removed++
		}
	}
	return removed
}

func (s *RateLimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}
