// Package ratelimiter is a token bucket per key, with idle buckets dropped.
package ratelimiter

import (
	"sync"
	"time"
)

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
	lastSeen   time.Time
}

// KeyedLimiter keeps one bucket per key (an IP, a user id).
type KeyedLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens per second
	capacity float64
	idle     time.Duration
	now      func() time.Time
}

// New returns a limiter refilling rate tokens per second up to capacity.
// Buckets unused for idle are forgotten on the next sweep.
func New(rate, capacity float64, idle time.Duration) *KeyedLimiter {
	return &KeyedLimiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
		idle:     idle,
		now:      time.Now,
	}
}

// PerMinute allows n requests a minute with a burst of n.
func PerMinute(n int) *KeyedLimiter {
	return New(float64(n)/60, float64(n), time.Hour)
}

// Allow takes one token from key's bucket.
func (l *KeyedLimiter) Allow(key string) bool {
	now := l.now()
	b := l.bucketFor(key, now)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens += now.Sub(b.lastRefill).Seconds() * l.rate
	if b.tokens > l.capacity {
		b.tokens = l.capacity
	}
	b.lastRefill = now
	b.lastSeen = now
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

func (l *KeyedLimiter) bucketFor(key string, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.capacity, lastRefill: now, lastSeen: now}
		l.buckets[key] = b
	}
	return b
}

// Sweep drops buckets idle for longer than the limiter's idle duration and
// returns how many were removed.
func (l *KeyedLimiter) Sweep() int {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for key, b := range l.buckets {
		b.mu.Lock()
		stale := now.Sub(b.lastSeen) > l.idle
		b.mu.Unlock()
		if stale {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until stop is closed.
func (l *KeyedLimiter) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.Sweep()
			case <-stop:
				return
			}
		}
	}()
}

func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
