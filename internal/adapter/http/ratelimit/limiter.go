// Package ratelimit throttles uploads per client.
package ratelimit

import (
	"sync"
	"time"
)

type AttemptRecord struct {
	Count        int
	LastAttempt  time.Time
	BlockedUntil time.Time
}

// Limiter allows maxAttempts calls per client within window. A client that
// goes over is refused until block elapses.
type Limiter struct {
	mu             sync.Mutex
	attempts       map[string]*AttemptRecord
	maxAttempts    int
	windowDuration time.Duration
	blockDuration  time.Duration
	done           chan struct{}
	closeOnce      sync.Once
}

func NewLimiter(maxAttempts int, windowDuration, blockDuration time.Duration) *Limiter {
	limiter := &Limiter{
		attempts:       make(map[string]*AttemptRecord),
		maxAttempts:    maxAttempts,
		windowDuration: windowDuration,
		blockDuration:  blockDuration,
		done:           make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

// Check records an attempt for clientID and reports whether it may proceed.
// When refused, the second value is how long the client should wait.
func (r *Limiter) Check(clientID string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	record, exists := r.attempts[clientID]

	if !exists {
		record = &AttemptRecord{LastAttempt: now}
		r.attempts[clientID] = record
	}

	if now.Before(record.BlockedUntil) {
		return false, record.BlockedUntil.Sub(now)
	}

	if now.Sub(record.LastAttempt) > r.windowDuration {
		record.Count = 0
	}

	record.Count++
	record.LastAttempt = now

	if record.Count > r.maxAttempts {
		record.BlockedUntil = now.Add(r.blockDuration)
		return false, r.blockDuration
	}

	return true, 0
}

func (r *Limiter) Tracked() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.attempts)
}

// Close stops the background cleanup.
func (r *Limiter) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}

func (r *Limiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.prune(time.Now())
		}
	}
}

func (r *Limiter) prune(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for clientID, record := range r.attempts {
		if now.Sub(record.LastAttempt) > r.windowDuration*2 && now.After(record.BlockedUntil) {
			delete(r.attempts, clientID)
		}
	}
}
