package service

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/OwenK944/discompress/internal/infrastructure/metrics"
)

// AdmissionQueue bounds how many jobs run their probe and encode work at the
// same time. Waiters are admitted in arrival order.
type AdmissionQueue struct {
	sem      *semaphore.Weighted
	capacity int

	mu      sync.Mutex
	running int
	pending int
}

type QueueStats struct {
	Capacity int
	Running  int
	Pending  int
}

func NewAdmissionQueue(capacity int) *AdmissionQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &AdmissionQueue{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: capacity,
	}
}

// Run waits for a slot, runs fn while holding it and releases the slot as soon
// as fn returns. If ctx ends while waiting, fn never runs.
func (q *AdmissionQueue) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	q.update(0, 1)
	if err := ctx.Err(); err != nil {
		q.update(0, -1)
		return fmt.Errorf("waiting for encode slot: %w", err)
	}
	if err := q.sem.Acquire(ctx, 1); err != nil {
		q.update(0, -1)
		return fmt.Errorf("waiting for encode slot: %w", err)
	}
	q.update(1, -1)

	defer func() {
		q.update(-1, 0)
		q.sem.Release(1)
	}()

	return fn(ctx)
}

func (q *AdmissionQueue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{Capacity: q.capacity, Running: q.running, Pending: q.pending}
}

func (q *AdmissionQueue) update(running, pending int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.running += running
	q.pending += pending
	metrics.QueueRunning.Set(float64(q.running))
	metrics.QueuePending.Set(float64(q.pending))
}
