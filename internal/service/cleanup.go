package service

import (
	"sync"
	"time"

	"github.com/OwenK944/discompress/internal/infrastructure/logger"
)

type Remover interface {
	Remove(paths ...string) error
}

// Janitor deletes a job's files a fixed delay after the response finished, so
// a slow download is never cut short.
type Janitor struct {
	remover Remover
	delay   time.Duration

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]*cleanupEntry
}

type cleanupEntry struct {
	timer *time.Timer
	paths []string
}

func NewJanitor(remover Remover, delay time.Duration) *Janitor {
	return &Janitor{
		remover: remover,
		delay:   delay,
		pending: make(map[uint64]*cleanupEntry),
	}
}

// Schedule queues paths for deletion after the configured delay. A
// non-positive delay deletes immediately.
func (j *Janitor) Schedule(paths []string) {
	if len(paths) == 0 {
		return
	}
	paths = append([]string(nil), paths...)

	if j.delay <= 0 {
		j.remove(paths)
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	id := j.nextID
	j.nextID++
	j.pending[id] = &cleanupEntry{
		paths: paths,
		timer: time.AfterFunc(j.delay, func() { j.fire(id) }),
	}
}

// Pending reports how many scheduled deletions have not run yet.
func (j *Janitor) Pending() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.pending)
}

// Flush stops every outstanding timer and deletes its files now.
func (j *Janitor) Flush() {
	j.mu.Lock()
	entries := j.pending
	j.pending = make(map[uint64]*cleanupEntry)
	j.mu.Unlock()

	for _, e := range entries {
		e.timer.Stop()
		j.remove(e.paths)
	}
	if len(entries) > 0 {
		logger.Info.Printf("flushed %d pending cleanups", len(entries))
	}
}

func (j *Janitor) fire(id uint64) {
	j.mu.Lock()
	e, ok := j.pending[id]
	delete(j.pending, id)
	j.mu.Unlock()

	if ok {
		j.remove(e.paths)
	}
}

func (j *Janitor) remove(paths []string) {
	if err := j.remover.Remove(paths...); err != nil {
		logger.Debug.Printf("cleanup: %v", err)
	}
}
