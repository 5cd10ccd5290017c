package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/clocksync/internal/domain/syncrun"
)

// DefaultCapacity is how many runs the in-memory journal keeps.
const DefaultCapacity = 200

type syncRunRepository struct {
	mu   sync.RWMutex
	runs []syncrun.Run
	next int
	full bool
}

// NewSyncRunRepository returns a journal that keeps the most recent runs in
// a fixed-size ring. It is used when no database is configured.
func NewSyncRunRepository(capacity int) syncrun.Journal {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &syncRunRepository{runs: make([]syncrun.Run, capacity)}
}

func (r *syncRunRepository) Record(ctx context.Context, run syncrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs[r.next] = run
	r.next = (r.next + 1) % len(r.runs)
	if r.next == 0 {
		r.full = true
	}
	return nil
}

// ListRecent returns runs newest first, without their outcomes.
func (r *syncRunRepository) ListRecent(ctx context.Context, limit int) ([]syncrun.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := r.size()
	if limit <= 0 || limit > size {
		limit = size
	}

	runs := make([]syncrun.Run, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (r.next - i + len(r.runs)) % len(r.runs)
		run := r.runs[idx]
		run.Outcomes = nil
		runs = append(runs, run)
	}
	return runs, nil
}

func (r *syncRunRepository) GetByID(ctx context.Context, id string) (syncrun.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := 0; i < r.size(); i++ {
		if r.runs[i].ID == id {
			return r.runs[i], nil
		}
	}
	return syncrun.Run{}, syncrun.ErrRunNotFound
}

func (r *syncRunRepository) size() int {
	if r.full {
		return len(r.runs)
	}
	return r.next
}
