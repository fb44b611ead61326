package memory

import (
	"context"
	"sync"

	"gocause/ports"
)

// RunRepositoryImpl is an in-process RunRepository used in development and
// tests when no database is configured.
type RunRepositoryImpl struct {
	mu   sync.Mutex
	runs []ports.RunRecord
}

// NewRunRepository creates an empty in-memory run repository
func NewRunRepository() *RunRepositoryImpl {
	return &RunRepositoryImpl{}
}

// Record appends one run summary
func (r *RunRepositoryImpl) Record(_ context.Context, rec ports.RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, rec)
	return nil
}

// List returns the most recent runs, newest first
func (r *RunRepositoryImpl) List(_ context.Context, limit int) ([]ports.RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.runs) {
		limit = len(r.runs)
	}
	out := make([]ports.RunRecord, 0, limit)
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.runs[i])
	}
	return out, nil
}
