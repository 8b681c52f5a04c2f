package analyses

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu        sync.RWMutex
	bySession map[string]Analysis
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{bySession: make(map[string]Analysis)}
}

// Save stores the analysis, replacing any earlier one for the session.
func (r *MemoryRepo) Save(ctx context.Context, analysis Analysis) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.bySession[analysis.SessionID]; ok && !prev.CreatedAt.IsZero() {
		analysis.CreatedAt = prev.CreatedAt
	}
	r.bySession[analysis.SessionID] = analysis
	return analysis, nil
}

// GetBySession returns the analysis stored for a session.
func (r *MemoryRepo) GetBySession(ctx context.Context, sessionID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	analysis, ok := r.bySession[sessionID]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return analysis, nil
}

// Delete removes the analysis stored for a session.
func (r *MemoryRepo) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySession[sessionID]; !ok {
		return ErrNotFound
	}
	delete(r.bySession, sessionID)
	return nil
}

// DeleteOlderThan removes analyses last updated before cutoff.
func (r *MemoryRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, a := range r.bySession {
		if a.UpdatedAt.Before(cutoff) {
			delete(r.bySession, id)
			n++
		}
	}
	return n, nil
}

var _ Repo = (*MemoryRepo)(nil)
