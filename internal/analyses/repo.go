package analyses

import (
	"context"
	"time"
)

// Repo defines persistence operations for analyses, keyed by session.
type Repo interface {
	// Save upserts by session and returns the stored record. The first
	// CreatedAt for a session is kept.
	Save(ctx context.Context, analysis Analysis) (Analysis, error)
	GetBySession(ctx context.Context, sessionID string) (Analysis, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
