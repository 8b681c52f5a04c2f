package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Save upserts the analysis for its session. The first created_at is kept.
func (r *PGRepo) Save(ctx context.Context, analysis Analysis) (Analysis, error) {
	const query = `
INSERT INTO cv_ats_analysis (
	id, session_id, user_id, overall_score, rating, file_extension, job_description, result, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (session_id) DO UPDATE SET
	id = EXCLUDED.id,
	user_id = EXCLUDED.user_id,
	overall_score = EXCLUDED.overall_score,
	rating = EXCLUDED.rating,
	file_extension = EXCLUDED.file_extension,
	job_description = EXCLUDED.job_description,
	result = EXCLUDED.result,
	updated_at = EXCLUDED.updated_at
RETURNING created_at`

	payload, err := json.Marshal(analysis.Result)
	if err != nil {
		return Analysis{}, fmt.Errorf("marshal result: %w", err)
	}
	err = r.DB.QueryRowContext(ctx, query,
		analysis.ID,
		analysis.SessionID,
		nullIfEmpty(analysis.UserID),
		analysis.Result.OverallScore,
		analysis.Result.Rating,
		analysis.Result.FileExtension,
		analysis.JobDescription,
		payload,
		analysis.CreatedAt,
		analysis.UpdatedAt,
	).Scan(&analysis.CreatedAt)
	if err != nil {
		return Analysis{}, err
	}
	return analysis, nil
}

// GetBySession returns the analysis stored for a session.
func (r *PGRepo) GetBySession(ctx context.Context, sessionID string) (Analysis, error) {
	const query = `
SELECT id, session_id, user_id, job_description, result, created_at, updated_at
FROM cv_ats_analysis
WHERE session_id = $1
LIMIT 1`

	var (
		a       Analysis
		userID  sql.NullString
		payload []byte
	)
	err := r.DB.QueryRowContext(ctx, query, sessionID).Scan(
		&a.ID,
		&a.SessionID,
		&userID,
		&a.JobDescription,
		&payload,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	if userID.Valid {
		a.UserID = userID.String
	}
	if err := json.Unmarshal(payload, &a.Result); err != nil {
		return Analysis{}, fmt.Errorf("decode result: %w", err)
	}
	return a, nil
}

// Delete removes the analysis stored for a session.
func (r *PGRepo) Delete(ctx context.Context, sessionID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM cv_ats_analysis WHERE session_id = $1`, sessionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOlderThan removes analyses last updated before cutoff.
func (r *PGRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM cv_ats_analysis WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var _ Repo = (*PGRepo)(nil)

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
