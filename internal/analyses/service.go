package analyses

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"cv-analyzer/internal/analyzer"
	"cv-analyzer/internal/extract"
	"cv-analyzer/internal/shared/metrics"
	"cv-analyzer/internal/shared/telemetry"
	"cv-analyzer/internal/shared/util"
)

// Service contains business logic for analyses.
type Service struct {
	Repo      Repo
	Analyzer  *analyzer.Analyzer
	Publisher Publisher
	Now       func() time.Time
}

// Analyze scores a structured CV and stores the result for its session.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (Analysis, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return Analysis{}, fmt.Errorf("%w: session_id is required", ErrInvalidInput)
	}

	start := time.Now()
	result := s.analyzer().Analyze(in.Document, in.JobDescription)
	elapsed := time.Since(start)
	metrics.ObserveAnalysisDurationMs(float64(elapsed.Microseconds()) / 1000.0)

	now := s.now()
	analysis := Analysis{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		UserID:         strings.TrimSpace(in.UserID),
		JobDescription: in.JobDescription,
		Result:         result,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	stored, err := s.Repo.Save(ctx, analysis)
	if err != nil {
		metrics.IncAnalysisFailed()
		telemetry.Error("analysis.save_failed", map[string]any{
			"analysis_id":  analysis.ID,
			"session_hash": util.ShortHash(sessionID),
			"error":        err,
		})
		return Analysis{}, fmt.Errorf("save analysis: %w", err)
	}
	analysis = stored

	metrics.IncAnalysisCompleted(result.Rating)
	telemetry.Info("analysis.completed", map[string]any{
		"analysis_id":   analysis.ID,
		"session_hash":  util.ShortHash(sessionID),
		"overall_score": result.OverallScore,
		"rating":        result.Rating,
		"issues":        len(result.Issues),
		"has_jd":        strings.TrimSpace(in.JobDescription) != "",
		"duration_ms":   float64(elapsed.Microseconds()) / 1000.0,
	})
	s.publish(ctx, analysis)
	return analysis, nil
}

// AnalyzeUpload extracts text from an uploaded CV file, splits it into
// sections and analyzes the result.
func (s *Service) AnalyzeUpload(ctx context.Context, in UploadInput) (Analysis, error) {
	if strings.TrimSpace(in.SessionID) == "" {
		return Analysis{}, fmt.Errorf("%w: session_id is required", ErrInvalidInput)
	}
	name, err := util.SanitizeFileName(in.FileName)
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	text, err := extract.ExtractTextFromBytes(ctx, in.Data, in.MimeType, name)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Analysis{}, ctxErr
		}
		metrics.IncExtractionFailed()
		telemetry.Warn("analysis.extraction_failed", map[string]any{
			"session_hash": util.ShortHash(in.SessionID),
			"mime_type":    in.MimeType,
			"size_bytes":   len(in.Data),
			"error":        err,
		})
		if errors.Is(err, extract.ErrEmpty) {
			return Analysis{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return Analysis{}, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}

	doc := extract.ParseDocument(text, fileType(name, in.MimeType, in.Data))
	return s.Analyze(ctx, AnalyzeInput{
		SessionID:      in.SessionID,
		UserID:         in.UserID,
		Document:       doc,
		JobDescription: in.JobDescription,
	})
}

// AnalyzeBatch scores independent documents concurrently. Results are not
// stored and keep the order of items.
func (s *Service) AnalyzeBatch(ctx context.Context, items []BatchItem) ([]analyzer.Result, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: items are required", ErrInvalidInput)
	}
	if len(items) > MaxBatchItems {
		return nil, fmt.Errorf("%w: at most %d items per batch", ErrInvalidInput, MaxBatchItems)
	}

	a := s.analyzer()
	results := make([]analyzer.Result, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.Analyze(item.Document, item.JobDescription)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, r := range results {
		metrics.IncAnalysisCompleted(r.Rating)
	}
	telemetry.Info("analysis.batch_completed", map[string]any{"items": len(items)})
	return results, nil
}

// Get returns the analysis stored for a session.
func (s *Service) Get(ctx context.Context, sessionID string) (Analysis, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Analysis{}, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	return s.Repo.GetBySession(ctx, sessionID)
}

// Delete removes the analysis stored for a session.
func (s *Service) Delete(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	return s.Repo.Delete(ctx, sessionID)
}

// DeleteOlderThan removes analyses not updated within maxAge.
func (s *Service) DeleteOlderThan(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := s.now().Add(-maxAge)
	n, err := s.Repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		telemetry.Error("retention.sweep_failed", map[string]any{"cutoff": cutoff, "error": err})
		return 0, err
	}
	metrics.AddRetentionDeleted(n)
	telemetry.Info("retention.sweep", map[string]any{"cutoff": cutoff, "deleted": n})
	return n, nil
}

func (s *Service) publish(ctx context.Context, analysis Analysis) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, analysis); err != nil {
		telemetry.Warn("analysis.publish_failed", map[string]any{
			"analysis_id": analysis.ID,
			"error":       err,
		})
	}
}

func (s *Service) analyzer() *analyzer.Analyzer {
	if s.Analyzer == nil {
		return defaultAnalyzer
	}
	return s.Analyzer
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

var defaultAnalyzer = analyzer.New()

func fileType(name, mimeType string, data []byte) string {
	if ext := util.FileExtension(name); ext != "" {
		return ext
	}
	switch extract.DetectType(mimeType, name, data) {
	case extract.MimePDF:
		return "pdf"
	case extract.MimeDOCX:
		return "docx"
	case extract.MimeText:
		return "txt"
	}
	return ""
}
