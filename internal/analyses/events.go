package analyses

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"cv-analyzer/internal/shared/util"
)

// EventAnalysisCompleted is the type of the event published after an
// analysis is stored.
const EventAnalysisCompleted = "analysis.completed"

// Publisher announces stored analyses to other services.
type Publisher interface {
	Publish(ctx context.Context, analysis Analysis) error
}

// CompletedEvent is the payload published for a stored analysis. It carries
// a hash of the session, never the session ID itself.
type CompletedEvent struct {
	Type         string    `json:"type"`
	AnalysisID   string    `json:"analysis_id"`
	SessionHash  string    `json:"session_hash"`
	OverallScore int       `json:"overall_score"`
	Rating       string    `json:"rating"`
	AnalyzedAt   time.Time `json:"analyzed_at"`
}

// RedisPublisher publishes CompletedEvent values on a Redis channel.
type RedisPublisher struct {
	Client  *redis.Client
	Channel string
}

// Publish sends the event for analysis.
func (p *RedisPublisher) Publish(ctx context.Context, analysis Analysis) error {
	payload, err := json.Marshal(newCompletedEvent(analysis))
	if err != nil {
		return err
	}
	return p.Client.Publish(ctx, p.Channel, payload).Err()
}

func newCompletedEvent(a Analysis) CompletedEvent {
	return CompletedEvent{
		Type:         EventAnalysisCompleted,
		AnalysisID:   a.ID,
		SessionHash:  util.ShortHash(a.SessionID),
		OverallScore: a.Result.OverallScore,
		Rating:       a.Result.Rating,
		AnalyzedAt:   a.Result.AnalyzedAt,
	}
}
