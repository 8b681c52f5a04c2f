package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"cv-analyzer/internal/analyzer"
	"cv-analyzer/internal/shared/util"
)

// fakeRedis answers commands in-process so no server is needed.
type fakeRedis struct {
	values    map[string]string
	args      map[string][]any
	published [][]any
}

func newFakeRedisClient(t *testing.T) (*redis.Client, *fakeRedis) {
	t.Helper()
	fake := &fakeRedis{values: make(map[string]string), args: make(map[string][]any)}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(fake)
	t.Cleanup(func() { _ = client.Close() })
	return client, fake
}

func (f *fakeRedis) DialHook(next redis.DialHook) redis.DialHook { return next }

func (f *fakeRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (f *fakeRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		args := cmd.Args()
		switch strings.ToLower(cmd.Name()) {
		case "set":
			key := args[1].(string)
			f.values[key] = string(args[2].([]byte))
			f.args[key] = args
			cmd.(*redis.StatusCmd).SetVal("OK")
		case "get":
			v, ok := f.values[args[1].(string)]
			if !ok {
				cmd.SetErr(redis.Nil)
				return redis.Nil
			}
			cmd.(*redis.StringCmd).SetVal(v)
		case "del":
			var n int64
			for _, k := range args[1:] {
				if _, ok := f.values[k.(string)]; ok {
					delete(f.values, k.(string))
					n++
				}
			}
			cmd.(*redis.IntCmd).SetVal(n)
		case "publish":
			f.published = append(f.published, args)
			cmd.(*redis.IntCmd).SetVal(1)
		default:
			return next(ctx, cmd)
		}
		return nil
	}
}

func TestRedisRepoRoundTrip(t *testing.T) {
	client, fake := newFakeRedisClient(t)
	repo := NewRedisRepo(client, 48*time.Hour)
	ctx := context.Background()

	a := Analysis{
		ID:        "analysis-1",
		SessionID: "session-1",
		Result:    analyzer.Result{OverallScore: 64, Rating: "Needs Improvement"},
		CreatedAt: t0,
		UpdatedAt: t0,
	}
	if _, err := repo.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}

	key := redisKey("session-1")
	if strings.Contains(key, "session-1") || !strings.HasPrefix(key, redisKeyPrefix) {
		t.Fatalf("unexpected key %q", key)
	}
	setArgs := fake.args[key]
	if len(setArgs) != 5 || setArgs[3] != "ex" {
		t.Fatalf("expected SET with expiry, got %v", setArgs)
	}

	got, err := repo.GetBySession(ctx, "session-1")
	if err != nil {
		t.Fatalf("GetBySession: %v", err)
	}
	if got.ID != a.ID || got.Result.Rating != "Needs Improvement" || !got.CreatedAt.Equal(t0) {
		t.Fatalf("unexpected analysis %+v", got)
	}

	if err := repo.Delete(ctx, "session-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetBySession(ctx, "session-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "session-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if n, err := repo.DeleteOlderThan(ctx, time.Now()); err != nil || n != 0 {
		t.Fatalf("DeleteOlderThan: %d, %v", n, err)
	}
}

func TestRedisPublisher(t *testing.T) {
	client, fake := newFakeRedisClient(t)
	pub := &RedisPublisher{Client: client, Channel: "cv.analysis"}

	a := Analysis{ID: "analysis-1", SessionID: "secret-session", Result: analyzer.Result{OverallScore: 91, Rating: "Excellent"}}
	if err := pub.Publish(context.Background(), a); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(fake.published) != 1 {
		t.Fatalf("expected one publish, got %d", len(fake.published))
	}
	args := fake.published[0]
	if args[1] != "cv.analysis" {
		t.Fatalf("unexpected channel %v", args[1])
	}
	payload := args[2].([]byte)
	if strings.Contains(string(payload), "secret-session") {
		t.Fatalf("event leaks the session id: %s", payload)
	}
	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	for _, key := range []string{"type", "analysis_id", "session_hash", "overall_score", "rating", "analyzed_at"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("event is missing %q: %s", key, payload)
		}
	}
	if len(fields) != 6 {
		t.Fatalf("unexpected event fields: %s", payload)
	}
	if fields["type"] != EventAnalysisCompleted || fields["analysis_id"] != "analysis-1" || fields["overall_score"] != float64(91) {
		t.Fatalf("unexpected event %s", payload)
	}
	if fields["session_hash"] != util.ShortHash("secret-session") {
		t.Fatalf("unexpected session hash %v", fields["session_hash"])
	}
}

func TestRedisRepoResaveKeepsCreatedAt(t *testing.T) {
	client, _ := newFakeRedisClient(t)
	repo := NewRedisRepo(client, time.Hour)
	ctx := context.Background()
	t1 := t0.Add(24 * time.Hour)

	if _, err := repo.Save(ctx, Analysis{ID: "a-1", SessionID: "s", CreatedAt: t0, UpdatedAt: t0}); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	saved, err := repo.Save(ctx, Analysis{ID: "a-2", SessionID: "s", CreatedAt: t1, UpdatedAt: t1})
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if !saved.CreatedAt.Equal(t0) {
		t.Fatalf("expected returned created_at %v, got %v", t0, saved.CreatedAt)
	}

	got, err := repo.GetBySession(ctx, "s")
	if err != nil {
		t.Fatalf("GetBySession: %v", err)
	}
	if got.ID != "a-2" || !got.CreatedAt.Equal(t0) || !got.UpdatedAt.Equal(t1) {
		t.Fatalf("unexpected analysis after resave: %+v", got)
	}
}
