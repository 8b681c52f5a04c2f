package retention

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingPurger struct {
	calls  atomic.Int32
	maxAge atomic.Int64
	block  chan struct{}
	err    error
}

func (p *countingPurger) DeleteOlderThan(ctx context.Context, maxAge time.Duration) (int64, error) {
	p.calls.Add(1)
	p.maxAge.Store(int64(maxAge))
	if p.block != nil {
		<-p.block
	}
	return 2, p.err
}

func TestRunOnce(t *testing.T) {
	p := &countingPurger{}
	s := New(p, 30*24*time.Hour, "@every 1h")

	n, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 2 || p.calls.Load() != 1 {
		t.Fatalf("expected one purge of 2 rows, got %d calls, %d rows", p.calls.Load(), n)
	}
	if time.Duration(p.maxAge.Load()) != 30*24*time.Hour {
		t.Fatalf("unexpected max age %s", time.Duration(p.maxAge.Load()))
	}
}

func TestRunOncePropagatesErrors(t *testing.T) {
	p := &countingPurger{err: errors.New("db down")}
	if _, err := New(p, time.Hour, "@every 1h").RunOnce(context.Background()); err == nil {
		t.Fatal("expected purge error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(&countingPurger{}, time.Hour, "@every 1h").RunOnce(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunOnceSkipsOverlap(t *testing.T) {
	p := &countingPurger{block: make(chan struct{})}
	s := New(p, time.Hour, "@every 1h")

	done := make(chan struct{})
	go func() {
		_, _ = s.RunOnce(context.Background())
		close(done)
	}()
	for p.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	n, err := s.RunOnce(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("expected overlapping run to be skipped, got %d, %v", n, err)
	}
	close(p.block)
	<-done
	if p.calls.Load() != 1 {
		t.Fatalf("expected a single purge, got %d", p.calls.Load())
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	if err := New(&countingPurger{}, time.Hour, "not a schedule").Start(context.Background()); err == nil {
		t.Fatal("expected schedule error")
	}
	if err := New(&countingPurger{}, 0, "@every 1h").Start(context.Background()); err == nil {
		t.Fatal("expected max age error")
	}
}

func TestStartAndStop(t *testing.T) {
	s := New(&countingPurger{}, time.Hour, "@every 1h")
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
