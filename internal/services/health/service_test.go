package health

import (
	"context"
	"errors"
	"testing"
)

func TestStatusWithoutChecks(t *testing.T) {
	ok, checks := NewService().Status(context.Background())
	if !ok || len(checks) != 0 {
		t.Fatalf("expected healthy with no checks, got %v %v", ok, checks)
	}
}

func TestStatusReportsFailures(t *testing.T) {
	svc := NewService()
	svc.Register("postgres", func(ctx context.Context) error { return nil })
	svc.Register("redis", func(ctx context.Context) error { return errors.New("connection refused") })

	ok, checks := svc.Status(context.Background())
	if ok {
		t.Fatal("expected unhealthy")
	}
	if checks["postgres"] != "ok" || checks["redis"] != "connection refused" {
		t.Fatalf("unexpected checks %v", checks)
	}
}
