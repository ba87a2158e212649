package core

import (
	"context"
	"testing"
	"time"
)

func TestSweepIdleSessions(t *testing.T) {
	svc := NewService(nil, ServiceOptions{})
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	stale, _ := svc.CreateSession(ctx)
	now = now.Add(30 * time.Minute)
	fresh, _ := svc.CreateSession(ctx)

	now = now.Add(40 * time.Minute)
	if got := svc.SweepIdleSessions(time.Hour); got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}

	if _, err := svc.Session(stale); err == nil {
		t.Error("stale session survived the sweep")
	}
	if _, err := svc.Session(fresh); err != nil {
		t.Errorf("fresh session dropped: %v", err)
	}
}

func TestSweepIdleSessions_UseRefreshes(t *testing.T) {
	svc := NewService(nil, ServiceOptions{})
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	id, _ := svc.CreateSession(ctx)
	now = now.Add(50 * time.Minute)
	if _, err := svc.IngestPaste(ctx, id, "Ana", ""); err != nil {
		t.Fatal(err)
	}

	now = now.Add(50 * time.Minute)
	if got := svc.SweepIdleSessions(time.Hour); got != 0 {
		t.Errorf("dropped = %d, want 0", got)
	}
}

func TestStartSessionSweeper_StopsOnCancel(t *testing.T) {
	svc := NewService(nil, ServiceOptions{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.StartSessionSweeper(ctx, SweepConfig{IdleTimeout: time.Hour, CheckInterval: 10 * time.Millisecond})
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
