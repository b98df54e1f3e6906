package job

import (
	"context"
	"testing"
	"time"

	"mnav-tracker/internal/domain"
)

type stubRefresher struct {
	calls     int
	refreshed bool
}

func (s *stubRefresher) ScheduledRefresh(ctx context.Context) (domain.Snapshot, bool) {
	s.calls++
	return domain.Snapshot{
		Reading: domain.Reading{Value: 2.1, Source: domain.SourceHeadless, FetchedAt: time.Now().UTC()},
	}, s.refreshed
}

func TestSchedulerStartAndShutdown(t *testing.T) {
	s := NewRefreshScheduler(&stubRefresher{})

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for s.running() {
		if time.Now().After(deadline) {
			t.Fatal("scheduler did not shut down on context cancel")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSchedulerShutdownIdempotent(t *testing.T) {
	s := NewRefreshScheduler(&stubRefresher{})
	if err := s.Shutdown(); err != nil {
		t.Fatalf("shutdown before start: %v", err)
	}
}

func TestRunOnce(t *testing.T) {
	stub := &stubRefresher{refreshed: true}
	s := NewRefreshScheduler(stub)

	s.runOnce(context.Background())
	if stub.calls != 1 {
		t.Fatalf("expected one refresh call, got %d", stub.calls)
	}

	stub.refreshed = false
	s.runOnce(context.Background())
	if stub.calls != 2 {
		t.Fatalf("expected the skip path to still invoke the service, got %d", stub.calls)
	}
}
