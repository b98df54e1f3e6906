package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mnav-tracker/internal/domain"
)

type countingResolver struct {
	calls int64
	value float64
	delay time.Duration
}

func (r *countingResolver) Resolve(ctx context.Context) domain.Reading {
	atomic.AddInt64(&r.calls, 1)
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	return domain.Reading{
		Value:     r.value,
		Source:    domain.SourceHeadless,
		FetchedAt: time.Now().UTC(),
	}
}

func newTestNavService(resolver ReadingResolver, store LastGoodStore) *NavService {
	return NewNavService(testTracer, resolver, store)
}

func TestReadUsesCacheWithinSameDay(t *testing.T) {
	resolver := &countingResolver{value: 2.1}
	svc := newTestNavService(resolver, &memStore{})

	first := svc.Read(context.Background())
	second := svc.Read(context.Background())

	if first.Value != 2.1 || second.Value != 2.1 {
		t.Fatalf("unexpected snapshots: %+v %+v", first, second)
	}
	if n := atomic.LoadInt64(&resolver.calls); n != 1 {
		t.Fatalf("expected a single resolution, got %d", n)
	}
	if !second.ExpiresAt.Equal(domain.NextMidnightUTC(second.FetchedAt)) {
		t.Fatalf("expiry should be next midnight UTC, got %v", second.ExpiresAt)
	}
}

func TestReadRefreshesAfterMidnightUTC(t *testing.T) {
	resolver := &countingResolver{value: 2.1}
	svc := newTestNavService(resolver, &memStore{})

	now := time.Date(2026, 2, 13, 23, 50, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	svc.Read(context.Background())
	now = time.Date(2026, 2, 14, 0, 5, 0, 0, time.UTC)
	svc.Read(context.Background())

	if n := atomic.LoadInt64(&resolver.calls); n != 2 {
		t.Fatalf("expected refresh after rollover, got %d resolutions", n)
	}
}

func TestConcurrentStaleReadsCoalesce(t *testing.T) {
	resolver := &countingResolver{value: 2.1, delay: 50 * time.Millisecond}
	svc := newTestNavService(resolver, &memStore{})

	var wg sync.WaitGroup
	results := make([]domain.Snapshot, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Read(context.Background())
		}(i)
	}
	wg.Wait()

	if n := atomic.LoadInt64(&resolver.calls); n != 1 {
		t.Fatalf("expected exactly one resolution for concurrent stale reads, got %d", n)
	}
	for i, snap := range results {
		if snap.Value != 2.1 {
			t.Fatalf("reader %d got %+v", i, snap)
		}
	}
}

func TestForceRefreshIsUnconditional(t *testing.T) {
	resolver := &countingResolver{value: 2.1}
	svc := newTestNavService(resolver, &memStore{})

	svc.Read(context.Background())
	svc.ForceRefresh(context.Background())

	if n := atomic.LoadInt64(&resolver.calls); n != 2 {
		t.Fatalf("force refresh must bypass the cache, got %d resolutions", n)
	}
}

func TestScheduledRefreshSkipsSameDayEntry(t *testing.T) {
	resolver := &countingResolver{value: 2.1}
	svc := newTestNavService(resolver, &memStore{})

	svc.Read(context.Background())
	if _, refreshed := svc.ScheduledRefresh(context.Background()); refreshed {
		t.Fatal("scheduled refresh must be a no-op while the entry is from today")
	}
	if n := atomic.LoadInt64(&resolver.calls); n != 1 {
		t.Fatalf("expected one resolution, got %d", n)
	}
}

func TestScheduledRefreshRunsOnStaleEntry(t *testing.T) {
	resolver := &countingResolver{value: 2.1}
	svc := newTestNavService(resolver, &memStore{})

	now := time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	svc.Read(context.Background())

	now = time.Date(2026, 2, 14, 0, 0, 1, 0, time.UTC)
	snap, refreshed := svc.ScheduledRefresh(context.Background())
	if !refreshed {
		t.Fatal("expected a refresh past midnight")
	}
	if snap.Value != 2.1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if n := atomic.LoadInt64(&resolver.calls); n != 2 {
		t.Fatalf("expected two resolutions, got %d", n)
	}
}

func TestAdminOverride(t *testing.T) {
	resolver := &countingResolver{value: 2.1}
	store := &memStore{}
	svc := newTestNavService(resolver, store)

	snap, err := svc.AdminOverride(context.Background(), 3.2, "q4-filing", "8-K restated holdings", testBounds)
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	if snap.Value != 3.2 || snap.Source != domain.SourceManual || snap.IsFallback {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if store.reading == nil || store.reading.Value != 3.2 || store.reading.Source != domain.SourceManual {
		t.Fatalf("override must be written through to the store, got %+v", store.reading)
	}

	got := svc.Read(context.Background())
	if got.Value != 3.2 || got.Source != domain.SourceManual {
		t.Fatalf("read after override returned %+v", got)
	}
	if n := atomic.LoadInt64(&resolver.calls); n != 0 {
		t.Fatalf("override must not trigger resolution, got %d", n)
	}
}

func TestAdminOverrideRejectsOutOfBounds(t *testing.T) {
	store := &memStore{}
	svc := newTestNavService(&countingResolver{value: 2.1}, store)

	if _, err := svc.AdminOverride(context.Background(), 42.0, "", "", testBounds); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
	if store.reading != nil {
		t.Fatalf("rejected override must not be persisted, got %+v", store.reading)
	}
}

func TestColdStartSeedsFromStoreSameDay(t *testing.T) {
	resolver := &countingResolver{value: 2.1}
	store := &memStore{reading: &domain.Reading{
		Value:     1.76,
		Source:    domain.SourceScrapingBee,
		FetchedAt: time.Now().UTC().Add(-1 * time.Hour),
	}}
	svc := newTestNavService(resolver, store)

	got := svc.Read(context.Background())
	if got.Value != 1.76 || got.Source != domain.SourceScrapingBee {
		t.Fatalf("expected persisted reading to seed the cache, got %+v", got)
	}
	if n := atomic.LoadInt64(&resolver.calls); n != 0 {
		t.Fatalf("same-day seed must not trigger resolution, got %d", n)
	}
}

func TestColdStartIgnoresStaleStoreEntry(t *testing.T) {
	resolver := &countingResolver{value: 2.1}
	store := &memStore{reading: &domain.Reading{
		Value:     1.76,
		Source:    domain.SourceScrapingBee,
		FetchedAt: time.Now().UTC().Add(-48 * time.Hour),
	}}
	svc := newTestNavService(resolver, store)

	got := svc.Read(context.Background())
	if got.Value != 2.1 {
		t.Fatalf("expected a fresh resolution, got %+v", got)
	}
	if n := atomic.LoadInt64(&resolver.calls); n != 1 {
		t.Fatalf("expected one resolution, got %d", n)
	}
}

func TestRecorderSkipsFallbackReadings(t *testing.T) {
	var recorded []domain.Reading
	svc := newTestNavService(&countingResolver{value: 2.1}, &memStore{})
	svc.OnReading(func(r domain.Reading) { recorded = append(recorded, r) })

	svc.Read(context.Background())
	if len(recorded) != 1 || recorded[0].Value != 2.1 {
		t.Fatalf("unexpected recorded readings: %+v", recorded)
	}

	fallback := &fallbackResolver{}
	svc2 := newTestNavService(fallback, &memStore{})
	var recorded2 []domain.Reading
	svc2.OnReading(func(r domain.Reading) { recorded2 = append(recorded2, r) })
	svc2.Read(context.Background())
	if len(recorded2) != 0 {
		t.Fatalf("fallback readings must not be recorded, got %+v", recorded2)
	}
}

type fallbackResolver struct{}

func (fallbackResolver) Resolve(ctx context.Context) domain.Reading {
	return domain.Reading{Value: 2.5, Source: domain.SourceFallback, FetchedAt: time.Now().UTC(), IsFallback: true}
}
