package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mnav-tracker/internal/domain"
	"mnav-tracker/internal/provider"

	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

var testBounds = domain.Bounds{Min: 0.1, Max: 10.0}

type stubProvider struct {
	name  string
	value float64
	err   error
	calls int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Fetch(ctx context.Context) (*domain.Reading, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &domain.Reading{
		Value:     p.value,
		Source:    domain.Source(p.name),
		FetchedAt: time.Now().UTC(),
	}, nil
}

type memStore struct {
	mu      sync.Mutex
	reading *domain.Reading
	saveErr error
	loadErr error
	saves   int
}

func (m *memStore) Save(ctx context.Context, r domain.Reading) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := r
	m.reading = &cp
	return nil
}

func (m *memStore) Load(ctx context.Context) (*domain.Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.reading == nil {
		return nil, nil
	}
	cp := *m.reading
	return &cp, nil
}

func providers(ps ...*stubProvider) []provider.Provider {
	out := make([]provider.Provider, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}

func TestResolveFirstSuccessShortCircuits(t *testing.T) {
	first := &stubProvider{name: "headless", value: 2.3}
	second := &stubProvider{name: "scrapingbee", value: 1.9}
	store := &memStore{}
	r := NewResolver(testTracer, providers(first, second), store, testBounds, 2.5, time.Second, 72*time.Hour)

	got := r.Resolve(context.Background())
	if got.Value != 2.3 || got.Source != "headless" || got.IsFallback {
		t.Fatalf("unexpected reading: %+v", got)
	}
	if second.calls != 0 {
		t.Fatalf("second provider should not have been tried, got %d calls", second.calls)
	}
	if store.reading == nil || store.reading.Value != 2.3 {
		t.Fatalf("expected winning reading persisted, got %+v", store.reading)
	}
}

func TestResolveSkipsFailedProvider(t *testing.T) {
	broken := &stubProvider{name: "headless", err: errors.New("connection refused")}
	good := &stubProvider{name: "scrapingbee", value: 2.15}
	r := NewResolver(testTracer, providers(broken, good), &memStore{}, testBounds, 2.5, time.Second, 72*time.Hour)

	got := r.Resolve(context.Background())
	if got.Value != 2.15 || got.Source != "scrapingbee" || got.IsFallback {
		t.Fatalf("unexpected reading: %+v", got)
	}
	if broken.calls != 1 || good.calls != 1 {
		t.Fatalf("expected both providers tried once, got %d and %d", broken.calls, good.calls)
	}
}

func TestResolveOutOfBoundsMovesToNextProvider(t *testing.T) {
	bogus := &stubProvider{name: "twitter", value: 12.0}
	good := &stubProvider{name: "stocktwits", value: 2.15}
	store := &memStore{}
	r := NewResolver(testTracer, providers(bogus, good), store, testBounds, 2.5, time.Second, 72*time.Hour)

	got := r.Resolve(context.Background())
	if got.Value != 2.15 || got.Source != "stocktwits" {
		t.Fatalf("unexpected reading: %+v", got)
	}
	if store.reading == nil || store.reading.Value != 2.15 {
		t.Fatalf("out-of-bounds value must never be persisted, store holds %+v", store.reading)
	}
}

func TestResolveDegradesToPersistedReading(t *testing.T) {
	failing := &stubProvider{name: "headless", err: errors.New("browser crashed")}
	store := &memStore{reading: &domain.Reading{
		Value:     1.87,
		Source:    domain.SourceTradingView,
		FetchedAt: time.Now().UTC().Add(-30 * time.Hour),
	}}
	r := NewResolver(testTracer, providers(failing), store, testBounds, 2.5, time.Second, 72*time.Hour)

	got := r.Resolve(context.Background())
	if got.Value != 1.87 {
		t.Fatalf("expected persisted value, got %+v", got)
	}
	if got.Source != domain.SourceTradingView {
		t.Fatalf("persisted source must be preserved, got %s", got.Source)
	}
	if !got.IsFallback {
		t.Fatal("degraded reading must be marked fallback")
	}
}

func TestResolveConstantFallback(t *testing.T) {
	failing := &stubProvider{name: "headless", err: errors.New("browser crashed")}
	r := NewResolver(testTracer, providers(failing), &memStore{}, testBounds, 2.5, time.Second, 72*time.Hour)

	got := r.Resolve(context.Background())
	if got.Value != 2.5 || got.Source != domain.SourceFallback || !got.IsFallback {
		t.Fatalf("unexpected constant fallback: %+v", got)
	}
}

func TestResolveSurvivesStoreErrors(t *testing.T) {
	good := &stubProvider{name: "headless", value: 2.0}
	store := &memStore{saveErr: errors.New("disk full")}
	r := NewResolver(testTracer, providers(good), store, testBounds, 2.5, time.Second, 72*time.Hour)

	got := r.Resolve(context.Background())
	if got.Value != 2.0 {
		t.Fatalf("store failure must not break resolution, got %+v", got)
	}
}
