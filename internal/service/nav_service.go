package service

import (
	"context"
	"log"
	"sync"
	"time"

	"mnav-tracker/internal/domain"
	"mnav-tracker/internal/metrics"

	"go.opentelemetry.io/otel/trace"
)

// ReadingResolver produces a reading on demand. It never fails.
type ReadingResolver interface {
	Resolve(ctx context.Context) domain.Reading
}

// NavService serves the cached daily mNAV. An entry is valid until the next
// midnight UTC; the first read past that boundary triggers a refresh while
// the mutex holds concurrent readers back, so the chain runs once per day.
type NavService struct {
	mu       sync.Mutex
	entry    *domain.Snapshot
	tracer   trace.Tracer
	resolver ReadingResolver
	store    LastGoodStore
	recorder func(domain.Reading)
	now      func() time.Time
}

func NewNavService(tracer trace.Tracer, resolver ReadingResolver, store LastGoodStore) *NavService {
	return &NavService{
		tracer:   tracer,
		resolver: resolver,
		store:    store,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// OnReading registers a hook invoked with every non-fallback reading that
// enters the cache. The signal engine uses it to accumulate history.
func (s *NavService) OnReading(fn func(domain.Reading)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = fn
}

// Read returns the cached snapshot, refreshing it first if it has rolled
// past midnight UTC. On a cold start it reuses the persisted reading when
// that reading is from the current UTC day.
func (s *NavService) Read(ctx context.Context) domain.Snapshot {
	ctx, span := s.tracer.Start(ctx, "nav-service.read")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entry == nil {
		s.seedLocked(ctx)
	}
	if s.entry != nil && s.now().Before(s.entry.ExpiresAt) {
		metrics.CacheReadsTotal.WithLabelValues("hit").Inc()
		return *s.entry
	}

	metrics.CacheReadsTotal.WithLabelValues("refresh").Inc()
	return s.refreshLocked(ctx)
}

// ForceRefresh discards the cached entry and resolves again, even when the
// entry is still fresh.
func (s *NavService) ForceRefresh(ctx context.Context) domain.Snapshot {
	ctx, span := s.tracer.Start(ctx, "nav-service.force-refresh")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

// ScheduledRefresh refreshes the cache unless the current entry already
// belongs to today, which makes duplicate scheduler triggers harmless. The
// second return reports whether a resolution actually ran.
func (s *NavService) ScheduledRefresh(ctx context.Context) (domain.Snapshot, bool) {
	ctx, span := s.tracer.Start(ctx, "nav-service.scheduled-refresh")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.entry != nil && domain.SameUTCDay(s.entry.FetchedAt, now) && now.Before(s.entry.ExpiresAt) {
		return *s.entry, false
	}
	return s.refreshLocked(ctx), true
}

// AdminOverride replaces the cached entry with an operator-supplied value
// and writes it through to the store. The value must pass the same bounds
// check providers are held to.
func (s *NavService) AdminOverride(ctx context.Context, value float64, label, reason string, bounds domain.Bounds) (domain.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "nav-service.admin-override")
	defer span.End()

	if err := bounds.Validate(value); err != nil {
		return domain.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reading := domain.Reading{
		Value:     value,
		Source:    domain.SourceManual,
		FetchedAt: s.now(),
	}
	log.Printf("nav: admin override %.4f (label=%q reason=%q)", value, label, reason)

	if err := s.store.Save(ctx, reading); err != nil {
		log.Printf("nav: persist admin override: %v", err)
	}
	s.setLocked(reading)
	return *s.entry, nil
}

func (s *NavService) refreshLocked(ctx context.Context) domain.Snapshot {
	reading := s.resolver.Resolve(ctx)
	s.setLocked(reading)
	return *s.entry
}

// seedLocked warms the cache from the store after a restart so the first
// request of the day does not rerun the chain.
func (s *NavService) seedLocked(ctx context.Context) {
	last, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("nav: seed from store: %v", err)
		return
	}
	if last == nil || !domain.SameUTCDay(last.FetchedAt, s.now()) {
		return
	}
	log.Printf("nav: seeded cache from persisted %.4f (%s)", last.Value, last.Source)
	metrics.CacheReadsTotal.WithLabelValues("seed").Inc()
	s.setLocked(*last)
}

func (s *NavService) setLocked(reading domain.Reading) {
	s.entry = &domain.Snapshot{
		Reading:   reading,
		ExpiresAt: domain.NextMidnightUTC(s.now()),
	}
	metrics.CurrentMNAV.Set(reading.Value)
	if s.recorder != nil && !reading.IsFallback {
		s.recorder(reading)
	}
}
