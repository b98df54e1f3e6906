// Package service holds the resolution pipeline and the daily cache that
// sit between the HTTP layer and the provider adapters.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"mnav-tracker/internal/domain"
	"mnav-tracker/internal/metrics"
	"mnav-tracker/internal/provider"

	"go.opentelemetry.io/otel/trace"
)

// LastGoodStore persists the most recent non-fallback reading.
type LastGoodStore interface {
	Save(ctx context.Context, r domain.Reading) error
	Load(ctx context.Context) (*domain.Reading, error)
}

// Resolver walks the provider chain in priority order and always produces a
// reading. When every provider fails it degrades to the persisted last known
// good value, and past that to a configured constant.
type Resolver struct {
	tracer           trace.Tracer
	providers        []provider.Provider
	store            LastGoodStore
	bounds           domain.Bounds
	fallbackValue    float64
	adapterTimeout   time.Duration
	stalenessCeiling time.Duration
	now              func() time.Time
}

func NewResolver(
	tracer trace.Tracer,
	providers []provider.Provider,
	store LastGoodStore,
	bounds domain.Bounds,
	fallbackValue float64,
	adapterTimeout time.Duration,
	stalenessCeiling time.Duration,
) *Resolver {
	return &Resolver{
		tracer:           tracer,
		providers:        providers,
		store:            store,
		bounds:           bounds,
		fallbackValue:    fallbackValue,
		adapterTimeout:   adapterTimeout,
		stalenessCeiling: stalenessCeiling,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Resolve tries each provider in order and returns the first in-bounds
// reading. It never returns an error: exhaustion degrades to the persisted
// value and finally to the configured constant.
func (r *Resolver) Resolve(ctx context.Context) domain.Reading {
	ctx, span := r.tracer.Start(ctx, "resolver.resolve")
	defer span.End()

	for _, p := range r.providers {
		reading, err := r.tryProvider(ctx, p)
		if err != nil {
			log.Printf("resolver: %s failed: %v", p.Name(), err)
			continue
		}

		log.Printf("resolver: %s returned mNAV %.4f", p.Name(), reading.Value)
		metrics.ResolutionsTotal.WithLabelValues(string(reading.Source), "false").Inc()
		r.persist(ctx, *reading)
		return *reading
	}

	return r.degrade(ctx)
}

func (r *Resolver) tryProvider(ctx context.Context, p provider.Provider) (*domain.Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, r.adapterTimeout)
	defer cancel()

	metrics.ProviderAttemptsTotal.WithLabelValues(p.Name()).Inc()

	reading, err := p.Fetch(ctx)
	if err != nil {
		metrics.ProviderFailuresTotal.WithLabelValues(p.Name(), string(provider.KindOf(err))).Inc()
		return nil, err
	}
	if err := r.bounds.Validate(reading.Value); err != nil {
		metrics.ProviderFailuresTotal.WithLabelValues(p.Name(), "out_of_bounds").Inc()
		return nil, fmt.Errorf("%s: %w", p.Name(), err)
	}
	return reading, nil
}

// persist saves best effort; a store outage must not break resolution.
func (r *Resolver) persist(ctx context.Context, reading domain.Reading) {
	if err := r.store.Save(ctx, reading); err != nil {
		log.Printf("resolver: persist last known good: %v", err)
	}
}

func (r *Resolver) degrade(ctx context.Context) domain.Reading {
	last, err := r.store.Load(ctx)
	if err != nil {
		log.Printf("resolver: load last known good: %v", err)
	}
	if last != nil {
		age := r.now().Sub(last.FetchedAt)
		if r.stalenessCeiling > 0 && age > r.stalenessCeiling {
			log.Printf("resolver: persisted reading is %s old, past the %s ceiling", age.Round(time.Minute), r.stalenessCeiling)
		}
		log.Printf("resolver: all providers failed, serving persisted %.4f from %s", last.Value, last.Source)
		metrics.ResolutionsTotal.WithLabelValues(string(last.Source), "true").Inc()
		last.IsFallback = true
		return *last
	}

	log.Printf("resolver: all providers failed and no persisted reading, serving constant %.4f", r.fallbackValue)
	metrics.ResolutionsTotal.WithLabelValues(string(domain.SourceFallback), "true").Inc()
	return domain.Reading{
		Value:      r.fallbackValue,
		Source:     domain.SourceFallback,
		FetchedAt:  r.now(),
		IsFallback: true,
	}
}
