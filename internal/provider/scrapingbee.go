package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"mnav-tracker/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const scrapingBeeBaseURL = "https://app.scrapingbee.com/api/v1/"

// ScrapingBeeProvider scrapes the target page through the ScrapingBee
// rendering proxy. Requires an API key; without one the adapter reports
// itself unconfigured instead of attempting a call.
type ScrapingBeeProvider struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	targetURL string
	bounds    domain.Bounds
	tracer    trace.Tracer
}

func NewScrapingBeeProvider(tracer trace.Tracer, apiKey, targetURL string, bounds domain.Bounds) *ScrapingBeeProvider {
	return &ScrapingBeeProvider{
		client:    &http.Client{Timeout: 30 * time.Second},
		baseURL:   scrapingBeeBaseURL,
		apiKey:    apiKey,
		targetURL: targetURL,
		bounds:    bounds,
		tracer:    tracer,
	}
}

func (p *ScrapingBeeProvider) Name() string { return string(domain.SourceScrapingBee) }

func (p *ScrapingBeeProvider) Fetch(ctx context.Context) (*domain.Reading, error) {
	_, span := p.tracer.Start(ctx, "scrapingbee.fetch")
	defer span.End()

	if p.apiKey == "" {
		return nil, errUnconfigured(p.Name(), "SCRAPINGBEE_API_KEY not set")
	}

	q := url.Values{}
	q.Set("api_key", p.apiKey)
	q.Set("url", p.targetURL)
	q.Set("render_js", "true")
	q.Set("premium_proxy", "true")
	q.Set("country_code", "us")
	q.Set("wait", "3000")
	q.Set("block_ads", "true")
	q.Set("stealth_proxy", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, newError(p.Name(), KindNetwork, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, classifyTransport(p.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, classifyStatus(p.Name(), resp.StatusCode, string(body))
	}

	html, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(p.Name(), KindNetwork, err)
	}

	value, ok := extractMNAV(string(html), p.bounds)
	if !ok {
		return nil, newError(p.Name(), KindParse, fmt.Errorf("no mNAV figure in rendered page"))
	}

	return &domain.Reading{
		Value:     value,
		Source:    domain.SourceScrapingBee,
		FetchedAt: time.Now().UTC(),
	}, nil
}
