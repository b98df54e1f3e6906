package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mnav-tracker/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const browserlessBaseURL = "https://chrome.browserless.io/content"

// BrowserlessProvider scrapes the target page through the Browserless.io
// /content endpoint. Requires an API token.
type BrowserlessProvider struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	targetURL string
	bounds    domain.Bounds
	tracer    trace.Tracer
}

func NewBrowserlessProvider(tracer trace.Tracer, apiKey, targetURL string, bounds domain.Bounds) *BrowserlessProvider {
	return &BrowserlessProvider{
		client:    &http.Client{Timeout: 30 * time.Second},
		baseURL:   browserlessBaseURL,
		apiKey:    apiKey,
		targetURL: targetURL,
		bounds:    bounds,
		tracer:    tracer,
	}
}

func (p *BrowserlessProvider) Name() string { return string(domain.SourceBrowserless) }

func (p *BrowserlessProvider) Fetch(ctx context.Context) (*domain.Reading, error) {
	_, span := p.tracer.Start(ctx, "browserless.fetch")
	defer span.End()

	if p.apiKey == "" {
		return nil, errUnconfigured(p.Name(), "BROWSERLESS_API_KEY not set")
	}

	payload := map[string]any{
		"url":      p.targetURL,
		"waitFor":  3000,
		"token":    p.apiKey,
		"blockAds": true,
		"stealth":  true,
		"viewport": map[string]int{"width": 1920, "height": 1080},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, newError(p.Name(), KindParse, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, newError(p.Name(), KindNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, classifyTransport(p.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, classifyStatus(p.Name(), resp.StatusCode, string(msg))
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
		Source:    domain.SourceBrowserless,
		FetchedAt: time.Now().UTC(),
	}, nil
}
