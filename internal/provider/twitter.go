package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"mnav-tracker/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	twitterBaseURL = "https://api.twitter.com"
	// Only tweets from the official accounts are trusted for a figure.
	twitterQuery      = "(from:saylor OR from:MicroStrategy) mNAV"
	twitterMaxResults = 10
)

// TwitterProvider mines recent tweets from the company's official accounts
// for a stated mNAV figure. Requires a bearer token.
type TwitterProvider struct {
	client      *http.Client
	baseURL     string
	bearerToken string
	bounds      domain.Bounds
	tracer      trace.Tracer
}

func NewTwitterProvider(tracer trace.Tracer, bearerToken string, bounds domain.Bounds) *TwitterProvider {
	return &TwitterProvider{
		client:      &http.Client{Timeout: 15 * time.Second},
		baseURL:     twitterBaseURL,
		bearerToken: bearerToken,
		bounds:      bounds,
		tracer:      tracer,
	}
}

func (p *TwitterProvider) Name() string { return string(domain.SourceTwitter) }

func (p *TwitterProvider) Fetch(ctx context.Context) (*domain.Reading, error) {
	_, span := p.tracer.Start(ctx, "twitter.fetch")
	defer span.End()

	if p.bearerToken == "" {
		return nil, errUnconfigured(p.Name(), "TWITTER_BEARER_TOKEN not set")
	}

	q := url.Values{}
	q.Set("query", twitterQuery)
	q.Set("max_results", fmt.Sprintf("%d", twitterMaxResults))
	q.Set("tweet.fields", "created_at,author_id,text")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.baseURL+"/2/tweets/search/recent?"+q.Encode(), nil)
	if err != nil {
		return nil, newError(p.Name(), KindNetwork, err)
	}
	req.Header.Set("Authorization", "Bearer "+p.bearerToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, classifyTransport(p.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, classifyStatus(p.Name(), resp.StatusCode, string(body))
	}

	var payload struct {
		Data []struct {
			Text      string `json:"text"`
			CreatedAt string `json:"created_at"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, newError(p.Name(), KindParse, fmt.Errorf("decode twitter response: %w", err))
	}

	// Results come most-recent-first; take the first tweet carrying a figure.
	for _, tweet := range payload.Data {
		if value, ok := extractMNAV(tweet.Text, p.bounds); ok {
			return &domain.Reading{
				Value:     value,
				Source:    domain.SourceTwitter,
				FetchedAt: time.Now().UTC(),
			}, nil
		}
	}

	return nil, newError(p.Name(), KindParse, fmt.Errorf("no mNAV figure in %d recent tweets", len(payload.Data)))
}
