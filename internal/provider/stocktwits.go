package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mnav-tracker/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	stocktwitsBaseURL = "https://api.stocktwits.com"
	// Community chatter is noisy; only the most recent messages are scanned.
	stocktwitsScanLimit = 20
)

// StockTwitsProvider mines the public symbol stream for mNAV mentions.
// No API key required, which also means no trust ranking beyond recency,
// so it sits late in the chain.
type StockTwitsProvider struct {
	client  *http.Client
	baseURL string
	symbol  string
	bounds  domain.Bounds
	tracer  trace.Tracer
}

func NewStockTwitsProvider(tracer trace.Tracer, symbol string, bounds domain.Bounds) *StockTwitsProvider {
	return &StockTwitsProvider{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: stocktwitsBaseURL,
		symbol:  symbol,
		bounds:  bounds,
		tracer:  tracer,
	}
}

func (p *StockTwitsProvider) Name() string { return string(domain.SourceStockTwits) }

func (p *StockTwitsProvider) Fetch(ctx context.Context) (*domain.Reading, error) {
	_, span := p.tracer.Start(ctx, "stocktwits.fetch")
	defer span.End()

	url := fmt.Sprintf("%s/api/2/streams/symbol/%s.json", p.baseURL, p.symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newError(p.Name(), KindNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

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
		Messages []struct {
			Body string `json:"body"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, newError(p.Name(), KindParse, fmt.Errorf("decode stocktwits response: %w", err))
	}

	messages := payload.Messages
	if len(messages) > stocktwitsScanLimit {
		messages = messages[:stocktwitsScanLimit]
	}
	for _, msg := range messages {
		if value, ok := extractMNAV(msg.Body, p.bounds); ok {
			return &domain.Reading{
				Value:     value,
				Source:    domain.SourceStockTwits,
				FetchedAt: time.Now().UTC(),
			}, nil
		}
	}

	return nil, newError(p.Name(), KindParse, fmt.Errorf("no mNAV figure in %d recent messages", len(messages)))
}
