package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoClient fetches bitcoin market data from the CoinGecko free API.
// It backs the tradingview adapter (spot price for the computed mNAV) and the
// signal engine (historical prices for momentum).
type CoinGeckoClient struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewCoinGeckoClient creates a client with built-in rate limiting.
// Rate limited to 8 requests per minute (one token every 7.5 seconds).
func NewCoinGeckoClient(tracer trace.Tracer) *CoinGeckoClient {
	return &CoinGeckoClient{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: coingeckoBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
	}
}

// BitcoinPrice fetches the current BTC/USD spot price.
func (c *CoinGeckoClient) BitcoinPrice(ctx context.Context) (float64, error) {
	_, span := c.tracer.Start(ctx, "coingecko.bitcoin-price")
	defer span.End()

	url := c.baseURL + "/simple/price?ids=bitcoin&vs_currencies=usd"
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("fetch bitcoin price: %w", err)
	}

	// Response shape: {"bitcoin": {"usd": 97000}}
	var raw map[string]map[string]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return 0, fmt.Errorf("parse bitcoin price: %w", err)
	}
	price, ok := raw["bitcoin"]["usd"]
	if !ok || price <= 0 {
		return 0, fmt.Errorf("bitcoin price missing from response")
	}
	return price, nil
}

// BitcoinPriceHistory fetches daily BTC/USD prices over the past days,
// oldest first, from the market_chart endpoint.
func (c *CoinGeckoClient) BitcoinPriceHistory(ctx context.Context, days int) ([]float64, error) {
	_, span := c.tracer.Start(ctx, "coingecko.bitcoin-price-history")
	defer span.End()

	url := fmt.Sprintf("%s/coins/bitcoin/market_chart?vs_currency=usd&days=%d&interval=daily", c.baseURL, days)
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch bitcoin market chart: %w", err)
	}

	var raw struct {
		Prices [][]float64 `json:"prices"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse bitcoin market chart: %w", err)
	}

	prices := make([]float64, 0, len(raw.Prices))
	for _, pt := range raw.Prices {
		if len(pt) >= 2 {
			prices = append(prices, pt[1])
		}
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("bitcoin market chart has no price points")
	}
	return prices, nil
}

func (c *CoinGeckoClient) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("coingecko API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
