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

const (
	tradingViewScanURL = "https://scanner.tradingview.com/america/scan"
	tradingViewTicker  = "NASDAQ:MSTR"
	tradingViewUA      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// BitcoinPricer supplies the current BTC/USD spot price for the computed mNAV.
type BitcoinPricer interface {
	BitcoinPrice(ctx context.Context) (float64, error)
}

// TradingViewProvider computes mNAV from first principles: market cap from
// the TradingView scanner divided by the treasury value (configured BTC
// holdings times the CoinGecko spot price). Last in the chain because the
// holdings figure is a config constant that can drift between filings.
type TradingViewProvider struct {
	client      *http.Client
	scanURL     string
	btc         BitcoinPricer
	btcHoldings float64
	tracer      trace.Tracer
}

func NewTradingViewProvider(tracer trace.Tracer, btc BitcoinPricer, btcHoldings float64) *TradingViewProvider {
	return &TradingViewProvider{
		client:      &http.Client{Timeout: 15 * time.Second},
		scanURL:     tradingViewScanURL,
		btc:         btc,
		btcHoldings: btcHoldings,
		tracer:      tracer,
	}
}

func (p *TradingViewProvider) Name() string { return string(domain.SourceTradingView) }

func (p *TradingViewProvider) Fetch(ctx context.Context) (*domain.Reading, error) {
	_, span := p.tracer.Start(ctx, "tradingview.fetch")
	defer span.End()

	if p.btcHoldings <= 0 {
		return nil, errUnconfigured(p.Name(), "BTC_HOLDINGS not set")
	}

	marketCap, err := p.fetchMarketCap(ctx)
	if err != nil {
		return nil, err
	}

	btcPrice, err := p.btc.BitcoinPrice(ctx)
	if err != nil {
		return nil, classifyTransport(p.Name(), err)
	}

	treasuryValue := p.btcHoldings * btcPrice
	if treasuryValue <= 0 {
		return nil, newError(p.Name(), KindParse, fmt.Errorf("treasury value is zero"))
	}

	return &domain.Reading{
		Value:     marketCap / treasuryValue,
		Source:    domain.SourceTradingView,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func (p *TradingViewProvider) fetchMarketCap(ctx context.Context) (float64, error) {
	request := map[string]any{
		"symbols": map[string]any{
			"tickers": []string{tradingViewTicker},
			"query":   map[string]any{"types": []string{}},
		},
		"columns": []string{"name", "close", "change", "change_abs", "volume", "market_cap_basic"},
	}
	body, err := json.Marshal(request)
	if err != nil {
		return 0, newError(p.Name(), KindParse, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.scanURL, bytes.NewReader(body))
	if err != nil {
		return 0, newError(p.Name(), KindNetwork, err)
	}
	req.Header.Set("User-Agent", tradingViewUA)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, classifyTransport(p.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, classifyStatus(p.Name(), resp.StatusCode, string(msg))
	}

	// Response shape: {"data":[{"s":"NASDAQ:MSTR","d":[name, close, ...]}]}
	var payload struct {
		Data []struct {
			D []any `json:"d"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, newError(p.Name(), KindParse, fmt.Errorf("decode scanner response: %w", err))
	}
	if len(payload.Data) == 0 || len(payload.Data[0].D) < 6 {
		return 0, newError(p.Name(), KindParse, fmt.Errorf("scanner response missing rows"))
	}

	marketCap, ok := payload.Data[0].D[5].(float64)
	if !ok || marketCap <= 0 {
		return 0, newError(p.Name(), KindParse, fmt.Errorf("scanner row has no market cap"))
	}
	return marketCap, nil
}
