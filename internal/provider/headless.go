package provider

import (
	"context"
	"fmt"
	"time"

	"mnav-tracker/internal/domain"

	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/trace"
)

// HeadlessProvider drives a local headless Chromium via chromedp and reads
// the rendered page text. First in the chain because it is the only adapter
// that sees the page exactly as a browser does, but it needs Chrome on the
// host, so deployments without one disable it via config.
type HeadlessProvider struct {
	enabled   bool
	targetURL string
	bounds    domain.Bounds
	tracer    trace.Tracer

	// runScrape is swapped out in tests to avoid launching a browser.
	runScrape func(ctx context.Context, targetURL string) (string, error)
}

func NewHeadlessProvider(tracer trace.Tracer, enabled bool, targetURL string, bounds domain.Bounds) *HeadlessProvider {
	p := &HeadlessProvider{
		enabled:   enabled,
		targetURL: targetURL,
		bounds:    bounds,
		tracer:    tracer,
	}
	p.runScrape = p.chromeScrape
	return p
}

func (p *HeadlessProvider) Name() string { return string(domain.SourceHeadless) }

func (p *HeadlessProvider) Fetch(ctx context.Context) (*domain.Reading, error) {
	_, span := p.tracer.Start(ctx, "headless.fetch")
	defer span.End()

	if !p.enabled {
		return nil, errUnconfigured(p.Name(), "headless scraping disabled (HEADLESS_ENABLED=false)")
	}

	html, err := p.runScrape(ctx, p.targetURL)
	if err != nil {
		return nil, classifyTransport(p.Name(), err)
	}

	value, ok := extractMNAV(html, p.bounds)
	if !ok {
		return nil, newError(p.Name(), KindParse, fmt.Errorf("no mNAV figure in rendered page"))
	}

	return &domain.Reading{
		Value:     value,
		Source:    domain.SourceHeadless,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func (p *HeadlessProvider) chromeScrape(ctx context.Context, targetURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.NoSandbox,
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(targetURL),
		// Give client-side rendering a moment to paint the metrics.
		chromedp.Sleep(3*time.Second),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}
