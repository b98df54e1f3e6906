package domain

import (
	"fmt"
	"time"
)

// Source identifies which upstream produced a reading.
type Source string

const (
	SourceHeadless    Source = "headless"
	SourceScrapingBee Source = "scrapingbee"
	SourceBrowserless Source = "browserless"
	SourceTwitter     Source = "twitter"
	SourceStockTwits  Source = "stocktwits"
	SourceTradingView Source = "tradingview"
	SourceManual      Source = "manual"
	SourceFallback    Source = "fallback"
)

// Reading is a single resolved mNAV observation. IsFallback marks values
// that were not freshly confirmed by a live source: the hardcoded constant,
// or a persisted last-known-good record served after chain exhaustion.
type Reading struct {
	Value      float64   `json:"value"`
	Source     Source    `json:"source"`
	FetchedAt  time.Time `json:"fetched_at"`
	IsFallback bool      `json:"is_fallback"`
}

// Snapshot is the read API's data contract: the current reading plus the
// cache expiry it is valid until.
type Snapshot struct {
	Reading
	ExpiresAt time.Time `json:"expires_at"`
}

// Bounds is the sane range for mNAV values. Readings outside it are
// rejected everywhere, never stored.
type Bounds struct {
	Min float64
	Max float64
}

func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Validate returns an *OutOfBoundsError when v falls outside the range.
func (b Bounds) Validate(v float64) error {
	if !b.Contains(v) {
		return &OutOfBoundsError{Value: v, Bounds: b}
	}
	return nil
}

type OutOfBoundsError struct {
	Value  float64
	Bounds Bounds
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("mnav value %.4f outside bounds [%.2f, %.2f]", e.Value, e.Bounds.Min, e.Bounds.Max)
}

// SameUTCDay reports whether both instants fall on the same UTC calendar day.
// The cache expires at midnight UTC, so this doubles as the freshness test.
func SameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// NextMidnightUTC returns the first midnight UTC strictly after t.
func NextMidnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
