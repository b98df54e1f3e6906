// Package provider contains one adapter per upstream mNAV data source, plus
// the shared clients (CoinGecko, Fear & Greed) other parts of the service use.
//
// Adapters share a single contract: Fetch returns one reading or a typed
// *Error. Adapters never retry; the fallback chain in internal/service owns
// cross-adapter recovery.
package provider

import (
	"context"
	"errors"
	"fmt"

	"mnav-tracker/internal/domain"
)

// Provider fetches one mNAV reading from a single upstream source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context) (*domain.Reading, error)
}

// ErrorKind classifies adapter failures so the resolver can log the reason
// and continue down the chain.
type ErrorKind string

const (
	KindUnconfigured ErrorKind = "unconfigured"
	KindNetwork      ErrorKind = "network"
	KindParse        ErrorKind = "parse"
	KindTimeout      ErrorKind = "timeout"
	KindRateLimited  ErrorKind = "rate_limited"
)

// Error is a typed adapter failure.
type Error struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(name string, kind ErrorKind, err error) *Error {
	return &Error{Provider: name, Kind: kind, Err: err}
}

func errUnconfigured(name, detail string) *Error {
	return &Error{Provider: name, Kind: KindUnconfigured, Err: errors.New(detail)}
}

// KindOf returns the failure kind carried by err, or empty when err is not
// an adapter error.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// classifyTransport maps a transport-level error from http.Client.Do to a
// typed kind. Context expiry means the adapter's time budget ran out.
func classifyTransport(name string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(name, KindTimeout, err)
	}
	return newError(name, KindNetwork, err)
}

// classifyStatus maps a non-200 HTTP status to a typed kind.
func classifyStatus(name string, status int, body string) *Error {
	kind := KindNetwork
	if status == 429 {
		kind = KindRateLimited
	}
	return newError(name, kind, fmt.Errorf("upstream status %d: %s", status, body))
}
