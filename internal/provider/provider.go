package provider

import (
	"context"

	"metalprices/internal/quote"
)

// Source is one external price API integration.
//
// Fetch returns a Result for expected failure modes (unsupported metal,
// provider-reported error, throttling) and a non-nil error only for
// transport-level problems (network failure, unexpected HTTP status). The
// fallback chain converts those errors into failed Results; they must never
// reach the service facade as errors.
type Source interface {
	Name() string
	Fetch(ctx context.Context, metalID, currency string) (quote.Result, error)
	// Status probes the upstream API. A nil return means reachable.
	Status(ctx context.Context) error
}
