package quote

import "time"

// Unit is the quotation unit for every metal quote.
const Unit = "per troy ounce"

// Quote is the normalized price record for one metal in one currency.
// Bid/Ask/High/Low/Open/PrevClose are pointers because Metals.dev does not
// supply them; a nil field means the source had no value, not zero.
type Quote struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Unit          string    `json:"unit"`
	Timestamp     time.Time `json:"timestamp"`
	Bid           *float64  `json:"bid,omitempty"`
	Ask           *float64  `json:"ask,omitempty"`
	High          *float64  `json:"high,omitempty"`
	Low           *float64  `json:"low,omitempty"`
	Open          *float64  `json:"open,omitempty"`
	PrevClose     *float64  `json:"prevClose,omitempty"`
}

// Result is the outcome of any fetch-like operation. Expected failures
// (unsupported metal, provider error, throttling) travel as a failed Result
// rather than an error so callers handle one shape everywhere.
type Result struct {
	Success     bool   `json:"success"`
	Data        *Quote `json:"data,omitempty"`
	Err         string `json:"error,omitempty"`
	Source      string `json:"source"`
	RateLimited bool   `json:"rateLimited,omitempty"`
}

// OK wraps a quote in a successful Result attributed to source.
func OK(q Quote, source string) Result {
	return Result{Success: true, Data: &q, Source: source}
}

// Fail builds a failed Result attributed to source.
func Fail(msg, source string) Result {
	return Result{Err: msg, Source: source}
}

// Throttled builds a failed Result marked as a rate-limit rejection, which
// callers may treat as temporary and retry-worthy.
func Throttled(msg, source string) Result {
	return Result{Err: msg, Source: source, RateLimited: true}
}
