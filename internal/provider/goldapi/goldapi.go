package goldapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"metalprices/internal/metal"
	"metalprices/internal/quote"
)

const (
	defaultBaseURL = "https://www.goldapi.io/api"
	sourceName     = "GoldAPI"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=goldapi_test -destination=mock_http_client_test.go -source=goldapi.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches metal quotes from GoldAPI. It is the primary source: it
// supplies the full bid/ask/high/low/open/prev-close record.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	header     http.Header
}

// Option is a configuration option for the GoldAPI client.
type Option func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader adds headers to every request.
func WithHeader(header http.Header) Option {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// New creates a GoldAPI client authenticated with the given access token.
func New(accessToken string, options ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	if accessToken != "" {
		c.header.Set("x-access-token", accessToken)
	}
	c.header.Set("Content-Type", "application/json")
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Client) Name() string { return sourceName }

// apiResponse mirrors the GoldAPI payload. Pointer fields distinguish a
// missing value from an explicit zero.
type apiResponse struct {
	Price     *float64 `json:"price"`
	PrevClose *float64 `json:"prev_close_price"`
	Ch        *float64 `json:"ch"`
	Chp       *float64 `json:"chp"`
	Bid       *float64 `json:"bid"`
	Ask       *float64 `json:"ask"`
	High      *float64 `json:"high_price"`
	Low       *float64 `json:"low_price"`
	Open      *float64 `json:"open_price"`
	Timestamp int64    `json:"timestamp"`
	Error     string   `json:"error"`
}

// Fetch retrieves one metal/currency quote. HTTP 429 comes back as a
// throttled Result; other non-2xx statuses and network failures are returned
// as errors for the caller to convert.
func (c *Client) Fetch(ctx context.Context, metalID, currencyCode string) (quote.Result, error) {
	info, ok := metal.Lookup(metalID)
	if !ok {
		return quote.Fail(fmt.Sprintf("unsupported metal: %s", metalID), sourceName), nil
	}

	url := fmt.Sprintf("%s/%s/%s", c.baseURL, info.GoldAPI, strings.ToUpper(currencyCode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return quote.Result{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return quote.Result{}, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests {
		return quote.Throttled("429 Too Many Requests - throttled by GoldAPI", sourceName), nil
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return quote.Result{}, fmt.Errorf("GET %s -> %d: %s", url, res.StatusCode, strings.TrimSpace(string(b)))
	}

	var api apiResponse
	if err := json.NewDecoder(res.Body).Decode(&api); err != nil {
		return quote.Result{}, fmt.Errorf("decode: %w", err)
	}
	if api.Error != "" {
		return quote.Fail(api.Error, sourceName), nil
	}
	if api.Price == nil {
		return quote.Fail("price data not available", sourceName), nil
	}

	price := *api.Price
	prevClose := price
	if api.PrevClose != nil {
		prevClose = *api.PrevClose
	}
	change := price - prevClose
	if api.Ch != nil {
		change = *api.Ch
	}
	var changePercent float64
	if prevClose > 0 {
		changePercent = (price - prevClose) / prevClose * 100
	}
	if api.Chp != nil {
		changePercent = *api.Chp
	}
	ts := time.Now().UTC()
	if api.Timestamp > 0 {
		ts = time.Unix(api.Timestamp, 0).UTC()
	}

	q := quote.Quote{
		ID:            info.ID,
		Name:          info.Name,
		Symbol:        info.Symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
		Unit:          quote.Unit,
		Timestamp:     ts,
		Bid:           api.Bid,
		Ask:           api.Ask,
		High:          api.High,
		Low:           api.Low,
		Open:          api.Open,
		PrevClose:     api.PrevClose,
	}
	return quote.OK(q, sourceName), nil
}

// Status probes the GoldAPI status endpoint.
func (c *Client) Status(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("status endpoint returned %d", res.StatusCode)
	}
	return nil
}
