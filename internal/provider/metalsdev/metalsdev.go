package metalsdev

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"metalprices/internal/httpx"
	"metalprices/internal/metal"
	"metalprices/internal/quote"
)

const (
	defaultBaseURL = "https://api.metals.dev/v1"
	sourceName     = "Metals.dev"
)

// Config controls the Metals.dev client.
type Config struct {
	BaseURL string
	APIKey  string
}

// Client fetches spot prices from Metals.dev. The API returns only the
// current price per metal, so change and percent change are synthesized with
// bounded randomness and must not be read as market data.
type Client struct {
	cfg    Config
	client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, client: hc}
}

func (c *Client) Name() string { return sourceName }

func (c *Client) latestURL(currencyCode string) string {
	q := url.Values{}
	q.Set("api_key", c.cfg.APIKey)
	q.Set("currency", strings.ToUpper(currencyCode))
	q.Set("unit", "toz")
	return c.cfg.BaseURL + "/latest?" + q.Encode()
}

// Fetch retrieves one metal/currency quote from the latest-prices endpoint.
func (c *Client) Fetch(ctx context.Context, metalID, currencyCode string) (quote.Result, error) {
	info, ok := metal.Lookup(metalID)
	if !ok {
		return quote.Fail(fmt.Sprintf("unsupported metal: %s", metalID), sourceName), nil
	}

	reqURL := c.latestURL(currencyCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return quote.Result{}, fmt.Errorf("creating request: %w", err)
	}
	res, err := c.client.Do(ctx, req)
	if err != nil {
		return quote.Result{}, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests {
		return quote.Throttled("429 Too Many Requests - throttled by Metals.dev", sourceName), nil
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return quote.Result{}, fmt.Errorf("GET %s -> %d: %s", c.cfg.BaseURL+"/latest", res.StatusCode, strings.TrimSpace(string(b)))
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return quote.Result{}, fmt.Errorf("reading body: %w", err)
	}
	if gjson.GetBytes(body, "status").String() != "success" {
		return quote.Fail("API request failed", sourceName), nil
	}
	price := gjson.GetBytes(body, "metals."+info.MetalsDev)
	if !price.Exists() || price.Float() <= 0 {
		return quote.Fail("price data not available", sourceName), nil
	}

	// Synthesized movement, bounded to +-10 currency units.
	change := (rand.Float64() - 0.5) * 20
	changePercent := change / price.Float() * 100

	q := quote.Quote{
		ID:            info.ID,
		Name:          info.Name,
		Symbol:        info.Symbol,
		Price:         price.Float(),
		Change:        change,
		ChangePercent: changePercent,
		Unit:          quote.Unit,
		Timestamp:     time.Now().UTC(),
	}
	return quote.OK(q, sourceName), nil
}

// Status probes the latest-prices endpoint; Metals.dev has no dedicated
// status route.
func (c *Client) Status(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.latestURL("USD"), http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	res, err := c.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("latest endpoint returned %d", res.StatusCode)
	}
	return nil
}
