package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"metalprices/internal/cache"
	"metalprices/internal/currency"
	"metalprices/internal/fallback"
	"metalprices/internal/metal"
	"metalprices/internal/provider"
	"metalprices/internal/provider/mock"
	"metalprices/internal/quote"
)

// CacheSource labels results served from the quote cache.
const CacheSource = "Cache"

// Mode selects which source set a facade is constructed with.
type Mode string

const (
	ModeProduction Mode = "production"
	ModeMock       Mode = "mock"
	ModeTest       Mode = "test"
)

// ParseMode maps a config string to a Mode, defaulting to production.
func ParseMode(s string) Mode {
	switch strings.ToLower(s) {
	case string(ModeMock):
		return ModeMock
	case string(ModeTest):
		return ModeTest
	default:
		return ModeProduction
	}
}

// Switch is the process-wide toggle deciding whether facades call real
// providers. Mutations only affect facades constructed afterwards; a running
// facade keeps the pathway it was built with.
type Switch struct {
	mu     sync.Mutex
	useAPI bool
	mode   Mode
}

func NewSwitch(useAPI bool, mode Mode) *Switch {
	return &Switch{useAPI: useAPI, mode: mode}
}

func (s *Switch) SetUseAPI(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.useAPI = v
}

func (s *Switch) UseAPI() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.useAPI
}

func (s *Switch) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

func (s *Switch) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// UseReal reports whether a facade constructed now would call real
// providers: the kill-switch must be on and the mode must be production.
func (s *Switch) UseReal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.useAPI && s.mode == ModeProduction
}

// PriceSource is the data pathway behind the facade: either the real
// fallback chain or the synthetic generator.
type PriceSource interface {
	Fetch(ctx context.Context, metalID, currencyCode string) quote.Result
	FetchAll(ctx context.Context, currencyCode string) map[string]quote.Result
	Health(ctx context.Context) map[string]bool
}

// mockPath adapts the generator to the PriceSource shape.
type mockPath struct {
	gen mock.Generator
}

func (m mockPath) Fetch(ctx context.Context, metalID, _ string) quote.Result {
	res, _ := m.gen.Fetch(ctx, metalID, "")
	return res
}

func (m mockPath) FetchAll(ctx context.Context, _ string) map[string]quote.Result {
	out := make(map[string]quote.Result, len(metal.IDs()))
	for _, id := range metal.IDs() {
		res, _ := m.gen.Fetch(ctx, id, "")
		out[id] = res
	}
	return out
}

func (m mockPath) Health(context.Context) map[string]bool {
	return map[string]bool{mock.SourceName: true}
}

// Service is the single entry point consumers use for quotes. The pathway
// (real chain or synthetic) is chosen once at construction from the switch;
// flipping the switch later requires constructing a new Service.
type Service struct {
	src       PriceSource
	cache     *cache.Cache
	chain     *fallback.Chain
	synthetic bool
}

// New wires a facade. chain may be nil when the switch selects the
// synthetic pathway.
func New(sw *Switch, c *cache.Cache, chain *fallback.Chain) *Service {
	s := &Service{cache: c, chain: chain}
	if sw.UseReal() && chain != nil {
		s.src = chain
	} else {
		s.src = mockPath{}
		s.synthetic = true
	}
	return s
}

// Synthetic reports whether this facade serves generated data.
func (s *Service) Synthetic() bool { return s.synthetic }

// GetQuote returns the quote for one metal/currency pair, served from cache
// when fresh unless forceRefresh bypasses it. Successful fetches overwrite
// the cache entry. A failed fetch comes back as the failure itself: the
// facade never substitutes synthetic data for a dead provider.
func (s *Service) GetQuote(ctx context.Context, metalID, currencyCode string, forceRefresh bool) quote.Result {
	if currencyCode == "" {
		currencyCode = currency.Primary
	}
	// Synthetic quotes are never cached: each request draws fresh.
	if s.synthetic {
		return s.src.Fetch(ctx, metalID, currencyCode)
	}

	if !forceRefresh {
		if q, ok := s.cache.Get(metalID, currencyCode); ok {
			return quote.OK(q, CacheSource)
		}
	}

	res := s.src.Fetch(ctx, metalID, currencyCode)
	if res.Success {
		s.cache.Put(metalID, currencyCode, *res.Data)
	}
	return res
}

// GetAllQuotes returns a result per supported metal. It always delegates to
// the concurrent fetch-all, never the cache, and each success refreshes its
// cache entry individually for subsequent single-metal reads. The refresh
// flag is accepted for symmetry with GetQuote but is moot here.
func (s *Service) GetAllQuotes(ctx context.Context, currencyCode string, _ bool) map[string]quote.Result {
	if currencyCode == "" {
		currencyCode = currency.Primary
	}
	if s.synthetic {
		return s.src.FetchAll(ctx, currencyCode)
	}

	results := s.src.FetchAll(ctx, currencyCode)
	for id, res := range results {
		if res.Success {
			s.cache.Put(id, currencyCode, *res.Data)
		}
	}
	return results
}

// QuoteFromSource fetches from one named provider, bypassing both the
// fallback chain and the cache.
func (s *Service) QuoteFromSource(ctx context.Context, metalID, currencyCode, source string) quote.Result {
	if currencyCode == "" {
		currencyCode = currency.Primary
	}
	if s.synthetic {
		return s.src.Fetch(ctx, metalID, currencyCode)
	}

	var src provider.Source
	switch strings.ToUpper(source) {
	case "GOLD_API", "GOLDAPI":
		src = s.chain.Primary
	case "METALS_DEV", "METALS.DEV", "METALSDEV":
		src = s.chain.Secondary
	default:
		return quote.Fail("unsupported API source: "+source, source)
	}

	res, err := src.Fetch(ctx, metalID, currencyCode)
	if err != nil {
		return quote.Fail(err.Error(), src.Name())
	}
	return res
}

// CheckHealth probes the active sources.
func (s *Service) CheckHealth(ctx context.Context) map[string]bool {
	return s.src.Health(ctx)
}

// ClearCache invalidates cache entries with the same scoping rules as
// cache.Invalidate.
func (s *Service) ClearCache(metalID, currencyCode string) {
	s.cache.Invalidate(metalID, currencyCode)
}

func (s *Service) CacheStats() cache.Stats { return s.cache.Stats() }

func (s *Service) SetCacheTTL(d time.Duration) { s.cache.SetTTL(d) }

func (s *Service) CacheTTL() time.Duration { return s.cache.TTL() }

// SupportedMetals returns the per-provider symbol mapping per metal id.
func (s *Service) SupportedMetals() map[string]map[string]string { return metal.Symbols() }

func (s *Service) SupportedCurrencies() []string { return currency.Supported() }

func (s *Service) PrimaryCurrency() string { return currency.Primary }
