package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"metalprices/internal/currency"
	"metalprices/internal/metal"
	"metalprices/internal/quote"
	"metalprices/internal/service"
)

type api struct {
	svc *service.Service
}

func newAPI(svc *service.Service) *api { return &api{svc: svc} }

func (a *api) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/price", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		a.handlePrice(w, r)
	})
	mux.HandleFunc("/api/prices", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		a.handlePrices(w, r)
	})
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, a.svc.CheckHealth(r.Context()))
	})
	mux.HandleFunc("/api/cache", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, a.svc.CacheStats())
		case http.MethodDelete:
			a.handleCacheClear(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/meta", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		a.handleMeta(w)
	})
	return mux
}

// priceResponse is a provider result plus UI-ready formatting of the price
// in the requested currency.
type priceResponse struct {
	quote.Result
	Display *displayInfo `json:"display,omitempty"`
}

type displayInfo struct {
	currency.Parts
	Compact string `json:"compact"`
}

func display(q *quote.Quote, currencyCode string) *displayInfo {
	if q == nil {
		return nil
	}
	return &displayInfo{
		Parts:   currency.FormatForUI(q.Price, currencyCode),
		Compact: currency.FormatLargeAmount(q.Price, currencyCode),
	}
}

func (a *api) handlePrice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	metalID := strings.ToLower(strings.TrimSpace(q.Get("metal")))
	if metalID == "" {
		http.Error(w, "missing metal query param", http.StatusBadRequest)
		return
	}
	if !metal.Supported(metalID) {
		http.Error(w, "unsupported metal: "+metalID, http.StatusBadRequest)
		return
	}
	currencyCode, ok := currencyParam(q.Get("currency"))
	if !ok {
		http.Error(w, "unsupported currency: "+q.Get("currency"), http.StatusBadRequest)
		return
	}

	var res quote.Result
	if source := q.Get("source"); source != "" {
		res = a.svc.QuoteFromSource(r.Context(), metalID, currencyCode, source)
	} else {
		res = a.svc.GetQuote(r.Context(), metalID, currencyCode, boolParam(q.Get("refresh")))
	}
	writeJSON(w, statusFor(res), priceResponse{Result: res, Display: display(res.Data, currencyCode)})
}

func (a *api) handlePrices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	currencyCode, ok := currencyParam(q.Get("currency"))
	if !ok {
		http.Error(w, "unsupported currency: "+q.Get("currency"), http.StatusBadRequest)
		return
	}
	results := a.svc.GetAllQuotes(r.Context(), currencyCode, boolParam(q.Get("refresh")))
	out := make(map[string]priceResponse, len(results))
	for id, res := range results {
		out[id] = priceResponse{Result: res, Display: display(res.Data, currencyCode)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a.svc.ClearCache(strings.ToLower(q.Get("metal")), strings.ToUpper(q.Get("currency")))
	writeJSON(w, http.StatusOK, map[string]any{
		"cleared": true,
		"stats":   a.svc.CacheStats(),
	})
}

func (a *api) handleMeta(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{
		"metals":          a.svc.SupportedMetals(),
		"currencies":      a.svc.SupportedCurrencies(),
		"primaryCurrency": a.svc.PrimaryCurrency(),
		"cacheTtlSec":     int(a.svc.CacheTTL().Seconds()),
		"synthetic":       a.svc.Synthetic(),
	})
}

// statusFor maps a provider result to an HTTP status: throttled results
// surface as 429, other failures as 502.
func statusFor(res quote.Result) int {
	switch {
	case res.Success:
		return http.StatusOK
	case res.RateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

// currencyParam normalizes and validates the currency query value, defaulting
// to the primary currency when absent.
func currencyParam(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return currency.Primary, true
	}
	v = strings.ToUpper(v)
	return v, currency.IsValid(v)
}

func boolParam(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
