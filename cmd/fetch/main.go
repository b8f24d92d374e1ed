package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"metalprices/internal/cache"
	"metalprices/internal/config"
	"metalprices/internal/currency"
	"metalprices/internal/fallback"
	"metalprices/internal/httpx"
	"metalprices/internal/metal"
	"metalprices/internal/provider/goldapi"
	"metalprices/internal/provider/metalsdev"
	"metalprices/internal/quote"
	"metalprices/internal/service"
)

func main() {
	var metalsCSV string
	var currencyCode string
	var source string
	var refresh bool
	var health bool
	var asJSON bool
	var configPath string

	flag.StringVar(&metalsCSV, "metals", getenv("METALS", "all"), "comma-separated metal ids, or 'all'")
	flag.StringVar(&currencyCode, "currency", getenv("CURRENCY", currency.Primary), "currency code")
	flag.StringVar(&source, "source", "", "pin to one source (gold_api or metals_dev) instead of the fallback chain")
	flag.BoolVar(&refresh, "refresh", false, "bypass the quote cache")
	flag.BoolVar(&health, "health", false, "probe source health and exit")
	flag.BoolVar(&asJSON, "json", false, "print raw JSON instead of formatted lines")
	flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if !currency.IsValid(currencyCode) {
		log.Fatalf("unsupported currency %q (supported: %s)", currencyCode, strings.Join(currency.Supported(), ", "))
	}
	currencyCode = strings.ToUpper(currencyCode)

	httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
	primary := goldapi.New(
		cfg.GoldAPI.AccessToken,
		goldapi.WithBaseURL(cfg.GoldAPI.Endpoint),
		goldapi.WithHTTPClient(httpClient.HTTP),
	)
	secondary := metalsdev.New(metalsdev.Config{
		BaseURL: cfg.MetalsDev.Endpoint,
		APIKey:  cfg.MetalsDev.APIKey,
	}, httpClient)

	sw := service.NewSwitch(cfg.Service.UseAPI, service.ParseMode(cfg.Service.Mode))
	svc := service.New(sw, cache.New(), fallback.New(primary, secondary))
	if svc.Synthetic() {
		log.Println("serving synthetic data")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.RequestTimeoutSec+5)*time.Second)
	defer cancel()

	if health {
		for name, up := range svc.CheckHealth(ctx) {
			state := "up"
			if !up {
				state = "down"
			}
			fmt.Printf("%s: %s\n", name, state)
		}
		return
	}

	ids := metal.IDs()
	if metalsCSV != "" && metalsCSV != "all" {
		ids = splitCSV(metalsCSV)
		for _, id := range ids {
			if !metal.Supported(id) {
				log.Fatalf("unsupported metal %q (supported: %s)", id, strings.Join(metal.IDs(), ", "))
			}
		}
	}
	if len(ids) == 0 {
		log.Fatal("no metals requested")
	}

	results := make(map[string]quote.Result, len(ids))
	for _, id := range ids {
		if source != "" {
			results[id] = svc.QuoteFromSource(ctx, id, currencyCode, source)
		} else {
			results[id] = svc.GetQuote(ctx, id, currencyCode, refresh)
		}
	}

	if asJSON {
		b, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(b))
		return
	}

	failed := 0
	for _, id := range ids {
		res := results[id]
		if !res.Success {
			failed++
			fmt.Printf("%-10s error: %s (source: %s)\n", id, res.Err, res.Source)
			continue
		}
		q := res.Data
		line := fmt.Sprintf("%-10s %s  %+.2f (%+.2f%%)  %s  [%s]",
			id, currency.FormatPrice(q.Price, currencyCode, true),
			q.Change, q.ChangePercent, q.Unit, res.Source)
		if !currency.IsPrimary(currencyCode) {
			// Rough home-currency figure from the static rate table, not a
			// second market quote.
			approx := currency.Convert(q.Price, currencyCode, currency.Primary)
			line += "  ~" + currency.FormatRupee(approx, true)
		}
		fmt.Println(line)
	}
	if failed == len(ids) {
		os.Exit(1)
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
