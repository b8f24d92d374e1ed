package main

import (
	"compress/gzip"
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"metalprices/internal/cache"
	"metalprices/internal/config"
	"metalprices/internal/fallback"
	"metalprices/internal/httpx"
	"metalprices/internal/provider"
	"metalprices/internal/provider/goldapi"
	"metalprices/internal/provider/metalsdev"
	"metalprices/internal/provider/ratelimit"
	"metalprices/internal/service"
)

func main() {
	cfgPath := os.Getenv("CONFIG_FILE")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	sw := service.NewSwitch(cfg.Service.UseAPI, service.ParseMode(cfg.Service.Mode))
	if sw.UseReal() && cfg.GoldAPI.AccessToken == "" {
		log.Println("warning: GOLDAPI_ACCESS_TOKEN not set; GoldAPI requests will be rejected upstream")
	}

	httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)

	primary := throttled(goldapi.New(
		cfg.GoldAPI.AccessToken,
		goldapi.WithBaseURL(cfg.GoldAPI.Endpoint),
		goldapi.WithHTTPClient(httpClient.HTTP),
	), cfg.GoldAPI.MaxRequestsPerMinute, cfg.GoldAPI.Burst, cfg.GoldAPI.MinRequestIntervalSec)

	secondary := throttled(metalsdev.New(metalsdev.Config{
		BaseURL: cfg.MetalsDev.Endpoint,
		APIKey:  cfg.MetalsDev.APIKey,
	}, httpClient), cfg.MetalsDev.MaxRequestsPerMinute, cfg.MetalsDev.Burst, cfg.MetalsDev.MinRequestIntervalSec)

	quoteCache := cache.New()
	if cfg.Service.CacheTTLSec > 0 {
		quoteCache.SetTTL(time.Duration(cfg.Service.CacheTTLSec) * time.Second)
	}

	svc := service.New(sw, quoteCache, fallback.New(primary, secondary))
	if svc.Synthetic() {
		log.Printf("serving synthetic data (use_api=%v mode=%s)", cfg.Service.UseAPI, cfg.Service.Mode)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           withJSONHeaders(withGzip(recoverPanic(newAPI(svc).routes()))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// throttled wraps src with a token bucket when an RPM budget is set, or a
// minimum-interval gate when only an interval is set.
func throttled(src provider.Source, rpm, burst, minIntervalSec int) provider.Source {
	if rpm > 0 {
		if burst <= 0 {
			burst = 1
		}
		return &ratelimit.TokenBucketSource{S: src, TB: ratelimit.NewTokenBucket(float64(rpm)/60.0, burst)}
	}
	if minIntervalSec > 0 {
		return &ratelimit.MinInterval{S: src, Interval: time.Duration(minIntervalSec) * time.Second}
	}
	return src
}

func withJSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		// Basic CORS for browser usage; adjust as needed.
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withGzip compresses response when client supports gzip.
func withGzip(next http.Handler) http.Handler {
	var gzPool = sync.Pool{New: func() any {
		// Prefer best speed to reduce CPU usage since payloads are JSON
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
		return w
	}}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}
		gz := gzPool.Get().(*gzip.Writer)
		gz.Reset(w)
		defer func() {
			_ = gz.Close()
			gz.Reset(io.Discard)
			gzPool.Put(gz)
		}()
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		gw := gzipResponseWriter{ResponseWriter: w, Writer: gz}
		next.ServeHTTP(gw, r)
	})
}

type gzipResponseWriter struct {
	http.ResponseWriter
	Writer io.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) {
	return g.Writer.Write(b)
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
