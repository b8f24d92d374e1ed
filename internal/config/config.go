package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

type Server struct {
	Port              string `json:"port"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type GoldAPI struct {
	Endpoint              string `json:"endpoint"`
	AccessToken           string `json:"access_token"`
	MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
	MinRequestIntervalSec int    `json:"min_request_interval_sec"`
	Burst                 int    `json:"burst"`
}

type MetalsDev struct {
	Endpoint              string `json:"endpoint"`
	APIKey                string `json:"api_key"`
	MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
	MinRequestIntervalSec int    `json:"min_request_interval_sec"`
	Burst                 int    `json:"burst"`
}

type Service struct {
	// UseAPI is the master kill-switch: false serves synthetic data only,
	// regardless of Mode.
	UseAPI bool `json:"use_api"`
	// Mode selects the source set: production, mock or test.
	Mode        string `json:"mode"`
	CacheTTLSec int    `json:"cache_ttl_sec"`
}

type Config struct {
	Server    Server    `json:"server"`
	GoldAPI   GoldAPI   `json:"goldapi"`
	MetalsDev MetalsDev `json:"metalsdev"`
	Service   Service   `json:"service"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 10},
		GoldAPI: GoldAPI{
			Endpoint: "https://www.goldapi.io/api",
		},
		MetalsDev: MetalsDev{
			Endpoint: "https://api.metals.dev/v1",
		},
		Service: Service{
			UseAPI:      true,
			Mode:        "production",
			CacheTTLSec: 300,
		},
	}
}

// Load reads JSON config from path. If path is empty or the file does not
// exist, it returns defaults. Environment variables override select fields
// for secrecy.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if x := envInt("REQUEST_TIMEOUT_SEC"); x > 0 {
		cfg.Server.RequestTimeoutSec = x
	}

	if v := os.Getenv("GOLDAPI_ACCESS_TOKEN"); v != "" {
		cfg.GoldAPI.AccessToken = v
	}
	if v := os.Getenv("GOLDAPI_ENDPOINT"); v != "" {
		cfg.GoldAPI.Endpoint = v
	}
	if x := envInt("GOLDAPI_MAX_RPM"); x > 0 {
		cfg.GoldAPI.MaxRequestsPerMinute = x
	}
	if x := envInt("GOLDAPI_MIN_INTERVAL_SEC"); x > 0 {
		cfg.GoldAPI.MinRequestIntervalSec = x
	}
	if x := envInt("GOLDAPI_BURST"); x > 0 {
		cfg.GoldAPI.Burst = x
	}

	if v := os.Getenv("METALSDEV_API_KEY"); v != "" {
		cfg.MetalsDev.APIKey = v
	}
	if v := os.Getenv("METALSDEV_ENDPOINT"); v != "" {
		cfg.MetalsDev.Endpoint = v
	}
	if x := envInt("METALSDEV_MAX_RPM"); x > 0 {
		cfg.MetalsDev.MaxRequestsPerMinute = x
	}
	if x := envInt("METALSDEV_MIN_INTERVAL_SEC"); x > 0 {
		cfg.MetalsDev.MinRequestIntervalSec = x
	}
	if x := envInt("METALSDEV_BURST"); x > 0 {
		cfg.MetalsDev.Burst = x
	}

	if v := os.Getenv("USE_API"); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "y":
			cfg.Service.UseAPI = true
		case "0", "false", "no", "n":
			cfg.Service.UseAPI = false
		}
	}
	if v := os.Getenv("SERVICE_MODE"); v != "" {
		cfg.Service.Mode = strings.ToLower(v)
	}
	if x := envInt("CACHE_TTL_SEC"); x > 0 {
		cfg.Service.CacheTTLSec = x
	}
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	var x int
	fmt.Sscanf(v, "%d", &x)
	return x
}
