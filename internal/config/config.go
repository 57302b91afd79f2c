package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Outbound HTTP client timeout for collaborator calls.
	HTTPTimeout time.Duration

	// GoogleGeocoderAPIKey enables the fallback geocoder when set.
	GoogleGeocoderAPIKey string

	// VegetationAPIURL points at an optional vegetation index provider;
	// empty means synthetic indices.
	VegetationAPIURL string

	// WarmInterval controls how often the scheduler recomputes moisture
	// snapshots for the warm places.
	WarmInterval time.Duration

	// WarmPlaces are place names whose snapshots are kept warm.
	WarmPlaces []string

	// Moisture/place cache retention.
	CacheTTL        time.Duration
	CacheMaxEntries int

	// RandomSeed makes generation reproducible when non-zero.
	RandomSeed int64

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.GoogleGeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")
	cfg.VegetationAPIURL = os.Getenv("VEGETATION_API_URL")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	// Warm interval: default 30 minutes.
	intervalStr := getenvDefault("WARM_INTERVAL", "30m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid WARM_INTERVAL: %w", err)
	}
	cfg.WarmInterval = interval

	cfg.WarmPlaces = splitList(os.Getenv("WARM_PLACES"))

	ttlStr := getenvDefault("CACHE_TTL", "10m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl
	cfg.CacheMaxEntries = getenvInt("CACHE_MAX_ENTRIES", 256)

	cfg.RandomSeed = int64(getenvInt("RANDOM_SEED", 0))
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
