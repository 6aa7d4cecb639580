// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries every externally tunable setting.
type Config struct {
	// GithubToken authenticates GitHub API calls. Empty means the low
	// unauthenticated quota.
	GithubToken string

	// NearblocksAPIKey selects the paid NearBlocks tier. Empty means the
	// free tier and its tighter rate limit.
	NearblocksAPIKey string

	// Base URL overrides, used by tests and self-hosted mirrors.
	GithubBaseURL     string
	NearblocksBaseURL string

	// NearPriceUSD converts NEAR volume to USD for scoring.
	NearPriceUSD float64

	// RateLimitPerMinute overrides the NearBlocks limiter. Zero picks the
	// tier default.
	RateLimitPerMinute int
}

const defaultNearPriceUSD = 5.0

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present; real environment
// variables win over file entries.
func Load() (*Config, error) {
	// Missing .env is the common case outside development.
	_ = godotenv.Load()

	cfg := &Config{
		GithubToken:       os.Getenv("GITHUB_TOKEN"),
		NearblocksAPIKey:  os.Getenv("NEARBLOCKS_API_KEY"),
		GithubBaseURL:     os.Getenv("GITHUB_API_URL"),
		NearblocksBaseURL: os.Getenv("NEARBLOCKS_API_URL"),
		NearPriceUSD:      defaultNearPriceUSD,
	}

	if raw := os.Getenv("NEAR_PRICE_USD"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price <= 0 {
			return nil, fmt.Errorf("invalid NEAR_PRICE_USD %q", raw)
		}
		cfg.NearPriceUSD = price
	}
	if raw := os.Getenv("RATE_LIMIT_PER_MINUTE"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE %q", raw)
		}
		cfg.RateLimitPerMinute = limit
	}

	return cfg, nil
}
