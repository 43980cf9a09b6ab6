// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration loaded from environment variables.
// The GitHub token may also arrive via the CLI flag, which takes precedence;
// the environment is only the fallback.
type Config struct {
	GitHubToken    string
	APIURL         string
	PoolSize       int
	AcquireTimeout time.Duration
}

// Load reads configuration from environment variables and returns a validated Config.
// GITHUB_TOKEN is optional here because the CLI flag can supply it instead.
// Optional variables with defaults: PRPULSE_POOL_SIZE (100),
// PRPULSE_ACQUIRE_TIMEOUT (30s), PRPULSE_API_URL (api.github.com).
func Load() (*Config, error) {
	token := os.Getenv("GITHUB_TOKEN")
	apiURL := os.Getenv("PRPULSE_API_URL")

	// A pool of 100 connections keeps us under GitHub's abuse-detection
	// heuristics; larger pools tend to get individual requests rejected, and
	// any rejected sub-fetch discards its whole pull request from the sample.
	// https://docs.github.com/en/rest/guides/best-practices-for-integrators#dealing-with-abuse-rate-limits
	poolSize := 100
	if v, ok := os.LookupEnv("PRPULSE_POOL_SIZE"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("PRPULSE_POOL_SIZE has invalid integer %q: %w", v, err)
		}
		if parsed < 1 {
			return nil, fmt.Errorf("PRPULSE_POOL_SIZE must be at least 1, got %d", parsed)
		}
		poolSize = parsed
	}

	acquireTimeout := 30 * time.Second
	if v, ok := os.LookupEnv("PRPULSE_ACQUIRE_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("PRPULSE_ACQUIRE_TIMEOUT has invalid duration %q: %w", v, err)
		}
		acquireTimeout = parsed
	}

	return &Config{
		GitHubToken:    token,
		APIURL:         apiURL,
		PoolSize:       poolSize,
		AcquireTimeout: acquireTimeout,
	}, nil
}
