package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	DatabaseURL      string
	Port             string
	BindAddrs        string
	PushoverAppToken string
	PushoverUserKey  string

	// Workers caps the number of goroutines the branch-and-bound
	// enumerator runs concurrently per solve.
	Workers int
	// LLLDeltaNum/LLLDeltaDen together form the δ quality parameter
	// the LLL reducer runs with, as a rational Num/Den (defaults to
	// the conventional 99/100).
	LLLDeltaNum int64
	LLLDeltaDen int64
}

// Load reads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		Port:             os.Getenv("PORT"),
		BindAddrs:        os.Getenv("BIND_ADDRS"),
		PushoverAppToken: os.Getenv("PUSHOVER_APP_TOKEN"),
		PushoverUserKey:  os.Getenv("PUSHOVER_USER_KEY"),
		Workers:          envInt("SOLVE_WORKERS", 8),
		LLLDeltaNum:      envInt64("LLL_DELTA_NUM", 99),
		LLLDeltaDen:      envInt64("LLL_DELTA_DEN", 100),
	}

	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	if cfg.BindAddrs == "" {
		cfg.BindAddrs = "0.0.0.0"
	}

	return cfg
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
