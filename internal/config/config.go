// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load() layers defaults, an optional YAML file and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// UserCount sets the size of the generated population.
	UserCount int `koanf:"user_count"`

	// SeedWorkers bounds the concurrency of population generation.
	SeedWorkers int `koanf:"seed_workers"`

	// MinScore and MaxScore are the inclusive clamp bounds for scores.
	MinScore int `koanf:"min_score"`
	MaxScore int `koanf:"max_score"`

	// RebuildThreshold is how many pending mutations a stale-tolerant
	// read accepts before forcing a rank index rebuild.
	RebuildThreshold int `koanf:"rebuild_threshold"`

	// CacheTTLMS is the page cache time-to-live in milliseconds.
	CacheTTLMS int `koanf:"cache_ttl_ms"`

	// DefaultPageSize and MaxPageSize bound listing pagination.
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`

	// SearchMinPrefix is the minimum query length for prefix search.
	SearchMinPrefix int `koanf:"search_min_prefix"`

	// SearchResultCap bounds how many matches one search collects.
	SearchResultCap int `koanf:"search_result_cap"`

	// AutoMutate enables the background mutation driver.
	AutoMutate bool `koanf:"auto_mutate"`

	// MutateMaxBatch caps the number of users touched per mutation batch.
	MutateMaxBatch int `koanf:"mutate_max_batch"`

	// MutateMaxDelta bounds the magnitude of a single score change.
	MutateMaxDelta int `koanf:"mutate_max_delta"`

	// MutateMinIntervalMS and MutateMaxIntervalMS bound the random
	// pause between driver batches.
	MutateMinIntervalMS int `koanf:"mutate_min_interval_ms"`
	MutateMaxIntervalMS int `koanf:"mutate_max_interval_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		UserCount:           20_000,
		SeedWorkers:         runtime.NumCPU(),
		MinScore:            100,
		MaxScore:            5000,
		RebuildThreshold:    50,
		CacheTTLMS:          1000,
		DefaultPageSize:     45,
		MaxPageSize:         100,
		SearchMinPrefix:     2,
		SearchResultCap:     1000,
		AutoMutate:          true,
		MutateMaxBatch:      200,
		MutateMaxDelta:      200,
		MutateMinIntervalMS: 1000,
		MutateMaxIntervalMS: 10_000,
	}
}
