// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file/env.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Default worker multiplier over runtime.NumCPU.
const defaultWorkerMultiplier = 4

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// EventQueueSize bounds the in-memory progress event queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of classification workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the progress store.
	ShardCount int `koanf:"shard_count"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// EnergyPointsBaseline is the point total that alone fills the energy
	// meter.
	EnergyPointsBaseline float64 `koanf:"energy_points_baseline"`

	// EnergyStarBonus is the energy fill fraction added per star rating.
	EnergyStarBonus float64 `koanf:"energy_star_bonus"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		EventQueueSize:       50_000,
		WorkerCount:          runtime.NumCPU() * defaultWorkerMultiplier,
		DedupeSize:           100_000,
		ShardCount:           8,
		MaxLeaderboardLimit:  100,
		EnergyPointsBaseline: 50,
		EnergyStarBonus:      0.1,
	}
}
