// Package config provides centralized runtime configuration for amalgamdb.
//
// All configuration values are loaded from environment variables with
// sensible defaults; there is no config file or CLI-flag tier, since
// amalgamdb runs embedded or as a single binary rather than a managed
// service with its own deployment tooling.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every tunable that amalgamdb's subsystems read at startup.
type Config struct {
	// Node Manager
	// ============

	// MaxNodes caps the number of live evaluable nodes a single entity's
	// Node Manager may hold before further allocation fails.
	// Environment: AMALGAM_MAX_NODES
	// Default: 10_000_000
	MaxNodes int

	// CollectInterval is the period for an unprompted mark-sweep Collect
	// pass over each entity's Node Manager. No package reads this field;
	// Manager.Collect runs only when a caller invokes it.
	// Environment: AMALGAM_COLLECT_INTERVAL (seconds)
	// Default: 30s
	CollectInterval time.Duration

	// Execution Constraints
	// =====================

	// MaxExecutionDuration is the default wall-clock budget applied to a
	// top-level evaluation when the caller does not supply its own
	// constraints.Constraints.
	// Environment: AMALGAM_MAX_EXECUTION_DURATION (seconds)
	// Default: 60s
	MaxExecutionDuration time.Duration

	// MaxExecutionSteps is the default opcode-evaluation step budget,
	// checked at opcode boundaries alongside MaxExecutionDuration.
	// Environment: AMALGAM_MAX_EXECUTION_STEPS
	// Default: 100_000_000
	MaxExecutionSteps int64

	// CollectWarnings turns on accumulation of non-fatal execution
	// warnings (e.g. malformed opcode arguments recovered with a default)
	// into constraints.Constraints' Warnings instead of discarding them.
	// Environment: AMALGAM_COLLECT_WARNINGS
	// Default: false
	CollectWarnings bool

	// Concurrency
	// ===========

	// WorkerPoolSize is the fixed ceiling on concurrently running opcode
	// subtree tasks, mirroring the runtime's "fixed ceiling" concurrency
	// model rather than one goroutine per fork point. No package reads
	// this field; store.BuildContainerWithBudget sizes its pool with
	// runtime.NumCPU().
	// Environment: AMALGAM_WORKER_POOL_SIZE
	// Default: 0
	WorkerPoolSize int

	// Distance Engine
	// ===============

	// DistanceAggregator names the generalized-mean rule for reducing
	// per-neighbour distance contributions (see distance.Aggregator):
	// "arithmetic", "geometric", "harmonic", or "probability". No package
	// reads this field; query conditions carry their own Aggregator.
	// Environment: AMALGAM_DISTANCE_AGGREGATOR
	// Default: "geometric"
	DistanceAggregator string

	// MinkowskiPValue is the default p exponent for Generalized distance
	// when a query does not specify its own.
	// Environment: AMALGAM_MINKOWSKI_P (0 selects the max-norm case)
	// Default: 2 (Euclidean)
	MinkowskiPValue float64

	// Storage
	// =======

	// DataPath is the root directory amalgamdb writes entity snapshots,
	// write-log segments, and string-pool snapshots under.
	// Environment: AMALGAM_DATA_PATH
	// Default: "./var"
	DataPath string

	// DefaultFormat selects the Loader used when a load/store operation
	// does not specify its own: "json", "yaml", "csv", or "binpack".
	// Environment: AMALGAM_DEFAULT_FORMAT
	// Default: "binpack"
	DefaultFormat string

	// Logging
	// =======

	// LogLevel is the minimum severity logx.Init configures: "trace",
	// "debug", "info", "warn", or "error".
	// Environment: AMALGAM_LOG_LEVEL
	// Default: "info"
	LogLevel string

	// LogJSON selects structured JSON log output over the human-readable
	// console writer.
	// Environment: AMALGAM_LOG_JSON
	// Default: false
	LogJSON bool
}

// Load builds a Config from environment variables, substituting documented
// defaults for anything unset or unparsable.
func Load() *Config {
	return &Config{
		MaxNodes:        getEnvInt("AMALGAM_MAX_NODES", 10_000_000),
		CollectInterval: getEnvDuration("AMALGAM_COLLECT_INTERVAL", 30),

		MaxExecutionDuration: getEnvDuration("AMALGAM_MAX_EXECUTION_DURATION", 60),
		MaxExecutionSteps:    getEnvInt64("AMALGAM_MAX_EXECUTION_STEPS", 100_000_000),
		CollectWarnings:      getEnvBool("AMALGAM_COLLECT_WARNINGS", false),

		WorkerPoolSize: getEnvInt("AMALGAM_WORKER_POOL_SIZE", 0),

		DistanceAggregator: getEnv("AMALGAM_DISTANCE_AGGREGATOR", "geometric"),
		MinkowskiPValue:    getEnvFloat("AMALGAM_MINKOWSKI_P", 2),

		DataPath:      getEnv("AMALGAM_DATA_PATH", "./var"),
		DefaultFormat: getEnv("AMALGAM_DEFAULT_FORMAT", "binpack"),

		LogLevel: getEnv("AMALGAM_LOG_LEVEL", "info"),
		LogJSON:  getEnvBool("AMALGAM_LOG_JSON", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		v := strings.ToLower(strings.TrimSpace(value))
		return v == "true" || v == "1"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultSeconds int) time.Duration {
	seconds := getEnvInt(key, defaultSeconds)
	return time.Duration(seconds) * time.Second
}
