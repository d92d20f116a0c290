package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, "geometric", cfg.DistanceAggregator)
	require.Equal(t, 2.0, cfg.MinkowskiPValue)
	require.Equal(t, "binpack", cfg.DefaultFormat)
	require.Equal(t, 60*time.Second, cfg.MaxExecutionDuration)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	os.Setenv("AMALGAM_DISTANCE_AGGREGATOR", "harmonic")
	os.Setenv("AMALGAM_MAX_NODES", "42")
	defer os.Unsetenv("AMALGAM_DISTANCE_AGGREGATOR")
	defer os.Unsetenv("AMALGAM_MAX_NODES")

	cfg := Load()
	require.Equal(t, "harmonic", cfg.DistanceAggregator)
	require.Equal(t, 42, cfg.MaxNodes)
}
