package main

import (
	"testing"

	"amalgamdb/internal/config"

	"github.com/stretchr/testify/require"
)

func TestResolveFormatPrefersExplicitFlag(t *testing.T) {
	cfg = &config.Config{DefaultFormat: "binpack"}
	inputFormat = "csv"
	defer func() { inputFormat = "" }()

	require.Equal(t, "csv", resolveFormat("data.json"))
}

func TestResolveFormatFallsBackToExtension(t *testing.T) {
	cfg = &config.Config{DefaultFormat: "binpack"}
	inputFormat = ""

	require.Equal(t, "json", resolveFormat("data.json"))
	require.Equal(t, "yaml", resolveFormat("data.yml"))
	require.Equal(t, "binpack", resolveFormat("data.bin"))
}
