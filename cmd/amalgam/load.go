package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"amalgamdb/internal/constraints"
	"amalgamdb/internal/format"
	"amalgamdb/internal/store"
	"amalgamdb/internal/stringpool"

	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load <entry-point-file>",
	Short: "Load a file and report the container it builds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoad(args[0])
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

// resolveFormat picks the Loader name for path: the explicit --format flag
// if set, else the file extension, else the configured default.
func resolveFormat(path string) string {
	if inputFormat != "" {
		return inputFormat
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".csv":
		return "csv"
	}
	return cfg.DefaultFormat
}

func loadRecords(path string) ([]format.Record, error) {
	name := resolveFormat(path)
	loader, ok := format.ByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown format %q", name)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := loader.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s as %s: %w", path, name, err)
	}
	return records, nil
}

// budgetFromConfig builds the per-build node/step/duration budget cmd/amalgam
// threads into internal/store from the resolved internal/config.Config.
func budgetFromConfig() *constraints.Constraints {
	return constraints.New(int64(cfg.MaxNodes), cfg.MaxExecutionSteps, cfg.MaxExecutionDuration, cfg.CollectWarnings)
}

func runLoad(path string) error {
	log := logForSession()

	records, err := loadRecords(path)
	if err != nil {
		return err
	}
	log.Info().Int("records", len(records)).Str("file", path).Msg("loaded records")

	pool := stringpool.New()
	container, err := store.BuildContainerWithBudget(pool, records, budgetFromConfig())
	if err != nil {
		return fmt.Errorf("build container: %w", err)
	}

	fmt.Printf("entities: %d\n", container.NumChildren())
	for _, label := range container.QueryCache().Labels() {
		col, ok := container.QueryCache().Column(label)
		if !ok {
			continue
		}
		fmt.Printf("  %s: %d unique strings\n", pool.Get(label), col.NumUniqueStrings())
	}
	return nil
}
