// Command amalgam is amalgamdb's CLI entry point: load an entry-point
// file through one of internal/format's Loaders, build it into a
// container Entity, and run ad-hoc conditions against it through
// internal/query - grounded on hivectl's cmd/hivectl root/subcommand
// split (one file per subcommand, global flags on a package-level
// rootCmd) rather than the teacher's HTTP-server main.go, since
// amalgamdb's external interface is a CLI, not a REST API.
package main

import (
	"fmt"
	"os"

	"amalgamdb/internal/config"
	"amalgamdb/internal/logx"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	debugSources   bool
	warnOnUndefined bool
	inputFormat    string

	cfg       *config.Config
	sessionID string
)

var rootCmd = &cobra.Command{
	Use:   "amalgam",
	Short: "Load and query amalgamdb entity containers",
	Long: `amalgam is the command-line front end for amalgamdb: a homoiconic
symbolic-language interpreter and entity store. It loads an entry-point
file through one of the json/yaml/csv/binpack Loaders, builds it into a
container entity with column-indexed fields, and evaluates query
condition chains against it.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logx.Init(logx.Config{Level: logx.Level(cfg.LogLevel), JSONOutput: cfg.LogJSON})
		sessionID = uuid.NewString()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugSources, "debug-sources", false,
		"annotate parsed nodes with source locations (accepted; no command reads it)")
	rootCmd.PersistentFlags().BoolVar(&warnOnUndefined, "warn-on-undefined", false,
		"warn when a symbol lookup fails instead of silently yielding null (accepted; no command reads it)")
	rootCmd.PersistentFlags().StringVar(&inputFormat, "format", "",
		"input format (json, yaml, csv, binpack); inferred from the file extension, then the config default, if unset")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	execute()
}

func logForSession() zerolog.Logger {
	return logx.WithSession(sessionID)
}
