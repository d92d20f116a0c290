package main

import (
	"fmt"
	"math/rand"
	"strconv"

	"amalgamdb/internal/column"
	"amalgamdb/internal/query"
	"amalgamdb/internal/store"
	"amalgamdb/internal/stringpool"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/spf13/cobra"
)

var (
	queryLabel string
	queryOp    string
	queryValue string
	queryLow   float64
	queryHigh  float64
	queryQuantile float64
)

var queryCmd = &cobra.Command{
	Use:   "query <entry-point-file>",
	Short: "Load a file and evaluate a single condition against it",
	Long: `query loads an entry-point file into a container entity and runs one
condition (chosen with --op) against the column indexed under --label,
printing the resulting entity count or aggregate scalar.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(args[0])
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryLabel, "label", "", "label to condition on (required)")
	queryCmd.Flags().StringVar(&queryOp, "op", "exists",
		"condition kind: exists, equals, between, max, min, sum, mode, quantile, count")
	queryCmd.Flags().StringVar(&queryValue, "value", "", "comparison value for equals")
	queryCmd.Flags().Float64Var(&queryLow, "low", 0, "lower bound for between")
	queryCmd.Flags().Float64Var(&queryHigh, "high", 0, "upper bound for between")
	queryCmd.Flags().Float64Var(&queryQuantile, "quantile", 0.5, "fraction for quantile")
	queryCmd.MarkFlagRequired("label")
	rootCmd.AddCommand(queryCmd)
}

func conditionFor(label stringpool.ID, pool *stringpool.Pool) (query.Condition, error) {
	cond := query.Condition{Label: label}
	switch queryOp {
	case "exists":
		cond.Kind = query.KindExists
	case "equals":
		if f, err := strconv.ParseFloat(queryValue, 64); err == nil {
			cond.Kind = query.KindEquals
			cond.Value = column.Value{Type: column.ValueNumber, Number: f}
		} else {
			cond.Kind = query.KindEquals
			cond.Value = column.Value{Type: column.ValueString, String: pool.Intern(queryValue)}
		}
	case "between":
		cond.Kind = query.KindBetween
		cond.Low, cond.High = queryLow, queryHigh
	case "max":
		cond.Kind = query.KindMax
	case "min":
		cond.Kind = query.KindMin
	case "sum":
		cond.Kind = query.KindSum
	case "mode":
		cond.Kind = query.KindMode
	case "quantile":
		cond.Kind = query.KindQuantile
		cond.Quantile = queryQuantile
	case "count":
		cond.Kind = query.KindCount
	default:
		return cond, fmt.Errorf("unknown --op %q", queryOp)
	}
	return cond, nil
}

func runQuery(path string) error {
	log := logForSession()

	records, err := loadRecords(path)
	if err != nil {
		return err
	}

	pool := stringpool.New()
	container, err := store.BuildContainerWithBudget(pool, records, budgetFromConfig())
	if err != nil {
		return fmt.Errorf("build container: %w", err)
	}
	log.Info().Int("entities", container.NumChildren()).Msg("container built")

	label, ok := pool.Lookup(queryLabel)
	if !ok {
		return fmt.Errorf("label %q not present in %s", queryLabel, path)
	}

	cond, err := conditionFor(label, pool)
	if err != nil {
		return err
	}

	universe := roaring.New()
	universe.AddRange(0, uint64(container.NumChildren()))

	exec := query.New(container.QueryCache(), rand.New(rand.NewSource(1)), nil)
	result, err := exec.Execute(universe, []query.Condition{cond})
	if err != nil {
		return fmt.Errorf("execute query: %w", err)
	}

	switch {
	case result.AggregateOK || queryOp == "max" || queryOp == "min" || queryOp == "sum" ||
		queryOp == "mode" || queryOp == "quantile":
		fmt.Printf("%v\n", result.Aggregate)
	case queryOp == "count":
		fmt.Printf("%d\n", result.Count)
	default:
		fmt.Printf("%d matching entities: %v\n", len(result.Indices), result.Indices)
	}
	return nil
}
