package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arbordata/arbor/pkg/compute"
	"github.com/arbordata/arbor/pkg/config"
	"github.com/arbordata/arbor/pkg/ingest"
	arborjson "github.com/arbordata/arbor/pkg/json"
	"github.com/arbordata/arbor/pkg/logger"
	"github.com/arbordata/arbor/pkg/table"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	var configFile string
	cfg := config.Default()

	root := &cobra.Command{
		Use:   "arbor",
		Short: "Arbor - in-memory columnar table engine",
		Long: `Arbor is an in-memory columnar table engine over Apache Arrow memory.
It ingests CSV files and applies projection, filtering, sorting, scalar
arithmetic, and group-by aggregation, emitting results as JSON lines.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				loaded, err := config.Load(configFile)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			return logger.Init(logger.Config{
				Level:       cfg.Log.Level,
				Development: cfg.Log.Development,
				Encoding:    cfg.Log.Encoding,
			})
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to YAML config file")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Arbor v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	describeCmd := &cobra.Command{
		Use:   "describe <file.csv>",
		Short: "Show the inferred schema and row count of a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ingest.ReadCSV(args[0], cfg.CSV)
			if err != nil {
				return err
			}
			defer t.Release()

			fmt.Printf("rows: %d\n", t.NumRows())
			for i := 0; i < t.Schema().NumFields(); i++ {
				f := t.Schema().Field(i)
				fmt.Printf("  %s: %s\n", f.Name, f.Type)
			}
			return nil
		},
	}
	root.AddCommand(describeCmd)

	var selectCols []string
	var sortBy string
	var desc bool
	var groupBy []string
	var sumCol, meanCol string
	var count bool

	aggCmd := &cobra.Command{
		Use:   "agg <file.csv>",
		Short: "Group a CSV by key columns and aggregate",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return cmd.Usage()
			}
			t, err := ingest.ReadCSV(args[0], cfg.CSV)
			if err != nil {
				return err
			}
			defer func() { t.Release() }()

			if len(selectCols) > 0 {
				projected, err := compute.Project(t, selectCols...)
				if err != nil {
					return err
				}
				t.Release()
				t = projected
			}

			grouping, err := compute.GroupBy(t, groupBy...)
			if err != nil {
				return err
			}
			defer grouping.Release()

			var result *table.Table
			switch {
			case sumCol != "":
				result, err = grouping.Sum(sumCol)
			case meanCol != "":
				result, err = grouping.Mean(meanCol)
			case count:
				result, err = grouping.Count()
			default:
				result, err = grouping.Count()
			}
			if err != nil {
				return err
			}
			defer func() { result.Release() }()

			if sortBy != "" {
				sorted, err := compute.Sort(result, sortBy, !desc)
				if err != nil {
					return err
				}
				result.Release()
				result = sorted
			}

			logger.Info("aggregation complete",
				zap.Int("groups", grouping.NumGroups()),
				zap.Strings("keys", grouping.KeyNames()))
			return writeRows(result)
		},
	}
	aggCmd.Flags().StringSliceVar(&selectCols, "select", nil, "columns to project before grouping")
	aggCmd.Flags().StringSliceVar(&groupBy, "group-by", nil, "key columns to group by")
	aggCmd.Flags().StringVar(&sumCol, "sum", "", "column to sum per group")
	aggCmd.Flags().StringVar(&meanCol, "mean", "", "column to average per group")
	aggCmd.Flags().BoolVar(&count, "count", false, "count rows per group")
	aggCmd.Flags().StringVar(&sortBy, "sort-by", "", "column to sort the result by")
	aggCmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	root.AddCommand(aggCmd)

	defer func() { _ = logger.Sync() }()
	if err := root.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

// writeRows emits the table as one JSON object per row on stdout.
func writeRows(t *table.Table) error {
	rows := make([]interface{}, 0, t.NumRows())
	for r := 0; r < t.NumRows(); r++ {
		row := make(map[string]interface{}, t.NumCols())
		for c := 0; c < t.NumCols(); c++ {
			row[t.Schema().Field(c).Name] = t.Column(c).Value(r)
		}
		rows = append(rows, row)
	}
	return arborjson.MarshalLines(os.Stdout, rows)
}
