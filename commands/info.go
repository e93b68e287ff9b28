package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-funscripter/internal/analyzer"
	"github.com/penwyp/go-funscripter/internal/util"
)

var (
	// Info command flags
	infoOutput      string
	infoSortBy      string
	infoLimit       int
	infoConcurrency int
)

var infoCmd = &cobra.Command{
	Use:   "info PATH...",
	Short: "Summarize scripts",
	Long: `Loads every script named, paired with a named video or found below a
named directory, and prints one summary row per script.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringVarP(&infoOutput, "output", "o", "table",
		"Output format (table, json, csv)")
	infoCmd.Flags().StringVar(&infoSortBy, "sort", "path",
		"Sort by (path, actions, duration, speed)")
	infoCmd.Flags().IntVar(&infoLimit, "limit", 0,
		"Limit result count (0 = unlimited)")
	infoCmd.Flags().IntVar(&infoConcurrency, "concurrency", runtime.NumCPU(),
		"Number of scripts loaded in parallel")
}

func runInfo(cmd *cobra.Command, args []string) error {
	paths := make([]string, len(args))
	for i, arg := range args {
		paths[i] = expandPath(arg)
	}
	a := analyzer.New(&analyzer.Config{
		Paths:        paths,
		OutputFormat: infoOutput,
		SortBy:       infoSortBy,
		Limit:        infoLimit,
		Concurrency:  infoConcurrency,
		Out:          cmd.OutOrStdout(),
	}, util.GetLogger())
	return a.Run(cmd.Context())
}
