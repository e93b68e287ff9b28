package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-funscripter/internal/core/heatmap"
	"github.com/penwyp/go-funscripter/internal/data/store"
	"github.com/penwyp/go-funscripter/internal/presentation/display"
	"github.com/penwyp/go-funscripter/internal/presentation/layout"
	"github.com/penwyp/go-funscripter/internal/util"
)

var (
	// Heatmap command flags
	heatmapDuration float64
	heatmapWidth    int
	heatmapStops    bool
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap FILE",
	Short: "Draw the action density of a script",
	Args:  cobra.ExactArgs(1),
	RunE:  runHeatmap,
}

func init() {
	rootCmd.AddCommand(heatmapCmd)

	heatmapCmd.Flags().Float64Var(&heatmapDuration, "duration", 0,
		"Video duration in ms (default: metadata duration, else last action)")
	heatmapCmd.Flags().IntVar(&heatmapWidth, "width", 0,
		"Bar width in cells (default: terminal width)")
	heatmapCmd.Flags().BoolVar(&heatmapStops, "stops", false,
		"Print the gradient stops instead of a bar")
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	scriptPath, _ := store.PairPaths(expandPath(args[0]))
	script, _, err := store.New(util.GetLogger()).LoadFunscript(scriptPath)
	if err != nil {
		return err
	}

	duration := heatmapDuration
	if duration <= 0 && script.Metadata.Duration > 0 {
		// Metadata stores seconds.
		duration = float64(script.Metadata.Duration) * 1000
	}
	if duration <= 0 && len(script.Actions) > 0 {
		duration = float64(script.Actions[len(script.Actions)-1].At)
	}

	grad := heatmap.Compute(script.Actions, duration)
	out := cmd.OutOrStdout()
	if heatmapStops {
		for _, m := range grad.Marks() {
			fmt.Fprintf(out, "%.4f %s\n", m.Pos, m.Color.Hex())
		}
		return nil
	}

	sizer := layout.NewSizer()
	if heatmapWidth > 0 {
		sizer = layout.FixedSizer(heatmapWidth)
	}
	width := sizer.Width()
	fmt.Fprintln(out, display.HeatmapBar(grad, width))
	fmt.Fprintln(out, display.TimeAxis(duration, width))
	return nil
}
