package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/penwyp/go-funscripter/internal/application/editor"
	"github.com/penwyp/go-funscripter/internal/application/shell"
	"github.com/penwyp/go-funscripter/internal/core/settings"
	"github.com/penwyp/go-funscripter/internal/util"
)

var (
	// Edit command flags
	editDuration  float64
	editFrameTime float64
	editNoWatch   bool
)

var editCmd = &cobra.Command{
	Use:   "edit [FILE]",
	Short: "Edit a script from the command line",
	Long: `Opens a script, or the script paired with a video, and reads editing
commands from standard input, one per line. Type help for the list.
Without FILE the last opened file is reopened.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().Float64Var(&editDuration, "duration", 0,
		"Video duration in ms, bounds the cursor (0 = unbounded)")
	editCmd.Flags().Float64Var(&editFrameTime, "frame-time", 0,
		"Frame time in ms (default from settings)")
	editCmd.Flags().BoolVar(&editNoWatch, "no-watch", false,
		"Do not watch the script for external changes")
}

func runEdit(cmd *cobra.Command, args []string) error {
	logger := util.GetLogger()
	s, err := settings.Load(config.SettingsPath, logger)
	if err != nil {
		util.LogWarnf("Using default settings: %v", err)
	}

	var file string
	switch {
	case len(args) == 1:
		file = expandPath(args[0])
	case s.LastOpenedFile != "":
		file = s.LastOpenedFile
	default:
		return fmt.Errorf("no file given and no file opened before")
	}

	frameTime := s.FrameTimeMs
	if config.FrameTimeMs > 0 {
		frameTime = config.FrameTimeMs
	}
	if editFrameTime > 0 {
		frameTime = editFrameTime
	}
	duration := config.DurationMs
	if editDuration > 0 {
		duration = editDuration
	}

	clock := editor.NewManualClock(duration, frameTime)
	ed := editor.New(
		editor.WithLogger(logger),
		editor.WithClock(clock),
		editor.WithSettings(s, config.SettingsPath),
	)

	found, err := ed.Open(file)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if found {
		fmt.Fprintf(out, "opened %s (%d actions)\n", ed.Timeline().Path(), ed.Timeline().Len())
	} else {
		fmt.Fprintf(out, "new script %s\n", ed.Timeline().Path())
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	sh := shell.New(ed, clock, cmd.InOrStdin(), out,
		shell.WithLogger(logger),
		shell.WithPrompt(interactive))
	if !editNoWatch {
		if err := sh.Watch(ed.Timeline().Path()); err != nil {
			util.LogWarnf("File watch unavailable: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt)
	defer stop()
	return sh.Run(ctx)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
