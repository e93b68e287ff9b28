package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-funscripter/internal/application/editor"
	"github.com/penwyp/go-funscripter/internal/core/model"
	"github.com/penwyp/go-funscripter/internal/core/serializer"
	"github.com/penwyp/go-funscripter/internal/core/settings"
	"github.com/penwyp/go-funscripter/internal/util"
)

var (
	// Logging related
	debug   bool
	logFile string

	// Settings file
	settingsPath string

	// Resolved by the persistent pre-run
	config *editor.Config

	rootCmd = &cobra.Command{
		Use:   "go-funscripter",
		Short: "Funscript editing toolkit",
		Long: `go-funscripter reads, inspects and edits funscript files: timed position
scripts paired with a video.

Examples:
  go-funscripter info ~/videos                    # Summarize every script below a directory
  go-funscripter info -o json a.funscript         # Summary as JSON
  go-funscripter heatmap clip.funscript           # Draw the action density
  go-funscripter edit clip.mp4                    # Edit the script paired with a video
  go-funscripter convert settings.json out.yaml   # Re-encode a document`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
)

const defaultLogFile = "~/.go-funscripter/logs/app.log"

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Log file path (default "+defaultLogFile+")")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "",
		"Settings file, JSON or YAML")
}

// setup resolves configuration from the environment and flags, installs the
// logger and validates the persisted types' tags.
func setup(cmd *cobra.Command, args []string) error {
	config = editor.LoadConfig()
	if debug {
		config.Debug = true
	}
	if settingsPath != "" {
		config.SettingsPath = settingsPath
	}
	if logFile != "" {
		config.LogFile = logFile
	}
	if config.LogFile == "" {
		config.LogFile = defaultLogFile
	}
	config.SettingsPath = expandPath(config.SettingsPath)
	config.LogFile = expandPath(config.LogFile)
	if err := config.Validate(); err != nil {
		return err
	}

	if err := ensureDir(filepath.Dir(config.LogFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if _, err := util.InitLogger(config.LogLevel, config.LogFile, config.Debug); err != nil {
		return err
	}

	if err := serializer.Register(model.Funscript{}, settings.Settings{}); err != nil {
		return fmt.Errorf("invalid persisted type: %w", err)
	}
	util.LogDebugf("command %s, settings %s", cmd.Name(), config.SettingsPath)
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
