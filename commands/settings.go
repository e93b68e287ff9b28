package commands

import (
	"github.com/spf13/cobra"

	"github.com/penwyp/go-funscripter/internal/core/document"
	"github.com/penwyp/go-funscripter/internal/core/serializer"
	"github.com/penwyp/go-funscripter/internal/core/settings"
	"github.com/penwyp/go-funscripter/internal/util"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Print the effective editor settings as YAML",
	Args:  cobra.NoArgs,
	RunE:  runSettings,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}

func runSettings(cmd *cobra.Command, args []string) error {
	s, err := settings.Load(config.SettingsPath, util.GetLogger())
	if err != nil {
		util.LogWarnf("Using default settings: %v", err)
	}
	n, err := serializer.Serialize(s)
	if err != nil {
		return err
	}
	data, err := document.EncodeYAML(n)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
