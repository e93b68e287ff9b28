package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-funscripter/internal/core/document"
	"github.com/penwyp/go-funscripter/internal/core/model"
	"github.com/penwyp/go-funscripter/internal/core/serializer"
	"github.com/penwyp/go-funscripter/internal/data/store"
	"github.com/penwyp/go-funscripter/internal/util"
)

var (
	// Convert command flags
	convertCompact   bool
	convertNormalize bool
)

var convertCmd = &cobra.Command{
	Use:   "convert IN OUT",
	Short: "Re-encode a document between JSON and YAML",
	Long: `Reads IN and writes OUT, choosing JSON (.json, .funscript) or YAML
(.yaml, .yml) by extension. With --normalize the document is read as a
script first: missing members get their defaults, positions are clamped
and unknown members are dropped.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().BoolVar(&convertCompact, "compact", false,
		"Write JSON without indentation")
	convertCmd.Flags().BoolVar(&convertNormalize, "normalize", false,
		"Read the document as a script and write it back")
}

func runConvert(cmd *cobra.Command, args []string) error {
	in, out := expandPath(args[0]), expandPath(args[1])
	inCodec, err := document.CodecForPath(in)
	if err != nil {
		return err
	}
	outCodec, err := document.CodecForPath(out)
	if err != nil {
		return err
	}
	if convertCompact && outCodec == document.JSON {
		outCodec = document.CompactJSON
	}

	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	n, err := inCodec.Decode(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", in, err)
	}

	if convertNormalize {
		n, err = normalizeScript(n)
		if err != nil {
			return err
		}
	}

	encoded, err := outCodec.Encode(n)
	if err != nil {
		return err
	}
	if err := store.WriteFileAtomic(out, encoded); err != nil {
		return err
	}
	util.LogInfof("converted %s (%s) to %s (%s)", in, inCodec.Name(), out, outCodec.Name())
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}

func normalizeScript(n *document.Node) (*document.Node, error) {
	script := model.NewFunscript()
	rep, err := serializer.DeserializeReport(script, n)
	if err != nil {
		return nil, err
	}
	for _, missing := range rep.Missing {
		util.LogDebugf("defaulted %s", missing)
	}
	for i := range script.Actions {
		script.Actions[i] = script.Actions[i].Clamp()
	}
	return serializer.Serialize(script)
}
