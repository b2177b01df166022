package main

import (
	"github.com/spf13/cobra"

	"github.com/davesmith10/CMYKtoSRGB/internal/converter"
)

var convertCmd = &cobra.Command{
	Use:   "convert INPUT_IMAGE OUTPUT_IMAGE_NAME_BEFORE_EXTENSION",
	Short: "Detect CMYK and convert to sRGB JPEG (same as the bare command)",
	Args:  cobra.ExactArgs(2),
	RunE:  runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	conv := converter.New(cfg)
	status = exitCodes().For(conv.Convert(args[0], args[1]))
	return nil
}
