package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cmyk2srgbjpeg INPUT_IMAGE OUTPUT_IMAGE_NAME_BEFORE_EXTENSION",
	Short: "Convert CMYK images to sRGB JPEG",
	Long: `cmyk2srgbjpeg detects whether its input image is CMYK. If it is not,
nothing is done. If it is, the image is converted to sRGB using the
embedded ICC profile when possible, substituting a backstop CMYK profile
otherwise, and saved as a JPEG at OUTPUT_IMAGE_NAME_BEFORE_EXTENSION
plus the configured extension.

The exit code reports the outcome: not-CMYK, fatal error, or one of
three success codes identifying which profile was used.`,
	Args:          cobra.ExactArgs(2),
	RunE:          runConvert,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// status holds the exit code chosen by the executed command. Status codes
// become integers only here, at the process boundary.
var status int

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodes().Fatal)
	}
	os.Exit(status)
}
