package main

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davesmith10/CMYKtoSRGB/internal/color"
	"github.com/davesmith10/CMYKtoSRGB/internal/converter"
)

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("backstop", "", "Backstop CMYK ICC profile path")
	pf.String("srgb", "", "Target sRGB ICC/ICM profile path")
	pf.Int("quality", converter.DefaultQuality, "JPEG quality (1-100)")
	pf.String("extension", converter.DefaultExtension, "Output extension appended after a period")
	pf.String("intent", "relative", "Rendering intent (perceptual, relative, saturation, absolute)")
	pf.Bool("verbose", false, "Enable debug logging")

	viper.BindPFlag("backstop_profile", pf.Lookup("backstop"))
	viper.BindPFlag("srgb_profile", pf.Lookup("srgb"))
	viper.BindPFlag("quality", pf.Lookup("quality"))
	viper.BindPFlag("extension", pf.Lookup("extension"))
	viper.BindPFlag("intent", pf.Lookup("intent"))
	viper.BindPFlag("verbose", pf.Lookup("verbose"))
}

func initConfig() {
	viper.SetConfigName("cmyk2srgbjpeg")
	viper.SetConfigType("toml")
	viper.AddConfigPath("$HOME/.config/cmyk2srgbjpeg")
	viper.AddConfigPath("/etc/xdg/cmyk2srgbjpeg")

	viper.SetDefault("backstop_profile", "/usr/local/share/cmyk2srgbjpeg/HP5000_UVDuraImageGlossMaxQ.icc")
	viper.SetDefault("srgb_profile", "/usr/local/share/cmyk2srgbjpeg/sRGB.icm")
	viper.SetDefault("quality", converter.DefaultQuality)
	viper.SetDefault("extension", converter.DefaultExtension)
	viper.SetDefault("intent", "relative")
	viper.SetDefault("path_max", converter.DefaultPathMax)
	viper.SetDefault("exit_codes.not_cmyk", 0)
	viper.SetDefault("exit_codes.fatal", 1)
	viper.SetDefault("exit_codes.unusable_icc", 2)
	viper.SetDefault("exit_codes.no_icc", 3)
	viper.SetDefault("exit_codes.usable_icc", 4)

	viper.SetEnvPrefix("CMYK2SRGBJPEG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatalf("reading config file: %v", err)
		}
	}

	if viper.GetBool("verbose") {
		log.SetLevel(log.DebugLevel)
	}
}

// exitCodes returns the configured status→exit-code mapping.
func exitCodes() converter.ExitCodes {
	codes := converter.DefaultExitCodes()
	if viper.IsSet("exit_codes.not_cmyk") {
		codes = converter.ExitCodes{
			NotCMYK:     viper.GetInt("exit_codes.not_cmyk"),
			Fatal:       viper.GetInt("exit_codes.fatal"),
			UnusableICC: viper.GetInt("exit_codes.unusable_icc"),
			NoICC:       viper.GetInt("exit_codes.no_icc"),
			UsableICC:   viper.GetInt("exit_codes.usable_icc"),
		}
	}
	return codes
}

// buildConfig assembles the converter configuration from viper.
func buildConfig() (converter.Config, error) {
	intent, err := color.ParseIntent(viper.GetString("intent"))
	if err != nil {
		return converter.Config{}, err
	}
	return converter.Config{
		BackstopProfile: viper.GetString("backstop_profile"),
		SRGBProfile:     viper.GetString("srgb_profile"),
		Quality:         viper.GetInt("quality"),
		Extension:       viper.GetString("extension"),
		Intent:          intent,
		PathMax:         viper.GetInt("path_max"),
	}, nil
}
