// Package converter decides whether an input image is CMYK and, if so,
// converts it to an sRGB JPEG. The pixel work is delegated to libjpeg and
// lcms2; what lives here is the policy: which ICC profile to trust, what
// to name the output, and which status to report.
package converter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/davesmith10/CMYKtoSRGB/internal/color"
	"github.com/davesmith10/CMYKtoSRGB/internal/jpeg"
)

// Default configuration values, matching the original tool.
const (
	DefaultQuality   = 99
	DefaultExtension = "jpg"
	DefaultPathMax   = 4096
)

// qualityAnnotation is the longest form of the vips-style inline quality
// directive (".%s[Q=100]" minus the extension): a period plus "[Q=100]".
const qualityAnnotation = 8

// Config carries everything the original program fixed at compile time.
type Config struct {
	BackstopProfile string // CMYK ICC used when no usable embedded profile exists
	SRGBProfile     string // target sRGB ICC/ICM
	Quality         int    // JPEG quality 1-100, default 99
	Extension       string // output extension without the period, default "jpg"
	Intent          int    // lcms2 rendering intent, default relative colorimetric
	PathMax         int    // output path length bound, default 4096
}

func (c Config) withDefaults() Config {
	if c.Quality == 0 {
		c.Quality = DefaultQuality
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if c.PathMax == 0 {
		c.PathMax = DefaultPathMax
	}
	return c
}

// profileSource records which ICC profile actually drove the transform,
// which is what separates the three success statuses.
type profileSource int

const (
	sourceEmbedded profileSource = iota
	sourceBackstopNoEmbedded
	sourceBackstopRejected
)

func (s profileSource) status() StatusCode {
	switch s {
	case sourceEmbedded:
		return CMYKWithUsableICC
	case sourceBackstopRejected:
		return CMYKWithUnusableICC
	default:
		return CMYKNoICC
	}
}

// Converter runs the one-shot CMYK detection and conversion.
type Converter struct {
	cfg Config
}

// New returns a Converter with defaults filled in.
func New(cfg Config) *Converter {
	return &Converter{cfg: cfg.withDefaults()}
}

// Convert inspects inputPath and, if it is a CMYK image, writes an sRGB
// JPEG to outputStem plus the configured extension. All failures map to
// FatalError; diagnostics go to the log, never into the status.
//
// The non-CMYK branch has no filesystem side effects, and the CMYK branch
// either produces a complete output file or none at all.
func (c *Converter) Convert(inputPath, outputStem string) StatusCode {
	// Length check happens before any I/O, mirroring the original's
	// VIPS_PATH_MAX guard for the ".<ext>[Q=100]" suffix.
	if len(outputStem) > c.cfg.PathMax-(len(c.cfg.Extension)+qualityAnnotation) {
		log.Errorf("output stem too long: %d bytes leaves no room for .%s[Q=%d]",
			len(outputStem), c.cfg.Extension, c.cfg.Quality)
		return FatalError
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		log.Errorf("reading %s: %v", inputPath, err)
		return FatalError
	}

	info, err := jpeg.Probe(data)
	if err != nil {
		log.Errorf("probing %s: %v", inputPath, err)
		return FatalError
	}

	if !info.ColorSpace.IsCMYK() {
		// Not detected as CMYK. Do nothing.
		return ProbablyNotCMYK
	}

	outputName := fmt.Sprintf("%s.%s", outputStem, c.cfg.Extension)

	srgb, err := color.LoadProfile(c.cfg.SRGBProfile)
	if err != nil {
		log.Errorf("loading sRGB profile: %v", err)
		return FatalError
	}

	xform, source, err := c.buildTransform(info, srgb)
	if err != nil {
		log.Errorf("color transform: %v", err)
		return FatalError
	}
	defer xform.Close()

	decoded, err := jpeg.DecodeCMYK(data)
	if err != nil {
		log.Errorf("decoding %s: %v", inputPath, err)
		return FatalError
	}

	rgb, err := xform.TransformPixels(decoded.Pixels, decoded.Width, decoded.Height)
	if err != nil {
		log.Errorf("transforming pixels: %v", err)
		return FatalError
	}

	encoded, err := jpeg.EncodeRGB(rgb, decoded.Width, decoded.Height, jpeg.EncoderOptions{
		Quality: c.cfg.Quality,
		ICC:     srgb,
	})
	if err != nil {
		log.Errorf("encoding JPEG: %v", err)
		return FatalError
	}

	if err := writeAtomic(outputName, encoded); err != nil {
		log.Errorf("writing %s: %v", outputName, err)
		return FatalError
	}

	st := source.status()
	log.Debugf("wrote %s (%d bytes, quality %d, status %s)",
		outputName, len(encoded), c.cfg.Quality, st)
	return st
}

// buildTransform picks the source CMYK profile and constructs the lcms2
// transform. The embedded profile is preferred; if it is absent or
// rejected the configured backstop is substituted. A rejected embedded
// profile is a warning, not an error, as long as the backstop works.
// Profile damage at the APP2 marker level (Info.ICCErr) counts as
// present-but-unusable, same as an lcms2 rejection.
func (c *Converter) buildTransform(info *jpeg.Info, srgb []byte) (*color.Transform, profileSource, error) {
	embeddedPresent := info.ICC != nil || info.ICCErr != nil
	if info.ICCErr != nil {
		log.Warnf("embedded profile unextractable: %v; substituting backstop", info.ICCErr)
	} else if info.ICC != nil {
		if err := color.ValidateCMYK(info.ICC); err != nil {
			log.Warnf("embedded profile unusable: %v; substituting backstop", err)
		} else if xform, err := color.NewTransform(info.ICC, srgb, c.cfg.Intent); err != nil {
			log.Warnf("embedded profile rejected by lcms2: %v; substituting backstop", err)
		} else {
			return xform, sourceEmbedded, nil
		}
	}

	backstop, err := color.LoadProfile(c.cfg.BackstopProfile)
	if err != nil {
		return nil, 0, fmt.Errorf("loading backstop profile: %w", err)
	}
	xform, err := color.NewTransform(backstop, srgb, c.cfg.Intent)
	if err != nil {
		return nil, 0, fmt.Errorf("backstop profile: %w", err)
	}

	if embeddedPresent {
		return xform, sourceBackstopRejected, nil
	}
	return xform, sourceBackstopNoEmbedded, nil
}

// writeAtomic writes data to path via a temp file in the same directory
// and a rename, so a failed write never leaves a partial output behind.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
