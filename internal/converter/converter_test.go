package converter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davesmith10/CMYKtoSRGB/internal/color"
	"github.com/davesmith10/CMYKtoSRGB/internal/jpeg"
)

// writeRGBJPEG synthesizes a small non-CMYK input file.
func writeRGBJPEG(t *testing.T, path string) {
	t.Helper()
	pixels := make([]byte, 8*8*3)
	for i := range pixels {
		pixels[i] = byte(i * 7)
	}
	data, err := jpeg.EncodeRGB(pixels, 8, 8, jpeg.EncoderOptions{Quality: 90})
	if err != nil {
		t.Fatalf("EncodeRGB: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

// fixture reads a testdata file, skipping the test when it is absent.
func fixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("testdata", name)
	if _, err := os.Stat(path); err != nil {
		t.Skipf("test fixture not available: %v", err)
	}
	return path
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestStemLengthCheckedBeforeIO(t *testing.T) {
	// The input path does not even exist; a too-long stem must fail first.
	conv := New(Config{PathMax: 64})
	stem := strings.Repeat("x", 100)
	if got := conv.Convert("/nonexistent/input.jpg", stem); got != FatalError {
		t.Errorf("Convert = %s, want %s", got, FatalError)
	}
}

func TestStemLengthBoundIsExact(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.jpg")
	writeRGBJPEG(t, input)

	// PathMax 64, extension "jpg" (3) + 8 → stem of 53 fits, 54 does not.
	conv := New(Config{PathMax: 64})
	okStem := strings.Repeat("a", 53)
	if got := conv.Convert(input, okStem); got != ProbablyNotCMYK {
		t.Errorf("stem of 53: Convert = %s, want %s", got, ProbablyNotCMYK)
	}
	longStem := strings.Repeat("a", 54)
	if got := conv.Convert(input, longStem); got != FatalError {
		t.Errorf("stem of 54: Convert = %s, want %s", got, FatalError)
	}
}

func TestMissingInput(t *testing.T) {
	conv := New(Config{})
	if got := conv.Convert("/nonexistent/input.jpg", filepath.Join(t.TempDir(), "out")); got != FatalError {
		t.Errorf("Convert = %s, want %s", got, FatalError)
	}
}

func TestUnrecognizedInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "junk.jpg")
	if err := os.WriteFile(input, []byte("this is not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	conv := New(Config{})
	if got := conv.Convert(input, filepath.Join(dir, "out")); got != FatalError {
		t.Errorf("Convert = %s, want %s", got, FatalError)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.jpg")); !os.IsNotExist(err) {
		t.Error("fatal error must not leave an output file")
	}
}

func TestNonCMYKHasNoSideEffects(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "rgb.jpg")
	writeRGBJPEG(t, input)
	before := listDir(t, dir)

	// Profile paths are bogus on purpose: the non-CMYK branch must return
	// before they are ever touched.
	conv := New(Config{
		BackstopProfile: "/nonexistent/backstop.icc",
		SRGBProfile:     "/nonexistent/sRGB.icm",
	})
	if got := conv.Convert(input, filepath.Join(dir, "out")); got != ProbablyNotCMYK {
		t.Fatalf("Convert = %s, want %s", got, ProbablyNotCMYK)
	}

	after := listDir(t, dir)
	if len(before) != len(after) {
		t.Errorf("directory changed: before %v, after %v", before, after)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.jpg")); !os.IsNotExist(err) {
		t.Error("non-CMYK branch wrote an output file")
	}
}

// spliceBadICCMarker inserts an APP2 ICC chunk claiming sequence 2 of 1
// right after SOI: the profile becomes unextractable while the image
// metadata stays readable.
func spliceBadICCMarker(data []byte) []byte {
	payload := append([]byte("ICC_PROFILE\x00"), 2, 1, 0xAA)
	marker := []byte{0xFF, 0xE2, byte((len(payload) + 2) >> 8), byte(len(payload) + 2)}
	marker = append(marker, payload...)
	out := append([]byte{}, data[:2]...)
	out = append(out, marker...)
	return append(out, data[2:]...)
}

func TestNonCMYKWithBadICCMarker(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "rgb.jpg")
	writeRGBJPEG(t, input)
	data, err := os.ReadFile(input)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(input, spliceBadICCMarker(data), 0644); err != nil {
		t.Fatal(err)
	}

	// The color interpretation is still readable, so the answer is still
	// "not CMYK", with nothing written.
	conv := New(Config{})
	if got := conv.Convert(input, filepath.Join(dir, "out")); got != ProbablyNotCMYK {
		t.Fatalf("Convert = %s, want %s", got, ProbablyNotCMYK)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.jpg")); !os.IsNotExist(err) {
		t.Error("non-CMYK branch wrote an output file")
	}
}

func TestBackstopUsedWhenEmbeddedProfileMarkersCorrupt(t *testing.T) {
	src := fixture(t, "cmyk-no-icc.jpg")
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	input := filepath.Join(dir, "cmyk-damaged-icc.jpg")
	if err := os.WriteFile(input, spliceBadICCMarker(data), 0644); err != nil {
		t.Fatal(err)
	}
	stem := filepath.Join(dir, "out")

	conv := New(cmykConfig(t))
	if got := conv.Convert(input, stem); got != CMYKWithUnusableICC {
		t.Fatalf("Convert = %s, want %s", got, CMYKWithUnusableICC)
	}
	assertSRGBOutput(t, stem+".jpg")
}

func TestStatusIdempotence(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "rgb.jpg")
	writeRGBJPEG(t, input)

	conv := New(Config{})
	first := conv.Convert(input, filepath.Join(dir, "out"))
	second := conv.Convert(input, filepath.Join(dir, "out"))
	if first != second {
		t.Errorf("status not stable across runs: %s then %s", first, second)
	}
}

// Input/output collision is documented as the caller's responsibility:
// Convert does not compare the two paths, so no test asserts detection.

func cmykConfig(t *testing.T) Config {
	return Config{
		BackstopProfile: fixture(t, "cmyk.icc"),
		SRGBProfile:     fixture(t, "sRGB.icc"),
	}
}

func assertSRGBOutput(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	info, err := jpeg.Probe(data)
	if err != nil {
		t.Fatalf("Probe on output: %v", err)
	}
	if info.ColorSpace.IsCMYK() {
		t.Errorf("output still CMYK (%s)", info.ColorSpace)
	}
	if info.NumComponents != 3 {
		t.Errorf("expected 3 components, got %d", info.NumComponents)
	}
	if info.ICC == nil {
		t.Error("expected sRGB profile embedded in output")
	} else if pi, err := color.ParseProfileInfo(info.ICC); err != nil {
		t.Errorf("output ICC invalid: %v", err)
	} else if pi.ColorSpace != "RGB " {
		t.Errorf("output profile color space %q, want RGB", pi.ColorSpace)
	}
}

func TestEmbeddedProfileUsed(t *testing.T) {
	input := fixture(t, "cmyk-embedded.jpg")
	dir := t.TempDir()
	stem := filepath.Join(dir, "out")

	conv := New(cmykConfig(t))
	if got := conv.Convert(input, stem); got != CMYKWithUsableICC {
		t.Fatalf("Convert = %s, want %s", got, CMYKWithUsableICC)
	}
	assertSRGBOutput(t, stem+".jpg")
}

func TestBackstopUsedWhenNoEmbeddedProfile(t *testing.T) {
	input := fixture(t, "cmyk-no-icc.jpg")
	dir := t.TempDir()
	stem := filepath.Join(dir, "out")

	conv := New(cmykConfig(t))
	if got := conv.Convert(input, stem); got != CMYKNoICC {
		t.Fatalf("Convert = %s, want %s", got, CMYKNoICC)
	}
	assertSRGBOutput(t, stem+".jpg")
}

func TestBackstopUsedWhenEmbeddedProfileUnusable(t *testing.T) {
	input := fixture(t, "cmyk-bad-icc.jpg")
	dir := t.TempDir()
	stem := filepath.Join(dir, "out")

	conv := New(cmykConfig(t))
	if got := conv.Convert(input, stem); got != CMYKWithUnusableICC {
		t.Fatalf("Convert = %s, want %s", got, CMYKWithUnusableICC)
	}
	assertSRGBOutput(t, stem+".jpg")
}

func TestMissingBackstopNoEmbeddedProfile(t *testing.T) {
	input := fixture(t, "cmyk-no-icc.jpg")
	dir := t.TempDir()
	stem := filepath.Join(dir, "out")

	cfg := cmykConfig(t)
	cfg.BackstopProfile = "/nonexistent/backstop.icc"
	conv := New(cfg)
	if got := conv.Convert(input, stem); got != FatalError {
		t.Fatalf("Convert = %s, want %s", got, FatalError)
	}
	if _, err := os.Stat(stem + ".jpg"); !os.IsNotExist(err) {
		t.Error("fatal error must not leave an output file")
	}
}

func TestMissingOutputDirectory(t *testing.T) {
	input := fixture(t, "cmyk-embedded.jpg")

	conv := New(cmykConfig(t))
	stem := filepath.Join(t.TempDir(), "does", "not", "exist", "out")
	if got := conv.Convert(input, stem); got != FatalError {
		t.Errorf("Convert = %s, want %s", got, FatalError)
	}
}

func TestOverwritesExistingOutput(t *testing.T) {
	input := fixture(t, "cmyk-embedded.jpg")
	dir := t.TempDir()
	stem := filepath.Join(dir, "out")
	if err := os.WriteFile(stem+".jpg", []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	conv := New(cmykConfig(t))
	if got := conv.Convert(input, stem); got != CMYKWithUsableICC {
		t.Fatalf("Convert = %s, want %s", got, CMYKWithUsableICC)
	}
	assertSRGBOutput(t, stem+".jpg")
}
