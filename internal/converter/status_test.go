package converter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultExitCodes(t *testing.T) {
	want := ExitCodes{NotCMYK: 0, Fatal: 1, UnusableICC: 2, NoICC: 3, UsableICC: 4}
	if diff := cmp.Diff(want, DefaultExitCodes()); diff != "" {
		t.Errorf("DefaultExitCodes mismatch (-want +got):\n%s", diff)
	}
}

func TestExitCodeMapping(t *testing.T) {
	codes := DefaultExitCodes()
	cases := []struct {
		status StatusCode
		want   int
	}{
		{ProbablyNotCMYK, 0},
		{FatalError, 1},
		{CMYKWithUnusableICC, 2},
		{CMYKNoICC, 3},
		{CMYKWithUsableICC, 4},
	}
	for _, c := range cases {
		if got := codes.For(c.status); got != c.want {
			t.Errorf("For(%s) = %d, want %d", c.status, got, c.want)
		}
	}
}

func TestExitCodeMappingCustom(t *testing.T) {
	// All successes may legitimately be collapsed to 0.
	codes := ExitCodes{NotCMYK: 0, Fatal: 255, UnusableICC: 0, NoICC: 0, UsableICC: 0}
	if got := codes.For(CMYKWithUsableICC); got != 0 {
		t.Errorf("For(CMYKWithUsableICC) = %d, want 0", got)
	}
	if got := codes.For(FatalError); got != 255 {
		t.Errorf("For(FatalError) = %d, want 255", got)
	}
}

func TestStatusString(t *testing.T) {
	for status, want := range map[StatusCode]string{
		ProbablyNotCMYK:     "probably-not-cmyk",
		FatalError:          "fatal-error",
		CMYKWithUnusableICC: "cmyk-with-unusable-icc",
		CMYKNoICC:           "cmyk-no-icc",
		CMYKWithUsableICC:   "cmyk-with-usable-icc",
	} {
		if got := status.String(); got != want {
			t.Errorf("StatusCode(%d).String() = %q, want %q", int(status), got, want)
		}
	}
}
