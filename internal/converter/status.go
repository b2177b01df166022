package converter

// StatusCode is the outcome of one conversion attempt. Exactly one is
// produced per invocation.
type StatusCode int

const (
	// ProbablyNotCMYK means the input was not detected as CMYK and
	// nothing was written.
	ProbablyNotCMYK StatusCode = iota
	// FatalError covers argument, I/O, transform and encode failures.
	FatalError
	// CMYKWithUnusableICC means an embedded profile was present but
	// rejected; the backstop profile was substituted and the conversion
	// succeeded.
	CMYKWithUnusableICC
	// CMYKNoICC means no embedded profile was found; the backstop
	// profile was used and the conversion succeeded.
	CMYKNoICC
	// CMYKWithUsableICC means the embedded profile was used and the
	// conversion succeeded.
	CMYKWithUsableICC
)

func (s StatusCode) String() string {
	switch s {
	case ProbablyNotCMYK:
		return "probably-not-cmyk"
	case FatalError:
		return "fatal-error"
	case CMYKWithUnusableICC:
		return "cmyk-with-unusable-icc"
	case CMYKNoICC:
		return "cmyk-no-icc"
	case CMYKWithUsableICC:
		return "cmyk-with-usable-icc"
	default:
		return "unknown"
	}
}

// ExitCodes maps each StatusCode to the integer reported at the process
// boundary. The values are configurable; internally only StatusCode is
// passed around.
type ExitCodes struct {
	NotCMYK     int
	Fatal       int
	UnusableICC int
	NoICC       int
	UsableICC   int
}

// DefaultExitCodes returns the values the original tool shipped with.
func DefaultExitCodes() ExitCodes {
	return ExitCodes{
		NotCMYK:     0,
		Fatal:       1,
		UnusableICC: 2,
		NoICC:       3,
		UsableICC:   4,
	}
}

// For returns the configured exit code for a status.
func (e ExitCodes) For(s StatusCode) int {
	switch s {
	case ProbablyNotCMYK:
		return e.NotCMYK
	case CMYKWithUnusableICC:
		return e.UnusableICC
	case CMYKNoICC:
		return e.NoICC
	case CMYKWithUsableICC:
		return e.UsableICC
	default:
		return e.Fatal
	}
}
