package binout

import (
	"errors"
	"fmt"
)

var (
	// ErrBadHeader is returned when the prolog or the static network
	// description cannot be decoded. No results are returned.
	ErrBadHeader = errors.New("malformed results header")

	// ErrIntegrity marks a results file whose epilog is missing or whose
	// closing magic number differs from the opening one. Decoded rows are
	// kept and Results.Integrity is false.
	ErrIntegrity = errors.New("results integrity check failed")

	// ErrUnknownAttribute is returned for a frame that does not exist.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrUnknownName is returned when a frame has no column for a name.
	ErrUnknownName = errors.New("unknown name")

	// ErrUnknownTime is returned when a frame has no row for a time.
	ErrUnknownTime = errors.New("unknown report time")

	// ErrBadArchive is returned for a results archive that fails its checks.
	ErrBadArchive = errors.New("invalid results archive")
)

// ConvergenceError reports a results file holding fewer report periods than
// its prolog announced. It is returned only by strict readers.
type ConvergenceError struct {
	// Time is the first report time with no data, in seconds.
	Time     int
	Expected int
	Decoded  int
}

// Error implements the error interface.
func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("simulation did not converge at time %s (%d of %d periods)",
		clock(e.Time), e.Decoded, e.Expected)
}

// IsConvergence reports whether err is or wraps a ConvergenceError.
func IsConvergence(err error) bool {
	var ce *ConvergenceError
	return errors.As(err, &ce)
}

func headerError(stage string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrBadHeader, stage, err)
}

func clock(secs int) string {
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}
