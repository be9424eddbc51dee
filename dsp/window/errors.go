package window

import (
	"errors"
	"fmt"
)

// ErrInvalidLength is returned for crossfade windows shorter than two samples.
var ErrInvalidLength = errors.New("window: invalid crossfade length")

var errMismatchedLength = errors.New("window: samples and window must have same length")

func validateCrossfadeLength(size int) error {
	if size < 2 {
		return fmt.Errorf("%w: %d (must be >= 2)", ErrInvalidLength, size)
	}
	return nil
}
