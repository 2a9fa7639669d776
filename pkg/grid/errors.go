package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports an empty or malformed image, or an invalid window size
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch reports a mask whose dimensions differ from its image
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// MinWindow is the smallest accepted window size
const MinWindow = 3

// ValidateWindow checks that k is odd and at least MinWindow
func ValidateWindow(k int) error {
	if k < MinWindow || k%2 == 0 {
		return fmt.Errorf("%w: window size must be odd and >= %d, got %d", ErrInvalidInput, MinWindow, k)
	}
	return nil
}
