// Package filters implements circular mean and median denoising of wrapped
// phase images.
//
// Each filter returns two images. Phase is the filtered phase folded back into
// the canonical [0, 1) range, so it can be fed to the quality maps or an
// unwrapper. Display is the raw filter output (radians) min-max rescaled to
// [0, 1]; it is meant for viewing and does not preserve phase relationships
// unless the output spans a full cycle.
package filters

import (
	"fmt"

	"phasequality/pkg/circular"
	"phasequality/pkg/grid"
	"phasequality/pkg/window"
)

// Result holds the outputs of a phase filter
type Result struct {
	// Phase is the filtered canonical phase in [0, 1)
	Phase *grid.Image

	// Display is the filtered phase rescaled to [0, 1] by its own range
	Display *grid.Image
}

// reduction is a windowed circular reduction returning angles in radians
type reduction func(field *circular.Field, k int, opts window.Options) (*grid.Image, error)

// MeanPhaseFilter replaces every pixel by the circular mean of its k x k window
func MeanPhaseFilter(wrapped *grid.Image, k int, opts window.Options) (*Result, error) {
	return apply("mean phase filter", wrapped, k, opts, window.CircularMean)
}

// MedianPhaseFilter replaces every pixel by the circular median of its k x k window
func MedianPhaseFilter(wrapped *grid.Image, k int, opts window.Options) (*Result, error) {
	return apply("median phase filter", wrapped, k, opts, window.CircularMedian)
}

func apply(op string, wrapped *grid.Image, k int, opts window.Options, reduce reduction) (*Result, error) {
	if err := wrapped.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := grid.ValidateWindow(k); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if opts.Mask != nil {
		if err := opts.Mask.Validate(wrapped.Rows, wrapped.Cols); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	// The vectors are computed once for the whole image, not per window
	field, err := circular.NewField(wrapped)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	angles, err := reduce(field, k, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	phase := grid.NewImage(angles.Rows, angles.Cols)
	for i, a := range angles.Data {
		phase.Data[i] = circular.ToCanonical(a)
	}

	display := angles
	grid.Normalize(display, 0, 1)

	return &Result{Phase: phase, Display: display}, nil
}
