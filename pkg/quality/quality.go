// Package quality assembles per-pixel quality maps of wrapped phase images.
// Every map is rescaled to [0, 1] with higher values marking more trustworthy
// pixels, which is what path-following unwrappers expect.
package quality

import (
	"fmt"

	"phasequality/pkg/gradient"
	"phasequality/pkg/grid"
	"phasequality/pkg/window"
)

// PDV computes the phase derivative variance quality map: the windowed
// variance of the x gradient plus that of the y gradient, inverted so that
// low-variance pixels score 1.
func PDV(phase *grid.Image, k int, opts window.Options) (*grid.Image, error) {
	if err := validate("pdv", phase, k, opts); err != nil {
		return nil, err
	}

	dx, dy, err := gradients(phase)
	if err != nil {
		return nil, fmt.Errorf("pdv: %w", err)
	}
	return pdvFromGradients(dx, dy, k, opts)
}

// MaxAbsGrad computes the maximum absolute gradient quality map: the larger of
// the windowed maximum |dx| and |dy| per pixel, inverted so that smooth pixels score 1.
func MaxAbsGrad(phase *grid.Image, k int, opts window.Options) (*grid.Image, error) {
	if err := validate("max abs gradient", phase, k, opts); err != nil {
		return nil, err
	}

	dx, dy, err := gradients(phase)
	if err != nil {
		return nil, fmt.Errorf("max abs gradient: %w", err)
	}
	return maxGradFromGradients(dx, dy, k, opts)
}

// validate fails fast before any gradient is allocated
func validate(op string, phase *grid.Image, k int, opts window.Options) error {
	if err := phase.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := grid.ValidateWindow(k); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if opts.Mask != nil {
		if err := opts.Mask.Validate(phase.Rows, phase.Cols); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

func gradients(phase *grid.Image) (dx, dy *grid.Image, err error) {
	if dx, err = gradient.Dx(phase); err != nil {
		return nil, nil, err
	}
	if dy, err = gradient.Dy(phase); err != nil {
		return nil, nil, err
	}
	return dx, dy, nil
}

func pdvFromGradients(dx, dy *grid.Image, k int, opts window.Options) (*grid.Image, error) {
	pdv, err := window.Variance(dx, k, opts)
	if err != nil {
		return nil, fmt.Errorf("pdv: %w", err)
	}

	varY, err := window.Variance(dy, k, opts)
	if err != nil {
		return nil, fmt.Errorf("pdv: %w", err)
	}
	for i, v := range varY.Data {
		pdv.Data[i] += v
	}

	// Higher variance means a worse pixel
	grid.Negate(pdv)
	grid.Normalize(pdv, 0, 1)
	return pdv, nil
}

func maxGradFromGradients(dx, dy *grid.Image, k int, opts window.Options) (*grid.Image, error) {
	maxGrad, err := window.MaxAbs(dx, k, opts)
	if err != nil {
		return nil, fmt.Errorf("max abs gradient: %w", err)
	}

	maxY, err := window.MaxAbs(dy, k, opts)
	if err != nil {
		return nil, fmt.Errorf("max abs gradient: %w", err)
	}
	for i, v := range maxY.Data {
		maxGrad.Data[i] = max(maxGrad.Data[i], v)
	}

	// Higher gradient means a worse pixel
	grid.Negate(maxGrad)
	grid.Normalize(maxGrad, 0, 1)
	return maxGrad, nil
}
