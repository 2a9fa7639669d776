package quality

import (
	"fmt"
	"sync"

	"phasequality/pkg/grid"
	"phasequality/pkg/window"
)

// Mapper binds a wrapped phase image and an optional mask once and computes
// several quality maps from them. Inputs are validated on construction and
// the gradients are computed on first use and reused by later maps.
// A Mapper is safe for concurrent use; the caller must not modify the phase
// image or mask while it is in use.
type Mapper struct {
	phase *grid.Image
	opts  window.Options

	once   sync.Once
	dx, dy *grid.Image
	err    error
}

// NewMapper validates phase and the masking options and returns a Mapper
func NewMapper(phase *grid.Image, opts window.Options) (*Mapper, error) {
	if err := phase.Validate(); err != nil {
		return nil, fmt.Errorf("quality mapper: %w", err)
	}
	if opts.Mask != nil {
		if err := opts.Mask.Validate(phase.Rows, phase.Cols); err != nil {
			return nil, fmt.Errorf("quality mapper: %w", err)
		}
	}
	return &Mapper{phase: phase, opts: opts}, nil
}

func (m *Mapper) gradients() (dx, dy *grid.Image, err error) {
	m.once.Do(func() {
		m.dx, m.dy, m.err = gradients(m.phase)
	})
	return m.dx, m.dy, m.err
}

// Dx returns the wrap-corrected horizontal gradient. The image is shared, do not modify it.
func (m *Mapper) Dx() (*grid.Image, error) {
	dx, _, err := m.gradients()
	return dx, err
}

// Dy returns the wrap-corrected vertical gradient. The image is shared, do not modify it.
func (m *Mapper) Dy() (*grid.Image, error) {
	_, dy, err := m.gradients()
	return dy, err
}

// PDV computes the phase derivative variance map with window size k
func (m *Mapper) PDV(k int) (*grid.Image, error) {
	if err := grid.ValidateWindow(k); err != nil {
		return nil, fmt.Errorf("pdv: %w", err)
	}
	dx, dy, err := m.gradients()
	if err != nil {
		return nil, fmt.Errorf("pdv: %w", err)
	}
	return pdvFromGradients(dx, dy, k, m.opts)
}

// MaxGrad computes the maximum absolute gradient map with window size k
func (m *Mapper) MaxGrad(k int) (*grid.Image, error) {
	if err := grid.ValidateWindow(k); err != nil {
		return nil, fmt.Errorf("max abs gradient: %w", err)
	}
	dx, dy, err := m.gradients()
	if err != nil {
		return nil, fmt.Errorf("max abs gradient: %w", err)
	}
	return maxGradFromGradients(dx, dy, k, m.opts)
}
