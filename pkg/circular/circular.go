// Package circular implements the circular statistics kernel used by the
// phase filters. Canonical phase p in [0, 1) is treated as the unit vector
// (cos 2πp, sin 2πp) so that averaging is not biased by wraparound.
package circular

import (
	"fmt"
	"math"

	"phasequality/pkg/grid"
)

// ToVector maps canonical phase p to (cos 2πp, sin 2πp)
func ToVector(p float64) (re, im float64) {
	im, re = math.Sincos(2 * math.Pi * p)
	return re, im
}

// FromVector returns the argument of (re, im) in radians, in (-π, π].
// The zero vector maps to 0.
func FromVector(re, im float64) float64 {
	return math.Atan2(im, re)
}

// ToCanonical converts an angle in radians to canonical phase in [0, 1)
func ToCanonical(angle float64) float64 {
	return grid.Canonical(angle)
}

// Field holds the unit vectors of every sample of a phase image.
// It is computed once per image and then windowed by the filters.
type Field struct {
	Re   []float64
	Im   []float64
	Rows int
	Cols int
}

// NewField computes the vector field of a canonical phase image
func NewField(phase *grid.Image) (*Field, error) {
	if err := phase.Validate(); err != nil {
		return nil, fmt.Errorf("vector field: %w", err)
	}

	f := &Field{
		Re:   make([]float64, len(phase.Data)),
		Im:   make([]float64, len(phase.Data)),
		Rows: phase.Rows,
		Cols: phase.Cols,
	}
	for i, p := range phase.Data {
		f.Re[i], f.Im[i] = ToVector(p)
	}
	return f, nil
}

// Phase converts the field back to an image of angles in radians
func (f *Field) Phase() *grid.Image {
	out := grid.NewImage(f.Rows, f.Cols)
	for i := range out.Data {
		out.Data[i] = FromVector(f.Re[i], f.Im[i])
	}
	return out
}
