package grid

import "math"

// Wrap folds a phase given in radians into (-π, π]
func Wrap(phase float64) float64 {
	return math.Atan2(math.Sin(phase), math.Cos(phase))
}

// Canonical folds a phase given in radians into the canonical range [0, 1)
func Canonical(phase float64) float64 {
	p := phase / (2 * math.Pi)
	p -= math.Floor(p)
	if p >= 1 {
		p = 0
	}
	return p
}

// WrapImage wraps every sample of an unwrapped phase image (radians).
// With normalize set the result is min-max rescaled to [0, 1] for display,
// otherwise it stays in (-π, π].
func WrapImage(phase *Image, normalize bool) *Image {
	out := NewImage(phase.Rows, phase.Cols)
	for i, v := range phase.Data {
		out.Data[i] = Wrap(v)
	}

	if normalize {
		Normalize(out, 0, 1)
	}
	return out
}

// WrapCanonical wraps an unwrapped phase image (radians) into canonical [0, 1) phase
func WrapCanonical(phase *Image) *Image {
	out := NewImage(phase.Rows, phase.Cols)
	for i, v := range phase.Data {
		out.Data[i] = Canonical(v)
	}
	return out
}
