package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Scale maps value linearly from [srcMin, srcMax] onto [dstMin, dstMax].
// The result is undefined when srcMin == srcMax.
func Scale(value, srcMin, srcMax, dstMin, dstMax float64) float64 {
	return (srcMin*dstMax - srcMax*dstMin + dstMin*value - dstMax*value) / (srcMin - srcMax)
}

// flatTolerance is the relative spread below which an image counts as constant
const flatTolerance = 1e-12

// Normalize rescales the samples of img in place so that its minimum maps to lo
// and its maximum to hi. A constant image, including one whose spread is only
// rounding noise, is filled with lo.
func Normalize(img *Image, lo, hi float64) {
	if len(img.Data) == 0 {
		return
	}

	minVal := floats.Min(img.Data)
	maxVal := floats.Max(img.Data)

	if maxVal-minVal <= flatTolerance*math.Max(1, math.Max(math.Abs(minVal), math.Abs(maxVal))) {
		for i := range img.Data {
			img.Data[i] = lo
		}
		return
	}

	for i, v := range img.Data {
		img.Data[i] = Scale(v, minVal, maxVal, lo, hi)
	}

	// Pin the extremes, the interpolation can be off by an ulp
	for i, v := range img.Data {
		img.Data[i] = math.Min(math.Max(v, math.Min(lo, hi)), math.Max(lo, hi))
	}
}

// Negate flips the sign of every sample in place
func Negate(img *Image) {
	floats.Scale(-1, img.Data)
}

// ToDisplayable returns a copy of img rescaled to [0, 1]
func ToDisplayable(img *Image) *Image {
	out := img.Clone()
	Normalize(out, 0, 1)
	return out
}
