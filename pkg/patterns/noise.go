package patterns

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"phasequality/pkg/grid"
)

// DefaultSeed makes repeated runs produce the same noise
const DefaultSeed = 2137

// Noise injects impulse and uniform noise into images.
// It walks pixels sequentially so a given seed always corrupts the same pixels.
type Noise struct {
	rng *rand.Rand
}

// NewNoise creates a noise source with the given seed
func NewNoise(seed uint64) *Noise {
	return &Noise{rng: rand.New(rand.NewPCG(seed, seed))}
}

// AddSaltPepper replaces each pixel with probability p by either the image
// minimum or maximum, chosen with equal odds
func (n *Noise) AddSaltPepper(img *grid.Image, p float64) {
	if len(img.Data) == 0 {
		return
	}
	minVal, maxVal := floats.Min(img.Data), floats.Max(img.Data)

	for i := range img.Data {
		if n.rng.Float64() < p {
			if n.rng.Float64() > 0.5 {
				img.Data[i] = minVal
			} else {
				img.Data[i] = maxVal
			}
		}
	}
}

// AddRandom replaces each pixel with probability p by a uniform value drawn
// from the image range, shrunk around its midpoint by magnitude (1 keeps the full range)
func (n *Noise) AddRandom(img *grid.Image, p, magnitude float64) {
	if len(img.Data) == 0 {
		return
	}
	minVal, maxVal := floats.Min(img.Data), floats.Max(img.Data)
	mid := (minVal + maxVal) / 2
	half := magnitude * (maxVal - minVal) / 2

	for i := range img.Data {
		if n.rng.Float64() < p {
			img.Data[i] = grid.Scale(n.rng.Float64(), 0, 1, mid-half, mid+half)
		}
	}
}
