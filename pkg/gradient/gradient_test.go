package gradient

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"phasequality/pkg/grid"
	"phasequality/pkg/patterns"
)

func TestGradientWrapCorrection(t *testing.T) {
	tests := []struct {
		current, other, expected float64
	}{
		{0.3, 0.1, 0.2},
		{0.1, 0.3, -0.2},
		{0.05, 0.95, 0.1},
		{0.95, 0.05, -0.1},
		{0.75, 0.25, 0.5},
		{0.25, 0.75, -0.5},
	}

	for _, tt := range tests {
		got := Gradient(tt.current, tt.other)
		if math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Gradient(%v, %v) = %v, expected %v", tt.current, tt.other, got, tt.expected)
		}
	}
}

// TestGradientAntisymmetric verifies gradient(a,b) == -gradient(b,a)
func TestGradientAntisymmetric(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		a, b := rng.Float64(), rng.Float64()
		ab, ba := Gradient(a, b), Gradient(b, a)
		if math.Abs(ab+ba) > 1e-12 {
			t.Fatalf("Gradient not antisymmetric for (%v, %v): %v vs %v", a, b, ab, ba)
		}
		if math.Abs(ab) > 0.5 {
			t.Fatalf("Gradient(%v, %v) = %v outside the ±0.5 band", a, b, ab)
		}
	}
}

func TestDxDy(t *testing.T) {
	phase, err := grid.FromRows([][]float64{
		{0.1, 0.2, 0.4},
		{0.9, 0.0, 0.1},
	})
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}

	dx, err := Dx(phase)
	if err != nil {
		t.Fatalf("Dx failed: %v", err)
	}
	expectedDx := []float64{0.1, 0.2, 0.2, 0.1, 0.1, 0.1}
	for i, v := range dx.Data {
		if math.Abs(v-expectedDx[i]) > 1e-12 {
			t.Errorf("dx[%d] = %v, expected %v", i, v, expectedDx[i])
		}
	}

	dy, err := Dy(phase)
	if err != nil {
		t.Fatalf("Dy failed: %v", err)
	}
	// Last row repeats the row above: current - prev
	expectedDy := []float64{-0.2, -0.2, -0.3, -0.2, -0.2, -0.3}
	for i, v := range dy.Data {
		if math.Abs(v-expectedDy[i]) > 1e-12 {
			t.Errorf("dy[%d] = %v, expected %v", i, v, expectedDy[i])
		}
	}
}

func TestDegenerateShapes(t *testing.T) {
	column := &grid.Image{Rows: 3, Cols: 1, Data: []float64{0.1, 0.2, 0.3}}
	dx, err := Dx(column)
	if err != nil {
		t.Fatalf("Dx failed: %v", err)
	}
	for i, v := range dx.Data {
		if v != 0 {
			t.Errorf("Single column dx[%d] = %v, expected 0", i, v)
		}
	}

	row := &grid.Image{Rows: 1, Cols: 3, Data: []float64{0.1, 0.2, 0.3}}
	dy, err := Dy(row)
	if err != nil {
		t.Fatalf("Dy failed: %v", err)
	}
	for i, v := range dy.Data {
		if v != 0 {
			t.Errorf("Single row dy[%d] = %v, expected 0", i, v)
		}
	}
}

func TestInvalidInput(t *testing.T) {
	bad := &grid.Image{Rows: 2, Cols: 2, Data: []float64{1}}
	if _, err := Dx(bad); !errors.Is(err, grid.ErrInvalidInput) {
		t.Errorf("Dx: expected ErrInvalidInput, got %v", err)
	}
	if _, err := Dy(nil); !errors.Is(err, grid.ErrInvalidInput) {
		t.Errorf("Dy: expected ErrInvalidInput, got %v", err)
	}
}

// TestVerticalRampDy feeds a one-cycle vertical ramp, wrapped mid-image,
// through Dy and expects a constant 1/128 gradient
func TestVerticalRampDy(t *testing.T) {
	const size = 128
	step := 2 * math.Pi / size

	// Start half a cycle in so the wrap jump lands between rows 63 and 64
	start := math.Pi + step/2
	ramp, err := patterns.VerticalPlane(size, size, start, start+step*(size-1))
	if err != nil {
		t.Fatalf("VerticalPlane failed: %v", err)
	}
	phase := grid.WrapCanonical(ramp)

	jump := math.Abs(phase.At(64, 0) - phase.At(63, 0))
	if jump < 0.5 {
		t.Fatalf("Expected a wrap jump between rows 63 and 64, got %v", jump)
	}

	dy, err := Dy(phase)
	if err != nil {
		t.Fatalf("Dy failed: %v", err)
	}

	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			v := dy.At(r, c)
			if math.Abs(v) > 0.5 {
				t.Fatalf("dy(%d,%d) = %v outside the ±0.5 band", r, c, v)
			}
			if math.Abs(v-1.0/size) > 1e-9 {
				t.Fatalf("dy(%d,%d) = %v, expected %v", r, c, v, 1.0/size)
			}
		}
	}
}
