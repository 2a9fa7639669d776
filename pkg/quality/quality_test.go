package quality

import (
	"errors"
	"testing"

	"phasequality/pkg/grid"
	"phasequality/pkg/patterns"
	"phasequality/pkg/window"
)

// stepImage returns a 32x32 phase image with a step of 0.25 between columns 15 and 16
func stepImage() *grid.Image {
	img := grid.NewImage(32, 32)
	for r := 0; r < 32; r++ {
		for c := 0; c < 32; c++ {
			if c < 16 {
				img.Set(r, c, 0.2)
			} else {
				img.Set(r, c, 0.45)
			}
		}
	}
	return img
}

func checkUnitRange(t *testing.T, name string, img *grid.Image) {
	t.Helper()
	for i, v := range img.Data {
		if v < 0 || v > 1 {
			t.Fatalf("%s: value %v at %d outside [0, 1]", name, v, i)
		}
	}
}

func TestStepDiscontinuityScoresLower(t *testing.T) {
	phase := stepImage()

	pdv, err := PDV(phase, 3, window.Options{})
	if err != nil {
		t.Fatalf("PDV failed: %v", err)
	}
	maxGrad, err := MaxAbsGrad(phase, 3, window.Options{})
	if err != nil {
		t.Fatalf("MaxAbsGrad failed: %v", err)
	}

	for name, q := range map[string]*grid.Image{"pdv": pdv, "maxgrad": maxGrad} {
		checkUnitRange(t, name, q)

		smooth, step := q.At(16, 4), q.At(16, 15)
		if smooth <= step {
			t.Errorf("%s: smooth pixel scored %v, step pixel %v", name, smooth, step)
		}
		if smooth != 1 {
			t.Errorf("%s: locally constant pixel expected to score 1, got %v", name, smooth)
		}
	}
}

// TestRangeOnPatterns checks the [0, 1] bound over every test surface and window size
func TestRangeOnPatterns(t *testing.T) {
	for _, kind := range patterns.Kinds {
		surface, err := patterns.Generate(kind, 48, 40, patterns.DefaultMin, patterns.DefaultMax)
		if err != nil {
			t.Fatalf("Generate %s failed: %v", kind, err)
		}
		phase := grid.WrapCanonical(surface)
		patterns.NewNoise(patterns.DefaultSeed).AddSaltPepper(phase, 0.02)

		for _, k := range []int{3, 5, 9} {
			pdv, err := PDV(phase, k, window.Options{})
			if err != nil {
				t.Fatalf("PDV %s k=%d failed: %v", kind, k, err)
			}
			checkUnitRange(t, string(kind)+" pdv", pdv)

			maxGrad, err := MaxAbsGrad(phase, k, window.Options{})
			if err != nil {
				t.Fatalf("MaxAbsGrad %s k=%d failed: %v", kind, k, err)
			}
			checkUnitRange(t, string(kind)+" maxgrad", maxGrad)
		}
	}
}

// TestMaskIgnoresStep verifies that masking out the step columns restores full quality
func TestMaskIgnoresStep(t *testing.T) {
	phase := stepImage()

	const badPixel grid.Bitflag = 0x0002
	mask := grid.BorderMask(32, 32, 1)
	for r := 0; r < 32; r++ {
		mask.Mark(r, 15, badPixel)
	}

	pdv, err := PDV(phase, 3, window.Options{Mask: mask, Ignore: badPixel})
	if err != nil {
		t.Fatalf("PDV failed: %v", err)
	}
	// With the only non-zero dx column ignored, every window has zero variance
	for i, v := range pdv.Data {
		if v != 0 {
			t.Fatalf("Expected a flat map (collapsed to 0), got %v at %d", v, i)
		}
	}
}

func TestMapperMatchesFunctions(t *testing.T) {
	surface, err := patterns.Peaks(40, 40, 0, 12)
	if err != nil {
		t.Fatalf("Peaks failed: %v", err)
	}
	phase := grid.WrapCanonical(surface)
	opts := window.Options{Mask: grid.BorderMask(40, 40, 2), Ignore: grid.Border}

	mapper, err := NewMapper(phase, opts)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}

	fromMapper, err := mapper.PDV(5)
	if err != nil {
		t.Fatalf("Mapper.PDV failed: %v", err)
	}
	direct, err := PDV(phase, 5, opts)
	if err != nil {
		t.Fatalf("PDV failed: %v", err)
	}
	for i := range direct.Data {
		if fromMapper.Data[i] != direct.Data[i] {
			t.Fatalf("Mapper PDV differs at %d: %v vs %v", i, fromMapper.Data[i], direct.Data[i])
		}
	}

	fromMapper, err = mapper.MaxGrad(5)
	if err != nil {
		t.Fatalf("Mapper.MaxGrad failed: %v", err)
	}
	direct, err = MaxAbsGrad(phase, 5, opts)
	if err != nil {
		t.Fatalf("MaxAbsGrad failed: %v", err)
	}
	for i := range direct.Data {
		if fromMapper.Data[i] != direct.Data[i] {
			t.Fatalf("Mapper MaxGrad differs at %d: %v vs %v", i, fromMapper.Data[i], direct.Data[i])
		}
	}

	dx1, err := mapper.Dx()
	if err != nil {
		t.Fatalf("Dx failed: %v", err)
	}
	dx2, _ := mapper.Dx()
	if dx1 != dx2 {
		t.Errorf("Expected the gradient to be computed once and reused")
	}
	if _, err := mapper.Dy(); err != nil {
		t.Errorf("Dy failed: %v", err)
	}
}

func TestValidation(t *testing.T) {
	phase := stepImage()

	if _, err := PDV(phase, 4, window.Options{}); !errors.Is(err, grid.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for even k, got %v", err)
	}
	if _, err := MaxAbsGrad(&grid.Image{}, 3, window.Options{}); !errors.Is(err, grid.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty image, got %v", err)
	}

	wrong := window.Options{Mask: grid.NewMask(31, 32), Ignore: grid.Border}
	if _, err := PDV(phase, 3, wrong); !errors.Is(err, grid.ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := NewMapper(phase, wrong); !errors.Is(err, grid.ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch from NewMapper, got %v", err)
	}

	mapper, err := NewMapper(phase, window.Options{})
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}
	if _, err := mapper.MaxGrad(1); !errors.Is(err, grid.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for k=1, got %v", err)
	}
}
