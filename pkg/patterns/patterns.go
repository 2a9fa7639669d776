// Package patterns generates synthetic unwrapped phase surfaces and noise
// for exercising the filters and quality maps. Surfaces are in radians and
// are meant to be wrapped with grid.WrapCanonical before use.
package patterns

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"phasequality/pkg/grid"
)

// Default test surface parameters
const (
	DefaultRows = 128
	DefaultCols = 128
	DefaultMin  = -10 * math.Pi
	DefaultMax  = 10 * math.Pi
)

// Kind names a surface generator
type Kind string

const (
	KindVertical   Kind = "vertical"
	KindHorizontal Kind = "horizontal"
	KindShear      Kind = "shear"
	KindSpiral     Kind = "spiral"
	KindPeaks      Kind = "peaks"
)

// Kinds lists every generator in a stable order
var Kinds = []Kind{KindVertical, KindHorizontal, KindShear, KindSpiral, KindPeaks}

// Generate dispatches to the generator named by kind
func Generate(kind Kind, rows, cols int, minVal, maxVal float64) (*grid.Image, error) {
	switch kind {
	case KindVertical:
		return VerticalPlane(rows, cols, minVal, maxVal)
	case KindHorizontal:
		return HorizontalPlane(rows, cols, minVal, maxVal)
	case KindShear:
		return ShearPlanes(rows, cols, minVal, maxVal)
	case KindSpiral:
		return SpiralShear(rows, cols, minVal, maxVal)
	case KindPeaks:
		return Peaks(rows, cols, minVal, maxVal)
	default:
		return nil, fmt.Errorf("%w: unknown pattern %q", grid.ErrInvalidInput, kind)
	}
}

func checkDims(name string, rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("%s: %w: invalid dimensions %dx%d", name, grid.ErrInvalidInput, rows, cols)
	}
	return nil
}

// ordered swaps the bounds so minVal <= maxVal
func ordered(minVal, maxVal float64) (float64, float64) {
	if minVal > maxVal {
		return maxVal, minVal
	}
	return minVal, maxVal
}

// ramp returns n values running linearly from minVal to maxVal
func ramp(n int, minVal, maxVal float64) []float64 {
	values := make([]float64, n)
	if n == 1 {
		values[0] = minVal
		return values
	}
	return floats.Span(values, minVal, maxVal)
}

// VerticalPlane returns a surface increasing from minVal in the top row to maxVal in the bottom row
func VerticalPlane(rows, cols int, minVal, maxVal float64) (*grid.Image, error) {
	if err := checkDims("vertical plane", rows, cols); err != nil {
		return nil, err
	}
	minVal, maxVal = ordered(minVal, maxVal)

	values := ramp(rows, minVal, maxVal)
	img := grid.NewImage(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			img.Data[r*cols+c] = values[r]
		}
	}
	return img, nil
}

// HorizontalPlane returns a surface increasing from minVal in the first column to maxVal in the last
func HorizontalPlane(rows, cols int, minVal, maxVal float64) (*grid.Image, error) {
	if err := checkDims("horizontal plane", rows, cols); err != nil {
		return nil, err
	}
	minVal, maxVal = ordered(minVal, maxVal)

	values := ramp(cols, minVal, maxVal)
	img := grid.NewImage(rows, cols)
	for r := 0; r < rows; r++ {
		copy(img.Data[r*cols:(r+1)*cols], values)
	}
	return img, nil
}

// ShearPlanes splits the image into a left plane increasing downwards and a
// right plane increasing upwards. Both meet at the same value in the middle row.
func ShearPlanes(rows, cols int, minVal, maxVal float64) (*grid.Image, error) {
	if err := checkDims("shear planes", rows, cols); err != nil {
		return nil, err
	}
	minVal, maxVal = ordered(minVal, maxVal)

	img := grid.NewImage(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c < cols/2 {
				img.Data[r*cols+c] = float64(r - rows/2)
			} else {
				img.Data[r*cols+c] = float64(rows/2 - r)
			}
		}
	}

	grid.Normalize(img, minVal, maxVal)
	return img, nil
}

// SpiralShear builds concentric semicircular bands with alternating vertical
// slopes, offset between the top and bottom halves so that they form a spiral.
// Pixels outside every band stay 0.
func SpiralShear(rows, cols int, minVal, maxVal float64) (*grid.Image, error) {
	if err := checkDims("spiral shear", rows, cols); err != nil {
		return nil, err
	}
	minVal, maxVal = ordered(minVal, maxVal)

	img := grid.NewImage(rows, cols)

	// Band thickness
	dR := cols / 8
	if dR < 1 {
		dR = 1
	}
	centerRow := rows / 2

	for row := 0; row < rows; row++ {
		isTop := row < rows/2

		centerCol := cols / 2
		realMin, realMax := maxVal, minVal
		if isTop {
			centerCol += dR
			realMin, realMax = minVal, maxVal
		} else {
			centerCol -= dR
		}

		for col := 0; col < cols; col++ {
			dist := float64((row-centerRow)*(row-centerRow) + (col-centerCol)*(col-centerCol))

			odd := false
			for r := dR; r < rows+cols; r += 2 * dR {
				if dist < float64(r*r) {
					if odd {
						img.Data[row*cols+col] = grid.Scale(float64(row), 0, float64(rows), realMin, realMax)
					} else {
						img.Data[row*cols+col] = grid.Scale(float64(row), 0, float64(rows), realMax, realMin)
					}
					break
				}
				odd = !odd
			}
		}
	}
	return img, nil
}

// peak is the classic three-gaussian "peaks" surface
func peak(x, y float64) float64 {
	return 3*math.Pow(1-x, 2)*math.Exp(-x*x-math.Pow(y+1, 2)) -
		10*(x/5-math.Pow(x, 3)-math.Pow(y, 5))*math.Exp(-x*x-y*y) -
		1.0/3*math.Exp(-math.Pow(x+1, 2)-y*y)
}

// Peaks samples the peaks surface over [-2.5, 2.5]² and rescales it to [minVal, maxVal]
func Peaks(rows, cols int, minVal, maxVal float64) (*grid.Image, error) {
	if err := checkDims("peaks", rows, cols); err != nil {
		return nil, err
	}
	minVal, maxVal = ordered(minVal, maxVal)

	ys := ramp(rows, -2.5, 2.5)
	xs := ramp(cols, -2.5, 2.5)

	img := grid.NewImage(rows, cols)
	for r, y := range ys {
		for c, x := range xs {
			img.Data[r*cols+c] = peak(x, y)
		}
	}

	grid.Normalize(img, minVal, maxVal)
	return img, nil
}
