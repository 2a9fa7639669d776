package window

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"phasequality/pkg/grid"
)

// Variance computes the population variance E[x²] - E[x]² of every k x k window of img.
// Windows without included neighbours have variance 0.
func Variance(img *grid.Image, k int, opts Options) (*grid.Image, error) {
	if err := checkImage("windowed variance", img, k, opts); err != nil {
		return nil, err
	}

	return run(img.Rows, img.Cols, k, opts, func() reducer {
		return &varianceReducer{src: img.Data, buf: make([]float64, 0, k*k)}
	}), nil
}

// MaxAbs computes the maximum of |x| over every k x k window of img.
// Windows without included neighbours yield 0.
func MaxAbs(img *grid.Image, k int, opts Options) (*grid.Image, error) {
	if err := checkImage("windowed max abs", img, k, opts); err != nil {
		return nil, err
	}

	return run(img.Rows, img.Cols, k, opts, func() reducer {
		return &maxAbsReducer{src: img.Data}
	}), nil
}

type varianceReducer struct {
	src []float64
	buf []float64
}

func (v *varianceReducer) reset()    { v.buf = v.buf[:0] }
func (v *varianceReducer) add(i int) { v.buf = append(v.buf, v.src[i]) }

func (v *varianceReducer) value() float64 {
	if len(v.buf) == 0 {
		return 0
	}
	_, variance := stat.PopMeanVariance(v.buf, nil)
	return math.Max(variance, 0)
}

type maxAbsReducer struct {
	src []float64
	max float64
}

func (m *maxAbsReducer) reset() { m.max = 0 }

func (m *maxAbsReducer) add(i int) {
	if a := math.Abs(m.src[i]); a > m.max {
		m.max = a
	}
}

func (m *maxAbsReducer) value() float64 { return m.max }
