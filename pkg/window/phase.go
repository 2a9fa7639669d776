package window

import (
	"fmt"

	"phasequality/internal/selection"
	"phasequality/pkg/circular"
	"phasequality/pkg/grid"
)

// CircularMean averages the unit vectors of every k x k window of field and
// returns the argument of the mean vector in radians, in (-π, π].
// Windows without included neighbours yield 0.
func CircularMean(field *circular.Field, k int, opts Options) (*grid.Image, error) {
	if err := checkField("windowed circular mean", field, k, opts); err != nil {
		return nil, err
	}

	return run(field.Rows, field.Cols, k, opts, func() reducer {
		return &meanReducer{field: field}
	}), nil
}

// CircularMedian takes the median of the real and imaginary parts of every
// k x k window of field independently and returns the argument of the
// resulting vector in radians. With an even neighbour count each channel
// median is the mean of its two central order statistics.
func CircularMedian(field *circular.Field, k int, opts Options) (*grid.Image, error) {
	if err := checkField("windowed circular median", field, k, opts); err != nil {
		return nil, err
	}

	return run(field.Rows, field.Cols, k, opts, func() reducer {
		return &medianReducer{
			field: field,
			re:    make([]float64, 0, k*k),
			im:    make([]float64, 0, k*k),
		}
	}), nil
}

func checkField(op string, field *circular.Field, k int, opts Options) error {
	if field == nil || field.Rows <= 0 || field.Cols <= 0 {
		return fmt.Errorf("%s: %w: empty vector field", op, grid.ErrInvalidInput)
	}
	n := field.Rows * field.Cols
	if len(field.Re) != n || len(field.Im) != n {
		return fmt.Errorf("%s: %w: vector field storage does not match %dx%d",
			op, grid.ErrInvalidInput, field.Rows, field.Cols)
	}
	if err := grid.ValidateWindow(k); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := opts.validate(field.Rows, field.Cols); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type meanReducer struct {
	field  *circular.Field
	re, im float64
	n      int
}

func (m *meanReducer) reset() {
	m.re, m.im, m.n = 0, 0, 0
}

func (m *meanReducer) add(i int) {
	m.re += m.field.Re[i]
	m.im += m.field.Im[i]
	m.n++
}

func (m *meanReducer) value() float64 {
	if m.n == 0 {
		return 0
	}
	n := float64(m.n)
	return circular.FromVector(m.re/n, m.im/n)
}

type medianReducer struct {
	field  *circular.Field
	re, im []float64
}

func (m *medianReducer) reset() {
	m.re = m.re[:0]
	m.im = m.im[:0]
}

func (m *medianReducer) add(i int) {
	m.re = append(m.re, m.field.Re[i])
	m.im = append(m.im, m.field.Im[i])
}

func (m *medianReducer) value() float64 {
	if len(m.re) == 0 {
		return 0
	}
	return circular.FromVector(selection.Median(m.re), selection.Median(m.im))
}
