// Package gradient computes wrap-aware finite differences of canonical phase images.
package gradient

import (
	"fmt"

	"phasequality/pkg/grid"
)

// Gradient returns current - other corrected for wraparound.
// Differences larger than half a cycle are assumed to be caused by the wrap
// and are moved back onto the shortest signed path.
func Gradient(current, other float64) float64 {
	r := current - other
	if r > 0.5 {
		r -= 1
	} else if r < -0.5 {
		r += 1
	}
	return r
}

// Dx computes the horizontal gradient next - current for every pixel.
// The last column uses its left neighbour as current - prev, which keeps the sign convention.
// A single-column image has a zero gradient.
func Dx(phase *grid.Image) (*grid.Image, error) {
	if err := phase.Validate(); err != nil {
		return nil, fmt.Errorf("dx gradient: %w", err)
	}

	rows, cols := phase.Rows, phase.Cols
	dx := grid.NewImage(rows, cols)
	if cols < 2 {
		return dx, nil
	}

	for r := 0; r < rows; r++ {
		row := phase.Data[r*cols : (r+1)*cols]
		out := dx.Data[r*cols : (r+1)*cols]
		for c := 0; c < cols-1; c++ {
			out[c] = Gradient(row[c+1], row[c])
		}
		out[cols-1] = Gradient(row[cols-1], row[cols-2])
	}
	return dx, nil
}

// Dy computes the vertical gradient next - current for every pixel.
// The last row uses the row above as current - prev.
// A single-row image has a zero gradient.
func Dy(phase *grid.Image) (*grid.Image, error) {
	if err := phase.Validate(); err != nil {
		return nil, fmt.Errorf("dy gradient: %w", err)
	}

	rows, cols := phase.Rows, phase.Cols
	dy := grid.NewImage(rows, cols)
	if rows < 2 {
		return dy, nil
	}

	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols; c++ {
			dy.Data[r*cols+c] = Gradient(phase.Data[(r+1)*cols+c], phase.Data[r*cols+c])
		}
	}
	last := rows - 1
	for c := 0; c < cols; c++ {
		dy.Data[last*cols+c] = Gradient(phase.Data[last*cols+c], phase.Data[(last-1)*cols+c])
	}
	return dy, nil
}
