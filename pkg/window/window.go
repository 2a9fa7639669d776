// Package window implements the sliding-window aggregation engine behind the
// phase filters and quality maps.
//
// For every pixel the k x k window centred on it is intersected with the image
// bounds. Border pixels therefore see a smaller window: nothing is padded or
// extended. Neighbours flagged in an optional mask are left out of the
// reduction, and a window left with no neighbours reduces to 0.
//
// Output pixels are independent, so rows are spread across NumCores
// goroutines. Each goroutine owns its reducer scratch space and reduces a
// whole window on its own, so no running statistic is ever shared.
package window

import (
	"fmt"
	"runtime"
	"sync"

	"phasequality/pkg/grid"
)

// Options controls masking and parallelism of a windowed computation
type Options struct {
	// Mask enables masking when non-nil. It must match the image dimensions
	// and is only read.
	Mask *grid.Mask

	// Ignore selects the mask bits that exclude a neighbour. NoFlag excludes nothing.
	Ignore grid.Bitflag

	// NumCores is the number of goroutines used; <= 0 means runtime.NumCPU()
	NumCores int
}

// Masked reports whether a mask was supplied
func (o Options) Masked() bool {
	return o.Mask != nil
}

func (o Options) validate(rows, cols int) error {
	if o.Mask == nil {
		return nil
	}
	return o.Mask.Validate(rows, cols)
}

func (o Options) workers(rows int) int {
	n := o.NumCores
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > rows {
		n = rows
	}
	return n
}

// Rect is a window clipped to the image bounds. Row1 and Col1 are exclusive.
type Rect struct {
	Row0, Row1 int
	Col0, Col1 int
}

// Clip returns the k x k window centred on (row, col) intersected with a rows x cols image
func Clip(row, col, k, rows, cols int) Rect {
	h := k / 2
	return Rect{
		Row0: max(row-h, 0),
		Row1: min(row+h+1, rows),
		Col0: max(col-h, 0),
		Col1: min(col+h+1, cols),
	}
}

// Area is the number of pixels in the clipped window
func (r Rect) Area() int {
	return (r.Row1 - r.Row0) * (r.Col1 - r.Col0)
}

// reducer accumulates the included neighbours of one window, addressed by
// their row-major index, and reduces them to a single value
type reducer interface {
	reset()
	add(i int)
	value() float64
}

// run evaluates a reducer over every window of a rows x cols image.
// Inputs must already be validated.
func run(rows, cols, k int, opts Options, newReducer func() reducer) *grid.Image {
	out := grid.NewImage(rows, cols)

	var ignore []grid.Bitflag
	if opts.Mask != nil && opts.Ignore != grid.NoFlag {
		ignore = opts.Mask.Flags
	}

	numWorkers := opts.workers(rows)
	rowsPerWorker := (rows + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := min(startRow+rowsPerWorker, rows)
		if startRow >= endRow {
			continue
		}

		wg.Add(1)
		go func(startRow, endRow int) {
			defer wg.Done()

			red := newReducer()
			for row := startRow; row < endRow; row++ {
				for col := 0; col < cols; col++ {
					win := Clip(row, col, k, rows, cols)

					red.reset()
					for r := win.Row0; r < win.Row1; r++ {
						for i := r*cols + win.Col0; i < r*cols+win.Col1; i++ {
							if ignore != nil && ignore[i]&opts.Ignore != 0 {
								continue
							}
							red.add(i)
						}
					}
					out.Data[row*cols+col] = red.value()
				}
			}
		}(startRow, endRow)
	}
	wg.Wait()

	return out
}

// checkImage validates a scalar source image, the window size and the mask
func checkImage(op string, img *grid.Image, k int, opts Options) error {
	if err := img.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := grid.ValidateWindow(k); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := opts.validate(img.Rows, img.Cols); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
