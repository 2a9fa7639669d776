// Package grid provides the image value types shared by the phase quality
// packages: single-channel floating point phase images and bitflag masks.
// Images are stored as 1D arrays in row-major order.
package grid

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Image is a single-channel floating point image.
// Wrapped phase images hold canonical phase in [0, 1), which represents [0, 2π).
// Gradient, quality and display images use the same type but are not phase.
type Image struct {
	// Data holds the samples in row-major order
	Data []float64

	// Rows and Cols are the image dimensions
	Rows int
	Cols int
}

// NewImage allocates a zeroed image of the given dimensions
func NewImage(rows, cols int) *Image {
	return &Image{
		Data: make([]float64, rows*cols),
		Rows: rows,
		Cols: cols,
	}
}

// FromRows builds an image from a slice of equally sized rows
func FromRows(rows [][]float64) (*Image, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("from rows: %w: empty image", ErrInvalidInput)
	}

	img := NewImage(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != img.Cols {
			return nil, fmt.Errorf("from rows: %w: row %d has %d columns, expected %d",
				ErrInvalidInput, r, len(row), img.Cols)
		}
		copy(img.Data[r*img.Cols:], row)
	}
	return img, nil
}

// FromDense copies a gonum matrix into a new image
func FromDense(m mat.Matrix) *Image {
	rows, cols := m.Dims()
	img := NewImage(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			img.Data[r*cols+c] = m.At(r, c)
		}
	}
	return img
}

// Dense returns a gonum matrix holding a copy of the image samples
func (img *Image) Dense() *mat.Dense {
	data := make([]float64, len(img.Data))
	copy(data, img.Data)
	return mat.NewDense(img.Rows, img.Cols, data)
}

// At returns the sample at (row, col)
func (img *Image) At(row, col int) float64 {
	return img.Data[row*img.Cols+col]
}

// Set stores v at (row, col)
func (img *Image) Set(row, col int, v float64) {
	img.Data[row*img.Cols+col] = v
}

// Clone returns a deep copy of the image
func (img *Image) Clone() *Image {
	out := NewImage(img.Rows, img.Cols)
	copy(out.Data, img.Data)
	return out
}

// SameSize reports whether both images have identical dimensions
func (img *Image) SameSize(other *Image) bool {
	return img.Rows == other.Rows && img.Cols == other.Cols
}

// Validate checks that the image is non-empty and that its storage matches
// its dimensions. Violations are reported as ErrInvalidInput.
func (img *Image) Validate() error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	if img.Rows <= 0 || img.Cols <= 0 {
		return fmt.Errorf("%w: empty image (%dx%d)", ErrInvalidInput, img.Rows, img.Cols)
	}
	if len(img.Data) != img.Rows*img.Cols {
		return fmt.Errorf("%w: %d samples for a %dx%d single-channel image",
			ErrInvalidInput, len(img.Data), img.Rows, img.Cols)
	}
	return nil
}
