package grid

import "fmt"

// Bitflag is a per-pixel set of marker bits.
// Different algorithms use different flags, so flags only need to be
// exclusive among the ones a given computation uses.
type Bitflag uint16

const (
	// NoFlag marks no bits
	NoFlag Bitflag = 0x0000

	// Border marks the image frame
	Border Bitflag = 0x0001
)

// Has reports whether any bit of pattern is set in f
func (f Bitflag) Has(pattern Bitflag) bool {
	return f&pattern != 0
}

// Mask is a bitflag image with the same layout as the phase image it annotates.
// Computations only read it.
type Mask struct {
	Flags []Bitflag
	Rows  int
	Cols  int
}

// NewMask allocates a mask with every pixel set to NoFlag
func NewMask(rows, cols int) *Mask {
	return &Mask{
		Flags: make([]Bitflag, rows*cols),
		Rows:  rows,
		Cols:  cols,
	}
}

// BorderMask returns a mask with the Border flag set on the outermost
// width pixels of each side
func BorderMask(rows, cols, width int) *Mask {
	m := NewMask(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if r < width || c < width || r >= rows-width || c >= cols-width {
				m.Flags[r*cols+c] |= Border
			}
		}
	}
	return m
}

// At returns the flags at (row, col)
func (m *Mask) At(row, col int) Bitflag {
	return m.Flags[row*m.Cols+col]
}

// Mark adds flag to the pixel at (row, col)
func (m *Mask) Mark(row, col int, flag Bitflag) {
	m.Flags[row*m.Cols+col] |= flag
}

// Validate checks the mask layout and that it matches an image of rows x cols
func (m *Mask) Validate(rows, cols int) error {
	if m.Rows <= 0 || m.Cols <= 0 || len(m.Flags) != m.Rows*m.Cols {
		return fmt.Errorf("%w: malformed mask (%dx%d, %d flags)", ErrInvalidInput, m.Rows, m.Cols, len(m.Flags))
	}
	if m.Rows != rows || m.Cols != cols {
		return fmt.Errorf("%w: mask is %dx%d, image is %dx%d", ErrDimensionMismatch, m.Rows, m.Cols, rows, cols)
	}
	return nil
}
