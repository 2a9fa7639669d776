// Package visualization renders phase, gradient and quality images to
// 16-bit grayscale pictures and writes them to disk.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"

	"phasequality/pkg/grid"
)

// Format selects the file encoding used by SaveImage
type Format string

const (
	PNG  Format = "png"
	TIFF Format = "tiff"
	JPEG Format = "jpeg"
)

// ParseFormat accepts a format name or file extension
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "png":
		return PNG, nil
	case "tif", "tiff":
		return TIFF, nil
	case "jpg", "jpeg":
		return JPEG, nil
	default:
		return "", fmt.Errorf("unsupported image format: %s (must be png, tiff or jpeg)", name)
	}
}

// Viewer renders a single float image
type Viewer struct {
	img *grid.Image

	// rescale stretches the image range to full scale before rendering.
	// Without it samples are expected to lie in [0, 1] and are clamped.
	rescale bool
}

// NewViewer creates a viewer for img
func NewViewer(img *grid.Image, rescale bool) *Viewer {
	return &Viewer{img: img, rescale: rescale}
}

// Gray16 renders the image as 16-bit grayscale
func (v *Viewer) Gray16() *image.Gray16 {
	src := v.img
	if v.rescale {
		src = grid.ToDisplayable(v.img)
	}

	out := image.NewGray16(image.Rect(0, 0, src.Cols, src.Rows))
	for y := 0; y < src.Rows; y++ {
		for x := 0; x < src.Cols; x++ {
			value := uint16(math.Max(0, math.Min(65535, math.Round(src.At(y, x)*65535))))
			out.SetGray16(x, y, color.Gray16{Y: value})
		}
	}
	return out
}

// ExtractRegion copies a rows x cols window starting at (startRow, startCol)
func (v *Viewer) ExtractRegion(startRow, startCol, rows, cols int) (*grid.Image, error) {
	if startRow < 0 || startCol < 0 {
		return nil, fmt.Errorf("start coordinates must be non-negative")
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("region dimensions must be positive")
	}
	if startRow+rows > v.img.Rows || startCol+cols > v.img.Cols {
		return nil, fmt.Errorf("region extends beyond image boundaries")
	}

	region := grid.NewImage(rows, cols)
	for r := 0; r < rows; r++ {
		src := (startRow+r)*v.img.Cols + startCol
		copy(region.Data[r*cols:(r+1)*cols], v.img.Data[src:src+cols])
	}
	return region, nil
}

// Save renders the image and writes it to filename in the given format
func (v *Viewer) Save(filename string, format Format) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating image file: %w", err)
	}
	defer file.Close()

	img := v.Gray16()
	switch format {
	case PNG:
		err = png.Encode(file, img)
	case TIFF:
		err = tiff.Encode(file, img, &tiff.Options{Compression: tiff.Deflate})
	case JPEG:
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	default:
		err = fmt.Errorf("unsupported image format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", filename, err)
	}
	return nil
}

// SaveImage writes img to dir/name.<format>, optionally stretched to full range.
// It returns the path written.
func SaveImage(img *grid.Image, dir, name string, format Format, rescale bool) (string, error) {
	path := filepath.Join(dir, name+"."+string(format))
	if err := NewViewer(img, rescale).Save(path, format); err != nil {
		return "", err
	}
	return path, nil
}
