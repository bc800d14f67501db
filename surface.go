package editor

import (
	"fmt"
	"image"
	"image/color"
)

// Surface is the rasterized scene. The backing store may be larger than the
// logical display size on high density displays.
type Surface struct {
	Image         *image.NRGBA
	DisplayWidth  int
	DisplayHeight int
	// Tainted is set when a drawable whose pixels cannot be read back was drawn on the surface.
	Tainted bool
}

// ScaleFactor returns the ratio between the backing store and the display size.
func (s *Surface) ScaleFactor() (float64, float64, error) {
	if s == nil || s.Image == nil || s.DisplayWidth <= 0 || s.DisplayHeight <= 0 {
		return 0, 0, ErrInvalidSurface
	}
	b := s.Image.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return 0, 0, ErrInvalidSurface
	}
	return float64(b.Dx()) / float64(s.DisplayWidth), float64(b.Dy()) / float64(s.DisplayHeight), nil
}

// ReadPixel returns the color found at the backing store coordinates.
func (s *Surface) ReadPixel(x, y int) (color.NRGBA, error) {
	if s == nil || s.Image == nil {
		return color.NRGBA{}, ErrInvalidSurface
	}
	if s.Tainted {
		return color.NRGBA{}, ErrTaintedSurface
	}
	if !(image.Point{X: x, Y: y}).In(s.Image.Bounds()) {
		return color.NRGBA{}, fmt.Errorf("%w: (%d, %d)", ErrSampleOutOfBounds, x, y)
	}
	return s.Image.NRGBAAt(x, y), nil
}
