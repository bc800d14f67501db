package editor

import (
	"fmt"
	"image"
	"image/color"

	"github.com/MadMatas/img-editor/utils"
)

// Default key used by the one click background removal: white, 15% tolerance.
var (
	DefaultKeyColor     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	DefaultKeyTolerance = 0.15
)

// ColorKey is the color-distance mask filter. Every pixel whose distance
// to Color is at most Tolerance becomes fully transparent.
type ColorKey struct {
	Color     color.NRGBA
	Tolerance float64
}

// NewColorKey builds a ColorKey from a hex color and the tolerance slider value (0-255).
func NewColorKey(hex string, slider int) (*ColorKey, error) {
	c, err := utils.ParseHex(hex)
	if err != nil {
		return nil, err
	}
	return &ColorKey{Color: c, Tolerance: NormalizeTolerance(slider)}, nil
}

// Name implements the Filter interface.
func (k *ColorKey) Name() string { return "RemoveColor" }

// String returns a short description of the key, eg. "#ffffff ≤ 0.150".
func (k *ColorKey) String() string {
	return fmt.Sprintf("%s ≤ %.3f", utils.Hex(k.Color), k.Tolerance)
}

// Apply returns a copy of src in which the pixels close to the key color are transparent.
// Only the alpha channel of the matching pixels is touched, so applying the filter
// on its own output gives back the same bitmap.
func (k *ColorKey) Apply(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	tol := utils.Clamp(k.Tolerance, 0, 1)
	b := src.Bounds()

	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := src.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		row := b.Dx() * 4
		copy(dst.Pix[di:di+row], src.Pix[si:si+row])

		for i := di; i < di+row; i += 4 {
			px := color.NRGBA{R: dst.Pix[i], G: dst.Pix[i+1], B: dst.Pix[i+2]}
			if ColorDistance(px, k.Color) <= tol {
				dst.Pix[i+3] = 0
			}
		}
	}
	return dst
}

// ApplyColorKey keys out the reference color from an image drawable. An existing
// key filter is replaced, the other filters are kept in place, and the filter
// chain is recomputed from the original source.
func ApplyColorKey(d *Drawable, ref color.NRGBA, tolerance float64) error {
	if d == nil || d.Kind != KindImage {
		return ErrFilterNoop
	}

	key := &ColorKey{Color: ref, Tolerance: utils.Clamp(tolerance, 0, 1)}
	filters := make([]Filter, 0, len(d.Filters)+1)
	for _, f := range d.Filters {
		if _, ok := f.(*ColorKey); ok {
			continue
		}
		filters = append(filters, f)
	}
	d.Filters = append(filters, key)
	d.ApplyFilters()

	return nil
}
