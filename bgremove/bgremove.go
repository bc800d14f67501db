// Package bgremove implements the background removal strategies of the mug editor:
// a local color keying remover, optionally protecting the detected faces,
// and a client of a remote removal service.
package bgremove

import (
	"context"
	"image"
	"image/color"

	editor "github.com/MadMatas/img-editor"
	"github.com/MadMatas/img-editor/utils"
)

// borderAgreement is the share of border pixels which must match the
// average border color for the background to be considered uniform.
const borderAgreement = 0.9

// Remover removes the background of an image.
type Remover interface {
	Remove(ctx context.Context, img image.Image) (*image.NRGBA, error)
}

var (
	_ Remover                  = (*ColorKeyRemover)(nil)
	_ Remover                  = (*HTTPRemover)(nil)
	_ editor.BackgroundRemover = Remover(nil)
)

// ColorKeyRemover removes the pixels close to the background color.
type ColorKeyRemover struct {
	// Color is the background color. When nil it is detected from the image
	// border, falling back to white.
	Color     *color.NRGBA
	Tolerance float64
	// Faces, when set, keeps the detected faces opaque.
	Faces *FaceDetector
}

// NewColorKeyRemover creates a remover using the auto detected border color.
func NewColorKeyRemover() *ColorKeyRemover {
	return &ColorKeyRemover{Tolerance: editor.DefaultKeyTolerance}
}

// Remove implements the Remover interface.
func (r *ColorKeyRemover) Remove(ctx context.Context, img image.Image) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src := editor.FitMaxSize(img, 0)

	key := editor.DefaultKeyColor
	if r.Color != nil {
		key = *r.Color
	} else if c, ok := BorderColor(src, r.Tolerance); ok {
		key = c
	}

	ck := &editor.ColorKey{Color: key, Tolerance: r.Tolerance}
	dst := ck.Apply(src)

	if r.Faces != nil {
		for _, face := range r.Faces.Detect(src) {
			restoreAlpha(dst, src, face)
		}
	}
	return dst, ctx.Err()
}

// BorderColor returns the average color of the image border when most of the
// border pixels are close to it.
func BorderColor(img *image.NRGBA, tolerance float64) (color.NRGBA, bool) {
	b := img.Bounds()
	if b.Empty() {
		return color.NRGBA{}, false
	}

	var border []color.NRGBA
	for x := b.Min.X; x < b.Max.X; x++ {
		border = append(border, img.NRGBAAt(x, b.Min.Y), img.NRGBAAt(x, b.Max.Y-1))
	}
	for y := b.Min.Y + 1; y < b.Max.Y-1; y++ {
		border = append(border, img.NRGBAAt(b.Min.X, y), img.NRGBAAt(b.Max.X-1, y))
	}

	var sr, sg, sb int
	for _, c := range border {
		sr += int(c.R)
		sg += int(c.G)
		sb += int(c.B)
	}
	n := len(border)
	avg := color.NRGBA{R: uint8(sr / n), G: uint8(sg / n), B: uint8(sb / n), A: 0xff}

	tol := utils.Max(tolerance, 0.01)
	var match int
	for _, c := range border {
		if editor.ColorDistance(c, avg) <= tol {
			match++
		}
	}
	return avg, float64(match)/float64(n) >= borderAgreement
}

func restoreAlpha(dst, src *image.NRGBA, r image.Rectangle) {
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := dst.PixOffset(x, y)
			dst.Pix[i+3] = src.Pix[src.PixOffset(x, y)+3]
		}
	}
}
