package editor

import (
	"image"
	"image/color"

	"github.com/MadMatas/img-editor/utils"
	"github.com/disintegration/imaging"
)

// Filter is a pixel transformation applied to the bitmap of an image drawable.
// Apply must not modify its input.
type Filter interface {
	Name() string
	Apply(*image.NRGBA) *image.NRGBA
}

var (
	_ Filter = (*Brightness)(nil)
	_ Filter = (*Contrast)(nil)
	_ Filter = (*Grayscale)(nil)
	_ Filter = (*Blur)(nil)
	_ Filter = (*ColorKey)(nil)
)

// Brightness adds Amount*255 to every color channel. Amount is in [-1, 1].
type Brightness struct {
	Amount float64
}

func (f *Brightness) Name() string { return "Brightness" }

func (f *Brightness) Apply(src *image.NRGBA) *image.NRGBA {
	shift := utils.Clamp(f.Amount, -1, 1) * 255
	return imaging.AdjustFunc(src, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clampChannel(float64(c.R) + shift),
			G: clampChannel(float64(c.G) + shift),
			B: clampChannel(float64(c.B) + shift),
			A: c.A,
		}
	})
}

// Contrast stretches (positive Amount) or compresses (negative Amount)
// the color channels around the mid gray. Amount is in [-1, 1].
type Contrast struct {
	Amount float64
}

func (f *Contrast) Name() string { return "Contrast" }

func (f *Contrast) Apply(src *image.NRGBA) *image.NRGBA {
	c := utils.Clamp(f.Amount, -1, 1) * 255
	factor := 259 * (c + 255) / (255 * (259 - c))

	var lut [256]uint8
	for i := range lut {
		lut[i] = clampChannel(factor*(float64(i)-128) + 128)
	}
	return imaging.AdjustFunc(src, func(px color.NRGBA) color.NRGBA {
		return color.NRGBA{R: lut[px.R], G: lut[px.G], B: lut[px.B], A: px.A}
	})
}

// Blur applies a stack blur with the given radius. A zero radius leaves the image untouched.
type Blur struct {
	Radius int
}

func (f *Blur) Name() string { return "Blur" }

func (f *Blur) Apply(src *image.NRGBA) *image.NRGBA {
	return Stackblur(src, f.Radius)
}

// applyFilters runs the filters in order, each one consuming the output of the previous.
func applyFilters(src *image.NRGBA, filters []Filter) *image.NRGBA {
	img := src
	for _, f := range filters {
		if f == nil {
			continue
		}
		img = f.Apply(img)
	}
	if img == src {
		img = imaging.Clone(src)
	}
	return img
}

func clampChannel(v float64) uint8 {
	return uint8(utils.Clamp(v+0.5, 0, 255))
}
