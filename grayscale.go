package editor

import (
	"image"
)

// Grayscale converts the image to grayscale using the luminosity weights.
// The alpha channel is preserved.
type Grayscale struct{}

func (f *Grayscale) Name() string { return "Grayscale" }

func (f *Grayscale) Apply(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := src.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl := float32(src.Pix[si]), float32(src.Pix[si+1]), float32(src.Pix[si+2])
			lum := uint8(r*0.299 + g*0.587 + bl*0.114 + 0.5)

			dst.Pix[di] = lum
			dst.Pix[di+1] = lum
			dst.Pix[di+2] = lum
			dst.Pix[di+3] = src.Pix[si+3]

			si += 4
			di += 4
		}
	}
	return dst
}
