package editor

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// LoadSVG parses an SVG document and returns a vector drawable rasterized at its view box size.
func LoadSVG(r io.Reader) (*Drawable, error) {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse the svg file: %w", err)
	}

	return NewVector(icon)
}

// NewVector creates a vector drawable from a parsed SVG icon.
func NewVector(icon *oksvg.SvgIcon) (*Drawable, error) {
	w, h := math.Ceil(icon.ViewBox.W), math.Ceil(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		return nil, errors.New("the svg file has an empty view box")
	}

	d := newDrawable(KindVector)
	d.source = rasterizeSVG(icon, int(w), int(h))
	d.width, d.height = w, h

	return d, nil
}

func rasterizeSVG(icon *oksvg.SvgIcon, w, h int) *image.NRGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, float64(w), float64(h))

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)

	return imaging.Clone(img)
}
