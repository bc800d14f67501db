package editor

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/MadMatas/img-editor/imop"
	"github.com/MadMatas/img-editor/utils"
	"github.com/disintegration/imaging"
)

// Kind is the type tag of a drawable.
type Kind string

const (
	KindImage  Kind = "image"
	KindText   Kind = "textbox"
	KindShape  Kind = "rect"
	KindVector Kind = "group"
)

// Default placement of newly added objects.
const (
	defaultLeft = 100
	defaultTop  = 100
)

// Drawable is an object placed on the design canvas. Left and Top locate the
// top-left corner of the unrotated object, the rotation (in degrees) is applied
// around the object center.
//
// A Drawable is owned by the scene it is added to and is not safe for concurrent use.
type Drawable struct {
	ID   uint64
	Kind Kind

	Left, Top      float64
	ScaleX, ScaleY float64
	Angle          float64
	Opacity        float64

	Visible    bool
	Selectable bool
	Evented    bool
	// Tainted marks pixels which cannot be read back from the rendered surface,
	// like images downloaded from an origin which does not allow it.
	Tainted bool

	// BlendMode and CompositeOp control how the object is mixed with the layers below it.
	BlendMode   string
	CompositeOp string

	// Filters is the active filter chain of an image drawable.
	Filters []Filter

	Text       string
	FontFamily string
	FontSize   float64
	// Fill is the hex color of text and shapes.
	Fill string

	width, height float64

	source   *image.NRGBA
	filtered *image.NRGBA

	cache    *image.NRGBA
	cacheKey string
}

func newDrawable(kind Kind) *Drawable {
	return &Drawable{
		Kind:        kind,
		Left:        defaultLeft,
		Top:         defaultTop,
		ScaleX:      1,
		ScaleY:      1,
		Opacity:     1,
		Visible:     true,
		Selectable:  true,
		Evented:     true,
		BlendMode:   imop.Normal,
		CompositeOp: imop.SrcOver,
	}
}

// NewImage creates an image drawable. The source pixels are never modified,
// the filters are always recomputed from them.
func NewImage(img image.Image) *Drawable {
	d := newDrawable(KindImage)
	d.source = imgToNRGBA(img)
	d.width = float64(d.source.Bounds().Dx())
	d.height = float64(d.source.Bounds().Dy())
	return d
}

// NewText creates a text box using the default font.
func NewText(text string) *Drawable {
	d := newDrawable(KindText)
	d.Text = text
	d.FontFamily = DefaultFontFamily
	d.FontSize = 40
	d.Fill = "#000000"
	return d
}

// NewRect creates a 200x150 filled rectangle.
func NewRect() *Drawable {
	d := newDrawable(KindShape)
	d.Left, d.Top = 120, 120
	d.width, d.height = 200, 150
	d.Fill = "#cccccc"
	return d
}

// Resize changes the natural size of a shape.
func (d *Drawable) Resize(width, height float64) {
	if d.Kind == KindShape && width > 0 && height > 0 {
		d.width, d.height = width, height
	}
}

// Source returns the unfiltered pixels of an image or vector drawable.
func (d *Drawable) Source() *image.NRGBA {
	return d.source
}

// SetSource replaces the pixels of an image drawable and reapplies its filters.
func (d *Drawable) SetSource(img image.Image) {
	d.source = imgToNRGBA(img)
	d.width = float64(d.source.Bounds().Dx())
	d.height = float64(d.source.Bounds().Dy())
	d.ApplyFilters()
}

// ApplyFilters recomputes the filtered bitmap from the original source,
// so consecutive calls never compound.
func (d *Drawable) ApplyFilters() {
	if d.Kind != KindImage || d.source == nil {
		return
	}
	d.filtered = applyFilters(d.source, d.Filters)
}

// Bitmap returns the unscaled raster of the drawable.
func (d *Drawable) Bitmap() *image.NRGBA {
	switch d.Kind {
	case KindImage:
		if d.filtered == nil {
			d.ApplyFilters()
		}
		return d.filtered
	case KindVector:
		return d.source
	case KindText:
		key := fmt.Sprintf("%s|%s|%.2f|%s", d.Text, d.FontFamily, d.FontSize, d.Fill)
		if d.cache == nil || d.cacheKey != key {
			img, err := renderText(d.Text, d.FontFamily, d.FontSize, utils.HexToNRGBA(d.Fill))
			if err != nil {
				img = image.NewNRGBA(image.Rect(0, 0, 1, 1))
			}
			d.cache, d.cacheKey = img, key
		}
		return d.cache
	case KindShape:
		w, h := int(math.Ceil(d.width)), int(math.Ceil(d.height))
		key := fmt.Sprintf("%dx%d|%s", w, h, d.Fill)
		if d.cache == nil || d.cacheKey != key {
			img := image.NewNRGBA(image.Rect(0, 0, utils.Max(w, 1), utils.Max(h, 1)))
			draw.Draw(img, img.Bounds(), image.NewUniform(utils.HexToNRGBA(d.Fill)), image.Point{}, draw.Src)
			d.cache, d.cacheKey = img, key
		}
		return d.cache
	}
	return nil
}

// Width returns the natural, unscaled width of the drawable.
func (d *Drawable) Width() float64 {
	if d.Kind == KindText {
		return float64(d.Bitmap().Bounds().Dx())
	}
	return d.width
}

// Height returns the natural, unscaled height of the drawable.
func (d *Drawable) Height() float64 {
	if d.Kind == KindText {
		return float64(d.Bitmap().Bounds().Dy())
	}
	return d.height
}

// ScaledWidth returns the width of the drawable on the canvas.
func (d *Drawable) ScaledWidth() float64 {
	return d.Width() * d.ScaleX
}

// ScaledHeight returns the height of the drawable on the canvas.
func (d *Drawable) ScaledHeight() float64 {
	return d.Height() * d.ScaleY
}

// ScaleToWidth scales the drawable uniformly so that its width matches w.
func (d *Drawable) ScaleToWidth(w float64) {
	if nw := d.Width(); nw > 0 && w > 0 {
		d.ScaleX = w / nw
		d.ScaleY = d.ScaleX
	}
}

// ScaleToHeight scales the drawable uniformly so that its height matches h.
func (d *Drawable) ScaleToHeight(h float64) {
	if nh := d.Height(); nh > 0 && h > 0 {
		d.ScaleY = h / nh
		d.ScaleX = d.ScaleY
	}
}

// Clone returns a copy of the drawable which is not attached to any scene.
func (d *Drawable) Clone() *Drawable {
	c := *d
	c.ID = 0
	c.Filters = append([]Filter(nil), d.Filters...)
	if d.source != nil {
		c.source = imaging.Clone(d.source)
	}
	c.filtered = nil
	c.cache, c.cacheKey = nil, ""
	return &c
}

// FillColor returns the parsed fill color.
func (d *Drawable) FillColor() color.NRGBA {
	return utils.HexToNRGBA(d.Fill)
}
