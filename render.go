package editor

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/MadMatas/img-editor/imop"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Render rasterizes the visible drawables in stacking order and
// caches the result as the current surface of the scene.
func (s *Scene) Render() *Surface {
	ratio := s.pixelRatio()
	bw := int(math.Ceil(float64(s.Width) * ratio))
	bh := int(math.Ceil(float64(s.Height) * ratio))

	dst := image.NewNRGBA(image.Rect(0, 0, max(bw, 0), max(bh, 0)))
	if s.Background.A > 0 {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(s.Background), image.Point{}, draw.Src)
	}

	zoom := s.Zoom
	if zoom <= 0 {
		zoom = 1
	}

	var tainted bool
	for _, d := range s.objects {
		if !d.Visible || d.Opacity <= 0 {
			continue
		}
		if d.Tainted {
			tainted = true
		}
		drawObject(dst, d, ratio*zoom)
	}

	s.surface = &Surface{
		Image:         dst,
		DisplayWidth:  s.Width,
		DisplayHeight: s.Height,
		Tainted:       tainted,
	}
	return s.surface
}

// drawObject draws the drawable over dst, k being the canvas to backing store scale.
func drawObject(dst *image.NRGBA, d *Drawable, k float64) {
	src := d.Bitmap()
	if src == nil || src.Bounds().Empty() {
		return
	}

	if (d.BlendMode == "" || d.BlendMode == imop.Normal) && (d.CompositeOp == "" || d.CompositeOp == imop.SrcOver) {
		placeObject(dst, src, d, k)
		return
	}

	layer := image.NewNRGBA(dst.Bounds())
	placeObject(layer, src, d, k)

	blend := imop.NewBlend()
	if err := blend.Set(d.BlendMode); err != nil {
		blend.Set(imop.Normal)
	}
	comp := imop.InitOp()
	if err := comp.Set(d.CompositeOp); err != nil {
		comp.Set(imop.SrcOver)
	}

	out := imop.NewBitmap(dst.Bounds())
	comp.Draw(out, layer, dst, blend)
	copy(dst.Pix, out.Img.Pix)
}

// placeObject scales the bitmap, rotates it around its center and
// translates it to the drawable position.
func placeObject(dst *image.NRGBA, src *image.NRGBA, d *Drawable, k float64) {
	var mask image.Image
	if d.Opacity < 1 {
		mask = image.NewUniform(color.Alpha{A: uint8(d.Opacity*255 + 0.5)})
	}

	angle := math.Mod(d.Angle, 360)
	tx, ty := d.Left*k, d.Top*k
	if angle == 0 && d.ScaleX*k == 1 && d.ScaleY*k == 1 &&
		tx == math.Trunc(tx) && ty == math.Trunc(ty) {
		pt := image.Pt(int(tx), int(ty))
		r := src.Bounds().Add(pt)
		if mask == nil {
			draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
		} else {
			draw.DrawMask(dst, r, src, src.Bounds().Min, mask, image.Point{}, draw.Over)
		}
		return
	}

	rad := angle * math.Pi / 180
	sin, cos := math.Sincos(rad)
	sx, sy := d.ScaleX, d.ScaleY
	cx := float64(src.Bounds().Dx()) * sx / 2
	cy := float64(src.Bounds().Dy()) * sy / 2

	s2d := f64.Aff3{
		k * cos * sx, -k * sin * sy, k * (cx - cos*cx + sin*cy + d.Left),
		k * sin * sx, k * cos * sy, k * (cy - sin*cx - cos*cy + d.Top),
	}
	opts := &xdraw.Options{}
	if mask != nil {
		opts.SrcMask = mask
	}
	xdraw.BiLinear.Transform(dst, s2d, src, src.Bounds(), xdraw.Over, opts)
}
