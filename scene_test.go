package editor

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/MadMatas/img-editor/imop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// placed returns an image drawable of the given size and color at (x, y).
func placed(w, h int, c color.NRGBA, x, y float64) *Drawable {
	d := NewImage(fill(w, h, c))
	d.Left, d.Top = x, y
	return d
}

func TestScene_AddAndSelect(t *testing.T) {
	s := NewScene(100, 100)
	a, b := NewRect(), NewText("b")
	s.Add(a)
	s.Add(b)

	assert.Equal(t, uint64(1), a.ID)
	assert.Equal(t, uint64(2), b.ID)
	assert.Same(t, b, s.Active())
	assert.Same(t, a, s.Lookup(1))

	s.Add(a)
	assert.Len(t, s.Objects(), 2, "a drawable is added only once")

	assert.True(t, s.SetActive(a))
	assert.False(t, s.SetActive(NewRect()))
	assert.Same(t, a, s.Active())

	assert.True(t, s.Remove(a))
	assert.Nil(t, s.Active())
	assert.False(t, s.Remove(a))
	assert.Len(t, s.Objects(), 1)
}

func TestScene_LayerOrder(t *testing.T) {
	s := NewScene(100, 100)
	a, b, c := NewRect(), NewRect(), NewRect()
	s.Add(a)
	s.Add(b)
	s.Add(c)

	assert.True(t, s.BringForward(a))
	assert.Equal(t, []*Drawable{b, a, c}, s.Objects())
	assert.False(t, s.BringForward(c))

	assert.True(t, s.SendBackwards(c))
	assert.Equal(t, []*Drawable{b, c, a}, s.Objects())
	assert.False(t, s.SendBackwards(b))

	layers := s.Layers()
	require.Len(t, layers, 3)
	assert.Equal(t, Layer{Index: 2, Kind: KindShape, ID: a.ID}, layers[0])
	assert.Equal(t, b.ID, layers[2].ID)
}

func TestScene_Duplicate(t *testing.T) {
	s := NewScene(100, 100)
	d := NewText("copy")
	s.Add(d)

	c := s.Duplicate(d)
	require.NotNil(t, c)
	assert.NotEqual(t, d.ID, c.ID)
	assert.Equal(t, d.Left+DuplicateOffset, c.Left)
	assert.Equal(t, d.Top+DuplicateOffset, c.Top)
	assert.Same(t, c, s.Active())
	assert.Nil(t, s.Duplicate(NewRect()))
}

func TestScene_SetFontFamily(t *testing.T) {
	s := NewScene(100, 100)
	txt := NewText("font")
	s.Add(txt)
	assert.True(t, s.SetFontFamily("Go Mono"))
	assert.Equal(t, "Go Mono", txt.FontFamily)

	s.Add(NewRect())
	assert.False(t, s.SetFontFamily("Go"))
}

func TestScene_RenderStackingOrder(t *testing.T) {
	s := NewScene(10, 10)
	s.Add(placed(6, 6, red, 0, 0))
	s.Add(placed(6, 6, blue, 3, 3))

	surf := s.Render()
	assert.Equal(t, red, surf.Image.NRGBAAt(1, 1))
	assert.Equal(t, blue, surf.Image.NRGBAAt(4, 4))
	assert.Equal(t, blue, surf.Image.NRGBAAt(8, 8))
	assert.Equal(t, color.NRGBA{}, surf.Image.NRGBAAt(9, 0))
}

func TestScene_RenderSkipsHiddenDrawables(t *testing.T) {
	s := NewScene(10, 10)
	s.Background = white
	d := placed(10, 10, red, 0, 0)
	s.Add(d)

	d.Visible = false
	assert.Equal(t, white, s.Render().Image.NRGBAAt(5, 5))

	d.Visible, d.Opacity = true, 0
	assert.Equal(t, white, s.Render().Image.NRGBAAt(5, 5))
}

func TestScene_RenderOpacity(t *testing.T) {
	s := NewScene(4, 4)
	s.Background = white
	d := placed(4, 4, color.NRGBA{A: 255}, 0, 0)
	d.Opacity = 0.5
	s.Add(d)

	c := s.Render().Image.NRGBAAt(2, 2)
	assert.InDelta(t, 127, int(c.R), 2)
	assert.Equal(t, uint8(255), c.A)
}

func TestScene_RenderPixelRatio(t *testing.T) {
	s := NewScene(10, 5)
	s.PixelRatio = 2
	s.Add(placed(2, 2, red, 4, 2))

	surf := s.Render()
	assert.Equal(t, 20, surf.Image.Bounds().Dx())
	assert.Equal(t, 10, surf.Image.Bounds().Dy())

	sx, sy, err := surf.ScaleFactor()
	require.NoError(t, err)
	assert.Equal(t, 2.0, sx)
	assert.Equal(t, 2.0, sy)

	assert.Equal(t, red, surf.Image.NRGBAAt(9, 5))
	assert.Equal(t, color.NRGBA{}, surf.Image.NRGBAAt(7, 5))
}

func TestScene_RenderRotation(t *testing.T) {
	s := NewScene(20, 20)
	d := placed(10, 2, red, 5, 9)
	d.Angle = 90
	s.Add(d)

	img := s.Render().Image
	// Rotated around its center the bar becomes vertical.
	assert.Equal(t, red, img.NRGBAAt(10, 6))
	assert.Equal(t, red, img.NRGBAAt(10, 13))
	assert.Equal(t, uint8(0), img.NRGBAAt(6, 10).A)
}

func TestScene_RenderBlendMode(t *testing.T) {
	s := NewScene(4, 4)
	s.Add(placed(4, 4, color.NRGBA{R: 200, G: 100, B: 50, A: 255}, 0, 0))
	top := placed(4, 4, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, 0, 0)
	top.BlendMode = imop.Multiply
	s.Add(top)

	c := s.Render().Image.NRGBAAt(1, 1)
	assert.InDelta(t, 100, int(c.R), 1)
	assert.InDelta(t, 50, int(c.G), 1)
	assert.InDelta(t, 25, int(c.B), 1)
}

func TestScene_ExportPNG(t *testing.T) {
	s := NewScene(8, 6)
	s.PixelRatio = 3
	s.Add(placed(2, 2, blue, 1, 1))

	var buf bytes.Buffer
	require.NoError(t, s.ExportPNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())
	assert.Equal(t, blue, color.NRGBAModel.Convert(img.At(1, 1)))

	assert.Equal(t, 3.0, s.PixelRatio)
	assert.Equal(t, 24, s.Surface().Image.Bounds().Dx())
}

func TestScene_ExportTainted(t *testing.T) {
	s := NewScene(4, 4)
	d := placed(2, 2, blue, 0, 0)
	d.Tainted = true
	s.Add(d)

	var buf bytes.Buffer
	assert.ErrorIs(t, s.ExportPNG(&buf), ErrTaintedSurface)
}

func TestSurface_ReadPixel(t *testing.T) {
	s := NewScene(4, 4)
	s.Add(placed(4, 4, red, 0, 0))
	surf := s.Render()

	c, err := surf.ReadPixel(3, 3)
	require.NoError(t, err)
	assert.Equal(t, red, c)

	_, err = surf.ReadPixel(4, 0)
	assert.ErrorIs(t, err, ErrSampleOutOfBounds)
	assert.ErrorIs(t, err, ErrSampleRead)

	surf.Tainted = true
	_, err = surf.ReadPixel(0, 0)
	assert.ErrorIs(t, err, ErrTaintedSurface)
	assert.ErrorIs(t, err, ErrSampleRead)

	_, _, err = (&Surface{}).ScaleFactor()
	assert.ErrorIs(t, err, ErrInvalidSurface)
}
