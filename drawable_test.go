package editor

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawable_Defaults(t *testing.T) {
	txt := NewText("Hello")
	assert.Equal(t, KindText, txt.Kind)
	assert.Equal(t, 40.0, txt.FontSize)
	assert.Equal(t, DefaultFontFamily, txt.FontFamily)
	assert.Equal(t, "#000000", txt.Fill)
	assert.Equal(t, 100.0, txt.Left)
	assert.Equal(t, 100.0, txt.Top)
	assert.True(t, txt.Visible)
	assert.True(t, txt.Selectable)
	assert.True(t, txt.Evented)

	rect := NewRect()
	assert.Equal(t, KindShape, rect.Kind)
	assert.Equal(t, 200.0, rect.Width())
	assert.Equal(t, 150.0, rect.Height())
	assert.Equal(t, "#cccccc", rect.Fill)
	assert.Equal(t, 120.0, rect.Left)
	assert.Equal(t, 120.0, rect.Top)
	assert.Equal(t, color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}, rect.Bitmap().NRGBAAt(10, 10))
}

func TestDrawable_TextBitmap(t *testing.T) {
	d := NewText("Mug")
	img := d.Bitmap()
	require.NotNil(t, img)
	assert.Greater(t, img.Bounds().Dx(), 10)
	assert.Equal(t, 47, img.Bounds().Dy())

	var opaque int
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			opaque++
		}
	}
	assert.Greater(t, opaque, 0)

	d.Text = "Mug\nMug"
	assert.Equal(t, 94, d.Bitmap().Bounds().Dy())

	// Unknown families fall back to the default font.
	d.FontFamily = "Comic Sans"
	assert.NotNil(t, d.Bitmap())
}

func TestDrawable_FontFamilies(t *testing.T) {
	families := FontFamilies()
	assert.Contains(t, families, DefaultFontFamily)
	assert.Contains(t, families, "Go Mono")
	assert.True(t, IsFontFamily("Go Bold"))
	assert.False(t, IsFontFamily("Arial"))
}

func TestDrawable_Scale(t *testing.T) {
	d := NewImage(fill(100, 50, color.NRGBA{A: 255}))

	d.ScaleToWidth(200)
	assert.Equal(t, 2.0, d.ScaleX)
	assert.Equal(t, 2.0, d.ScaleY)
	assert.Equal(t, 100.0, d.ScaledHeight())

	d.ScaleToHeight(25)
	assert.Equal(t, 0.5, d.ScaleX)
	assert.Equal(t, 50.0, d.ScaledWidth())

	d.ScaleToWidth(0)
	assert.Equal(t, 0.5, d.ScaleX)
}

func TestDrawable_Clone(t *testing.T) {
	d := NewImage(fill(4, 4, color.NRGBA{R: 255, G: 255, B: 255, A: 255}))
	require.NoError(t, ApplyColorKey(d, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, 0.1))
	d.ID = 3

	c := d.Clone()
	assert.Equal(t, uint64(0), c.ID)
	assert.Equal(t, d.Filters, c.Filters)
	assert.Equal(t, d.Bitmap().Pix, c.Bitmap().Pix)

	c.Filters = nil
	c.ApplyFilters()
	assert.Len(t, d.Filters, 1)
	assert.Equal(t, uint8(0), d.Bitmap().NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(255), c.Bitmap().NRGBAAt(0, 0).A)
}

func TestDrawable_SetSourceReappliesFilters(t *testing.T) {
	d := NewImage(fill(2, 2, color.NRGBA{R: 10, A: 255}))
	require.NoError(t, ApplyAll(d, FilterOptions{Grayscale: true, Opacity: 1}))

	d.SetSource(fill(3, 3, color.NRGBA{R: 255, G: 255, B: 255, A: 255}))
	assert.Equal(t, 3.0, d.Width())
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, d.Bitmap().NRGBAAt(2, 2))
}
