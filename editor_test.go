package editor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type removerFunc func(ctx context.Context, img image.Image) (*image.NRGBA, error)

func (f removerFunc) Remove(ctx context.Context, img image.Image) (*image.NRGBA, error) {
	return f(ctx, img)
}

func newTestEditor() (*Editor, *[]string) {
	ed := New(20, 20)
	var msgs []string
	ed.Notify = func(msg string) { msgs = append(msgs, msg) }
	return ed, &msgs
}

func TestEditor_Defaults(t *testing.T) {
	ed := New(0, 0)
	assert.Equal(t, 600, ed.Scene.Width)
	assert.Equal(t, "#ffffff", ed.KeyColor)
	assert.Equal(t, 38, ed.Tolerance)
	assert.Equal(t, "Remove Background", ed.RemoveButton.Label)
}

func TestEditor_PickColorRequiresImage(t *testing.T) {
	ed, msgs := newTestEditor()
	assert.ErrorIs(t, ed.PickColor(), ErrNoTargetSelected)
	assert.Equal(t, []string{MsgSelectImage}, *msgs)
	assert.Equal(t, Idle, ed.Eyedropper.State())
}

func TestEditor_PickAndApplyColorKey(t *testing.T) {
	ed, _ := newTestEditor()
	d := placed(20, 20, color.NRGBA{R: 18, G: 52, B: 86, A: 255}, 0, 0)
	ed.Scene.Add(d)

	require.NoError(t, ed.PickColor())
	hex, err := ed.Eyedropper.PointerDown(5, 5)
	require.NoError(t, err)
	assert.Equal(t, "#123456", hex)
	assert.Equal(t, "#123456", ed.KeyColor)

	require.NoError(t, ed.ApplyColorKey())
	assert.Equal(t, uint8(0), d.Bitmap().NRGBAAt(3, 3).A)

	ed.KeyColor = "bogus"
	assert.ErrorIs(t, ed.ApplyColorKey(), ErrInvalidColor)
}

func TestEditor_FiltersIgnoreMissingTarget(t *testing.T) {
	ed, msgs := newTestEditor()
	ed.ApplyFilters(DefaultFilterOptions())
	ed.ResetFilters()
	assert.Empty(t, *msgs)

	d := placed(4, 4, red, 0, 0)
	ed.Scene.Add(d)
	ed.ApplyFilters(FilterOptions{Grayscale: true, Opacity: 0.5})
	assert.Equal(t, 0.5, d.Opacity)
	ed.ResetFilters()
	assert.Equal(t, 1.0, d.Opacity)
	assert.Equal(t, red, d.Bitmap().NRGBAAt(0, 0))
}

func TestEditor_RemoveBackgroundBuiltIn(t *testing.T) {
	ed, msgs := newTestEditor()
	assert.ErrorIs(t, ed.RemoveBackground(context.Background()), ErrNoTargetSelected)
	assert.Equal(t, []string{MsgSelectImage}, *msgs)
	assert.False(t, ed.RemoveButton.Disabled)

	d := placed(4, 4, white, 0, 0)
	ed.Scene.Add(d)
	require.NoError(t, ed.RemoveBackground(context.Background()))
	assert.Equal(t, uint8(0), d.Bitmap().NRGBAAt(1, 1).A)
}

func TestEditor_RemoveBackgroundRemote(t *testing.T) {
	ed, msgs := newTestEditor()
	d := placed(4, 4, white, 0, 0)
	ed.Scene.Add(d)

	ed.Remover = removerFunc(func(ctx context.Context, img image.Image) (*image.NRGBA, error) {
		assert.True(t, ed.RemoveButton.Disabled)
		assert.Equal(t, "Processing...", ed.RemoveButton.Label)
		return fill(2, 2, color.NRGBA{R: 1, A: 128}), nil
	})
	require.NoError(t, ed.RemoveBackground(context.Background()))
	assert.False(t, ed.RemoveButton.Disabled)
	assert.Equal(t, "Remove Background", ed.RemoveButton.Label)
	assert.Equal(t, 2.0, d.Width())

	ed.Remover = removerFunc(func(context.Context, image.Image) (*image.NRGBA, error) {
		return nil, errors.New("boom")
	})
	assert.Error(t, ed.RemoveBackground(context.Background()))
	assert.Equal(t, []string{MsgRemovalFailed}, *msgs)
	assert.False(t, ed.RemoveButton.Disabled)
	assert.Equal(t, "Remove Background", ed.RemoveButton.Label)
}

func TestEditor_Objects(t *testing.T) {
	ed, _ := newTestEditor()
	txt := ed.AddText()
	rect := ed.AddRect()

	require.NoError(t, ed.SetProperty("propX", "42"))
	assert.Equal(t, 42.0, rect.Left)
	assert.Equal(t, "42", ed.Panel()[PropX])

	assert.True(t, ed.SendBackwards())
	assert.Equal(t, []*Drawable{rect, txt}, ed.Scene.Objects())
	assert.True(t, ed.BringForward())

	dup := ed.Duplicate()
	require.NotNil(t, dup)
	assert.Len(t, ed.Scene.Objects(), 3)
	assert.True(t, ed.Delete())
	assert.Len(t, ed.Scene.Objects(), 2)
	assert.Nil(t, ed.Panel())

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, fill(3, 3, red)))
	img, err := ed.AddImage(&buf)
	require.NoError(t, err)
	assert.Same(t, img, ed.Scene.Active())
}

func TestEditor_AddWhileSampling(t *testing.T) {
	ed, _ := newTestEditor()
	d := placed(20, 20, red, 0, 0)
	ed.Scene.Add(d)
	require.NoError(t, ed.PickColor())

	txt := ed.AddText()
	assert.Nil(t, ed.Scene.Active())
	assert.False(t, txt.Selectable)
	assert.False(t, txt.Evented)

	_, err := ed.Eyedropper.PointerDown(5, 5)
	require.NoError(t, err)
	assert.Same(t, d, ed.Scene.Active())
	assert.True(t, txt.Selectable)
	assert.True(t, txt.Evented)
}
