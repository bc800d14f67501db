package editor

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSamplingScene() (*Scene, *Drawable, *Drawable) {
	s := NewScene(20, 20)
	target := placed(20, 20, color.NRGBA{R: 18, G: 52, B: 86, A: 255}, 0, 0)
	other := NewText("label")
	other.Left, other.Top = 0, 0
	s.Add(target)
	s.Add(other)
	s.SetActive(target)
	return s, target, other
}

func TestEyedropper_StartWithoutTarget(t *testing.T) {
	s := NewScene(20, 20)
	eye := NewEyedropper(s)

	assert.ErrorIs(t, eye.Start(), ErrNoTargetSelected)
	assert.Equal(t, Idle, eye.State())
	assert.Nil(t, eye.Target())
	assert.True(t, s.Selection)
	assert.Equal(t, CursorMove, s.HoverCursor)

	s.Add(NewText("not an image"))
	assert.ErrorIs(t, eye.Start(), ErrNoTargetSelected)
	assert.Equal(t, Idle, eye.State())
}

func TestEyedropper_StartDisablesInteractivity(t *testing.T) {
	s, target, other := newSamplingScene()
	eye := NewEyedropper(s)

	require.NoError(t, eye.Start())
	assert.Equal(t, Sampling, eye.State())
	assert.Same(t, target, eye.Target())
	assert.False(t, s.Selection)
	assert.Equal(t, CursorCrosshair, s.HoverCursor)
	assert.Nil(t, s.Active())
	for _, d := range []*Drawable{target, other} {
		assert.False(t, d.Selectable)
		assert.False(t, d.Evented)
	}

	assert.ErrorIs(t, eye.Start(), ErrSessionActive)
}

func TestEyedropper_PreviewSwatch(t *testing.T) {
	s, _, _ := newSamplingScene()
	eye := NewEyedropper(s)
	require.NoError(t, eye.Start())

	eye.PointerMove(10, 10)
	sw := eye.Preview()
	require.NotNil(t, sw)
	assert.Equal(t, 88, sw.Image.Bounds().Dx())
	assert.Equal(t, 88, sw.Image.Bounds().Dy())
	assert.Equal(t, 30, sw.Anchor.X)
	assert.Equal(t, 30, sw.Anchor.Y)
	assert.Equal(t, color.NRGBA{R: 18, G: 52, B: 86, A: 255}, sw.Border)
	assert.Equal(t, color.NRGBA{R: 18, G: 52, B: 86, A: 255}, sw.Image.NRGBAAt(44, 44))
}

func TestEyedropper_PreviewReadFailure(t *testing.T) {
	s, target, other := newSamplingScene()
	eye := NewEyedropper(s)
	require.NoError(t, eye.Start())

	eye.PointerMove(5, 5)
	require.NotNil(t, eye.Preview())

	target.Tainted = true
	eye.PointerMove(6, 6)
	assert.Nil(t, eye.Preview())
	assert.Equal(t, Sampling, eye.State())
	assert.False(t, s.Selection)
	assert.False(t, target.Selectable)
	assert.False(t, other.Evented)

	eye.PointerMove(500, 500)
	assert.Nil(t, eye.Preview())
	assert.Equal(t, Sampling, eye.State())
}

func TestEyedropper_Pick(t *testing.T) {
	s, target, other := newSamplingScene()
	eye := NewEyedropper(s)

	var published string
	eye.OnPick = func(hex string) {
		published = hex
		assert.Equal(t, Idle, eye.State())
	}

	require.NoError(t, eye.Start())
	hex, err := eye.PointerDown(3, 4)
	require.NoError(t, err)

	assert.Equal(t, "#123456", hex)
	assert.Equal(t, "#123456", published)
	assert.Equal(t, Idle, eye.State())
	assert.Same(t, target, s.Active())
	assert.True(t, s.Selection)
	assert.Equal(t, CursorMove, s.HoverCursor)
	assert.True(t, other.Selectable)
	assert.True(t, other.Evented)
	assert.Nil(t, eye.Preview())
}

func TestEyedropper_PickFailureCancels(t *testing.T) {
	s, target, _ := newSamplingScene()
	eye := NewEyedropper(s)
	picked := false
	eye.OnPick = func(string) { picked = true }

	require.NoError(t, eye.Start())
	target.Tainted = true
	_, err := eye.PointerDown(3, 4)

	assert.ErrorIs(t, err, ErrSampleRead)
	assert.False(t, picked)
	assert.Equal(t, Idle, eye.State())
	assert.True(t, s.Selection)
	assert.True(t, target.Selectable)
	assert.Same(t, target, s.Active())

	_, err = eye.PointerDown(1, 1)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestEyedropper_CancelRestoresExactState(t *testing.T) {
	s, target, other := newSamplingScene()
	locked := NewRect()
	s.Add(locked)
	locked.Selectable = false
	locked.Evented = true
	other.Evented = false
	s.Selection = false
	s.HoverCursor = "pointer"
	s.SetActive(target)

	before := map[uint64][2]bool{}
	for _, d := range s.Objects() {
		before[d.ID] = [2]bool{d.Selectable, d.Evented}
	}

	eye := NewEyedropper(s)
	require.NoError(t, eye.Start())
	eye.PointerMove(2, 2)

	assert.False(t, eye.KeyDown("Enter"))
	assert.Equal(t, Sampling, eye.State())
	assert.True(t, eye.KeyDown(KeyEscape))

	assert.Equal(t, Idle, eye.State())
	assert.False(t, s.Selection)
	assert.Equal(t, "pointer", s.HoverCursor)
	assert.Same(t, target, s.Active())
	for _, d := range s.Objects() {
		assert.Equal(t, before[d.ID], [2]bool{d.Selectable, d.Evented}, "drawable %d", d.ID)
	}

	assert.False(t, eye.KeyDown(KeyEscape))
	eye.Cancel()
	assert.Equal(t, Idle, eye.State())
}

func TestEyedropper_TargetRemovedDuringSession(t *testing.T) {
	s, target, other := newSamplingScene()
	eye := NewEyedropper(s)
	require.NoError(t, eye.Start())

	s.Remove(target)
	_, err := eye.PointerDown(1, 1)
	assert.ErrorIs(t, err, ErrNoTargetSelected)
	assert.Equal(t, Idle, eye.State())
	assert.Nil(t, s.Active())
	assert.True(t, other.Selectable)
}

func TestEyedropper_DrawablesAddedDuringSession(t *testing.T) {
	s, target, _ := newSamplingScene()
	eye := NewEyedropper(s)
	require.NoError(t, eye.Start())

	rect := NewRect()
	s.Add(rect)
	assert.Nil(t, s.Duplicate(target))

	assert.Equal(t, Sampling, eye.State())
	assert.Nil(t, s.Active())
	assert.Len(t, s.Objects(), 3)
	assert.False(t, rect.Selectable)
	assert.False(t, rect.Evented)

	eye.Cancel()
	assert.Same(t, target, s.Active())
	assert.True(t, rect.Selectable)
	assert.True(t, rect.Evented)

	other := NewRect()
	s.Add(other)
	assert.Same(t, other, s.Active())
}
