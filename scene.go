package editor

import (
	"image/color"
	"io"
	"slices"
)

// Hover cursors used by the scene.
const (
	CursorMove      = "move"
	CursorCrosshair = "crosshair"
)

// DuplicateOffset is the distance between a drawable and its duplicate.
const DuplicateOffset = 20

// Layer describes a drawable in the layer list, the topmost drawable comes first.
type Layer struct {
	Index int
	Kind  Kind
	ID    uint64
}

// Scene holds the ordered list of drawables of the design canvas.
// The last drawable is the topmost one.
type Scene struct {
	Width, Height int
	PixelRatio    float64
	Background    color.NRGBA
	// Selection enables the interactive selection of drawables.
	Selection   bool
	HoverCursor string
	Zoom        float64

	objects []*Drawable
	active  *Drawable
	nextID  uint64
	surface *Surface
	// lock, when set, takes over the drawables added to the scene:
	// they are not selected and their interactivity is up to it.
	lock func(d *Drawable)
}

// NewScene creates an empty scene with a transparent background.
func NewScene(width, height int) *Scene {
	return &Scene{
		Width:       width,
		Height:      height,
		PixelRatio:  1,
		Selection:   true,
		HoverCursor: CursorMove,
		Zoom:        1,
	}
}

func (s *Scene) pixelRatio() float64 {
	if s.PixelRatio <= 0 {
		return 1
	}
	return s.PixelRatio
}

// Add appends the drawable on top of the stack and makes it the active one,
// unless the scene is locked by a color sampling session.
func (s *Scene) Add(d *Drawable) {
	if d == nil || s.Contains(d) {
		return
	}
	s.nextID++
	d.ID = s.nextID
	s.objects = append(s.objects, d)
	if s.lock != nil {
		s.lock(d)
		return
	}
	s.active = d
}

// Remove deletes the drawable from the scene.
func (s *Scene) Remove(d *Drawable) bool {
	i := s.indexOf(d)
	if i < 0 {
		return false
	}
	s.objects = slices.Delete(s.objects, i, i+1)
	if s.active == d {
		s.active = nil
	}
	return true
}

// Contains reports whether the drawable is part of the scene.
func (s *Scene) Contains(d *Drawable) bool {
	return s.indexOf(d) >= 0
}

func (s *Scene) indexOf(d *Drawable) int {
	if d == nil {
		return -1
	}
	return slices.Index(s.objects, d)
}

// Objects returns the drawables in stacking order.
func (s *Scene) Objects() []*Drawable {
	return slices.Clone(s.objects)
}

// Lookup returns the drawable with the given id.
func (s *Scene) Lookup(id uint64) *Drawable {
	for _, d := range s.objects {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// Active returns the selected drawable or nil.
func (s *Scene) Active() *Drawable {
	return s.active
}

// SetActive selects a drawable of the scene.
func (s *Scene) SetActive(d *Drawable) bool {
	if !s.Contains(d) {
		return false
	}
	s.active = d
	return true
}

// DiscardActive clears the selection.
func (s *Scene) DiscardActive() {
	s.active = nil
}

// BringForward moves the drawable one step up in the stack.
func (s *Scene) BringForward(d *Drawable) bool {
	i := s.indexOf(d)
	if i < 0 || i == len(s.objects)-1 {
		return false
	}
	s.objects[i], s.objects[i+1] = s.objects[i+1], s.objects[i]
	return true
}

// SendBackwards moves the drawable one step down in the stack.
func (s *Scene) SendBackwards(d *Drawable) bool {
	i := s.indexOf(d)
	if i <= 0 {
		return false
	}
	s.objects[i], s.objects[i-1] = s.objects[i-1], s.objects[i]
	return true
}

// Duplicate adds a shifted copy of the drawable and selects it.
// Nothing is copied while the scene is locked.
func (s *Scene) Duplicate(d *Drawable) *Drawable {
	if s.lock != nil || !s.Contains(d) {
		return nil
	}
	c := d.Clone()
	c.Left += DuplicateOffset
	c.Top += DuplicateOffset
	s.Add(c)
	return c
}

// Resize changes the canvas size.
func (s *Scene) Resize(width, height int) {
	if width > 0 && height > 0 {
		s.Width, s.Height = width, height
	}
}

// ResetZoom restores the identity viewport zoom.
func (s *Scene) ResetZoom() {
	s.Zoom = 1
}

// Layers lists the drawables, topmost first.
func (s *Scene) Layers() []Layer {
	layers := make([]Layer, 0, len(s.objects))
	for i := len(s.objects) - 1; i >= 0; i-- {
		layers = append(layers, Layer{
			Index: i,
			Kind:  s.objects[i].Kind,
			ID:    s.objects[i].ID,
		})
	}
	return layers
}

// SetFontFamily changes the font of the active text box.
func (s *Scene) SetFontFamily(name string) bool {
	if s.active == nil || s.active.Kind != KindText || name == "" {
		return false
	}
	s.active.FontFamily = name
	return true
}

// Surface returns the last rendered surface, rendering the scene if needed.
func (s *Scene) Surface() *Surface {
	if s.surface == nil {
		return s.Render()
	}
	return s.surface
}

// ExportPNG writes the flattened scene at a pixel ratio of one.
// Scenes holding tainted drawables cannot be exported.
func (s *Scene) ExportPNG(w io.Writer) error {
	ratio, zoom := s.PixelRatio, s.Zoom
	s.PixelRatio, s.Zoom = 1, 1
	defer func() {
		s.PixelRatio, s.Zoom = ratio, zoom
		s.Render()
	}()

	surf := s.Render()
	if surf.Tainted {
		return ErrTaintedSurface
	}
	return encodePNG(w, surf.Image)
}
