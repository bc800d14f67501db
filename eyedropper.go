package editor

import (
	"image"
	"image/color"

	"github.com/MadMatas/img-editor/utils"
	"github.com/disintegration/imaging"
)

// State is the state of the eyedropper.
type State int

const (
	Idle State = iota
	Sampling
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sampling:
		return "sampling"
	}
	return "unknown"
}

// KeyEscape is the key name which cancels a sampling session.
const KeyEscape = "Escape"

const (
	swatchRadius = 5
	swatchZoom   = 8
	swatchOffset = 20
)

// Swatch is the magnified preview shown next to the pointer while sampling.
type Swatch struct {
	Image *image.NRGBA
	// Anchor is the top-left corner of the swatch in canvas coordinates.
	Anchor image.Point
	Color  color.NRGBA
	Border color.NRGBA
}

type interactivity struct {
	selectable bool
	evented    bool
}

// session holds the scene state captured when the sampling started.
type session struct {
	target    *Drawable
	active    *Drawable
	selection bool
	cursor    string
	flags     map[uint64]interactivity
}

// disable records the interactivity of the drawable and turns it off.
func (s *session) disable(d *Drawable) {
	s.flags[d.ID] = interactivity{selectable: d.Selectable, evented: d.Evented}
	d.Selectable = false
	d.Evented = false
}

// Eyedropper picks a color from the selected image. While sampling, the
// interactivity of the whole scene is disabled and restored afterwards.
type Eyedropper struct {
	scene   *Scene
	state   State
	sess    *session
	preview *Swatch

	// OnPick receives the picked color as a lowercase hex string.
	OnPick func(hex string)
}

// NewEyedropper creates an idle eyedropper bound to the scene.
func NewEyedropper(s *Scene) *Eyedropper {
	return &Eyedropper{scene: s}
}

// State returns the current state.
func (e *Eyedropper) State() State {
	return e.state
}

// Target returns the sampled drawable, or nil when idle.
func (e *Eyedropper) Target() *Drawable {
	if e.sess == nil {
		return nil
	}
	return e.sess.target
}

// Preview returns the swatch of the last successful pointer move.
func (e *Eyedropper) Preview() *Swatch {
	return e.preview
}

// Start begins a sampling session on the active image.
func (e *Eyedropper) Start() error {
	if e.state == Sampling {
		return ErrSessionActive
	}
	target := e.scene.Active()
	if target == nil || target.Kind != KindImage {
		return ErrNoTargetSelected
	}

	sess := &session{
		target:    target,
		active:    target,
		selection: e.scene.Selection,
		cursor:    e.scene.HoverCursor,
		flags:     make(map[uint64]interactivity, len(e.scene.objects)),
	}
	for _, d := range e.scene.objects {
		sess.disable(d)
	}
	e.scene.lock = sess.disable
	e.scene.Selection = false
	e.scene.HoverCursor = CursorCrosshair
	e.scene.DiscardActive()

	e.sess = sess
	e.preview = nil
	e.state = Sampling

	return nil
}

// PointerMove updates the swatch with the pixels under the pointer.
func (e *Eyedropper) PointerMove(x, y float64) {
	if e.state != Sampling {
		return
	}
	c, area, err := SampleArea(e.scene, x, y, swatchRadius, e.sess.target)
	if err != nil {
		e.preview = nil
		return
	}

	b := area.Bounds()
	e.preview = &Swatch{
		Image:  imaging.Resize(area, b.Dx()*swatchZoom, b.Dy()*swatchZoom, imaging.NearestNeighbor),
		Anchor: image.Pt(int(x)+swatchOffset, int(y)+swatchOffset),
		Color:  c,
		Border: c,
	}
}

// PointerDown picks the color under the pointer and ends the session.
// On a read failure the session is cancelled and the error returned.
func (e *Eyedropper) PointerDown(x, y float64) (string, error) {
	if e.state != Sampling {
		return "", ErrNoSession
	}
	c, err := SamplePixel(e.scene, x, y, e.sess.target)
	if err != nil {
		e.Cancel()
		return "", err
	}

	hex := utils.Hex(c)
	e.restore()
	if e.OnPick != nil {
		e.OnPick(hex)
	}
	return hex, nil
}

// Cancel ends the session without picking a color.
func (e *Eyedropper) Cancel() {
	if e.state != Sampling {
		return
	}
	e.restore()
}

// KeyDown handles a key press, reporting whether the key was consumed.
func (e *Eyedropper) KeyDown(name string) bool {
	if e.state != Sampling || name != KeyEscape {
		return false
	}
	e.Cancel()
	return true
}

// restore puts back the interactivity captured by Start and re-selects the target.
func (e *Eyedropper) restore() {
	sess := e.sess
	for _, d := range e.scene.objects {
		if f, ok := sess.flags[d.ID]; ok {
			d.Selectable = f.selectable
			d.Evented = f.evented
		}
	}
	e.scene.lock = nil
	e.scene.Selection = sess.selection
	e.scene.HoverCursor = sess.cursor
	if !e.scene.SetActive(sess.active) {
		e.scene.DiscardActive()
	}

	e.sess = nil
	e.preview = nil
	e.state = Idle
}
