// Package preview opens a Gio window showing the rendered design, in which
// the key color of the background removal can be picked with the eyedropper.
package preview

import (
	"image"
	"image/color"
	"math"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"

	editor "github.com/MadMatas/img-editor"
)

const (
	// maxScreenX and maxScreenY limit the initial window size.
	maxScreenX = 1280
	maxScreenY = 720

	swatchBorder = 3
)

var backgroundColor = color.NRGBA{R: 0xe6, G: 0xe6, B: 0xe6, A: 0xff}

// C and D are shortcuts for the layout types.
type (
	C = layout.Context
	D = layout.Dimensions
)

// Picker drives the eyedropper of an editor from the events of a Gio window.
type Picker struct {
	ed    *editor.Editor
	title string
	ratio float64

	hex string
	err error
}

// Pick opens a window and waits until a color is picked from the selected
// image of the editor, the picking is cancelled with Escape or the window
// is closed. It returns the picked hex color, or an empty string on cancel.
func Pick(ed *editor.Editor, title string) (string, error) {
	if err := ed.PickColor(); err != nil {
		return "", err
	}
	p := &Picker{ed: ed, title: title}
	return p.Run()
}

// windowSize returns the initial window size, keeping the canvas aspect ratio.
func (p *Picker) windowSize() (float32, float32) {
	w, h := float64(p.ed.Scene.Width), float64(p.ed.Scene.Height)
	if w > maxScreenX || h > maxScreenY {
		r := math.Min(maxScreenX/w, maxScreenY/h)
		w, h = w*r, h*r
	}
	return float32(w), float32(h)
}

// Run is the event loop of the window.
func (p *Picker) Run() (string, error) {
	w := new(app.Window)
	ww, wh := p.windowSize()
	w.Option(
		app.Title(p.title),
		app.Size(unit.Dp(ww), unit.Dp(wh)),
	)

	// The session must never outlive the window.
	defer p.ed.Eyedropper.Cancel()

	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			if p.err != nil {
				return "", p.err
			}
			return p.hex, e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			if p.handleEvents(gtx) {
				w.Perform(system.ActionClose)
			}
			p.layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

// handleEvents forwards the window events to the eyedropper and
// reports whether the window should be closed.
func (p *Picker) handleEvents(gtx C) bool {
	eye := p.ed.Eyedropper
	if eye.State() != editor.Sampling {
		return true
	}

	for {
		ev, ok := gtx.Event(key.Filter{Name: key.NameEscape})
		if !ok {
			break
		}
		if e, ok := ev.(key.Event); ok && e.State == key.Press {
			eye.KeyDown(editor.KeyEscape)
			return true
		}
	}

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: p,
			Kinds:  pointer.Move | pointer.Press,
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		x, y := p.toCanvas(e.Position.X, e.Position.Y)
		switch e.Kind {
		case pointer.Move:
			eye.PointerMove(x, y)
		case pointer.Press:
			hex, err := eye.PointerDown(x, y)
			p.hex, p.err = hex, err
			return true
		}
	}
	return false
}

func (p *Picker) toCanvas(x, y float32) (float64, float64) {
	if p.ratio <= 0 {
		return float64(x), float64(y)
	}
	return float64(x) / p.ratio, float64(y) / p.ratio
}

// layout draws the scene fitted to the window and the swatch next to the pointer.
func (p *Picker) layout(gtx C) D {
	scene := p.ed.Scene
	size := gtx.Constraints.Max
	paint.FillShape(gtx.Ops, backgroundColor, clip.Rect{Max: size}.Op())

	ratio := math.Min(float64(size.X)/float64(scene.Width), float64(size.Y)/float64(scene.Height))
	if ratio > 0 && ratio != p.ratio {
		p.ratio = ratio
		scene.PixelRatio = ratio
		scene.Render()
	}

	surf := scene.Surface()
	paint.NewImageOp(surf.Image).Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)

	if sw := p.ed.Eyedropper.Preview(); sw != nil {
		p.drawSwatch(gtx, sw)
	}

	area := clip.Rect{Max: size}.Push(gtx.Ops)
	event.Op(gtx.Ops, p)
	pointer.CursorCrosshair.Add(gtx.Ops)
	area.Pop()

	return D{Size: size}
}

func (p *Picker) drawSwatch(gtx C, sw *editor.Swatch) {
	anchor := image.Pt(
		int(float64(sw.Anchor.X)*p.ratio),
		int(float64(sw.Anchor.Y)*p.ratio),
	)
	defer op.Offset(anchor).Push(gtx.Ops).Pop()

	b := sw.Image.Bounds()
	frame := image.Rect(-swatchBorder, -swatchBorder, b.Dx()+swatchBorder, b.Dy()+swatchBorder)
	border := sw.Border
	border.A = 0xff
	paint.FillShape(gtx.Ops, border, clip.Rect(frame).Op())

	img := paint.NewImageOp(sw.Image)
	img.Filter = paint.FilterNearest
	img.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
}
