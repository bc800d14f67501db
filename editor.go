package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/MadMatas/img-editor/utils"
)

// Messages shown to the user through Editor.Notify.
const (
	MsgSelectImage    = "Select an image first."
	MsgRemovalFailed  = "Background removal failed."
	MsgTaintedImage   = "The image was loaded without cross-origin access, filters are disabled."
	labelRemoveBg     = "Remove Background"
	labelProcessing   = "Processing..."
	defaultCanvasSize = 600
)

// BackgroundRemover removes the background of an image.
type BackgroundRemover interface {
	Remove(ctx context.Context, img image.Image) (*image.NRGBA, error)
}

// Button is the state of a toolbar button.
type Button struct {
	Label    string
	Disabled bool
}

// Busy disables the button and changes its label while fn is running.
func (b *Button) Busy(label string, fn func() error) error {
	prev := b.Label
	b.Label, b.Disabled = label, true
	defer func() {
		b.Label, b.Disabled = prev, false
	}()
	return fn()
}

// Editor ties the scene to the user facing actions of the mug designer.
type Editor struct {
	Scene      *Scene
	Eyedropper *Eyedropper

	// KeyColor is the reference color of the color key, updated by the eyedropper.
	KeyColor string
	// Tolerance is the color key slider value in the [0, 255] range.
	Tolerance int

	Remover      BackgroundRemover
	RemoveButton Button

	Notify func(msg string)
}

// New creates an editor with an empty scene. Non-positive sizes fall back to a 600x600 canvas.
func New(width, height int) *Editor {
	if width <= 0 || height <= 0 {
		width, height = defaultCanvasSize, defaultCanvasSize
	}
	e := &Editor{
		Scene:        NewScene(width, height),
		KeyColor:     utils.Hex(DefaultKeyColor),
		Tolerance:    int(DefaultKeyTolerance * 255),
		RemoveButton: Button{Label: labelRemoveBg},
	}
	e.Eyedropper = NewEyedropper(e.Scene)
	e.Eyedropper.OnPick = func(hex string) {
		e.KeyColor = hex
	}
	return e
}

func (e *Editor) notify(msg string) {
	if e.Notify != nil {
		e.Notify(msg)
	}
}

// selectedImage returns the active image drawable, notifying the user otherwise.
func (e *Editor) selectedImage() (*Drawable, error) {
	d := e.Scene.Active()
	if d == nil || d.Kind != KindImage {
		e.notify(MsgSelectImage)
		return nil, ErrNoTargetSelected
	}
	return d, nil
}

// AddImage decodes and adds an image or SVG document to the scene.
func (e *Editor) AddImage(r io.Reader) (*Drawable, error) {
	d, err := LoadImage(r)
	if err != nil {
		return nil, err
	}
	e.Scene.Add(d)
	return d, nil
}

// AddImageURL downloads and adds an image to the scene.
func (e *Editor) AddImageURL(uri string) (*Drawable, error) {
	d, err := LoadURL(uri)
	if err != nil {
		return nil, err
	}
	if d.Tainted {
		e.notify(MsgTaintedImage)
	}
	e.Scene.Add(d)
	return d, nil
}

// AddText adds a text box with the default text.
func (e *Editor) AddText() *Drawable {
	d := NewText("Your text")
	e.Scene.Add(d)
	return d
}

// AddRect adds the default rectangle.
func (e *Editor) AddRect() *Drawable {
	d := NewRect()
	e.Scene.Add(d)
	return d
}

// Delete removes the active drawable.
func (e *Editor) Delete() bool {
	return e.Scene.Remove(e.Scene.Active())
}

// Duplicate copies the active drawable.
func (e *Editor) Duplicate() *Drawable {
	return e.Scene.Duplicate(e.Scene.Active())
}

// BringForward moves the active drawable one layer up.
func (e *Editor) BringForward() bool {
	return e.Scene.BringForward(e.Scene.Active())
}

// SendBackwards moves the active drawable one layer down.
func (e *Editor) SendBackwards() bool {
	return e.Scene.SendBackwards(e.Scene.Active())
}

// Panel returns the property panel values of the active drawable, nil without selection.
func (e *Editor) Panel() map[PropertyKind]string {
	return Properties(e.Scene.Active())
}

// SetProperty updates a panel property of the active drawable.
func (e *Editor) SetProperty(name, value string) error {
	kind, err := ParsePropertyKind(name)
	if err != nil {
		return err
	}
	return SetProperty(e.Scene.Active(), kind, value)
}

// PickColor starts the eyedropper on the selected image.
func (e *Editor) PickColor() error {
	err := e.Eyedropper.Start()
	if errors.Is(err, ErrNoTargetSelected) {
		e.notify(MsgSelectImage)
	}
	return err
}

// ApplyFilters applies the filter options to the selected image.
// Without a selected image it does nothing.
func (e *Editor) ApplyFilters(opts FilterOptions) {
	_ = ApplyAll(e.Scene.Active(), opts)
}

// ResetFilters restores the neutral filters of the selected image.
func (e *Editor) ResetFilters() {
	_ = ResetFilters(e.Scene.Active())
}

// ApplyColorKey removes the pixels close to the published key color from the selected image.
func (e *Editor) ApplyColorKey() error {
	d, err := e.selectedImage()
	if err != nil {
		return err
	}
	key, err := NewColorKey(e.KeyColor, e.Tolerance)
	if err != nil {
		return fmt.Errorf("invalid key color: %w", err)
	}
	return ApplyColorKey(d, key.Color, key.Tolerance)
}

// RemoveBackground removes the background of the selected image through the
// configured remover. Without one, the built-in white color key is applied.
func (e *Editor) RemoveBackground(ctx context.Context) error {
	return e.RemoveButton.Busy(labelProcessing, func() error {
		d, err := e.selectedImage()
		if err != nil {
			return err
		}
		if e.Remover == nil {
			return ApplyColorKey(d, DefaultKeyColor, DefaultKeyTolerance)
		}

		out, err := e.Remover.Remove(ctx, d.Source())
		if err != nil {
			e.notify(MsgRemovalFailed)
			return fmt.Errorf("background removal: %w", err)
		}
		d.SetSource(out)
		return nil
	})
}
