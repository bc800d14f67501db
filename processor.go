package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/MadMatas/img-editor/utils"
)

// Processor options
type Processor struct {
	Brightness   int
	Contrast     int
	Grayscale    bool
	BlurRadius   int
	Transparency int
	KeyColor     string
	Tolerance    int
	RemoveBg     bool
	Remover      BackgroundRemover
	MaxSize      int
	Width        int
	Height       int
	PixelRatio   float64
	Spinner      *utils.Spinner
	// PickColor is invoked with the prepared editor when the key color
	// should be chosen interactively. It returns the picked hex color or
	// an empty string when the picking was cancelled.
	PickColor func(e *Editor) (string, error)
}

// FilterOptions returns the filter options described by the processor.
func (p *Processor) FilterOptions() (FilterOptions, error) {
	return p.filterOptions(p.KeyColor)
}

func (p *Processor) filterOptions(keyColor string) (FilterOptions, error) {
	opts := DefaultFilterOptions()
	opts.Brightness = p.Brightness
	opts.Contrast = p.Contrast
	opts.Grayscale = p.Grayscale
	opts.BlurRadius = p.BlurRadius
	opts.Opacity = OpacityFromTransparency(p.Transparency)

	if keyColor != "" {
		key, err := NewColorKey(keyColor, p.Tolerance)
		if err != nil {
			return opts, fmt.Errorf("invalid key color: %w", err)
		}
		opts.ColorKey = key
	}
	return opts, nil
}

// Process decodes the source image, places it on a new canvas, applies the
// filters and the background removal and writes the flattened design as PNG.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	d, err := LoadImage(r)
	if err != nil {
		return err
	}
	if p.MaxSize > 0 && d.Kind == KindImage {
		d.SetSource(FitMaxSize(d.Source(), p.MaxSize))
	}

	width, height := p.Width, p.Height
	if width <= 0 || height <= 0 {
		width = int(math.Ceil(d.Width()))
		height = int(math.Ceil(d.Height()))
	}

	ed := New(width, height)
	ed.Remover = p.Remover
	if p.PixelRatio > 0 {
		ed.Scene.PixelRatio = p.PixelRatio
	}
	ed.Scene.Add(d)
	d.Left = math.Round((float64(width) - d.Width()) / 2)
	d.Top = math.Round((float64(height) - d.Height()) / 2)

	if d.Kind != KindImage {
		d.Opacity = OpacityFromTransparency(p.Transparency)
		return ed.Scene.ExportPNG(w)
	}

	keyColor := p.KeyColor
	if p.PickColor != nil {
		// The key is matched against the filtered pixels, so it is picked from them too.
		preview, err := p.filterOptions("")
		if err != nil {
			return err
		}
		if err := ApplyAll(d, preview); err != nil && !errors.Is(err, ErrFilterNoop) {
			return err
		}
		hex, err := p.PickColor(ed)
		if err != nil {
			return err
		}
		if hex != "" {
			keyColor = hex
		}
	}

	opts, err := p.filterOptions(keyColor)
	if err != nil {
		return err
	}
	if err := ApplyAll(d, opts); err != nil && !errors.Is(err, ErrFilterNoop) {
		return err
	}

	// The built-in removal is a white color key, which is superseded by an explicit key color.
	if p.RemoveBg && (p.Remover != nil || opts.ColorKey == nil) {
		ed.Scene.SetActive(d)
		if err := ed.RemoveBackground(context.Background()); err != nil {
			return err
		}
	}

	return ed.Scene.ExportPNG(w)
}
