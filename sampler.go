package editor

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
)

type objectFlags struct {
	visible    bool
	selectable bool
	evented    bool
}

// Isolation hides every drawable except the target, so that the rendered
// surface only holds the target pixels. Release restores the scene.
type Isolation struct {
	scene    *Scene
	target   *Drawable
	saved    map[uint64]objectFlags
	released bool
}

// Isolate hides all the drawables except target and re-renders the scene.
func Isolate(s *Scene, target *Drawable) (*Isolation, error) {
	if s == nil || !s.Contains(target) {
		return nil, ErrNoTargetSelected
	}

	iso := &Isolation{
		scene:  s,
		target: target,
		saved:  make(map[uint64]objectFlags, len(s.objects)),
	}
	for _, d := range s.objects {
		iso.saved[d.ID] = objectFlags{
			visible:    d.Visible,
			selectable: d.Selectable,
			evented:    d.Evented,
		}
		if d != target {
			d.Visible = false
		}
	}
	s.Render()

	return iso, nil
}

// Surface returns the surface rendered with the target alone.
func (iso *Isolation) Surface() *Surface {
	return iso.scene.Surface()
}

// Release restores the flags of every drawable and re-renders the scene.
// It is safe to call it more than once.
func (iso *Isolation) Release() {
	if iso == nil || iso.released {
		return
	}
	iso.released = true

	for _, d := range iso.scene.objects {
		if f, ok := iso.saved[d.ID]; ok {
			d.Visible = f.visible
			d.Selectable = f.selectable
			d.Evented = f.evented
		}
	}
	iso.scene.Render()
}

// SamplePixel returns the color of the target drawable found under the
// logical canvas point (x, y), ignoring every other drawable.
func SamplePixel(s *Scene, x, y float64, target *Drawable) (color.NRGBA, error) {
	if !finite(x) || !finite(y) {
		return color.NRGBA{}, fmt.Errorf("%w: invalid coordinates", ErrSampleRead)
	}
	iso, err := Isolate(s, target)
	if err != nil {
		return color.NRGBA{}, err
	}
	defer iso.Release()

	surf := iso.Surface()
	bx, by, err := backingPoint(surf, x, y)
	if err != nil {
		return color.NRGBA{}, err
	}
	return surf.ReadPixel(bx, by)
}

// SampleArea works like SamplePixel, but it also returns the neighbourhood
// of (2*radius+1)² backing pixels centered on the sampled point.
func SampleArea(s *Scene, x, y float64, radius int, target *Drawable) (color.NRGBA, *image.NRGBA, error) {
	if !finite(x) || !finite(y) {
		return color.NRGBA{}, nil, fmt.Errorf("%w: invalid coordinates", ErrSampleRead)
	}
	radius = max(radius, 0)

	iso, err := Isolate(s, target)
	if err != nil {
		return color.NRGBA{}, nil, err
	}
	defer iso.Release()

	surf := iso.Surface()
	bx, by, err := backingPoint(surf, x, y)
	if err != nil {
		return color.NRGBA{}, nil, err
	}
	c, err := surf.ReadPixel(bx, by)
	if err != nil {
		return color.NRGBA{}, nil, err
	}

	size := 2*radius + 1
	area := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(area, area.Bounds(), surf.Image, image.Pt(bx-radius, by-radius), draw.Src)

	return c, area, nil
}

// backingPoint converts logical canvas coordinates to backing store coordinates.
func backingPoint(surf *Surface, x, y float64) (int, int, error) {
	sx, sy, err := surf.ScaleFactor()
	if err != nil {
		return 0, 0, err
	}
	return int(math.Floor(x * sx)), int(math.Floor(y * sy)), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
