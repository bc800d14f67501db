// Package imop implements the Porter-Duff composition operations and the separable
// blend modes used for mixing a drawable with its backdrop.
// The image/draw core package implements only the source-over-destination and source
// operators; this package covers the rest, so drawables on the design canvas can
// carry a blend mode like "multiply" or "screen".
package imop

import (
	"fmt"
	"math"

	"github.com/MadMatas/img-editor/utils"
)

// Supported blend modes.
const (
	Normal     = "normal"
	Darken     = "darken"
	Lighten    = "lighten"
	Multiply   = "multiply"
	Screen     = "screen"
	Overlay    = "overlay"
	Difference = "difference"
)

var blendModes = []string{Normal, Darken, Lighten, Multiply, Screen, Overlay, Difference}

// Blend holds the currently active blend mode.
type Blend struct {
	OpType string
}

// NewBlend initializes a new Blend using the normal mode.
func NewBlend() *Blend {
	return &Blend{OpType: Normal}
}

// Set activates one of the supported blend modes.
func (o *Blend) Set(opType string) error {
	if !utils.Contains(blendModes, opType) {
		return fmt.Errorf("unsupported blend mode: %q", opType)
	}
	o.OpType = opType
	return nil
}

// Get returns the currently active blend mode.
func (o *Blend) Get() string {
	return o.OpType
}

// IsBlendMode reports whether mode names a supported blend mode.
func IsBlendMode(mode string) bool {
	return utils.Contains(blendModes, mode)
}

// mix applies the blend function to a single normalized channel,
// where cb is the backdrop and cs the source value.
func (o *Blend) mix(cb, cs float64) float64 {
	switch o.OpType {
	case Darken:
		return utils.Min(cb, cs)
	case Lighten:
		return utils.Max(cb, cs)
	case Multiply:
		return cb * cs
	case Screen:
		return cb + cs - cb*cs
	case Overlay:
		// Overlay is hard light with the layers swapped.
		if cb <= 0.5 {
			return 2 * cb * cs
		}
		return 1 - 2*(1-cb)*(1-cs)
	case Difference:
		return math.Abs(cb - cs)
	}
	return cs
}
