package editor

import (
	"image/color"
	"math"

	"github.com/MadMatas/img-editor/utils"
)

// maxDistance is the Euclidean distance between black and white in RGB space.
var maxDistance = math.Sqrt(3) * 255

// NormalizeTolerance maps the tolerance slider value (0-255) to a distance in [0, 1].
func NormalizeTolerance(t int) float64 {
	return utils.Clamp(float64(t)/255, 0, 1)
}

// ColorDistance returns the Euclidean distance of two colors over the RGB channels,
// normalized to [0, 1]. The alpha channel is ignored.
func ColorDistance(a, b color.NRGBA) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)

	return math.Sqrt(dr*dr+dg*dg+db*db) / maxDistance
}
