package editor

import (
	"github.com/MadMatas/img-editor/utils"
)

// FilterOptions holds the parameters of the image filter chain, as set by the filter panel.
type FilterOptions struct {
	// Brightness and Contrast are percentages in [-100, 100].
	Brightness int
	Contrast   int
	Grayscale  bool
	// BlurRadius is in pixels, 0 disables the blur.
	BlurRadius int
	// Opacity is applied to the drawable itself, not as a pixel filter.
	Opacity float64
	// ColorKey is the optional background key, applied last.
	ColorKey *ColorKey
}

// DefaultFilterOptions returns the neutral filter settings.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		Brightness: 0,
		Contrast:   0,
		Grayscale:  false,
		BlurRadius: 0,
		Opacity:    1,
	}
}

// Filters builds the filter chain in its fixed order:
// brightness, contrast, grayscale, blur and finally the color key.
func (o FilterOptions) Filters() []Filter {
	filters := []Filter{
		&Brightness{Amount: float64(utils.Clamp(o.Brightness, -100, 100)) / 100},
		&Contrast{Amount: float64(utils.Clamp(o.Contrast, -100, 100)) / 100},
	}
	if o.Grayscale {
		filters = append(filters, &Grayscale{})
	}
	if o.BlurRadius > 0 {
		filters = append(filters, &Blur{Radius: o.BlurRadius})
	}
	if o.ColorKey != nil {
		key := *o.ColorKey
		filters = append(filters, &key)
	}
	return filters
}

// ApplyAll replaces the filter list of an image drawable with the chain described
// by opts, sets its opacity and recomputes the filtered bitmap from the original source.
func ApplyAll(d *Drawable, opts FilterOptions) error {
	if d == nil || d.Kind != KindImage {
		return ErrFilterNoop
	}
	d.Filters = opts.Filters()
	d.Opacity = utils.Clamp(opts.Opacity, 0, 1)
	d.ApplyFilters()

	return nil
}

// ResetFilters restores the neutral filter settings on the drawable.
func ResetFilters(d *Drawable) error {
	return ApplyAll(d, DefaultFilterOptions())
}

// OpacityFromTransparency converts the transparency slider (percent) to an opacity.
func OpacityFromTransparency(pct int) float64 {
	return 1 - float64(utils.Clamp(pct, 0, 100))/100
}

// TransparencyFromOpacity is the inverse of OpacityFromTransparency, rounded to a whole percent.
func TransparencyFromOpacity(opacity float64) int {
	return int((1-utils.Clamp(opacity, 0, 1))*100 + 0.5)
}
