package editor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/MadMatas/img-editor/utils"
)

// PropertyKind identifies an editable field of the property panel.
type PropertyKind int

const (
	PropX PropertyKind = iota
	PropY
	PropWidth
	PropHeight
	PropRotation
	PropOpacity
	PropFontSize
	PropFill
)

// Values shown for properties which do not apply to the selected drawable.
const (
	defaultPanelFontSize = "40"
	defaultPanelFill     = "#000000"
)

type property struct {
	name    string
	applies func(*Drawable) bool
	get     func(*Drawable) string
	set     func(*Drawable, string) error
}

func anyKind(*Drawable) bool { return true }

func isText(d *Drawable) bool { return d.Kind == KindText }

func hasFill(d *Drawable) bool { return d.Kind == KindText || d.Kind == KindShape }

func rounded(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}

var properties = [...]property{
	PropX: {
		name:    "x",
		applies: anyKind,
		get:     func(d *Drawable) string { return rounded(d.Left) },
		set: func(d *Drawable, v string) error {
			return withNumber(v, func(f float64) { d.Left = f })
		},
	},
	PropY: {
		name:    "y",
		applies: anyKind,
		get:     func(d *Drawable) string { return rounded(d.Top) },
		set: func(d *Drawable, v string) error {
			return withNumber(v, func(f float64) { d.Top = f })
		},
	},
	PropWidth: {
		name:    "width",
		applies: anyKind,
		get:     func(d *Drawable) string { return rounded(d.ScaledWidth()) },
		set: func(d *Drawable, v string) error {
			return withNumber(v, d.ScaleToWidth)
		},
	},
	PropHeight: {
		name:    "height",
		applies: anyKind,
		get:     func(d *Drawable) string { return rounded(d.ScaledHeight()) },
		set: func(d *Drawable, v string) error {
			return withNumber(v, d.ScaleToHeight)
		},
	},
	PropRotation: {
		name:    "rotation",
		applies: anyKind,
		get:     func(d *Drawable) string { return rounded(d.Angle) },
		set: func(d *Drawable, v string) error {
			return withNumber(v, func(f float64) { d.Angle = f })
		},
	},
	PropOpacity: {
		name:    "opacity",
		applies: anyKind,
		get:     func(d *Drawable) string { return strconv.Itoa(TransparencyFromOpacity(d.Opacity)) },
		set: func(d *Drawable, v string) error {
			return withNumber(v, func(f float64) {
				d.Opacity = OpacityFromTransparency(int(math.Round(f)))
			})
		},
	},
	PropFontSize: {
		name:    "fontSize",
		applies: isText,
		get: func(d *Drawable) string {
			if d.Kind != KindText || d.FontSize <= 0 {
				return defaultPanelFontSize
			}
			return strconv.FormatFloat(d.FontSize, 'f', -1, 64)
		},
		set: func(d *Drawable, v string) error {
			return withNumber(v, func(f float64) {
				if f > 0 {
					d.FontSize = f
				}
			})
		},
	},
	PropFill: {
		name:    "fill",
		applies: hasFill,
		get: func(d *Drawable) string {
			if !hasFill(d) || d.Fill == "" {
				return defaultPanelFill
			}
			return d.Fill
		},
		set: func(d *Drawable, v string) error {
			c, err := utils.ParseHex(v)
			if err != nil {
				return err
			}
			d.Fill = utils.Hex(c)
			return nil
		},
	},
}

func (k PropertyKind) String() string {
	if k < 0 || int(k) >= len(properties) {
		return fmt.Sprintf("PropertyKind(%d)", int(k))
	}
	return properties[k].name
}

// ParsePropertyKind returns the property with the given name.
// The panel input ids, like "propX" or "propFontSize", are accepted as well.
func ParsePropertyKind(name string) (PropertyKind, error) {
	n := strings.TrimPrefix(name, "prop")
	for k, p := range properties {
		if strings.EqualFold(p.name, n) {
			return PropertyKind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
}

// SetProperty parses the value and assigns it to the drawable.
func SetProperty(d *Drawable, kind PropertyKind, value string) error {
	if d == nil {
		return ErrNoTargetSelected
	}
	if kind < 0 || int(kind) >= len(properties) {
		return fmt.Errorf("%w: %v", ErrUnknownProperty, kind)
	}
	p := properties[kind]
	if !p.applies(d) {
		return fmt.Errorf("%w: %s on %s", ErrPropertyNotApplicable, p.name, d.Kind)
	}
	if err := p.set(d, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("invalid %s value: %w", p.name, err)
	}
	return nil
}

// Properties returns the panel values of the drawable.
func Properties(d *Drawable) map[PropertyKind]string {
	if d == nil {
		return nil
	}
	values := make(map[PropertyKind]string, len(properties))
	for k, p := range properties {
		values[PropertyKind(k)] = p.get(d)
	}
	return values
}

func withNumber(v string, fn func(float64)) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	if !finite(f) {
		return fmt.Errorf("%q is not a finite number", v)
	}
	fn(f)
	return nil
}
