package editor

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultFontFamily is used for new text boxes and unknown families.
const DefaultFontFamily = "Go"

// lineHeight is the spacing of text lines relative to the font size.
const lineHeight = 1.16

var fontFiles = map[string][]byte{
	"Go":             goregular.TTF,
	"Go Bold":        gobold.TTF,
	"Go Italic":      goitalic.TTF,
	"Go Bold Italic": gobolditalic.TTF,
	"Go Medium":      gomedium.TTF,
	"Go Mono":        gomono.TTF,
	"Go Smallcaps":   gosmallcaps.TTF,
}

type faceKey struct {
	family string
	size   float64
}

var fontCache = struct {
	sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}{
	fonts: make(map[string]*opentype.Font),
	faces: make(map[faceKey]font.Face),
}

// FontFamilies lists the available font families.
func FontFamilies() []string {
	families := make([]string, 0, len(fontFiles))
	for name := range fontFiles {
		families = append(families, name)
	}
	sort.Strings(families)
	return families
}

// IsFontFamily reports whether the family is available.
func IsFontFamily(name string) bool {
	_, ok := fontFiles[name]
	return ok
}

// loadFace returns a cached font face. Unknown families fall back to the default one.
func loadFace(family string, size float64) (font.Face, error) {
	if !IsFontFamily(family) {
		family = DefaultFontFamily
	}
	key := faceKey{family: family, size: size}

	fontCache.Lock()
	defer fontCache.Unlock()

	if face, ok := fontCache.faces[key]; ok {
		return face, nil
	}

	fnt, ok := fontCache.fonts[family]
	if !ok {
		var err error
		fnt, err = opentype.Parse(fontFiles[family])
		if err != nil {
			return nil, fmt.Errorf("could not parse the %q font: %w", family, err)
		}
		fontCache.fonts[family] = fnt
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create the %q font face: %w", family, err)
	}
	fontCache.faces[key] = face

	return face, nil
}

// renderText rasterizes a multi line text into a tightly sized transparent bitmap.
func renderText(text, family string, size float64, fill color.NRGBA) (*image.NRGBA, error) {
	if size <= 0 {
		size = 1
	}
	face, err := loadFace(family, size)
	if err != nil {
		return nil, err
	}

	fontCache.Lock()
	defer fontCache.Unlock()

	lines := strings.Split(text, "\n")
	step := int(math.Ceil(size * lineHeight))
	ascent := face.Metrics().Ascent.Ceil()

	width := 1
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > width {
			width = w
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, step*len(lines)))
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fill),
		Face: face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(0, i*step+ascent)
		d.DrawString(line)
	}
	return dst, nil
}
