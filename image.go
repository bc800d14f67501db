package editor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	"github.com/MadMatas/img-editor/utils"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxImageSize is the longest side an imported image is scaled down to.
const MaxImageSize = 4096

// DecodeImage decodes a png, jpeg, gif, bmp or webp encoded image.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("could not decode the image: %w", err)
	}
	return img, nil
}

// FitMaxSize scales down the image, preserving its aspect ratio,
// so that none of its sides exceeds max.
func FitMaxSize(img image.Image, max int) *image.NRGBA {
	b := img.Bounds()
	if max <= 0 || (b.Dx() <= max && b.Dy() <= max) {
		return imgToNRGBA(img)
	}
	return imaging.Fit(img, max, max, imaging.Lanczos)
}

// LoadImage decodes a raster image or an SVG document into a new drawable.
func LoadImage(r io.Reader) (*Drawable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read the image: %w", err)
	}
	if utils.IsSVG(data) {
		return LoadSVG(bytes.NewReader(data))
	}

	img, err := DecodeImage(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return NewImage(FitMaxSize(img, MaxImageSize)), nil
}

// LoadURL downloads an image. Raster images served without a cross origin
// header are marked as tainted.
func LoadURL(uri string) (*Drawable, error) {
	res, err := utils.FetchImage(uri)
	if err != nil {
		return nil, err
	}
	d, err := LoadImage(bytes.NewReader(res.Data))
	if err != nil {
		return nil, err
	}
	if d.Kind == KindImage {
		d.Tainted = res.CrossOrigin
	}
	return d, nil
}

// encodePNG encodes the image to a destination of type io.Writer.
func encodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("could not encode the png image: %w", err)
	}
	return nil
}

// imgToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
func imgToNRGBA(img image.Image) *image.NRGBA {
	srcBounds := img.Bounds()
	if srcBounds.Min.X == 0 && srcBounds.Min.Y == 0 {
		if src0, ok := img.(*image.NRGBA); ok {
			return src0
		}
	}
	srcMinX := srcBounds.Min.X
	srcMinY := srcBounds.Min.Y

	dstBounds := srcBounds.Sub(srcBounds.Min)
	dstW := dstBounds.Dx()
	dstH := dstBounds.Dy()
	dst := image.NewNRGBA(dstBounds)

	switch src := img.(type) {
	case *image.NRGBA:
		rowSize := dstW * 4
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			si := src.PixOffset(srcMinX, srcMinY+dstY)
			copy(dst.Pix[di:di+rowSize], src.Pix[si:si+rowSize])
		}
	case *image.YCbCr:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				srcX := srcMinX + dstX
				srcY := srcMinY + dstY
				siy := src.YOffset(srcX, srcY)
				sic := src.COffset(srcX, srcY)
				r, g, b := color.YCbCrToRGB(src.Y[siy], src.Cb[sic], src.Cr[sic])
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = b
				dst.Pix[di+3] = 0xff
				di += 4
			}
		}
	default:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				c := color.NRGBAModel.Convert(img.At(srcMinX+dstX, srcMinY+dstY)).(color.NRGBA)
				dst.Pix[di+0] = c.R
				dst.Pix[di+1] = c.G
				dst.Pix[di+2] = c.B
				dst.Pix[di+3] = c.A
				di += 4
			}
		}
	}

	return dst
}
