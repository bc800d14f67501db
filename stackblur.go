// StackBlur is a fast almost-Gaussian blur, based on the algorithm described here:
// http://incubator.quasimondo.com/processing/fast_blur_deluxe.php

package editor

import (
	"image"

	"github.com/disintegration/imaging"
)

// maxBlurRadius is the largest radius covered by the lookup tables.
const maxBlurRadius = 254

var mulTable = [...]uint64{
	512, 512, 456, 512, 328, 456, 335, 512, 405, 328, 271, 456, 388, 335, 292, 512,
	454, 405, 364, 328, 298, 271, 496, 456, 420, 388, 360, 335, 312, 292, 273, 512,
	482, 454, 428, 405, 383, 364, 345, 328, 312, 298, 284, 271, 259, 496, 475, 456,
	437, 420, 404, 388, 374, 360, 347, 335, 323, 312, 302, 292, 282, 273, 265, 512,
	497, 482, 468, 454, 441, 428, 417, 405, 394, 383, 373, 364, 354, 345, 337, 328,
	320, 312, 305, 298, 291, 284, 278, 271, 265, 259, 507, 496, 485, 475, 465, 456,
	446, 437, 428, 420, 412, 404, 396, 388, 381, 374, 367, 360, 354, 347, 341, 335,
	329, 323, 318, 312, 307, 302, 297, 292, 287, 282, 278, 273, 269, 265, 261, 512,
	505, 497, 489, 482, 475, 468, 461, 454, 447, 441, 435, 428, 422, 417, 411, 405,
	399, 394, 389, 383, 378, 373, 368, 364, 359, 354, 350, 345, 341, 337, 332, 328,
	324, 320, 316, 312, 309, 305, 301, 298, 294, 291, 287, 284, 281, 278, 274, 271,
	268, 265, 262, 259, 257, 507, 501, 496, 491, 485, 480, 475, 470, 465, 460, 456,
	451, 446, 442, 437, 433, 428, 424, 420, 416, 412, 408, 404, 400, 396, 392, 388,
	385, 381, 377, 374, 370, 367, 363, 360, 357, 354, 350, 347, 344, 341, 338, 335,
	332, 329, 326, 323, 320, 318, 315, 312, 310, 307, 304, 302, 299, 297, 294, 292,
	289, 287, 285, 282, 280, 278, 275, 273, 271, 269, 267, 265, 263, 261, 259,
}

var shgTable = [...]uint64{
	9, 11, 12, 13, 13, 14, 14, 15, 15, 15, 15, 16, 16, 16, 16, 17,
	17, 17, 17, 17, 17, 17, 18, 18, 18, 18, 18, 18, 18, 18, 18, 19,
	19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 19, 20, 20, 20,
	20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 21,
	21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21,
	21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 22, 22, 22, 22, 22, 22,
	22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22,
	22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 22, 23,
	23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23,
	23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23,
	23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23, 23,
	23, 23, 23, 23, 23, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
	24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
	24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
	24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
	24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24, 24,
}

type rgba [4]uint64

// Stackblur returns a blurred copy of the source image. The radius is clamped to [1, 254].
func Stackblur(src *image.NRGBA, radius int) *image.NRGBA {
	img := imaging.Clone(src)
	if radius < 1 {
		return img
	}
	if radius > maxBlurRadius {
		radius = maxBlurRadius
	}

	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	if width == 0 || height == 0 {
		return img
	}

	var (
		r      = radius
		div    = 2*r + 1
		stack  = make([]rgba, div)
		mulSum = mulTable[r]
		shgSum = shgTable[r]
		line   = make([]int, 0, max(width, height))
	)

	// pass blurs one line of pixels, described by their offsets in the Pix slice.
	pass := func(offsets []int) {
		n := len(offsets)
		var sum, inSum, outSum rgba

		first := img.Pix[offsets[0] : offsets[0]+4]
		for c := 0; c < 4; c++ {
			v := uint64(first[c])
			outSum[c] = uint64(r+1) * v
			sum[c] = uint64((r+1)*(r+2)/2) * v
		}
		for i := 0; i <= r; i++ {
			for c := 0; c < 4; c++ {
				stack[i][c] = uint64(first[c])
			}
		}
		for i := 1; i <= r; i++ {
			p := offsets[min(i, n-1)]
			for c := 0; c < 4; c++ {
				v := uint64(img.Pix[p+c])
				stack[i+r][c] = v
				sum[c] += v * uint64(r+1-i)
				inSum[c] += v
			}
		}

		// Blurred values are written into a separate buffer, since the
		// incoming pixels are read from the line being processed.
		out := make([]uint8, n*4)
		in, outIdx := 0, r+1
		for x := 0; x < n; x++ {
			a := min((sum[3]*mulSum)>>shgSum, 255)
			o := out[x*4 : x*4+4]
			o[3] = uint8(a)
			if a != 0 {
				for c := 0; c < 3; c++ {
					o[c] = uint8(min((sum[c]*mulSum)>>shgSum, 255))
				}
			}

			p := offsets[min(x+r+1, n-1)]
			for c := 0; c < 4; c++ {
				sum[c] -= outSum[c]
				outSum[c] -= stack[in][c]
				stack[in][c] = uint64(img.Pix[p+c])
				inSum[c] += stack[in][c]
				sum[c] += inSum[c]
			}
			in = (in + 1) % div

			for c := 0; c < 4; c++ {
				outSum[c] += stack[outIdx][c]
				inSum[c] -= stack[outIdx][c]
			}
			outIdx = (outIdx + 1) % div
		}

		for x, off := range offsets {
			copy(img.Pix[off:off+4], out[x*4:x*4+4])
		}
	}

	for y := 0; y < height; y++ {
		line = line[:0]
		for x := 0; x < width; x++ {
			line = append(line, img.PixOffset(x, y))
		}
		pass(line)
	}
	for x := 0; x < width; x++ {
		line = line[:0]
		for y := 0; y < height; y++ {
			line = append(line, img.PixOffset(x, y))
		}
		pass(line)
	}
	return img
}
