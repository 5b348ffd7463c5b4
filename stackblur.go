// Go implementation of StackBlur algorithm described here:
// http://incubator.quasimondo.com/processing/fast_blur_deluxe.php

package daub

import (
	"image"
)

// maxBlurRadius is the largest radius covered by the lookup tables.
const maxBlurRadius = 254

var mulTable = [...]uint32{
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

var shgTable = [...]uint32{
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

// stackBlur blurs the alpha mask in place. The kernel is the triangular
// StackBlur kernel of the given radius; a radius of zero leaves the mask unchanged.
func stackBlur(mask *image.Alpha, radius int) {
	width, height := mask.Rect.Dx(), mask.Rect.Dy()
	if radius <= 0 || width == 0 || height == 0 {
		return
	}
	radius = min(radius, maxBlurRadius)

	var (
		div      = 2*radius + 1
		mulSum   = mulTable[radius]
		shgSum   = shgTable[radius]
		stack    = make([]uint32, div)
		pix      = mask.Pix
		stride   = mask.Stride
		wm, hm   = width - 1, height - 1
		sum      uint32
		sumIn    uint32
		sumOut   uint32
		sp, xp   int
		yp, idx  int
		stackIdx int
	)

	// blurLine runs one pass over n samples located at base, base+step, ...
	blurLine := func(base, step, n, last int) {
		sum, sumIn, sumOut = 0, 0, 0

		first := uint32(pix[base])
		for i := 0; i <= radius; i++ {
			stack[i] = first
			sum += first * uint32(i+1)
			sumOut += first
		}
		for i := 1; i <= radius; i++ {
			v := uint32(pix[base+min(i, last)*step])
			stack[i+radius] = v
			sum += v * uint32(radius+1-i)
			sumIn += v
		}

		sp = radius
		xp = min(radius, last)
		idx = base
		for i := 0; i < n; i++ {
			pix[idx] = uint8((sum * mulSum) >> shgSum)
			sum -= sumOut

			stackIdx = sp + div - radius
			if stackIdx >= div {
				stackIdx -= div
			}
			sumOut -= stack[stackIdx]

			if xp < last {
				xp++
			}
			stack[stackIdx] = uint32(pix[base+xp*step])
			sumIn += stack[stackIdx]
			sum += sumIn

			sp++
			if sp >= div {
				sp = 0
			}
			sumOut += stack[sp]
			sumIn -= stack[sp]

			idx += step
		}
	}

	for y := 0; y < height; y++ {
		yp = y * stride
		blurLine(yp, 1, width, wm)
	}
	for x := 0; x < width; x++ {
		blurLine(x, stride, height, hm)
	}
}
