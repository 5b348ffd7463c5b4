package daub

import (
	"image"
	"image/color"

	"github.com/esimov/daub/utils"
)

// AlphaFromOpacity maps an opacity percentage (0-100) to an alpha byte,
// rounding opacity*2.55 half up: 0 -> 0, 50 -> 128, 100 -> 255.
// The computation is done on integers so that exact halves are not lost to
// floating point representation errors.
func AlphaFromOpacity(opacity int) uint8 {
	opacity = utils.Clamp(opacity, 0, 100)
	return uint8((opacity*255 + 50) / 100)
}

// FillColor returns the color a flood fill writes for the given RGB and opacity.
func FillColor(c color.NRGBA, opacity int) color.NRGBA {
	c.A = AlphaFromOpacity(opacity)
	return c
}

// FloodFill replaces the 4-connected region of pixels having exactly the seed
// pixel's color with rgb at the alpha derived from opacity. The alpha channel
// of rgb is ignored.
//
// The pixel data is read once, modified in memory and written back in one
// step. Region growing uses an explicit stack, so memory is bounded by the
// region size rather than the call stack depth.
//
// It returns the number of pixels written. ok is false only if the fill could
// not run at all: a nil or zero area buffer, or a seed outside of the buffer.
// Filling a region with its own color is a successful no-op.
func FloodFill(buf *PixelBuffer, seed image.Point, rgb color.NRGBA, opacity int) (filled int, ok bool) {
	if buf.Empty() || !buf.In(seed.X, seed.Y) {
		return 0, false
	}

	var (
		width  = buf.Width()
		height = buf.Height()
		target = buf.Get(seed.X, seed.Y)
		fill   = FillColor(rgb, opacity)
	)
	if target == fill {
		return 0, true
	}

	pix := buf.ReadPixels()
	// visited is a bitset, one bit per pixel.
	visited := make([]uint8, (width*height+7)/8)

	stack := []image.Point{seed}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.Y < 0 || p.X >= width || p.Y >= height {
			continue
		}
		idx := p.Y*width + p.X
		if visited[idx>>3]&(1<<(idx&7)) != 0 {
			continue
		}

		i := idx * 4
		if pix[i] != target.R || pix[i+1] != target.G || pix[i+2] != target.B || pix[i+3] != target.A {
			continue
		}
		visited[idx>>3] |= 1 << (idx & 7)

		pix[i], pix[i+1], pix[i+2], pix[i+3] = fill.R, fill.G, fill.B, fill.A
		filled++

		stack = append(stack,
			image.Pt(p.X+1, p.Y),
			image.Pt(p.X-1, p.Y),
			image.Pt(p.X, p.Y+1),
			image.Pt(p.X, p.Y-1),
		)
	}

	if err := buf.WritePixels(pix); err != nil {
		return 0, false
	}
	return filled, true
}
