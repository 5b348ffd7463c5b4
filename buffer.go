package daub

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// PixelBuffer is a fixed size RGBA raster. The pixels are stored row-major,
// four non-premultiplied bytes per pixel, in an *image.NRGBA with its
// min-point at (0, 0).
type PixelBuffer struct {
	img *image.NRGBA
}

// NewPixelBuffer allocates a fully transparent buffer. Negative dimensions are treated as zero.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		img: image.NewNRGBA(image.Rect(0, 0, max(width, 0), max(height, 0))),
	}
}

// Width returns the buffer width in pixels.
func (b *PixelBuffer) Width() int { return b.img.Rect.Dx() }

// Height returns the buffer height in pixels.
func (b *PixelBuffer) Height() int { return b.img.Rect.Dy() }

// Bounds returns the buffer rectangle.
func (b *PixelBuffer) Bounds() image.Rectangle { return b.img.Rect }

// Empty reports whether the buffer has zero area.
func (b *PixelBuffer) Empty() bool { return b == nil || b.img.Rect.Empty() }

// In reports whether (x, y) addresses a pixel of the buffer.
func (b *PixelBuffer) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width() && y < b.Height()
}

// Get returns the color at (x, y). Out of range coordinates yield a transparent color.
func (b *PixelBuffer) Get(x, y int) color.NRGBA {
	if !b.In(x, y) {
		return color.NRGBA{}
	}
	i := b.img.PixOffset(x, y)
	p := b.img.Pix[i : i+4 : i+4]

	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Set writes c at (x, y). Out of range coordinates are ignored.
func (b *PixelBuffer) Set(x, y int, c color.NRGBA) {
	if !b.In(x, y) {
		return
	}
	i := b.img.PixOffset(x, y)
	p := b.img.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Fill paints every pixel with c.
func (b *PixelBuffer) Fill(c color.NRGBA) {
	if b.Empty() {
		return
	}
	draw.Draw(b.img, b.img.Rect, &image.Uniform{c}, image.Point{}, draw.Src)
}

// ReadPixels returns a copy of the pixel data in row-major RGBA order.
func (b *PixelBuffer) ReadPixels() []uint8 {
	pix := make([]uint8, len(b.img.Pix))
	copy(pix, b.img.Pix)

	return pix
}

// WritePixels replaces the pixel data with pix, which must hold exactly
// Width*Height*4 bytes in row-major RGBA order.
func (b *PixelBuffer) WritePixels(pix []uint8) error {
	if len(pix) != len(b.img.Pix) {
		return fmt.Errorf("pixel data size mismatch: got %d bytes, want %d", len(pix), len(b.img.Pix))
	}
	copy(b.img.Pix, pix)

	return nil
}

// Clone returns a deep copy of the buffer.
func (b *PixelBuffer) Clone() *PixelBuffer {
	dst := NewPixelBuffer(b.Width(), b.Height())
	copy(dst.img.Pix, b.img.Pix)

	return dst
}

// Resize returns a new buffer of the requested size holding the current content
// rescaled with a bilinear filter. The content is stretched to the new
// dimensions, not cropped. The receiver is left untouched.
func (b *PixelBuffer) Resize(width, height int) *PixelBuffer {
	dst := NewPixelBuffer(width, height)
	if b.Empty() || dst.Empty() {
		return dst
	}
	if dst.img.Rect == b.img.Rect {
		copy(dst.img.Pix, b.img.Pix)
		return dst
	}
	xdraw.BiLinear.Scale(dst.img, dst.img.Rect, b.img, b.img.Rect, xdraw.Src, nil)

	return dst
}

// Image exposes the backing image. Writes to it are visible in the buffer.
func (b *PixelBuffer) Image() *image.NRGBA {
	return b.img
}
