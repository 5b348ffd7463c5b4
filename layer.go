package daub

import (
	"image/color"

	"github.com/esimov/daub/imop"
)

var (
	white       = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	transparent = color.NRGBA{}
)

// Layer is a named raster in the layer stack. The layer owns its buffer
// exclusively; callers mutate it only through the stack or the canvas.
type Layer struct {
	id         string
	name       string
	visible    bool
	opacity    int
	blend      string
	background bool
	buf        *PixelBuffer
}

func newLayer(id, name string, width, height int, background bool) *Layer {
	l := &Layer{
		id:         id,
		name:       name,
		visible:    true,
		opacity:    100,
		blend:      imop.Normal,
		background: background,
		buf:        NewPixelBuffer(width, height),
	}
	l.clear()

	return l
}

// ID returns the stable identifier of the layer.
func (l *Layer) ID() string { return l.id }

// Name returns the display name of the layer.
func (l *Layer) Name() string { return l.name }

// Visible reports whether the layer takes part in the composite.
func (l *Layer) Visible() bool { return l.visible }

// Opacity returns the layer opacity in percent.
func (l *Layer) Opacity() int { return l.opacity }

// Blend returns the blend mode used when the layer is flattened.
func (l *Layer) Blend() string { return l.blend }

// Background reports whether this is the opaque background layer.
func (l *Layer) Background() bool { return l.background }

// Buffer returns the pixel buffer of the layer.
func (l *Layer) Buffer() *PixelBuffer { return l.buf }

// clear resets the buffer to the initial state of the layer.
func (l *Layer) clear() {
	if l.background {
		l.buf.Fill(white)
		return
	}
	l.buf.Fill(transparent)
}

// resized returns the replacement buffer for the layer at the new size.
// The content is rescaled; the background layer keeps an opaque white base
// beneath the rescaled content so the edges don't fade to transparent.
func (l *Layer) resized(width, height int) *PixelBuffer {
	scaled := l.buf.Resize(width, height)
	if !l.background || scaled.Empty() {
		return scaled
	}
	base := NewPixelBuffer(width, height)
	base.Fill(white)
	imop.InitOp().Draw(base.Image(), scaled.Image(), scaled.Bounds().Min, 1, nil)

	return base
}
