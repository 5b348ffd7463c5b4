package daub

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newWhiteBuffer(w, h int) *PixelBuffer {
	b := NewPixelBuffer(w, h)
	b.Fill(white)
	return b
}

func drawLine(buf *PixelBuffer, brush BrushSettings, mode ToolMode, pts ...image.Point) {
	r := NewStrokeRenderer()
	r.Begin(pts[0], brush, mode)
	for _, p := range pts[1:] {
		r.Move(buf, p)
	}
	r.End(buf)
}

func TestStroke_Brush(t *testing.T) {
	assert := assert.New(t)

	buf := newWhiteBuffer(50, 50)
	drawLine(buf, DefaultBrush(), ToolBrush, image.Pt(10, 25), image.Pt(40, 25))

	assert.Equal(black, buf.Get(25, 25))
	assert.Equal(black, buf.Get(10, 25))
	assert.Equal(black, buf.Get(25, 22))
	assert.Equal(white, buf.Get(25, 5))
	assert.Equal(white, buf.Get(48, 25))
}

func TestStroke_Opacity(t *testing.T) {
	buf := newWhiteBuffer(50, 50)
	brush := DefaultBrush()
	brush.Opacity = 50
	drawLine(buf, brush, ToolBrush, image.Pt(10, 25), image.Pt(40, 25))

	c := buf.Get(25, 25)
	assert.InDelta(t, 128, c.R, 1)
	assert.InDelta(t, 128, c.G, 1)
	assert.Equal(t, uint8(0xff), c.A)
}

func TestStroke_Eraser(t *testing.T) {
	assert := assert.New(t)

	buf := NewPixelBuffer(50, 50)
	buf.Fill(red)
	drawLine(buf, DefaultBrush(), ToolEraser, image.Pt(10, 25), image.Pt(40, 25))

	assert.Zero(buf.Get(25, 25).A)
	assert.Equal(red, buf.Get(25, 5))
}

func TestStroke_SoftEraser(t *testing.T) {
	assert := assert.New(t)

	buf := NewPixelBuffer(50, 50)
	buf.Fill(red)
	brush := DefaultBrush()
	brush.Shape = ShapeSoft
	drawLine(buf, brush, ToolEraser, image.Pt(10, 25), image.Pt(40, 25))

	c := buf.Get(25, 25)
	assert.InDelta(178, c.A, 1)
	assert.Equal(uint8(0xff), c.R)
}

func TestStroke_Smoothing(t *testing.T) {
	assert := assert.New(t)

	buf := newWhiteBuffer(60, 50)
	brush := DefaultBrush()
	brush.Smoothing = true

	r := NewStrokeRenderer()
	r.Begin(image.Pt(5, 25), brush, ToolBrush)
	r.Move(buf, image.Pt(25, 25))
	r.Move(buf, image.Pt(45, 25))
	assert.True(r.Drawing())

	assert.Equal(black, buf.Get(20, 25))
	assert.Equal(white, buf.Get(44, 25), "the tail is drawn on release")

	r.End(buf)
	assert.False(r.Drawing())
	assert.Equal(black, buf.Get(44, 25))
}

func TestStroke_Edges(t *testing.T) {
	for _, edge := range []EdgeStyle{EdgeSoft, EdgeBlurred} {
		t.Run(string(edge), func(t *testing.T) {
			buf := newWhiteBuffer(60, 60)
			brush := DefaultBrush()
			brush.Size = 20
			brush.EdgeStyle = edge
			drawLine(buf, brush, ToolBrush, image.Pt(10, 30), image.Pt(50, 30))

			assert.Less(t, buf.Get(30, 30).R, uint8(16))
			// The halo reaches beyond the stroke width.
			assert.Less(t, buf.Get(30, 42).R, uint8(0xff))
			assert.Equal(t, white, buf.Get(30, 0))
		})
	}
}

func TestStroke_Idle(t *testing.T) {
	buf := newWhiteBuffer(20, 20)
	before := buf.ReadPixels()

	r := NewStrokeRenderer()
	r.Move(buf, image.Pt(10, 10))
	r.End(buf)
	assert.Equal(t, before, buf.ReadPixels())

	// A zero area buffer is ignored.
	r.Begin(image.Pt(0, 0), DefaultBrush(), ToolBrush)
	r.Move(NewPixelBuffer(0, 0), image.Pt(5, 5))
	r.End(nil)
}

func TestStroke_Clipped(t *testing.T) {
	buf := newWhiteBuffer(30, 30)
	drawLine(buf, DefaultBrush(), ToolBrush, image.Pt(-20, 15), image.Pt(50, 15))

	assert.Equal(t, black, buf.Get(0, 15))
	assert.Equal(t, black, buf.Get(29, 15))
}
