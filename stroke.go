package daub

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/esimov/daub/imop"
	"github.com/fogleman/gg"
)

// softEraserAlpha caps the strength of the soft eraser so that it removes paint gradually.
const softEraserAlpha = 0.3

type fpoint struct {
	x, y float64
}

// pixelCenter maps an integer pixel coordinate to the center of that pixel.
func pixelCenter(p image.Point) fpoint {
	return fpoint{x: float64(p.X) + 0.5, y: float64(p.Y) + 0.5}
}

func midpoint(a, b fpoint) fpoint {
	return fpoint{x: (a.x + b.x) / 2, y: (a.y + b.y) / 2}
}

// StrokeRenderer turns consecutive pointer samples into paint on a PixelBuffer.
//
// Every segment is rasterized into its own coverage mask: the stroked path,
// the optional glow and the optional blur filter all live in that mask, so
// none of these effects outlive the segment. The mask is then composited onto
// the buffer with source-over for the brush or destination-out for the eraser.
type StrokeRenderer struct {
	op      *imop.Composite
	brush   BrushSettings
	mode    ToolMode
	drawing bool
	moved   bool
	last    image.Point
	mid     fpoint
}

// NewStrokeRenderer returns an idle renderer.
func NewStrokeRenderer() *StrokeRenderer {
	return &StrokeRenderer{op: imop.InitOp()}
}

// Drawing reports whether a stroke is in progress.
func (r *StrokeRenderer) Drawing() bool {
	return r.drawing
}

// Brush returns the settings snapshot of the current stroke.
func (r *StrokeRenderer) Brush() BrushSettings {
	return r.brush
}

// Begin starts a stroke at p. The brush settings and the tool are captured
// for the whole stroke.
func (r *StrokeRenderer) Begin(p image.Point, brush BrushSettings, mode ToolMode) {
	r.brush = brush.Normalize()
	r.mode = mode
	r.drawing = true
	r.moved = false
	r.last = p
	r.mid = pixelCenter(p)
}

// Move renders the segment from the last sample to p and makes p the last sample.
func (r *StrokeRenderer) Move(buf *PixelBuffer, p image.Point) {
	if !r.drawing {
		return
	}
	last := pixelCenter(r.last)
	cur := pixelCenter(p)

	if r.brush.Smoothing {
		// Quadratic curve through the last sample, between two successive midpoints.
		m := midpoint(last, cur)
		r.render(buf, r.mid, &last, m)
		r.mid = m
	} else {
		r.render(buf, last, nil, cur)
	}
	r.last = p
	r.moved = true
}

// End finishes the stroke. With smoothing on, the tail between the last
// midpoint and the last sample is drawn so the stroke reaches the release point.
func (r *StrokeRenderer) End(buf *PixelBuffer) {
	if r.drawing && r.moved && r.brush.Smoothing && buf != nil {
		r.render(buf, r.mid, nil, pixelCenter(r.last))
	}
	r.drawing = false
	r.moved = false
}

// alpha returns the global alpha the segment is composited with.
func (r *StrokeRenderer) alpha() float64 {
	a := float64(r.brush.Opacity) / 100
	if r.mode == ToolEraser && r.brush.Shape == ShapeSoft {
		a = math.Min(a, softEraserAlpha)
	}
	return a
}

// glowRadius returns the radius of the halo around the stroke, zero for none.
func (r *StrokeRenderer) glowRadius() int {
	size := float64(r.brush.Size)

	var glow float64
	if r.brush.Shape == ShapeSoft {
		glow = size / 4
	}
	switch r.brush.EdgeStyle {
	case EdgeSoft:
		if r.brush.Shape != ShapeSoft {
			glow = size / 8
		}
	case EdgeBlurred:
		glow = size / 3
	}
	return int(math.Round(glow))
}

// blurSigma returns the standard deviation of the post-process blur, zero for none.
func (r *StrokeRenderer) blurSigma() float64 {
	if r.brush.EdgeStyle == EdgeBlurred {
		return float64(r.brush.Size) / 20
	}
	return 0
}

func (r *StrokeRenderer) lineCap() gg.LineCap {
	if r.brush.Smoothing {
		return gg.LineCapRound
	}
	switch r.brush.Shape {
	case ShapeSquare:
		return gg.LineCapSquare
	default:
		return gg.LineCapRound
	}
}

// render strokes a straight line from -> to, or a quadratic curve when ctrl is set.
func (r *StrokeRenderer) render(buf *PixelBuffer, from fpoint, ctrl *fpoint, to fpoint) {
	if buf.Empty() {
		return
	}
	glow := r.glowRadius()
	sigma := r.blurSigma()
	pad := float64(r.brush.Size) + float64(2*glow) + math.Ceil(3*sigma) + 2

	minX, maxX := math.Min(from.x, to.x), math.Max(from.x, to.x)
	minY, maxY := math.Min(from.y, to.y), math.Max(from.y, to.y)
	if ctrl != nil {
		minX, maxX = math.Min(minX, ctrl.x), math.Max(maxX, ctrl.x)
		minY, maxY = math.Min(minY, ctrl.y), math.Max(maxY, ctrl.y)
	}
	bounds := image.Rect(
		int(math.Floor(minX-pad)), int(math.Floor(minY-pad)),
		int(math.Ceil(maxX+pad)), int(math.Ceil(maxY+pad)),
	).Intersect(buf.Bounds())
	if bounds.Empty() {
		return
	}

	mask := r.coverage(bounds, from, ctrl, to)
	if glow > 0 {
		halo := image.NewAlpha(mask.Rect)
		copy(halo.Pix, mask.Pix)
		stackBlur(halo, glow)

		// The halo sits beneath the stroke.
		for i, h := range halo.Pix {
			s := uint32(mask.Pix[i])
			mask.Pix[i] = uint8(s + uint32(h)*(255-s)/255)
		}
	}
	if sigma > 0 {
		mask = blurMask(mask, sigma)
	}

	src := image.NewNRGBA(mask.Rect)
	c := r.brush.Color
	for i, a := range mask.Pix {
		j := i * 4
		src.Pix[j+0] = c.R
		src.Pix[j+1] = c.G
		src.Pix[j+2] = c.B
		src.Pix[j+3] = a
	}

	if r.mode == ToolEraser {
		r.op.Set(imop.DstOut)
	} else {
		r.op.Set(imop.SrcOver)
	}
	r.op.Draw(buf.Image(), src, bounds.Min, r.alpha(), nil)
}

// coverage rasterizes the stroked path into an alpha mask the size of bounds.
func (r *StrokeRenderer) coverage(bounds image.Rectangle, from fpoint, ctrl *fpoint, to fpoint) *image.Alpha {
	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.Translate(-float64(bounds.Min.X), -float64(bounds.Min.Y))
	dc.SetRGBA(1, 1, 1, 1)
	dc.SetLineWidth(float64(r.brush.Size))
	dc.SetLineCap(r.lineCap())
	if r.brush.Smoothing {
		dc.SetLineJoin(gg.LineJoinRound)
	}

	dc.MoveTo(from.x, from.y)
	if ctrl != nil {
		dc.QuadraticTo(ctrl.x, ctrl.y, to.x, to.y)
	} else {
		dc.LineTo(to.x, to.y)
	}
	dc.Stroke()

	return dc.AsMask()
}

// blurMask applies a gaussian blur to the mask and returns the blurred copy.
func blurMask(mask *image.Alpha, sigma float64) *image.Alpha {
	blurred := imaging.Blur(mask, sigma)

	out := image.NewAlpha(mask.Rect)
	for i := range out.Pix {
		out.Pix[i] = blurred.Pix[i*4+3]
	}
	return out
}
