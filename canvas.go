package daub

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const (
	// DefaultWidth and DefaultHeight are the canvas dimensions used when Options leaves them unset.
	DefaultWidth  = 800
	DefaultHeight = 600
	// DefaultThumbnailSize is the edge length of the square layer previews.
	DefaultThumbnailSize = 40
	// DefaultExportName is the file name suggested for the flattened export.
	DefaultExportName = "my-painting.png"
)

var thumbnailBackground = color.NRGBA{R: 0xfd, G: 0xfc, B: 0xfb, A: 0xff}

// Options configures a new Canvas. Zero values are replaced by the defaults.
type Options struct {
	Width         int
	Height        int
	ThumbnailSize int
	Logger        *zap.Logger
}

// fillRequest is a queued flood fill. The color and the opacity are captured
// when the fill is requested, not when it runs.
type fillRequest struct {
	layer   string
	seed    image.Point
	color   color.NRGBA
	opacity int
}

// Canvas is the painting controller. It owns the layer stack, the brush
// settings and the tool mode and turns pointer events into pixel writes.
// A Canvas is not safe for concurrent use.
type Canvas struct {
	stack       *LayerStack
	stroke      *StrokeRenderer
	strokeLayer string
	brush       BrushSettings
	tool        ToolMode
	fills       []fillRequest
	busy        bool
	thumbSize   int
	logger      *zap.Logger
}

// New creates a canvas with the default layer stack.
func New(opts Options) *Canvas {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.ThumbnailSize <= 0 {
		opts.ThumbnailSize = DefaultThumbnailSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Canvas{
		stack:     NewLayerStack(opts.Width, opts.Height, opts.Logger),
		stroke:    NewStrokeRenderer(),
		brush:     DefaultBrush(),
		tool:      ToolBrush,
		thumbSize: opts.ThumbnailSize,
		logger:    opts.Logger,
	}
}

// Layers returns the layer stack of the canvas.
func (c *Canvas) Layers() *LayerStack {
	return c.stack
}

// Brush returns the current brush settings.
func (c *Canvas) Brush() BrushSettings {
	return c.brush
}

// SetBrush replaces the brush settings. A stroke in progress keeps the
// settings it was started with.
func (c *Canvas) SetBrush(b BrushSettings) {
	c.brush = b.Normalize()
}

// Tool returns the current tool mode.
func (c *Canvas) Tool() ToolMode {
	return c.tool
}

// SetTool switches the tool mode.
func (c *Canvas) SetTool(t ToolMode) error {
	if _, err := ParseTool(string(t)); err != nil {
		return err
	}
	c.tool = t
	return nil
}

// Drawing reports whether a stroke is in progress.
func (c *Canvas) Drawing() bool {
	return c.stroke.Drawing()
}

// Busy reports whether fills are queued and not yet committed.
func (c *Canvas) Busy() bool {
	return c.busy
}

// resolve returns the layer addressed by id, the active layer for an empty id.
func (c *Canvas) resolve(id string) (*Layer, error) {
	if id == "" {
		return c.stack.Active(), nil
	}
	return c.stack.Layer(id)
}

func (c *Canvas) reject(event string, err error) error {
	c.logger.Debug("event rejected", zap.String("event", event), zap.Error(err))
	return err
}

// PointerDown starts a stroke on the layer, or queues a fill in fill mode.
// The stroke stays bound to this layer until the pointer is released.
func (c *Canvas) PointerDown(layerID string, x, y int) error {
	if c.tool == ToolFill {
		return c.BeginFill(layerID, x, y)
	}
	l, err := c.resolve(layerID)
	if err != nil {
		return c.reject("pointer-down", err)
	}
	if l.buf.Empty() {
		return c.reject("pointer-down", ErrInvalidGeometry)
	}
	c.strokeLayer = l.id
	c.stroke.Begin(image.Pt(x, y), c.brush, c.tool)

	return nil
}

// PointerMove draws the segment from the previous sample to (x, y).
// Samples addressed to another layer than the one the stroke started on are dropped.
func (c *Canvas) PointerMove(layerID string, x, y int) {
	if !c.stroke.Drawing() {
		return
	}
	if layerID != "" && layerID != c.strokeLayer {
		return
	}
	l, err := c.stack.Layer(c.strokeLayer)
	if err != nil {
		c.stroke.End(nil)
		return
	}
	c.stroke.Move(l.buf, image.Pt(x, y))
}

// PointerUp finishes the current stroke.
func (c *Canvas) PointerUp() {
	if !c.stroke.Drawing() {
		return
	}
	var buf *PixelBuffer
	if l, err := c.stack.Layer(c.strokeLayer); err == nil {
		buf = l.buf
	}
	c.stroke.End(buf)
	c.strokeLayer = ""
}

// PointerLeave finishes the current stroke when the pointer leaves the surface.
func (c *Canvas) PointerLeave() {
	c.PointerUp()
}

// BeginFill validates a fill click and queues it with the current brush
// color and opacity. The canvas stays busy until CommitFill runs the queue.
func (c *Canvas) BeginFill(layerID string, x, y int) error {
	l, err := c.resolve(layerID)
	if err != nil {
		return c.reject("fill", err)
	}
	if l.buf.Empty() {
		return c.reject("fill", ErrInvalidGeometry)
	}
	if !l.buf.In(x, y) {
		return c.reject("fill", fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y))
	}
	c.fills = append(c.fills, fillRequest{
		layer:   l.id,
		seed:    image.Pt(x, y),
		color:   c.brush.Color,
		opacity: c.brush.Opacity,
	})
	c.busy = true

	return nil
}

// CommitFill runs the queued fills in the order they were requested and
// clears the busy flag. It returns the total number of pixels written.
func (c *Canvas) CommitFill() int {
	var total int
	for _, req := range c.fills {
		l, err := c.stack.Layer(req.layer)
		if err != nil {
			c.logger.Debug("fill dropped", zap.String("layer", req.layer), zap.Error(err))
			continue
		}
		n, ok := FloodFill(l.buf, req.seed, req.color, req.opacity)
		if !ok {
			c.logger.Debug("fill absorbed", zap.String("layer", req.layer),
				zap.Int("x", req.seed.X), zap.Int("y", req.seed.Y))
			continue
		}
		c.logger.Debug("fill",
			zap.String("layer", req.layer),
			zap.Int("x", req.seed.X),
			zap.Int("y", req.seed.Y),
			zap.Int("pixels", n),
		)
		total += n
	}
	c.fills = c.fills[:0]
	c.busy = false

	return total
}

// FillClick queues a fill and runs it immediately.
func (c *Canvas) FillClick(layerID string, x, y int) (int, error) {
	if err := c.BeginFill(layerID, x, y); err != nil {
		return 0, err
	}
	return c.CommitFill(), nil
}

// Resize rescales every layer to the new display size.
func (c *Canvas) Resize(width, height int) error {
	if err := c.stack.Resize(width, height); err != nil {
		return c.reject("resize", err)
	}
	return nil
}

// Composite returns the flattened image of the visible layers.
func (c *Canvas) Composite() *PixelBuffer {
	return c.stack.Composite()
}

// Thumbnail renders a PNG preview of a layer, stretched into a w x h box
// over a light background. Non-positive sizes fall back to the configured
// thumbnail size.
func (c *Canvas) Thumbnail(layerID string, w, h int) ([]byte, error) {
	l, err := c.resolve(layerID)
	if err != nil {
		return nil, err
	}
	if w <= 0 {
		w = c.thumbSize
	}
	if h <= 0 {
		h = c.thumbSize
	}
	thumb := imaging.New(w, h, thumbnailBackground)
	if !l.buf.Empty() {
		scaled := imaging.Resize(l.buf.Image(), w, h, imaging.Linear)
		thumb = imaging.Overlay(thumb, scaled, image.Pt(0, 0), 1.0)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, thumb, FormatPNG); err != nil {
		return nil, fmt.Errorf("thumbnail %q: %w", l.id, err)
	}
	return buf.Bytes(), nil
}

// Thumbnails renders the preview of every layer, keyed by layer id.
func (c *Canvas) Thumbnails(w, h int) (map[string][]byte, error) {
	thumbs := make(map[string][]byte, c.stack.Len())
	for _, l := range c.stack.Layers() {
		b, err := c.Thumbnail(l.id, w, h)
		if err != nil {
			return nil, err
		}
		thumbs[l.id] = b
	}
	return thumbs, nil
}

// ExportComposite encodes the flattened image as PNG.
func (c *Canvas) ExportComposite() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Export(&buf, FormatPNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export encodes the flattened image to w in the given format.
func (c *Canvas) Export(w io.Writer, format string) error {
	img := c.stack.Composite()
	if img.Empty() {
		return ErrInvalidGeometry
	}
	if err := Encode(w, img.Image(), format); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	c.logger.Info("composite exported",
		zap.String("format", format),
		zap.Int("layers", c.stack.Len()),
	)
	return nil
}
