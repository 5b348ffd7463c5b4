package daub

import (
	"fmt"
	"image/color"

	"github.com/esimov/daub/utils"
)

// BrushShape defines the tip of the brush.
type BrushShape string

const (
	ShapeRound  BrushShape = "round"
	ShapeSquare BrushShape = "square"
	ShapeSoft   BrushShape = "soft"
)

// EdgeStyle defines how the stroke borders fade out.
type EdgeStyle string

const (
	EdgeSharp   EdgeStyle = "sharp"
	EdgeSoft    EdgeStyle = "soft"
	EdgeBlurred EdgeStyle = "blurred"
)

// ToolMode selects what a pointer-down does on the canvas.
type ToolMode string

const (
	ToolBrush  ToolMode = "brush"
	ToolEraser ToolMode = "eraser"
	ToolFill   ToolMode = "fill"
)

// Brush limits.
const (
	MinBrushSize = 1
	MaxBrushSize = 50
)

// BrushSettings holds the brush configuration. A stroke takes a snapshot of
// the settings on pointer-down, so changes apply from the next stroke on.
type BrushSettings struct {
	Size      int
	Color     color.NRGBA
	Shape     BrushShape
	Opacity   int
	Smoothing bool
	EdgeStyle EdgeStyle
}

// DefaultBrush returns the settings a new canvas starts with.
func DefaultBrush() BrushSettings {
	return BrushSettings{
		Size:      10,
		Color:     color.NRGBA{A: 0xff},
		Shape:     ShapeRound,
		Opacity:   100,
		Smoothing: false,
		EdgeStyle: EdgeSharp,
	}
}

// Normalize clamps the numeric settings into their valid ranges and
// replaces unknown shapes and edge styles with the defaults.
func (b BrushSettings) Normalize() BrushSettings {
	b.Size = utils.Clamp(b.Size, MinBrushSize, MaxBrushSize)
	b.Opacity = utils.Clamp(b.Opacity, 0, 100)
	b.Color.A = 0xff

	switch b.Shape {
	case ShapeRound, ShapeSquare, ShapeSoft:
	default:
		b.Shape = ShapeRound
	}
	switch b.EdgeStyle {
	case EdgeSharp, EdgeSoft, EdgeBlurred:
	default:
		b.EdgeStyle = EdgeSharp
	}
	return b
}

// ParseShape validates a brush shape name.
func ParseShape(s string) (BrushShape, error) {
	switch sh := BrushShape(s); sh {
	case ShapeRound, ShapeSquare, ShapeSoft:
		return sh, nil
	}
	return "", fmt.Errorf("unknown brush shape: %q", s)
}

// ParseEdgeStyle validates an edge style name.
func ParseEdgeStyle(s string) (EdgeStyle, error) {
	switch e := EdgeStyle(s); e {
	case EdgeSharp, EdgeSoft, EdgeBlurred:
		return e, nil
	}
	return "", fmt.Errorf("unknown edge style: %q", s)
}

// ParseTool validates a tool mode name.
func ParseTool(s string) (ToolMode, error) {
	switch t := ToolMode(s); t {
	case ToolBrush, ToolEraser, ToolFill:
		return t, nil
	}
	return "", fmt.Errorf("unknown tool: %q", s)
}
