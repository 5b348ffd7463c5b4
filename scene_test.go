package daub

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testScene = `
width: 40
height: 30
steps:
  - brush: {size: 6, color: "#ff0000", shape: square, opacity: 100}
  - stroke: [[0, 5], [39, 5]]
  - layer: {op: add, name: Sky}
  - tool: fill
  - brush: {color: "#0000ff", opacity: 50}
  - fill: [20, 20]
  - layer: {op: delete, id: layer-99}
  - layer: {op: rename, id: layer-2, name: "   "}
  - layer: {op: hide, id: layer-2}
`

func TestScene_Parse(t *testing.T) {
	assert := assert.New(t)

	s, err := ParseScene(strings.NewReader(testScene))
	assert.NoError(err)
	assert.Equal(40, s.Width)
	assert.Equal(30, s.Height)
	assert.Len(s.Steps, 9)
	assert.Equal("square", s.Steps[0].Brush.Shape)
	assert.Equal([][2]int{{0, 5}, {39, 5}}, s.Steps[1].Stroke)
	assert.Equal(&[2]int{20, 20}, s.Steps[5].Fill)

	_, err = ParseScene(strings.NewReader("width: 10\ncolour: red\n"))
	assert.Error(err)

	s, err = ParseScene(strings.NewReader(""))
	assert.NoError(err)
	assert.Empty(s.Steps)
}

func TestScene_Run(t *testing.T) {
	assert := assert.New(t)

	s, err := ParseScene(strings.NewReader(testScene))
	assert.NoError(err)

	c, err := s.Run(nil)
	assert.NoError(err)
	assert.Equal(3, c.Layers().Len())

	sky, err := c.Layers().Layer("layer-3")
	assert.NoError(err)
	assert.Equal("Sky", sky.Name())
	assert.Equal(color.NRGBA{B: 0xff, A: 128}, sky.Buffer().Get(0, 0))

	bg, _ := c.Layers().Layer("layer-1")
	assert.Equal(red, bg.Buffer().Get(20, 5))

	l2, _ := c.Layers().Layer("layer-2")
	assert.Equal("Layer 2", l2.Name())
	assert.False(l2.Visible())
	assert.Equal(ToolFill, c.Tool())
}

func TestScene_FillModeStroke(t *testing.T) {
	s := &Scene{
		Width:  4,
		Height: 4,
		Steps: []Step{
			{Tool: "fill"},
			{Stroke: [][2]int{{1, 1}, {3, 3}}, On: "layer-2"},
		},
	}
	c, err := s.Run(nil)
	assert.NoError(t, err)
	assert.False(t, c.Busy())

	top, _ := c.Layers().Layer("layer-2")
	assert.Equal(t, black, top.Buffer().Get(3, 0))
}

func TestScene_Errors(t *testing.T) {
	for name, steps := range map[string][]Step{
		"tool":     {{Tool: "lasso"}},
		"color":    {{Brush: &BrushStep{Color: "#zzzzzz"}}},
		"shape":    {{Brush: &BrushStep{Shape: "star"}}},
		"edge":     {{Brush: &BrushStep{Edge: "fuzzy"}}},
		"layer op": {{Layer: &LayerStep{Op: "merge"}}},
		"blend":    {{Layer: &LayerStep{Op: "blend", ID: "layer-1", Blend: "dissolve"}}},
	} {
		s := &Scene{Width: 4, Height: 4, Steps: steps}
		_, err := s.Run(nil)
		assert.Error(t, err, name)
		assert.Contains(t, err.Error(), "step 1", name)
	}
}

func TestScene_Render(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	assert.NoError(RunScene(strings.NewReader(testScene), &buf, FormatPNG, nil))

	img, err := png.Decode(&buf)
	assert.NoError(err)
	assert.Equal(40, img.Bounds().Dx())

	// Blue at half strength over white.
	c := color.NRGBAModel.Convert(img.At(20, 20)).(color.NRGBA)
	assert.InDelta(127, c.R, 1)
	assert.Equal(uint8(0xff), c.B)

	// and over the red line.
	c = color.NRGBAModel.Convert(img.At(20, 5)).(color.NRGBA)
	assert.InDelta(127, c.R, 1)
	assert.Zero(c.G)
	assert.InDelta(128, c.B, 1)
}
