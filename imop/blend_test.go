package imop

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlend_Basic(t *testing.T) {
	assert := assert.New(t)

	op := NewBlend()
	assert.Equal(Normal, op.Get())
	err := op.Set("blend_mode_not_supported")
	assert.Error(err)
	assert.Equal(Normal, op.Get())

	assert.NoError(op.Set(Darken))
	assert.Equal(Darken, op.Get())
	assert.NoError(op.Set(Lighten))
	assert.Equal(Lighten, op.Get())
}

func TestBlend_Modes(t *testing.T) {
	pinkFront := color.NRGBA{R: 214, G: 20, B: 65, A: 255}
	orangeBack := color.NRGBA{R: 250, G: 121, B: 17, A: 255}

	testCases := []struct {
		mode     string
		expected []uint8
	}{
		{mode: Normal, expected: []uint8{214, 20, 65, 255}},
		{mode: Darken, expected: []uint8{214, 20, 17, 255}},
		{mode: Lighten, expected: []uint8{250, 121, 65, 255}},
		{mode: Multiply, expected: []uint8{210, 9, 4, 255}},
		{mode: Screen, expected: []uint8{254, 132, 78, 255}},
		{mode: Overlay, expected: []uint8{253, 19, 9, 255}},
	}

	rect := image.Rect(0, 0, 1, 1)
	source := image.NewNRGBA(rect)
	draw.Draw(source, rect, &image.Uniform{pinkFront}, image.Point{}, draw.Src)

	for _, tc := range testCases {
		t.Run(tc.mode, func(t *testing.T) {
			backdrop := image.NewNRGBA(rect)
			draw.Draw(backdrop, rect, &image.Uniform{orangeBack}, image.Point{}, draw.Src)

			blend := NewBlend()
			assert.NoError(t, blend.Set(tc.mode))
			InitOp().Draw(backdrop, source, image.Point{}, 1, blend)

			assert.EqualValues(t, tc.expected, backdrop.Pix)
		})
	}
}

func TestBlend_TransparentBackdrop(t *testing.T) {
	// Over a fully transparent backdrop the blend mode has no effect.
	rect := image.Rect(0, 0, 1, 1)
	source := image.NewNRGBA(rect)
	draw.Draw(source, rect, &image.Uniform{color.NRGBA{R: 10, G: 200, B: 30, A: 255}}, image.Point{}, draw.Src)
	backdrop := image.NewNRGBA(rect)

	blend := NewBlend()
	assert.NoError(t, blend.Set(Multiply))
	InitOp().Draw(backdrop, source, image.Point{}, 1, blend)

	assert.EqualValues(t, []uint8{10, 200, 30, 255}, backdrop.Pix)
}
