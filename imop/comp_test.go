package imop

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComp_Basic(t *testing.T) {
	assert := assert.New(t)

	op := InitOp()
	assert.Equal(SrcOver, op.Get())

	assert.NoError(op.Set(DstOut))
	assert.Equal(DstOut, op.Get())

	err := op.Set("unsupported_composite_operation")
	assert.Error(err)
	assert.Equal(DstOut, op.Get())
}

func TestComp_Ops(t *testing.T) {
	transparent := color.NRGBA{R: 0, G: 0, B: 0, A: 0}
	cyan := color.NRGBA{R: 33, G: 150, B: 243, A: 255}
	magenta := color.NRGBA{R: 233, G: 30, B: 99, A: 255}

	rect := image.Rect(0, 0, 10, 10)
	source := image.NewNRGBA(rect)
	draw.Draw(source, image.Rect(0, 4, 6, 10), &image.Uniform{cyan}, image.Point{}, draw.Src)

	// Pick three representative points/pixels from the generated image output.
	// Depending on the applied composition operation the colors of the
	// selected pixels should be the source color, the destination color or transparent.
	testCases := []struct {
		op                          string
		topRight, bottomLeft, center color.NRGBA
	}{
		{op: SrcOver, topRight: magenta, bottomLeft: cyan, center: cyan},
		{op: Copy, topRight: transparent, bottomLeft: cyan, center: cyan},
		{op: DstOver, topRight: magenta, bottomLeft: cyan, center: magenta},
		{op: SrcIn, topRight: transparent, bottomLeft: transparent, center: cyan},
		{op: DstIn, topRight: transparent, bottomLeft: transparent, center: magenta},
		{op: SrcOut, topRight: transparent, bottomLeft: cyan, center: transparent},
		{op: DstOut, topRight: magenta, bottomLeft: transparent, center: transparent},
		{op: SrcAtop, topRight: magenta, bottomLeft: transparent, center: cyan},
		{op: DstAtop, topRight: transparent, bottomLeft: cyan, center: magenta},
		{op: Xor, topRight: magenta, bottomLeft: cyan, center: transparent},
	}

	for _, tc := range testCases {
		t.Run(tc.op, func(t *testing.T) {
			backdrop := image.NewNRGBA(rect)
			draw.Draw(backdrop, image.Rect(4, 0, 10, 6), &image.Uniform{magenta}, image.Point{}, draw.Src)

			op := InitOp()
			assert.NoError(t, op.Set(tc.op))
			op.Draw(backdrop, source, image.Point{}, 1, nil)

			assert.EqualValues(t, tc.topRight, backdrop.At(9, 0))
			assert.EqualValues(t, tc.bottomLeft, backdrop.At(0, 9))
			assert.EqualValues(t, tc.center, backdrop.At(5, 5))
		})
	}
}

func TestComp_GlobalAlpha(t *testing.T) {
	assert := assert.New(t)

	rect := image.Rect(0, 0, 1, 1)
	src := image.NewNRGBA(rect)
	dst := image.NewNRGBA(rect)
	draw.Draw(src, rect, &image.Uniform{color.NRGBA{R: 255, A: 255}}, image.Point{}, draw.Src)
	draw.Draw(dst, rect, &image.Uniform{color.White}, image.Point{}, draw.Src)

	op := InitOp()
	op.Draw(dst, src, image.Point{}, 0.5, nil)
	assert.Equal([]uint8{255, 128, 128, 255}, dst.Pix)

	// A zero global alpha leaves the backdrop untouched.
	draw.Draw(dst, rect, &image.Uniform{color.White}, image.Point{}, draw.Src)
	op.Draw(dst, src, image.Point{}, 0, nil)
	assert.Equal([]uint8{255, 255, 255, 255}, dst.Pix)
}

func TestComp_Offset(t *testing.T) {
	assert := assert.New(t)

	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	draw.Draw(src, src.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)
	dst := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	op := InitOp()
	// Partially outside of the destination: only the overlap is touched.
	op.Draw(dst, src, image.Pt(3, 3), 1, nil)

	assert.EqualValues(color.NRGBA{A: 255}, dst.At(3, 3))
	assert.EqualValues(color.NRGBA{}, dst.At(2, 2))
	assert.EqualValues(color.NRGBA{}, dst.At(2, 3))
}
