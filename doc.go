/*
Package daub is a layered raster painting engine. It keeps a stack of RGBA
layers and paints on them with freehand brush strokes, an eraser and a paint
bucket flood fill, then flattens the visible layers into a single image.

The UI is not part of the package: a front end forwards pointer events and
clicks in buffer pixel coordinates to a Canvas and reads back thumbnails and
the flattened export.

	c := daub.New(daub.Options{Width: 320, Height: 240})

	c.PointerDown("", 10, 10)
	c.PointerMove("", 120, 60)
	c.PointerUp()

	c.SetTool(daub.ToolFill)
	c.FillClick("", 300, 200)

	png, err := c.ExportComposite()

Painting sessions can also be recorded as YAML scenes and rendered with the
command line tool:

	$ daub -in scene.yaml -out painting.png
*/
package daub
