package daub

import (
	"errors"
	"fmt"
	"io"

	"github.com/esimov/daub/utils"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Scene is a painting session recorded as a list of steps. It is read from
// YAML and replayed against a fresh Canvas:
//
//	width: 320
//	height: 240
//	steps:
//	  - brush: {size: 8, color: "#e63946", shape: round, opacity: 100}
//	  - stroke: [[10, 10], [120, 40], [200, 180]]
//	  - layer: {op: add}
//	  - tool: fill
//	  - fill: [5, 5]
type Scene struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Steps  []Step `yaml:"steps"`
}

// Step is a single scene action. Exactly one action field is expected to be
// set; when several are, they run in the order brush, tool, layer, resize,
// stroke, fill.
type Step struct {
	Brush  *BrushStep `yaml:"brush,omitempty"`
	Tool   string     `yaml:"tool,omitempty"`
	Layer  *LayerStep `yaml:"layer,omitempty"`
	Resize *[2]int    `yaml:"resize,omitempty"`
	Stroke [][2]int   `yaml:"stroke,omitempty"`
	Fill   *[2]int    `yaml:"fill,omitempty"`
	// On names the layer a stroke or a fill is applied to. Empty means the active layer.
	On string `yaml:"on,omitempty"`
}

// BrushStep changes the brush settings. Unset fields keep their current value.
type BrushStep struct {
	Size      *int   `yaml:"size,omitempty"`
	Color     string `yaml:"color,omitempty"`
	Shape     string `yaml:"shape,omitempty"`
	Opacity   *int   `yaml:"opacity,omitempty"`
	Smoothing *bool  `yaml:"smoothing,omitempty"`
	Edge      string `yaml:"edge,omitempty"`
}

// LayerStep is a layer stack mutation.
type LayerStep struct {
	// Op is one of add, delete, reorder, show, hide, opacity, rename, blend, activate, clear.
	Op      string `yaml:"op"`
	ID      string `yaml:"id,omitempty"`
	Target  string `yaml:"target,omitempty"`
	Name    string `yaml:"name,omitempty"`
	Opacity int    `yaml:"opacity,omitempty"`
	Blend   string `yaml:"blend,omitempty"`
}

// ParseScene decodes a YAML scene. Unknown fields are rejected.
func ParseScene(r io.Reader) (*Scene, error) {
	var s Scene

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil
		}
		return nil, fmt.Errorf("could not decode the scene: %w", err)
	}
	return &s, nil
}

// Run replays the scene on a new canvas and returns it. Rejected steps
// (unknown layers, out of range clicks, deleting the last layer...) are
// logged and skipped the same way the interactive canvas absorbs them.
// Malformed steps abort the run.
func (s *Scene) Run(logger *zap.Logger) (*Canvas, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := New(Options{Width: s.Width, Height: s.Height, Logger: logger})

	for i, step := range s.Steps {
		if err := step.apply(c); err != nil {
			if IsAbsorbed(err) {
				logger.Debug("scene step skipped", zap.Int("step", i+1), zap.Error(err))
				continue
			}
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return c, nil
}

// Render replays the scene and encodes the flattened result to w.
func (s *Scene) Render(w io.Writer, format string, logger *zap.Logger) error {
	c, err := s.Run(logger)
	if err != nil {
		return err
	}
	return c.Export(w, format)
}

// RunScene decodes a scene from r, replays it and writes the composite to w.
func RunScene(r io.Reader, w io.Writer, format string, logger *zap.Logger) error {
	s, err := ParseScene(r)
	if err != nil {
		return err
	}
	return s.Render(w, format, logger)
}

func (st Step) apply(c *Canvas) error {
	if st.Brush != nil {
		b, err := st.Brush.merge(c.Brush())
		if err != nil {
			return err
		}
		c.SetBrush(b)
	}
	if st.Tool != "" {
		if err := c.SetTool(ToolMode(st.Tool)); err != nil {
			return err
		}
	}
	if st.Layer != nil {
		if err := st.Layer.apply(c.Layers()); err != nil {
			return err
		}
	}
	if st.Resize != nil {
		if err := c.Resize(st.Resize[0], st.Resize[1]); err != nil {
			return err
		}
	}
	if len(st.Stroke) > 0 {
		if err := st.stroke(c); err != nil {
			return err
		}
	}
	if st.Fill != nil {
		if _, err := c.FillClick(st.On, st.Fill[0], st.Fill[1]); err != nil {
			return err
		}
	}
	return nil
}

// stroke plays the points as one pointer gesture.
func (st Step) stroke(c *Canvas) error {
	first := st.Stroke[0]
	if err := c.PointerDown(st.On, first[0], first[1]); err != nil {
		return err
	}
	if c.Busy() {
		// Fill mode: the pointer-down queued a fill.
		c.CommitFill()
		return nil
	}
	for _, p := range st.Stroke[1:] {
		c.PointerMove(st.On, p[0], p[1])
	}
	c.PointerUp()

	return nil
}

func (b *BrushStep) merge(cur BrushSettings) (BrushSettings, error) {
	if b.Size != nil {
		cur.Size = *b.Size
	}
	if b.Opacity != nil {
		cur.Opacity = *b.Opacity
	}
	if b.Smoothing != nil {
		cur.Smoothing = *b.Smoothing
	}
	if b.Color != "" {
		col, err := utils.HexToNRGBA(b.Color)
		if err != nil {
			return cur, err
		}
		cur.Color = col
	}
	if b.Shape != "" {
		sh, err := ParseShape(b.Shape)
		if err != nil {
			return cur, err
		}
		cur.Shape = sh
	}
	if b.Edge != "" {
		e, err := ParseEdgeStyle(b.Edge)
		if err != nil {
			return cur, err
		}
		cur.EdgeStyle = e
	}
	return cur, nil
}

func (ls *LayerStep) apply(s *LayerStack) error {
	switch ls.Op {
	case "add":
		l := s.AddLayer()
		if ls.Name != "" {
			return s.Rename(l.ID(), ls.Name)
		}
		return nil
	case "delete":
		return s.DeleteLayer(ls.ID)
	case "reorder":
		return s.Reorder(ls.ID, ls.Target)
	case "show":
		return s.SetVisible(ls.ID, true)
	case "hide":
		return s.SetVisible(ls.ID, false)
	case "opacity":
		return s.SetOpacity(ls.ID, ls.Opacity)
	case "rename":
		return s.Rename(ls.ID, ls.Name)
	case "blend":
		return s.SetBlend(ls.ID, ls.Blend)
	case "activate":
		return s.SetActive(ls.ID)
	case "clear":
		return s.ClearLayer(ls.ID)
	}
	return fmt.Errorf("unknown layer operation: %q", ls.Op)
}
