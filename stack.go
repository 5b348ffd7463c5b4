package daub

import (
	"fmt"
	"strings"

	"github.com/esimov/daub/imop"
	"github.com/esimov/daub/utils"
	"go.uber.org/zap"
)

// LayerStack is the ordered collection of layers, bottom to top.
// It always holds at least one layer and the active id always names a live layer.
type LayerStack struct {
	layers []*Layer
	active string
	seq    int
	width  int
	height int
	logger *zap.Logger
}

// NewLayerStack creates the default stack: an opaque white background layer
// and a transparent layer above it. The background layer is active.
func NewLayerStack(width, height int, logger *zap.Logger) *LayerStack {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &LayerStack{
		width:  max(width, 0),
		height: max(height, 0),
		logger: logger,
	}
	bg := s.newLayer(true)
	s.newLayer(false)
	s.active = bg.id

	return s
}

func (s *LayerStack) newLayer(background bool) *Layer {
	s.seq++
	l := newLayer(
		fmt.Sprintf("layer-%d", s.seq),
		fmt.Sprintf("Layer %d", len(s.layers)+1),
		s.width, s.height, background,
	)
	s.layers = append(s.layers, l)

	return l
}

// Width returns the width shared by every layer.
func (s *LayerStack) Width() int { return s.width }

// Height returns the height shared by every layer.
func (s *LayerStack) Height() int { return s.height }

// Len returns the number of layers.
func (s *LayerStack) Len() int { return len(s.layers) }

// Layers returns the layers bottom to top. The slice is a copy, the layers are not.
func (s *LayerStack) Layers() []*Layer {
	layers := make([]*Layer, len(s.layers))
	copy(layers, s.layers)

	return layers
}

func (s *LayerStack) index(id string) int {
	for i, l := range s.layers {
		if l.id == id {
			return i
		}
	}
	return -1
}

// Layer returns the layer with the given id.
func (s *LayerStack) Layer(id string) (*Layer, error) {
	i := s.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrLayerNotFound, id)
	}
	return s.layers[i], nil
}

// Active returns the active layer.
func (s *LayerStack) Active() *Layer {
	if i := s.index(s.active); i >= 0 {
		return s.layers[i]
	}
	return s.layers[0]
}

// SetActive makes the layer with the given id the active one.
func (s *LayerStack) SetActive(id string) error {
	if s.index(id) < 0 {
		return fmt.Errorf("%w: %q", ErrLayerNotFound, id)
	}
	s.active = id
	return nil
}

// AddLayer appends a transparent layer on top of the stack and activates it.
func (s *LayerStack) AddLayer() *Layer {
	l := s.newLayer(false)
	s.active = l.id
	s.logger.Debug("layer added", zap.String("layer", l.id), zap.String("name", l.name))

	return l
}

// DeleteLayer removes a layer. The last remaining layer cannot be deleted.
// If the active layer is deleted, the bottom layer becomes active.
func (s *LayerStack) DeleteLayer(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrLayerNotFound, id)
	}
	if len(s.layers) <= 1 {
		return ErrLastLayer
	}
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	if s.active == id {
		s.active = s.layers[0].id
	}
	s.logger.Debug("layer deleted", zap.String("layer", id), zap.String("active", s.active))

	return nil
}

// Reorder moves the layer id to the position currently held by targetID,
// shifting the layers in between by one.
func (s *LayerStack) Reorder(id, targetID string) error {
	from, to := s.index(id), s.index(targetID)
	if from < 0 {
		return fmt.Errorf("%w: %q", ErrLayerNotFound, id)
	}
	if to < 0 {
		return fmt.Errorf("%w: %q", ErrLayerNotFound, targetID)
	}
	if from == to {
		return nil
	}
	l := s.layers[from]
	s.layers = append(s.layers[:from], s.layers[from+1:]...)
	s.layers = append(s.layers[:to], append([]*Layer{l}, s.layers[to:]...)...)

	return nil
}

// SetVisible shows or hides a layer.
func (s *LayerStack) SetVisible(id string, visible bool) error {
	l, err := s.Layer(id)
	if err != nil {
		return err
	}
	l.visible = visible
	return nil
}

// SetOpacity sets the layer opacity, clamped to 0..100.
func (s *LayerStack) SetOpacity(id string, opacity int) error {
	l, err := s.Layer(id)
	if err != nil {
		return err
	}
	l.opacity = utils.Clamp(opacity, 0, 100)
	return nil
}

// Rename changes the layer name. Surrounding white space is trimmed and a
// blank name is rejected.
func (s *LayerStack) Rename(id, name string) error {
	l, err := s.Layer(id)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	l.name = name
	return nil
}

// SetBlend sets the blend mode the layer is flattened with.
func (s *LayerStack) SetBlend(id, mode string) error {
	l, err := s.Layer(id)
	if err != nil {
		return err
	}
	if err := imop.NewBlend().Set(mode); err != nil {
		return err
	}
	l.blend = mode
	return nil
}

// ClearLayer resets a layer to its initial content.
func (s *LayerStack) ClearLayer(id string) error {
	l, err := s.Layer(id)
	if err != nil {
		return err
	}
	l.clear()
	return nil
}

// Resize rescales every layer to the new dimensions. All the new buffers are
// built before any layer is touched, so a failure leaves the stack unchanged.
func (s *LayerStack) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidGeometry, utils.FormatSize(width, height))
	}
	if width == s.width && height == s.height {
		return nil
	}
	bufs := make([]*PixelBuffer, len(s.layers))
	for i, l := range s.layers {
		bufs[i] = l.resized(width, height)
	}
	for i, l := range s.layers {
		l.buf = bufs[i]
	}
	s.logger.Info("layers resized",
		zap.String("from", utils.FormatSize(s.width, s.height)),
		zap.String("to", utils.FormatSize(width, height)),
	)
	s.width, s.height = width, height

	return nil
}

// Composite flattens the visible layers, bottom to top, over an opaque white
// base. Each layer is drawn with its opacity as global alpha and its blend mode.
// The result has the size of the bottom layer.
func (s *LayerStack) Composite() *PixelBuffer {
	bottom := s.layers[0].buf
	out := NewPixelBuffer(bottom.Width(), bottom.Height())
	if out.Empty() {
		return out
	}
	out.Fill(white)

	op := imop.InitOp()
	blend := imop.NewBlend()
	for _, l := range s.layers {
		if !l.visible || l.opacity == 0 {
			continue
		}
		blend.Set(l.blend)
		op.Draw(out.Image(), l.buf.Image(), l.buf.Bounds().Min, float64(l.opacity)/100, blend)
	}
	return out
}
