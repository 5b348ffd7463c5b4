package daub

import "errors"

var (
	// ErrInvalidGeometry is returned when an operation targets a buffer with zero area.
	ErrInvalidGeometry = errors.New("zero area buffer")
	// ErrOutOfBounds is returned for a seed or pixel coordinate outside of the buffer.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	// ErrLastLayer is returned when deleting the only remaining layer.
	ErrLastLayer = errors.New("cannot delete the last layer")
	// ErrEmptyName is returned when renaming a layer to a blank name.
	ErrEmptyName = errors.New("layer name cannot be empty")
	// ErrLayerNotFound is returned for an unknown layer id.
	ErrLayerNotFound = errors.New("layer not found")
	// ErrUnsupportedFormat is returned by the encoder for an unknown image format.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// IsAbsorbed reports whether err belongs to the failures a painting session
// silently absorbs: the state is left unchanged and the session continues.
func IsAbsorbed(err error) bool {
	return errors.Is(err, ErrInvalidGeometry) ||
		errors.Is(err, ErrOutOfBounds) ||
		errors.Is(err, ErrLastLayer) ||
		errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrLayerNotFound)
}
