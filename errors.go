package easel

import "errors"

var (
	// ErrTooManyLayers is returned by CreateLayer when the stack already
	// holds MaxLayers layers. Callers can correct this by deleting or
	// merging layers first.
	ErrTooManyLayers = errors.New("easel: layer capacity exceeded")

	// ErrInvalidDimensions is returned when a canvas or stack is created
	// with non-positive width or height.
	ErrInvalidDimensions = errors.New("easel: invalid dimensions")
)
