package easel

// Layer is one paintable surface in a LayerStack.
//
// The stack exclusively owns every layer's Buffer. Hosts may read fields
// directly, but all mutations must go through the stack's setters so that
// invariants (background protection, opacity clamping, z-order numbering)
// hold and change notifications fire. A Buffer reference must not be
// retained across stack operations that delete or replace layers.
type Layer struct {
	ID     string
	Name   string
	Buffer *Pixmap

	Visible bool
	Locked  bool
	Opacity float64 // [0, 1]
	Blend   BlendMode

	// Position is the z-order index within the stack; 0 is the bottom.
	// Kept in sync by the stack on every reorder.
	Position int

	// IsBackground marks the single opaque bottom layer. It cannot be
	// deleted, moved, or lock-toggled.
	IsBackground bool

	// GroupID is a non-owning back-reference to the containing group,
	// empty when ungrouped.
	GroupID string

	// Thumbnail is the last generated preview, nil until the first
	// FlushPendingThumbnails pass covers this layer.
	Thumbnail *Pixmap
}

// LayerOption configures a layer during creation.
type LayerOption func(*Layer)

// WithLayerOpacity sets the initial opacity, clamped to [0, 1].
func WithLayerOpacity(opacity float64) LayerOption {
	return func(l *Layer) { l.Opacity = clamp01(opacity) }
}

// WithLayerBlend sets the initial blend mode.
func WithLayerBlend(mode BlendMode) LayerOption {
	return func(l *Layer) { l.Blend = mode }
}

// WithLayerHidden creates the layer invisible.
func WithLayerHidden() LayerOption {
	return func(l *Layer) { l.Visible = false }
}
