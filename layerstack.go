package easel

import (
	"fmt"

	"github.com/google/uuid"
)

// StackConfig configures a LayerStack.
type StackConfig struct {
	// MaxLayers bounds the layer count, background included.
	MaxLayers int

	// ThumbnailSize is the longest edge of generated thumbnails, in pixels.
	ThumbnailSize int

	// AutoThumbnails marks layers dirty automatically on pixel-mutating
	// stack operations. When false, hosts call InvalidateLayer themselves.
	AutoThumbnails bool
}

// DefaultStackConfig returns the configuration a new stack starts with.
func DefaultStackConfig() StackConfig {
	return StackConfig{
		MaxLayers:      32,
		ThumbnailSize:  64,
		AutoThumbnails: true,
	}
}

// LayerStack owns an ordered collection of paint layers and composites
// them into a single image.
//
// The stack exclusively owns all layer buffers. Index 0 of the z-order is
// permanently reserved for the background layer, which is created by the
// constructor, opaque-filled, locked by default, and can never be deleted
// or moved.
//
// LayerStack is single-threaded; methods must not be called concurrently.
type LayerStack struct {
	width  int
	height int
	config StackConfig

	layers     []*Layer // index == z-order, 0 is the background
	groups     map[string]*LayerGroup
	activeID   string
	selection  map[string]struct{}
	dirty      map[string]struct{}
	background RGBA

	onLayerChange     func()
	onThumbnailUpdate func(layerID string, thumb *Pixmap)
}

// StackOption configures a LayerStack during creation.
type StackOption func(*LayerStack)

// WithStackConfig sets the stack configuration.
func WithStackConfig(cfg StackConfig) StackOption {
	return func(s *LayerStack) { s.config = cfg }
}

// WithBackground sets the background layer's fill color (default white).
func WithBackground(c RGBA) StackOption {
	return func(s *LayerStack) { s.background = c }
}

// NewLayerStack creates a stack with an opaque background layer at
// position 0. Returns ErrInvalidDimensions for non-positive sizes.
//
// Example:
//
//	stack, err := easel.NewLayerStack(800, 600,
//	    easel.WithStackConfig(easel.StackConfig{MaxLayers: 16, ThumbnailSize: 96, AutoThumbnails: true}),
//	)
func NewLayerStack(width, height int, opts ...StackOption) (*LayerStack, error) {
	if width < 1 || height < 1 {
		return nil, ErrInvalidDimensions
	}

	s := &LayerStack{
		width:      width,
		height:     height,
		config:     DefaultStackConfig(),
		groups:     make(map[string]*LayerGroup),
		selection:  make(map[string]struct{}),
		dirty:      make(map[string]struct{}),
		background: White,
	}
	for _, opt := range opts {
		opt(s)
	}

	bg := &Layer{
		ID:           uuid.NewString(),
		Name:         "Background",
		Buffer:       NewPixmap(width, height),
		Visible:      true,
		Locked:       true,
		Opacity:      1,
		Blend:        BlendNormal,
		Position:     0,
		IsBackground: true,
	}
	bg.Buffer.Clear(s.background.WithAlpha(1))
	s.layers = append(s.layers, bg)
	s.activeID = bg.ID
	s.markDirty(bg.ID)

	Logger().Info("layer stack created",
		"width", width, "height", height, "maxLayers", s.config.MaxLayers)
	return s, nil
}

// Width returns the stack's buffer width.
func (s *LayerStack) Width() int { return s.width }

// Height returns the stack's buffer height.
func (s *LayerStack) Height() int { return s.height }

// Config returns a copy of the stack configuration.
func (s *LayerStack) Config() StackConfig { return s.config }

// SetConfig replaces the stack configuration.
func (s *LayerStack) SetConfig(cfg StackConfig) { s.config = cfg }

// LayerCount returns the number of layers, background included.
func (s *LayerStack) LayerCount() int { return len(s.layers) }

// Layers returns the layers in z-order (background first). The returned
// slice is a snapshot; the Layer pointers are the stack's own.
func (s *LayerStack) Layers() []*Layer {
	out := make([]*Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// Layer returns the layer with the given id, or nil if not found.
func (s *LayerStack) Layer(id string) *Layer {
	if i := s.indexOf(id); i >= 0 {
		return s.layers[i]
	}
	return nil
}

// Background returns the background layer.
func (s *LayerStack) Background() *Layer {
	return s.layers[0]
}

// CreateLayer appends a new transparent layer on top of the stack.
// The first non-background layer created becomes the active layer.
// Returns ErrTooManyLayers at capacity.
func (s *LayerStack) CreateLayer(name string, opts ...LayerOption) (*Layer, error) {
	if len(s.layers) >= s.config.MaxLayers {
		Logger().Warn("layer capacity reached", "maxLayers", s.config.MaxLayers)
		return nil, ErrTooManyLayers
	}
	if name == "" {
		name = fmt.Sprintf("Layer %d", len(s.layers))
	}

	l := &Layer{
		ID:      uuid.NewString(),
		Name:    name,
		Buffer:  NewPixmap(s.width, s.height),
		Visible: true,
		Opacity: 1,
		Blend:   BlendNormal,
	}
	for _, opt := range opts {
		opt(l)
	}

	firstPaintLayer := len(s.layers) == 1
	s.layers = append(s.layers, l)
	s.renumber()

	if firstPaintLayer {
		s.activeID = l.ID
	}
	s.notify()
	return l, nil
}

// DuplicateLayer inserts a copy of the given layer directly above it,
// copying pixel content, opacity, blend mode, and visibility. Returns nil
// if the source is not found or the stack is at capacity.
func (s *LayerStack) DuplicateLayer(id string) *Layer {
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	if len(s.layers) >= s.config.MaxLayers {
		Logger().Warn("layer capacity reached", "maxLayers", s.config.MaxLayers)
		return nil
	}

	src := s.layers[i]
	dup := &Layer{
		ID:      uuid.NewString(),
		Name:    src.Name + " copy",
		Buffer:  src.Buffer.Clone(),
		Visible: src.Visible,
		Opacity: src.Opacity,
		Blend:   src.Blend,
	}

	s.layers = append(s.layers, nil)
	copy(s.layers[i+2:], s.layers[i+1:])
	s.layers[i+1] = dup
	s.renumber()

	s.markDirty(dup.ID)
	s.notify()
	return dup
}

// DeleteLayer removes a layer. The background layer is refused. If the
// deleted layer was active, the next-lowest surviving layer becomes active.
func (s *LayerStack) DeleteLayer(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	l := s.layers[i]
	if l.IsBackground {
		Logger().Warn("refusing to delete background layer")
		return false
	}

	s.removeAt(i)

	if s.activeID == id {
		s.activeID = s.layers[i-1].ID
	}
	s.notify()
	return true
}

// MergeDown composites the given layer onto the layer directly below it,
// using the given layer's opacity and blend mode, then deletes it.
// Fails when there is no layer below or the layer below is locked.
func (s *LayerStack) MergeDown(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	if i == 0 {
		return false // nothing below the background
	}
	l := s.layers[i]
	below := s.layers[i-1]
	if below.Locked {
		Logger().Warn("refusing merge onto locked layer", "below", below.ID)
		return false
	}

	Composite(below.Buffer, l.Buffer, l.Opacity, l.Blend)

	s.removeAt(i)
	if s.activeID == id {
		s.activeID = below.ID
	}
	s.markDirty(below.ID)
	s.notify()
	return true
}

// MergeVisible creates a new top layer containing the composite of all
// currently visible layers, then hides (but does not delete) the sources,
// preserving the ability to reveal the originals later. Returns nil when
// the stack is at capacity or nothing is visible.
func (s *LayerStack) MergeVisible() *Layer {
	if len(s.layers) >= s.config.MaxLayers {
		Logger().Warn("layer capacity reached", "maxLayers", s.config.MaxLayers)
		return nil
	}

	var sources []*Layer
	comp := NewPixmap(s.width, s.height)
	for _, l := range s.layers {
		if !s.layerVisible(l) {
			continue
		}
		Composite(comp, l.Buffer, l.Opacity, l.Blend)
		sources = append(sources, l)
	}
	if len(sources) == 0 {
		return nil
	}

	merged := &Layer{
		ID:      uuid.NewString(),
		Name:    "Merged",
		Buffer:  comp,
		Visible: true,
		Opacity: 1,
		Blend:   BlendNormal,
	}
	for _, l := range sources {
		l.Visible = false
	}
	s.layers = append(s.layers, merged)
	s.renumber()

	s.activeID = merged.ID
	s.markDirty(merged.ID)
	s.notify()
	return merged
}

// FlattenImage computes the full composite, deletes every non-background
// layer and group, and replaces them with a single new layer holding the
// composite. Returns the new layer.
func (s *LayerStack) FlattenImage() *Layer {
	comp := s.Composite()

	for _, l := range s.layers[1:] {
		delete(s.selection, l.ID)
		delete(s.dirty, l.ID)
	}
	s.layers = s.layers[:1]
	s.groups = make(map[string]*LayerGroup)
	s.Background().GroupID = ""

	flat := &Layer{
		ID:      uuid.NewString(),
		Name:    "Flattened",
		Buffer:  comp,
		Visible: true,
		Opacity: 1,
		Blend:   BlendNormal,
	}
	s.layers = append(s.layers, flat)
	s.renumber()

	s.activeID = flat.ID
	s.markDirty(flat.ID)
	s.notify()
	return flat
}

// ClearLayer fills a layer with transparency (the background layer is
// refilled with its background color instead). Locked layers are refused.
func (s *LayerStack) ClearLayer(id string) bool {
	l := s.Layer(id)
	if l == nil {
		return false
	}
	if l.Locked && !l.IsBackground {
		return false
	}
	if l.IsBackground {
		l.Buffer.Clear(s.background.WithAlpha(1))
	} else {
		l.Buffer.Clear(Transparent)
	}
	s.markDirty(id)
	s.notify()
	return true
}

// ActiveLayer returns the current draw target layer.
func (s *LayerStack) ActiveLayer() *Layer {
	return s.Layer(s.activeID)
}

// SetActiveLayer changes the single draw-target pointer. Returns false if
// the id is unknown.
func (s *LayerStack) SetActiveLayer(id string) bool {
	if s.indexOf(id) < 0 {
		return false
	}
	s.activeID = id
	s.notify()
	return true
}

// SelectLayer adds a layer to the multi-selection set used for bulk
// operations. Selection is independent of the active layer.
func (s *LayerStack) SelectLayer(id string) bool {
	if s.indexOf(id) < 0 {
		return false
	}
	s.selection[id] = struct{}{}
	return true
}

// DeselectLayer removes a layer from the selection set.
func (s *LayerStack) DeselectLayer(id string) bool {
	if _, ok := s.selection[id]; !ok {
		return false
	}
	delete(s.selection, id)
	return true
}

// ClearSelection empties the selection set.
func (s *LayerStack) ClearSelection() {
	clear(s.selection)
}

// IsSelected reports whether a layer is in the selection set.
func (s *LayerStack) IsSelected(id string) bool {
	_, ok := s.selection[id]
	return ok
}

// SelectedLayers returns the selected layers in z-order.
func (s *LayerStack) SelectedLayers() []*Layer {
	var out []*Layer
	for _, l := range s.layers {
		if s.IsSelected(l.ID) {
			out = append(out, l)
		}
	}
	return out
}

// MoveLayerUp swaps the layer with its upper neighbor.
func (s *LayerStack) MoveLayerUp(id string) bool {
	i := s.indexOf(id)
	if i < 0 || s.layers[i].IsBackground || i == len(s.layers)-1 {
		return false
	}
	return s.ReorderLayer(id, i+1)
}

// MoveLayerDown swaps the layer with its lower neighbor. Position 0 is
// reserved for the background, so position 1 is the floor.
func (s *LayerStack) MoveLayerDown(id string) bool {
	i := s.indexOf(id)
	if i < 0 || s.layers[i].IsBackground || i <= 1 {
		return false
	}
	return s.ReorderLayer(id, i-1)
}

// MoveLayerToTop moves the layer to the highest z-order position.
func (s *LayerStack) MoveLayerToTop(id string) bool {
	return s.ReorderLayer(id, len(s.layers)-1)
}

// MoveLayerToBottom moves the layer just above the background layer.
func (s *LayerStack) MoveLayerToBottom(id string) bool {
	return s.ReorderLayer(id, 1)
}

// ReorderLayer moves a layer to the given z-order index. The background
// layer cannot move, and no layer may take position 0; indexes above the
// top clamp to the top. Returns false for refused or not-found layers.
func (s *LayerStack) ReorderLayer(id string, index int) bool {
	i := s.indexOf(id)
	if i < 0 || s.layers[i].IsBackground {
		return false
	}
	if index < 1 {
		return false
	}
	if index > len(s.layers)-1 {
		index = len(s.layers) - 1
	}
	if index == i {
		return true
	}

	l := s.layers[i]
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	s.layers = append(s.layers, nil)
	copy(s.layers[index+1:], s.layers[index:])
	s.layers[index] = l
	s.renumber()

	s.notify()
	return true
}

// SetLayerVisibility shows or hides a layer.
func (s *LayerStack) SetLayerVisibility(id string, visible bool) bool {
	l := s.Layer(id)
	if l == nil {
		return false
	}
	l.Visible = visible
	s.notify()
	return true
}

// SetLayerLocked locks or unlocks a layer. Toggling the background
// layer's lock is refused; it stays locked.
func (s *LayerStack) SetLayerLocked(id string, locked bool) bool {
	l := s.Layer(id)
	if l == nil {
		return false
	}
	if l.IsBackground {
		return false
	}
	l.Locked = locked
	s.notify()
	return true
}

// SetLayerOpacity sets a layer's opacity, clamped to [0, 1].
func (s *LayerStack) SetLayerOpacity(id string, opacity float64) bool {
	l := s.Layer(id)
	if l == nil {
		return false
	}
	l.Opacity = clamp01(opacity)
	s.notify()
	return true
}

// SetLayerBlendMode sets a layer's blend mode.
func (s *LayerStack) SetLayerBlendMode(id string, mode BlendMode) bool {
	l := s.Layer(id)
	if l == nil {
		return false
	}
	l.Blend = mode
	s.notify()
	return true
}

// SetLayerName renames a layer.
func (s *LayerStack) SetLayerName(id, name string) bool {
	l := s.Layer(id)
	if l == nil {
		return false
	}
	l.Name = name
	s.notify()
	return true
}

// CreateGroup creates an empty layer group.
func (s *LayerStack) CreateGroup(name string) *LayerGroup {
	g := &LayerGroup{
		ID:      uuid.NewString(),
		Name:    name,
		Visible: true,
	}
	s.groups[g.ID] = g
	s.notify()
	return g
}

// DeleteGroup removes a group, clearing its members' back-references.
// Member layers themselves are kept.
func (s *LayerStack) DeleteGroup(id string) bool {
	g, ok := s.groups[id]
	if !ok {
		return false
	}
	for _, layerID := range g.LayerIDs {
		if l := s.Layer(layerID); l != nil {
			l.GroupID = ""
		}
	}
	delete(s.groups, id)
	s.notify()
	return true
}

// Group returns the group with the given id, or nil if not found.
func (s *LayerStack) Group(id string) *LayerGroup {
	return s.groups[id]
}

// AddLayerToGroup moves a layer into a group. Membership is reassigned
// atomically: the layer leaves its previous group before joining the new
// one. Returns false if either id is unknown.
func (s *LayerStack) AddLayerToGroup(layerID, groupID string) bool {
	l := s.Layer(layerID)
	g, ok := s.groups[groupID]
	if l == nil || !ok {
		return false
	}

	if l.GroupID != "" {
		if old, ok := s.groups[l.GroupID]; ok {
			old.remove(layerID)
		}
	}
	if !g.contains(layerID) {
		g.LayerIDs = append(g.LayerIDs, layerID)
	}
	l.GroupID = groupID
	s.notify()
	return true
}

// RemoveLayerFromGroup detaches a layer from its group, if any.
func (s *LayerStack) RemoveLayerFromGroup(layerID string) bool {
	l := s.Layer(layerID)
	if l == nil || l.GroupID == "" {
		return false
	}
	if g, ok := s.groups[l.GroupID]; ok {
		g.remove(layerID)
	}
	l.GroupID = ""
	s.notify()
	return true
}

// Composite flattens all visible layers bottom-to-top into a fresh buffer
// at canvas resolution, applying each layer's opacity and blend mode.
// The returned pixmap is owned by the caller.
func (s *LayerStack) Composite() *Pixmap {
	acc := NewPixmap(s.width, s.height)
	passes := 0
	for _, l := range s.layers {
		if !s.layerVisible(l) {
			continue
		}
		Composite(acc, l.Buffer, l.Opacity, l.Blend)
		passes++
	}
	Logger().Debug("composite", "layers", passes)
	return acc
}

// InvalidateLayer marks a layer's thumbnail stale. Hosts call this after
// the stroke engine finishes drawing on a layer's buffer; the actual
// regeneration happens in FlushPendingThumbnails.
func (s *LayerStack) InvalidateLayer(id string) {
	if s.indexOf(id) < 0 {
		return
	}
	s.dirty[id] = struct{}{}
}

// FlushPendingThumbnails regenerates thumbnails for every dirty layer in
// one pass and fires OnThumbnailUpdate per layer. Multiple invalidations
// of the same layer between flushes coalesce into a single regeneration.
// Call this from the host's render or idle loop, off the pointer-event
// hot path.
func (s *LayerStack) FlushPendingThumbnails() {
	if len(s.dirty) == 0 {
		return
	}
	for _, l := range s.layers {
		if _, ok := s.dirty[l.ID]; !ok {
			continue
		}
		l.Thumbnail = makeThumbnail(l.Buffer, s.config.ThumbnailSize)
		if s.onThumbnailUpdate != nil {
			s.onThumbnailUpdate(l.ID, l.Thumbnail)
		}
	}
	clear(s.dirty)
}

// PendingThumbnails returns the number of layers awaiting regeneration.
func (s *LayerStack) PendingThumbnails() int {
	return len(s.dirty)
}

// OnLayerChange registers the layer-mutation callback. A single subscriber
// slot is kept: re-registering replaces the prior callback, nil
// unregisters.
func (s *LayerStack) OnLayerChange(fn func()) {
	s.onLayerChange = fn
}

// OnThumbnailUpdate registers the thumbnail callback. Single slot, replace
// semantics, nil unregisters.
func (s *LayerStack) OnThumbnailUpdate(fn func(layerID string, thumb *Pixmap)) {
	s.onThumbnailUpdate = fn
}

// layerVisible reports effective visibility: the layer's own flag plus
// its containing group's, if any.
func (s *LayerStack) layerVisible(l *Layer) bool {
	if !l.Visible {
		return false
	}
	if l.GroupID != "" {
		if g, ok := s.groups[l.GroupID]; ok && !g.Visible {
			return false
		}
	}
	return true
}

// indexOf returns the z-order index of a layer id, or -1.
func (s *LayerStack) indexOf(id string) int {
	for i, l := range s.layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// removeAt deletes the layer at index i, detaching group membership and
// clearing selection and dirty state.
func (s *LayerStack) removeAt(i int) {
	l := s.layers[i]
	if l.GroupID != "" {
		if g, ok := s.groups[l.GroupID]; ok {
			g.remove(l.ID)
		}
	}
	delete(s.selection, l.ID)
	delete(s.dirty, l.ID)
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	s.renumber()
}

// renumber re-syncs every layer's Position with its slice index.
func (s *LayerStack) renumber() {
	for i, l := range s.layers {
		l.Position = i
	}
}

// notify fires the layer-change callback, if registered.
func (s *LayerStack) notify() {
	if s.onLayerChange != nil {
		s.onLayerChange()
	}
}

// markDirty marks a layer for thumbnail regeneration when auto-thumbnail
// generation is on.
func (s *LayerStack) markDirty(id string) {
	if !s.config.AutoThumbnails {
		return
	}
	s.dirty[id] = struct{}{}
}
