package easel

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// EngineConfig configures stroke capture and history behavior.
//
// Changing LazyRadius or StrokeStabilization through [Engine.SetConfig]
// reconfigures the live smoothing helpers immediately; it does not
// retroactively alter in-progress or historical strokes.
type EngineConfig struct {
	// MaxUndoSteps bounds the undo snapshot stack. Oldest snapshots are
	// dropped once the bound is exceeded.
	MaxUndoSteps int

	// EnablePressure is the master switch for pressure reactivity. When
	// false, both per-brush pressure channels are ignored.
	EnablePressure bool

	// SmoothingFactor in [0, 1] scales the input-averaging window.
	SmoothingFactor float64

	// StrokeStabilization enables the moving-average and lazy-brush
	// smoothing pipeline on ExtendStroke.
	StrokeStabilization bool

	// LazyRadius is the trailing distance of the lazy brush, in pixels.
	LazyRadius float64
}

// DefaultEngineConfig returns the configuration a new engine starts with.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxUndoSteps:        30,
		EnablePressure:      true,
		SmoothingFactor:     0.5,
		StrokeStabilization: true,
		LazyRadius:          8,
	}
}

// Engine converts pointer samples into rasterized brush strokes.
//
// The engine draws onto a borrowed target buffer bound via [Engine.SetTarget];
// it never owns layer pixels. All operations are no-ops when no target is
// bound, favoring defensive degradation over errors, since pointer events can
// legitimately arrive before or after a valid drawing session.
//
// Engine is single-threaded: every method runs to completion on the calling
// goroutine. Construct one engine per open canvas; there is no shared state
// between instances.
type Engine struct {
	target  *Pixmap
	layerID string

	brush  BrushSettings
	canvas CanvasState
	config EngineConfig

	hist *history
	stab *stabilizer
	lazy *lazyBrush

	stroke  *Stroke
	drawing bool
	last    StrokePoint

	onStrokeComplete func(Stroke)
	onCanvasChange   func(CanvasState)
}

// EngineOption configures an Engine during creation.
type EngineOption func(*Engine)

// WithEngineConfig sets the initial engine configuration.
func WithEngineConfig(cfg EngineConfig) EngineOption {
	return func(e *Engine) { e.config = cfg }
}

// WithBrush sets the initial brush settings.
func WithBrush(b BrushSettings) EngineOption {
	return func(e *Engine) { e.brush = b }
}

// WithCanvasState sets the initial canvas state.
func WithCanvasState(c CanvasState) EngineOption {
	return func(e *Engine) { e.canvas = c }
}

// NewEngine creates a stroke engine with default brush and configuration.
// Bind a target buffer with [Engine.SetTarget] before delivering input.
//
// Example:
//
//	engine := easel.NewEngine(
//	    easel.WithBrush(easel.DefaultBrush()),
//	    easel.WithEngineConfig(easel.DefaultEngineConfig()),
//	)
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		brush:  DefaultBrush(),
		canvas: DefaultCanvasState(0, 0),
		config: DefaultEngineConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.hist = newHistory(e.config.MaxUndoSteps)
	e.stab = newStabilizer(smoothingWindow(e.config.SmoothingFactor))
	e.lazy = newLazyBrush(e.config.LazyRadius)

	Logger().Info("engine created",
		"maxUndoSteps", e.config.MaxUndoSteps,
		"stabilization", e.config.StrokeStabilization)
	return e
}

// smoothingWindow derives the stabilizer window size from the smoothing
// factor: 1 sample (passthrough) at 0, up to 8 samples at 1.
func smoothingWindow(factor float64) int {
	return 1 + int(math.Round(clamp01(factor)*7))
}

// SetTarget binds the buffer the engine draws onto, typically the active
// layer's buffer resolved from a LayerStack. The reference is borrowed: the
// stack retains ownership, and hosts must rebind whenever the active layer
// changes or its buffer is replaced.
//
// Binding a target resets undo/redo history; the first snapshot pushed
// afterwards (before the first stroke) becomes the floor Undo restores to.
func (e *Engine) SetTarget(buf *Pixmap, layerID string) {
	e.target = buf
	e.layerID = layerID
	e.drawing = false
	e.stroke = nil
	e.hist.clear()
	e.stab.reset()
	e.lazy.reset()
}

// TargetBound reports whether a target buffer is currently bound.
func (e *Engine) TargetBound() bool {
	return e.target != nil
}

// BeginStroke opens a new stroke at the given sample, pushes an undo
// snapshot of the pre-stroke buffer, and rasterizes the initial dab.
// No-op when no target is bound.
func (e *Engine) BeginStroke(sample PointerSample) {
	if e.target == nil {
		return
	}

	e.hist.push(e.target.Clone())

	e.stab.reset()
	e.lazy.begin(sample.Point())

	startedAt := sample.Time
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	e.stroke = &Stroke{
		ID:        uuid.NewString(),
		Brush:     e.brush, // value copy: the per-stroke snapshot
		LayerID:   e.layerID,
		StartedAt: startedAt,
	}
	e.drawing = true

	pt := e.strokePoint(sample, sample.Point())
	e.stroke.Points = append(e.stroke.Points, pt)
	stampDab(e.target, e.stroke.Brush, pt.X, pt.Y, pt.Size, pt.Opacity)
	e.last = pt
}

// ExtendStroke appends a stroke point and rasterizes the segment from the
// previous point with evenly spaced dabs. Stabilization and the lazy brush
// are applied first when enabled. No-op when not drawing.
func (e *Engine) ExtendStroke(sample PointerSample) {
	if !e.drawing || e.target == nil {
		return
	}

	pos := sample.Point()
	if e.config.StrokeStabilization {
		sample = e.stab.smooth(sample)
		pos = e.lazy.update(sample.Point())
	}

	pt := e.strokePoint(sample, pos)
	e.rasterizeSegment(e.last, pt)
	e.stroke.Points = append(e.stroke.Points, pt)
	e.last = pt
}

// EndStroke finalizes the in-progress stroke and returns it, transferring
// ownership of the record to the caller. Returns nil when no stroke is in
// progress or the stroke has no points.
func (e *Engine) EndStroke() *Stroke {
	if !e.drawing {
		return nil
	}
	e.drawing = false
	e.stab.reset()
	e.lazy.reset()

	stroke := e.stroke
	e.stroke = nil
	if stroke == nil || len(stroke.Points) == 0 {
		return nil
	}

	Logger().Debug("stroke complete",
		"stroke", stroke.ID, "points", len(stroke.Points), "layer", stroke.LayerID)

	if e.onStrokeComplete != nil {
		e.onStrokeComplete(*stroke)
	}
	return stroke
}

// CancelStroke aborts the in-progress stroke without emitting a record.
// Pixels already rasterized stay on the buffer; cancellation is a UI
// signal, rollback is Undo's job.
func (e *Engine) CancelStroke() {
	if !e.drawing {
		return
	}
	e.drawing = false
	e.stroke = nil
	e.stab.reset()
	e.lazy.reset()
}

// Undo restores the most recent snapshot into the target buffer in place.
// Returns false when history is exhausted or no target is bound.
func (e *Engine) Undo() bool {
	if e.target == nil {
		return false
	}
	s := e.hist.popUndo(e.target.Clone())
	if s == nil {
		return false
	}
	e.target.CopyFrom(s)
	return true
}

// Redo re-applies the most recently undone state. Returns false when there
// is nothing to redo or no target is bound.
func (e *Engine) Redo() bool {
	if e.target == nil {
		return false
	}
	s := e.hist.popRedo(e.target.Clone())
	if s == nil {
		return false
	}
	e.target.CopyFrom(s)
	return true
}

// CanUndo reports whether Undo would succeed.
func (e *Engine) CanUndo() bool { return e.target != nil && e.hist.canUndo() }

// CanRedo reports whether Redo would succeed.
func (e *Engine) CanRedo() bool { return e.target != nil && e.hist.canRedo() }

// Brush returns a copy of the current brush settings.
func (e *Engine) Brush() BrushSettings {
	return e.brush
}

// SetBrush replaces the brush settings. In-progress strokes keep their
// snapshot and are unaffected.
func (e *Engine) SetBrush(b BrushSettings) {
	e.brush = b
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() EngineConfig {
	return e.config
}

// SetConfig replaces the engine configuration and reconfigures the live
// smoothing helpers and history bound immediately.
func (e *Engine) SetConfig(cfg EngineConfig) {
	e.config = cfg
	e.hist.setMaxSize(cfg.MaxUndoSteps)
	e.stab.setWindow(smoothingWindow(cfg.SmoothingFactor))
	e.lazy.setRadius(cfg.LazyRadius)
}

// CanvasState returns a copy of the current canvas state.
func (e *Engine) CanvasState() CanvasState {
	return e.canvas
}

// SetCanvasState replaces the canvas state. A width or height change
// invalidates the bound target and all undo history: the host must treat it
// as a full re-initialization and rebind a freshly sized buffer.
func (e *Engine) SetCanvasState(c CanvasState) {
	resized := c.Width != e.canvas.Width || c.Height != e.canvas.Height
	e.canvas = c

	if resized {
		Logger().Info("canvas resized", "width", c.Width, "height", c.Height)
		e.target = nil
		e.layerID = ""
		e.drawing = false
		e.stroke = nil
		e.hist.clear()
		e.stab.reset()
		e.lazy.reset()
	}

	if e.onCanvasChange != nil {
		e.onCanvasChange(e.canvas)
	}
}

// OnStrokeComplete registers the stroke-completion callback. A single
// subscriber slot is kept: re-registering replaces the prior callback, and
// nil unregisters.
func (e *Engine) OnStrokeComplete(fn func(Stroke)) {
	e.onStrokeComplete = fn
}

// OnCanvasChange registers the canvas-state callback. Single slot, replace
// semantics, nil unregisters.
func (e *Engine) OnCanvasChange(fn func(CanvasState)) {
	e.onCanvasChange = fn
}

// strokePoint derives the dab size and opacity for a sample from the brush
// snapshot, pressure, and the engine's pressure switch, placing the point
// at the (possibly smoothed) position pos.
func (e *Engine) strokePoint(sample PointerSample, pos Point) StrokePoint {
	brush := e.brush
	if e.stroke != nil {
		brush = e.stroke.Brush
	}

	size := brush.Size
	opacity := brush.Opacity

	if e.config.EnablePressure {
		p := clamp01(sample.Pressure)
		if brush.PressureSize {
			size = lerp(brush.MinSize, brush.MaxSize, p)
			size = math.Max(brush.MinSize, math.Min(brush.MaxSize, size))
		}
		if brush.PressureOpacity {
			opacity *= lerp(0.3, 1.0, p)
		}
	}

	out := sample
	out.X = pos.X
	out.Y = pos.Y
	return StrokePoint{
		PointerSample: out,
		Size:          size,
		Opacity:       clamp01(opacity),
	}
}

// rasterizeSegment stamps evenly spaced dabs between two stroke points,
// interpolating position, size, opacity, and pressure linearly.
func (e *Engine) rasterizeSegment(from, to StrokePoint) {
	brush := e.stroke.Brush

	spacing := math.Max(1, to.Size*brush.Spacing)
	dist := from.Point().Distance(to.Point())
	steps := int(math.Ceil(dist / spacing))
	if steps < 1 {
		steps = 1
	}

	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := from.Point().Lerp(to.Point(), t)
		size := lerp(from.Size, to.Size, t)
		opacity := lerp(from.Opacity, to.Opacity, t)
		stampDab(e.target, brush, p.X, p.Y, size, opacity)
	}
}
