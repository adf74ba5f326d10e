// Package easel provides a raster painting engine for Go.
//
// # Overview
//
// easel turns pointer input into rasterized brush strokes and composites an
// ordered stack of independent paint layers into a single image. It is a pure
// Go, CPU-side engine: the host application owns input capture, display, and
// persistence; easel owns pixels.
//
// Two cooperating components are exposed:
//
//   - [Engine] converts pointer samples into strokes, applies input smoothing,
//     rasterizes brush dabs onto the active layer's buffer, and keeps a bounded
//     undo/redo history of that buffer.
//   - [LayerStack] owns the ordered collection of layers (visibility, lock,
//     opacity, blend mode, groups), produces the composited image on demand,
//     and regenerates layer thumbnails.
//
// # Quick Start
//
//	import "github.com/gopaint/easel"
//
//	stack, _ := easel.NewLayerStack(800, 600)
//	sketch, _ := stack.CreateLayer("Sketch")
//
//	engine := easel.NewEngine()
//	engine.SetTarget(sketch.Buffer, sketch.ID)
//
//	engine.BeginStroke(easel.PointerSample{X: 100, Y: 100, Pressure: 0.8})
//	engine.ExtendStroke(easel.PointerSample{X: 200, Y: 100, Pressure: 0.9})
//	stroke := engine.EndStroke()
//	_ = stroke
//
//	stack.InvalidateLayer(sketch.ID)
//	stack.FlushPendingThumbnails()
//	img := stack.Composite() // final image, ready for display or export
//
// # Ownership
//
// The LayerStack exclusively owns every layer's pixel buffer. The Engine holds
// a borrowed reference to the active layer's buffer, set per drawing session
// via [Engine.SetTarget]; hosts must rebind the target whenever the active
// layer changes and must not retain layer buffers across stack operations that
// delete or replace them.
//
// # Concurrency
//
// The engine is single-threaded by design. Every operation runs to completion
// on the calling goroutine; there are no background workers. Thumbnail
// regeneration is deferred to an explicit [LayerStack.FlushPendingThumbnails]
// call so that pointer-move handling stays cheap.
//
// # Coordinate System
//
// Buffer coordinates, origin (0,0) at top-left, X increasing right, Y
// increasing down. Pointer samples are expected in buffer-local coordinates;
// [CanvasState.CanvasToBuffer] converts screen coordinates for hosts that
// deliver raw input.
package easel

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
