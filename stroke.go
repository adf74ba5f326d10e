package easel

import "time"

// PointerSample is one normalized input event from a pointing device, in
// buffer-local coordinates. Samples are immutable; the host produces them
// and the engine only reads them.
//
// Hosts whose input device does not report pressure (mouse, basic touch)
// should synthesize Pressure 0.5 before delivery.
type PointerSample struct {
	X, Y     float64
	Pressure float64 // [0, 1]
	TiltX    float64
	TiltY    float64
	Time     time.Time
}

// Point returns the sample position as a Point.
func (s PointerSample) Point() Point {
	return Point{X: s.X, Y: s.Y}
}

// StrokePoint is a pointer sample extended with the dab size and opacity
// derived from brush settings and pressure at rasterization time.
type StrokePoint struct {
	PointerSample
	Size    float64
	Opacity float64
}

// Stroke is a finalized, time-ordered sequence of stroke points.
//
// Brush holds a snapshot of the brush settings taken at stroke start, so a
// historical stroke renders identically even after the live brush changes.
// Once EndStroke returns a Stroke, ownership passes to the caller; the
// engine keeps no reference.
type Stroke struct {
	ID        string
	Points    []StrokePoint
	Brush     BrushSettings
	LayerID   string
	StartedAt time.Time
}

// BrushType selects the dab rasterization policy. All types share the same
// dab placement geometry and differ only in how each dab is shaded.
type BrushType uint8

const (
	// BrushPencil draws flat filled circles at opacity scaled by hardness.
	BrushPencil BrushType = iota

	// BrushPen draws flat filled circles at full opacity.
	BrushPen

	// BrushPaint draws radial-gradient dabs, solid at the center and fading
	// to transparent at the radius, with a hardness-controlled midpoint.
	BrushPaint

	// BrushAirbrush draws wide (1.5x radius), low-density radial falloff
	// dabs that simulate spray.
	BrushAirbrush

	// BrushMarker draws flat circles at 0.7x opacity, simulating ink bleed
	// without gradient cost.
	BrushMarker

	// BrushCharcoal draws circles with randomized position jitter and
	// randomized radius and opacity per dab. Intentionally non-deterministic.
	BrushCharcoal

	// BrushWatercolor draws wide, low-opacity (0.3x) radial gradients that
	// simulate pigment spread.
	BrushWatercolor

	// BrushEraser uses the BrushPaint gradient shape but subtracts alpha
	// instead of painting, regardless of the active color.
	BrushEraser
)

// String returns a string representation of the brush type.
func (b BrushType) String() string {
	switch b {
	case BrushPencil:
		return "pencil"
	case BrushPen:
		return "pen"
	case BrushPaint:
		return "brush"
	case BrushAirbrush:
		return "airbrush"
	case BrushMarker:
		return "marker"
	case BrushCharcoal:
		return "charcoal"
	case BrushWatercolor:
		return "watercolor"
	case BrushEraser:
		return "eraser"
	default:
		return "unknown"
	}
}

// ParseBrushType converts a brush type name (as produced by String) back
// into a BrushType. Unrecognized names report ok == false.
func ParseBrushType(s string) (t BrushType, ok bool) {
	for b := BrushPencil; b <= BrushEraser; b++ {
		if b.String() == s {
			return b, true
		}
	}
	return BrushPencil, false
}

// BrushSettings is the mutable brush configuration of an engine.
//
// BrushSettings is a value type with no reference fields, so an ordinary
// copy is the deep snapshot the stroke record requires.
//
// The engine does not enforce MinSize <= Size <= MaxSize at configuration
// time; per-point size computation clamps at draw time instead.
type BrushSettings struct {
	Type     BrushType
	Size     float64
	MinSize  float64
	MaxSize  float64
	Color    RGBA
	Opacity  float64 // [0, 1]
	Hardness float64 // [0, 1]
	Spacing  float64 // dab spacing as a fraction of dab size

	// Smoothing is the weight of the input moving average, [0, 1].
	Smoothing float64

	// PressureSize maps pressure linearly into [MinSize, MaxSize].
	PressureSize bool

	// PressureOpacity maps pressure into Opacity x [0.3, 1.0].
	PressureOpacity bool

	Blend BlendMode
}

// DefaultBrush returns the brush configuration a new engine starts with:
// a black round brush with pressure-reactive size.
func DefaultBrush() BrushSettings {
	return BrushSettings{
		Type:            BrushPaint,
		Size:            10,
		MinSize:         1,
		MaxSize:         20,
		Color:           Black,
		Opacity:         1,
		Hardness:        0.8,
		Spacing:         0.15,
		Smoothing:       0.5,
		PressureSize:    true,
		PressureOpacity: false,
		Blend:           BlendNormal,
	}
}
