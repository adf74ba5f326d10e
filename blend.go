package easel

import "math"

// BlendMode defines how source pixels combine with destination pixels
// during layer compositing.
//
// The set is closed: every mode maps onto the standard compositing
// operator of the same name, and the per-pixel dispatch is an exhaustive
// switch, so adding a mode is a compile-time-checked exercise.
type BlendMode uint8

const (
	// BlendNormal performs standard alpha blending (source over destination).
	BlendNormal BlendMode = iota

	// BlendMultiply multiplies source and destination colors.
	// Result is always darker or equal. Formula: dst * src
	BlendMultiply

	// BlendScreen performs inverse multiply for lighter results.
	// Formula: 1 - (1-dst) * (1-src)
	BlendScreen

	// BlendOverlay combines multiply and screen based on destination brightness.
	// Dark areas are multiplied, bright areas are screened.
	BlendOverlay

	// BlendDarken keeps the darker of source and destination per channel.
	BlendDarken

	// BlendLighten keeps the lighter of source and destination per channel.
	BlendLighten

	// BlendColorDodge brightens the destination to reflect the source.
	BlendColorDodge

	// BlendColorBurn darkens the destination to reflect the source.
	BlendColorBurn

	// BlendHardLight is overlay with source and destination swapped.
	BlendHardLight

	// BlendSoftLight darkens or lightens depending on the source, with a
	// gentler curve than hard light.
	BlendSoftLight

	// BlendDifference subtracts the darker channel from the lighter one.
	BlendDifference

	// BlendExclusion is a lower-contrast variant of difference.
	BlendExclusion
)

const unknownBlendMode = "Unknown"

// String returns a string representation of the blend mode.
func (b BlendMode) String() string {
	switch b {
	case BlendNormal:
		return "normal"
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	case BlendOverlay:
		return "overlay"
	case BlendDarken:
		return "darken"
	case BlendLighten:
		return "lighten"
	case BlendColorDodge:
		return "color-dodge"
	case BlendColorBurn:
		return "color-burn"
	case BlendHardLight:
		return "hard-light"
	case BlendSoftLight:
		return "soft-light"
	case BlendDifference:
		return "difference"
	case BlendExclusion:
		return "exclusion"
	default:
		return unknownBlendMode
	}
}

// ParseBlendMode converts a blend mode name (as produced by String) back
// into a BlendMode. Unrecognized names report ok == false.
func ParseBlendMode(s string) (mode BlendMode, ok bool) {
	for m := BlendNormal; m <= BlendExclusion; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return BlendNormal, false
}

// Composite blends src onto dst in place using the given opacity and blend
// mode. Both pixmaps must share dimensions; the overlapping region is used
// when they differ. opacity is clamped to [0, 1].
func Composite(dst, src *Pixmap, opacity float64, mode BlendMode) {
	if dst == nil || src == nil {
		return
	}
	opacity = clamp01(opacity)
	if opacity == 0 {
		return
	}

	w := min(dst.width, src.width)
	h := min(dst.height, src.height)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := (y*src.width + x) * 4
			srcA := float64(src.data[si+3]) / 255 * opacity
			if srcA <= 0 {
				continue
			}
			c := RGBA{
				R: float64(src.data[si+0]) / 255,
				G: float64(src.data[si+1]) / 255,
				B: float64(src.data[si+2]) / 255,
				A: srcA,
			}
			if mode != BlendNormal {
				d := dst.GetPixel(x, y)
				c.R = blendChannel(c.R, d.R, mode)
				c.G = blendChannel(c.G, d.G, mode)
				c.B = blendChannel(c.B, d.B, mode)
			}
			dst.BlendPixel(x, y, c)
		}
	}
}

// blendChannel applies the separable blend function for a single color
// channel. Source and destination are in [0, 1].
func blendChannel(s, d float64, mode BlendMode) float64 {
	switch mode {
	case BlendNormal:
		return s
	case BlendMultiply:
		return s * d
	case BlendScreen:
		return s + d - s*d
	case BlendOverlay:
		// Overlay is hard light with operands swapped.
		return blendChannel(d, s, BlendHardLight)
	case BlendDarken:
		return math.Min(s, d)
	case BlendLighten:
		return math.Max(s, d)
	case BlendColorDodge:
		if d == 0 {
			return 0
		}
		if s >= 1 {
			return 1
		}
		return math.Min(1, d/(1-s))
	case BlendColorBurn:
		if d >= 1 {
			return 1
		}
		if s == 0 {
			return 0
		}
		return 1 - math.Min(1, (1-d)/s)
	case BlendHardLight:
		if s <= 0.5 {
			return 2 * s * d
		}
		return 1 - 2*(1-s)*(1-d)
	case BlendSoftLight:
		if s <= 0.5 {
			return d - (1-2*s)*d*(1-d)
		}
		var g float64
		if d <= 0.25 {
			g = ((16*d-12)*d + 4) * d
		} else {
			g = math.Sqrt(d)
		}
		return d + (2*s-1)*(g-d)
	case BlendDifference:
		return math.Abs(s - d)
	case BlendExclusion:
		return s + d - 2*s*d
	default:
		return s
	}
}
