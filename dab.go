package easel

import (
	"math"
	"math/rand"
)

// Dab rasterization. Every brush type shares the same placement geometry
// (a circle of the per-point size centered on the stroke point) and differs
// only in shading. All writes go through Pixmap.BlendPixel/ErasePixel so
// out-of-bounds dabs clip cleanly at the buffer edge.

// stampDab renders one brush impression onto dst at (cx, cy).
// size is the dab diameter; opacity the per-point opacity, both already
// derived from pressure.
func stampDab(dst *Pixmap, brush BrushSettings, cx, cy, size, opacity float64) {
	r := math.Max(0.5, size/2)
	opacity = clamp01(opacity)

	switch brush.Type {
	case BrushPencil:
		fillCircle(dst, cx, cy, r, brush.Color, opacity*clamp01(brush.Hardness))
	case BrushPen:
		fillCircle(dst, cx, cy, r, brush.Color, opacity)
	case BrushPaint:
		gradientCircle(dst, cx, cy, r, brush.Color, opacity, brush.Hardness)
	case BrushAirbrush:
		// Wide, low-density spray: quadratic falloff over 1.5x the radius.
		sprayCircle(dst, cx, cy, r*1.5, brush.Color, opacity*0.25)
	case BrushMarker:
		fillCircle(dst, cx, cy, r, brush.Color, opacity*0.7)
	case BrushCharcoal:
		charcoalDab(dst, cx, cy, r, brush.Color, opacity)
	case BrushWatercolor:
		gradientCircle(dst, cx, cy, r*1.4, brush.Color, opacity*0.3, 0.2)
	case BrushEraser:
		eraseCircle(dst, cx, cy, r, opacity, brush.Hardness)
	}
}

// fillCircle stamps a flat disc with a one-pixel antialiased rim.
func fillCircle(dst *Pixmap, cx, cy, r float64, c RGBA, alpha float64) {
	if alpha <= 0 {
		return
	}
	forEachCirclePixel(dst, cx, cy, r, func(x, y int, dist float64) {
		cover := clamp01(r - dist + 0.5)
		if cover <= 0 {
			return
		}
		dst.BlendPixel(x, y, c.WithAlpha(alpha*cover))
	})
}

// gradientCircle stamps a radial-gradient disc: solid inside hardness*r,
// fading linearly to transparent at r.
func gradientCircle(dst *Pixmap, cx, cy, r float64, c RGBA, alpha, hardness float64) {
	if alpha <= 0 {
		return
	}
	hardness = clamp01(hardness)
	forEachCirclePixel(dst, cx, cy, r, func(x, y int, dist float64) {
		a := alpha * radialFalloff(dist/r, hardness)
		if a <= 0 {
			return
		}
		dst.BlendPixel(x, y, c.WithAlpha(a))
	})
}

// sprayCircle stamps a low-density quadratic falloff disc for airbrushing.
func sprayCircle(dst *Pixmap, cx, cy, r float64, c RGBA, alpha float64) {
	if alpha <= 0 {
		return
	}
	forEachCirclePixel(dst, cx, cy, r, func(x, y int, dist float64) {
		t := 1 - dist/r
		a := alpha * t * t
		if a <= 0 {
			return
		}
		dst.BlendPixel(x, y, c.WithAlpha(a))
	})
}

// charcoalDab stamps a flat disc with randomized position jitter and
// randomized radius and opacity so repeated dabs build a grainy texture.
func charcoalDab(dst *Pixmap, cx, cy, r float64, c RGBA, alpha float64) {
	jx := (rand.Float64() - 0.5) * r
	jy := (rand.Float64() - 0.5) * r
	jr := r * (0.7 + rand.Float64()*0.6)
	ja := alpha * (0.5 + rand.Float64()*0.5)
	fillCircle(dst, cx+jx, cy+jy, jr, c, ja)
}

// eraseCircle subtracts alpha in the same gradient shape BrushPaint uses,
// ignoring the active color entirely.
func eraseCircle(dst *Pixmap, cx, cy, r, strength, hardness float64) {
	if strength <= 0 {
		return
	}
	hardness = clamp01(hardness)
	forEachCirclePixel(dst, cx, cy, r, func(x, y int, dist float64) {
		s := strength * radialFalloff(dist/r, hardness)
		if s <= 0 {
			return
		}
		dst.ErasePixel(x, y, s)
	})
}

// radialFalloff maps a normalized distance t in [0, 1] to an alpha factor:
// 1 inside the hardness midpoint, linear decay to 0 at the rim.
func radialFalloff(t, hardness float64) float64 {
	if t >= 1 {
		return 0
	}
	if t <= hardness || hardness >= 1 {
		return 1
	}
	return 1 - (t-hardness)/(1-hardness)
}

// forEachCirclePixel visits every buffer pixel inside the circle's bounding
// box whose center lies within r of (cx, cy), passing its distance.
func forEachCirclePixel(dst *Pixmap, cx, cy, r float64, visit func(x, y int, dist float64)) {
	x0 := int(math.Floor(cx - r))
	x1 := int(math.Ceil(cx + r))
	y0 := int(math.Floor(cy - r))
	y1 := int(math.Ceil(cy + r))

	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 >= dst.Width() {
		x1 = dst.Width() - 1
	}
	if y1 >= dst.Height() {
		y1 = dst.Height() - 1
	}

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist <= r {
				visit(x, y, dist)
			}
		}
	}
}
