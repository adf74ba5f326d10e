package easel

import "math"

// stabilizer applies a weighted moving average over a short window of
// recent pointer samples. Newer samples carry more weight, so the output
// tracks the pointer with a slight, smooth lag rather than averaging it
// into mush.
type stabilizer struct {
	window   []PointerSample
	capacity int
}

// newStabilizer creates a stabilizer with the given window size.
// Window sizes below 1 disable averaging (every sample passes through).
func newStabilizer(windowSize int) *stabilizer {
	if windowSize < 1 {
		windowSize = 1
	}
	return &stabilizer{
		window:   make([]PointerSample, 0, windowSize),
		capacity: windowSize,
	}
}

// setWindow reconfigures the window size, keeping the most recent samples.
func (s *stabilizer) setWindow(size int) {
	if size < 1 {
		size = 1
	}
	s.capacity = size
	if len(s.window) > size {
		s.window = s.window[len(s.window)-size:]
	}
}

// reset discards all buffered samples. Called at stroke boundaries.
func (s *stabilizer) reset() {
	s.window = s.window[:0]
}

// smooth buffers the sample and returns the weighted average of the window.
// Position and pressure are averaged; time and tilt pass through from the
// newest sample.
func (s *stabilizer) smooth(raw PointerSample) PointerSample {
	if len(s.window) >= s.capacity {
		copy(s.window, s.window[1:])
		s.window = s.window[:len(s.window)-1]
	}
	s.window = append(s.window, raw)

	if len(s.window) == 1 {
		return raw
	}

	var sumX, sumY, sumP, sumW float64
	for i, sample := range s.window {
		w := float64(i + 1) // linear ramp, newest sample heaviest
		sumX += sample.X * w
		sumY += sample.Y * w
		sumP += sample.Pressure * w
		sumW += w
	}

	out := raw
	out.X = sumX / sumW
	out.Y = sumY / sumW
	out.Pressure = sumP / sumW
	return out
}

// lazyBrush keeps the rasterization point trailing the raw pointer within a
// fixed radius. The brush only moves once the pointer exceeds that radius,
// and then moves along the bearing toward the pointer, which straightens
// jitter into smooth curves.
type lazyBrush struct {
	pos    Point
	radius float64
	active bool
}

func newLazyBrush(radius float64) *lazyBrush {
	return &lazyBrush{radius: math.Max(0, radius)}
}

// setRadius reconfigures the trailing radius for subsequent updates.
// In-progress trailing state is kept.
func (l *lazyBrush) setRadius(r float64) {
	l.radius = math.Max(0, r)
}

// begin anchors the brush at the stroke's starting point.
func (l *lazyBrush) begin(p Point) {
	l.pos = p
	l.active = true
}

// reset clears the anchor. Called at stroke end.
func (l *lazyBrush) reset() {
	l.active = false
}

// update moves the brush toward the pointer and returns the new brush
// position. While the pointer stays within the radius the brush does not
// move at all.
func (l *lazyBrush) update(pointer Point) Point {
	if !l.active {
		l.begin(pointer)
		return pointer
	}
	dist := l.pos.Distance(pointer)
	if dist <= l.radius {
		return l.pos
	}
	angle := l.pos.Angle(pointer)
	travel := dist - l.radius
	l.pos = Point{
		X: l.pos.X + math.Cos(angle)*travel,
		Y: l.pos.Y + math.Sin(angle)*travel,
	}
	return l.pos
}
