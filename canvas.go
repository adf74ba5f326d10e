package easel

import "math"

// CanvasState describes the drawing surface's logical geometry. Zoom, pan,
// and rotation affect only the mapping from screen input to buffer
// coordinates; layer buffers are always stored at Width x Height.
type CanvasState struct {
	Width      int
	Height     int
	Zoom       float64
	PanX, PanY float64
	Rotation   float64 // radians
	Background RGBA
}

// DefaultCanvasState returns an untransformed canvas of the given size with
// a white background.
func DefaultCanvasState(width, height int) CanvasState {
	return CanvasState{
		Width:      width,
		Height:     height,
		Zoom:       1,
		Background: White,
	}
}

// CanvasToBuffer maps a screen-space point to buffer coordinates, undoing
// pan, zoom, and rotation in that order. Hosts that already deliver
// buffer-local pointer samples never need this.
func (c CanvasState) CanvasToBuffer(x, y float64) (bx, by float64) {
	x -= c.PanX
	y -= c.PanY

	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	x /= zoom
	y /= zoom

	if c.Rotation != 0 {
		cx := float64(c.Width) / 2
		cy := float64(c.Height) / 2
		sin, cos := math.Sincos(-c.Rotation)
		dx, dy := x-cx, y-cy
		x = cx + dx*cos - dy*sin
		y = cy + dx*sin + dy*cos
	}

	return x, y
}
