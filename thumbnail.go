package easel

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// makeThumbnail downscales a layer buffer so its longer edge fits maxSize,
// preserving aspect ratio. Buffers already within bounds are copied at
// original size.
func makeThumbnail(src *Pixmap, maxSize int) *Pixmap {
	if maxSize < 1 {
		maxSize = 1
	}
	w, h := src.Width(), src.Height()
	if w < 1 || h < 1 {
		return NewPixmap(1, 1)
	}

	tw, th := w, h
	if w > maxSize || h > maxSize {
		if w >= h {
			tw = maxSize
			th = max(1, h*maxSize/w)
		} else {
			th = maxSize
			tw = max(1, w*maxSize/h)
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, tw, th))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src.ToImage(), src.Bounds(), xdraw.Src, nil)
	return FromImage(dst)
}
