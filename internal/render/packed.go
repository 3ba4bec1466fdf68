package render

import (
	"image"

	"github.com/pigubaoza/gst-watermark/internal/pixel"
	"github.com/pigubaoza/gst-watermark/internal/plane"
)

// packedRenderer draws on single-plane interleaved formats. The channel
// offsets select BGR versus RGB ordering; a 4th alpha or padding byte is
// left untouched.
type packedRenderer struct {
	rOff, gOff, bOff int
}

func (r *packedRenderer) setter(p *plane.Plane, c pixel.RGB) setter {
	return func(x, y int) {
		off, ok := p.Offset(x, y)
		if !ok {
			return
		}
		p.Data[off+r.rOff] = c.R
		p.Data[off+r.gOff] = c.G
		p.Data[off+r.bOff] = c.B
	}
}

func (r *packedRenderer) DrawRectangle(planes []plane.Plane, c pixel.RGB, topLeft, bottomRight image.Point) {
	if len(planes) == 0 {
		return
	}
	rectOutline(topLeft, bottomRight, r.setter(&planes[0], c))
}

func (r *packedRenderer) DrawText(planes []plane.Plane, c pixel.RGB, pos image.Point, text string) {
	if len(planes) == 0 {
		return
	}
	drawString(text, pos, r.setter(&planes[0], c))
}

func (r *packedRenderer) DrawCircle(planes []plane.Plane, c pixel.RGB, center image.Point, radius int) {
	if len(planes) == 0 {
		return
	}
	circleFill(center, radius, r.setter(&planes[0], c))
}
