package render

import (
	"image"

	"github.com/pigubaoza/gst-watermark/internal/plane"
)

// setter plots a single point in one plane's coordinate space. Out-of-bounds
// points are silently dropped by the underlying plane.
type setter func(x, y int)

// byteSetter writes a single-byte value, used for luma and scalar chroma
// planes.
func byteSetter(p *plane.Plane, v byte) setter {
	return func(x, y int) {
		if off, ok := p.Offset(x, y); ok {
			p.Data[off] = v
		}
	}
}

// pairSetter writes a two-byte value, used for NV12's interleaved UV plane.
func pairSetter(p *plane.Plane, a, b byte) setter {
	return func(x, y int) {
		if off, ok := p.Offset(x, y); ok {
			p.Data[off] = a
			p.Data[off+1] = b
		}
	}
}

// halfRes maps full-resolution coordinates onto a half-resolution plane,
// truncating the same way the halved primitive geometry does so chroma stays
// aligned with luma.
func halfRes(set setter) setter {
	return func(x, y int) {
		set(x/2, y/2)
	}
}

// fanOut replicates every plotted point to all given setters.
func fanOut(sets ...setter) setter {
	return func(x, y int) {
		for _, set := range sets {
			set(x, y)
		}
	}
}

func half(pt image.Point) image.Point {
	return image.Pt(pt.X/2, pt.Y/2)
}

// rectOutline rasterizes a one-pixel rectangle outline, corners inclusive.
func rectOutline(tl, br image.Point, set setter) {
	if br.X < tl.X || br.Y < tl.Y {
		return
	}
	for x := tl.X; x <= br.X; x++ {
		set(x, tl.Y)
		set(x, br.Y)
	}
	for y := tl.Y; y <= br.Y; y++ {
		set(tl.X, y)
		set(br.X, y)
	}
}

// circleFill rasterizes a filled circle. A radius below 1 is raised to 1 so
// every landmark stays visible.
func circleFill(center image.Point, radius int, set setter) {
	if radius < 1 {
		radius = 1
	}
	rr := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= rr {
				set(center.X+dx, center.Y+dy)
			}
		}
	}
}
