package render

import (
	"image"

	"github.com/pigubaoza/gst-watermark/internal/pixel"
	"github.com/pigubaoza/gst-watermark/internal/plane"
)

// yuv holds the luma/chroma weighting of the negotiated color matrix and is
// embedded by the planar and semi-planar renderers.
type yuv struct {
	kr, kb float64
}

// project converts an RGB color to its Y/U/V representation using the
// standard Kr/Kb projection with offset-binary chroma.
func (m yuv) project(c pixel.RGB) (y, u, v uint8) {
	r := float64(c.R)
	g := float64(c.G)
	b := float64(c.B)

	kg := 1 - m.kr - m.kb
	fy := m.kr*r + kg*g + m.kb*b
	fu := (b-fy)/(2*(1-m.kb)) + 128
	fv := (r-fy)/(2*(1-m.kr)) + 128

	return clampByte(fy), clampByte(fu), clampByte(fv)
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}

// i420Renderer draws on planar 4:2:0 frames: a full-resolution luma plane
// and two half-resolution scalar chroma planes. Rectangle and circle
// geometry is halved and re-rasterized on chroma so outlines stay one chroma
// sample wide instead of smearing.
type i420Renderer struct {
	yuv
}

func (r *i420Renderer) DrawRectangle(planes []plane.Plane, c pixel.RGB, topLeft, bottomRight image.Point) {
	if len(planes) != 3 {
		return
	}
	y, u, v := r.project(c)
	rectOutline(topLeft, bottomRight, byteSetter(&planes[0], y))
	rectOutline(half(topLeft), half(bottomRight), byteSetter(&planes[1], u))
	rectOutline(half(topLeft), half(bottomRight), byteSetter(&planes[2], v))
}

func (r *i420Renderer) DrawText(planes []plane.Plane, c pixel.RGB, pos image.Point, text string) {
	if len(planes) != 3 {
		return
	}
	y, u, v := r.project(c)
	// Glyph masks rasterize once at luma resolution; chroma takes the same
	// coverage at half scale.
	drawString(text, pos, fanOut(
		byteSetter(&planes[0], y),
		halfRes(byteSetter(&planes[1], u)),
		halfRes(byteSetter(&planes[2], v)),
	))
}

func (r *i420Renderer) DrawCircle(planes []plane.Plane, c pixel.RGB, center image.Point, radius int) {
	if len(planes) != 3 {
		return
	}
	y, u, v := r.project(c)
	circleFill(center, radius, byteSetter(&planes[0], y))
	circleFill(half(center), radius/2, byteSetter(&planes[1], u))
	circleFill(half(center), radius/2, byteSetter(&planes[2], v))
}

// nv12Renderer draws on semi-planar 4:2:0 frames: a full-resolution luma
// plane and one half-resolution plane with interleaved U/V samples.
type nv12Renderer struct {
	yuv
}

func (r *nv12Renderer) DrawRectangle(planes []plane.Plane, c pixel.RGB, topLeft, bottomRight image.Point) {
	if len(planes) != 2 {
		return
	}
	y, u, v := r.project(c)
	rectOutline(topLeft, bottomRight, byteSetter(&planes[0], y))
	rectOutline(half(topLeft), half(bottomRight), pairSetter(&planes[1], u, v))
}

func (r *nv12Renderer) DrawText(planes []plane.Plane, c pixel.RGB, pos image.Point, text string) {
	if len(planes) != 2 {
		return
	}
	y, u, v := r.project(c)
	drawString(text, pos, fanOut(
		byteSetter(&planes[0], y),
		halfRes(pairSetter(&planes[1], u, v)),
	))
}

func (r *nv12Renderer) DrawCircle(planes []plane.Plane, c pixel.RGB, center image.Point, radius int) {
	if len(planes) != 2 {
		return
	}
	y, u, v := r.project(c)
	circleFill(center, radius, byteSetter(&planes[0], y))
	circleFill(half(center), radius/2, pairSetter(&planes[1], u, v))
}
