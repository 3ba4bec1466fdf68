// Package render implements the per-pixel-format drawing strategies used to
// annotate video frames in place.
//
// One Renderer exists per pixel format family. Packed renderers copy the RGB
// color straight into the single interleaved plane; planar and semi-planar
// renderers project it through the stream's Kr/Kb coefficients and write
// luma and chroma separately, re-rasterizing each primitive at every plane's
// own resolution so outlines stay crisp on subsampled chroma.
package render

import (
	"fmt"
	"image"

	"github.com/pigubaoza/gst-watermark/internal/pixel"
	"github.com/pigubaoza/gst-watermark/internal/plane"
)

// Renderer draws annotation primitives onto the planes of one video frame.
//
// A Renderer holds no frame data and is safe for concurrent use on distinct
// plane sets. It must only be used with planes built for the pixel format it
// was constructed for; coordinates are full-resolution frame pixels, and the
// renderer handles the translation to subsampled planes itself. Draws that
// fall partly outside the frame are clipped pixel by pixel.
type Renderer interface {
	// DrawRectangle draws a one-pixel rectangle outline between the two
	// corners, inclusive.
	DrawRectangle(planes []plane.Plane, c pixel.RGB, topLeft, bottomRight image.Point)
	// DrawText draws text with the baseline starting at pos.
	DrawText(planes []plane.Plane, c pixel.RGB, pos image.Point, text string)
	// DrawCircle draws a filled circle.
	DrawCircle(planes []plane.Plane, c pixel.RGB, center image.Point, radius int)
}

// New returns the renderer for format. YUV formats project RGB colors using
// the kr/kb coefficients of the negotiated color matrix; packed formats
// ignore them.
func New(format pixel.Format, kr, kb float64) (Renderer, error) {
	switch format {
	case pixel.FormatBGR, pixel.FormatBGRA, pixel.FormatBGRx:
		return &packedRenderer{rOff: 2, gOff: 1, bOff: 0}, nil
	case pixel.FormatRGB, pixel.FormatRGBA, pixel.FormatRGBx:
		return &packedRenderer{rOff: 0, gOff: 1, bOff: 2}, nil
	case pixel.FormatI420:
		return &i420Renderer{yuv{kr: kr, kb: kb}}, nil
	case pixel.FormatNV12:
		return &nv12Renderer{yuv{kr: kr, kb: kb}}, nil
	}
	return nil, fmt.Errorf("%w: %s", pixel.ErrUnsupportedFormat, format)
}
