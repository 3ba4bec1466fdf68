// Package plane decomposes a mapped frame buffer into addressable 2-D pixel
// plane views. Views alias the caller-owned buffer; nothing is copied, so
// writes through a plane mutate the original frame in place.
package plane

import (
	"fmt"

	"github.com/pigubaoza/gst-watermark/internal/pixel"
)

// Plane is a non-owning view over one pixel plane of a mapped frame buffer.
// Its lifetime is bounded by the mapping scope it was built from; a Plane
// must not be retained past the buffer's release.
type Plane struct {
	// Data aliases the mapped buffer starting at the plane's first row.
	Data []byte
	// Width and Height are in plane-resolution pixels (chroma planes of
	// 4:2:0 formats are half the frame's nominal size).
	Width  int
	Height int
	// Stride is the byte distance between rows.
	Stride int
	// PixelSize is the bytes per pixel within this plane.
	PixelSize int
}

// Offset translates plane coordinates into a byte offset in Data. The second
// return value is false for coordinates outside the plane, which lets
// rasterizers run clip-free at the frame edges.
func (p *Plane) Offset(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= p.Width || y >= p.Height {
		return 0, false
	}
	return y*p.Stride + x*p.PixelSize, true
}

// Pixel returns the bytes of the pixel at (x, y), or nil outside the plane.
func (p *Plane) Pixel(x, y int) []byte {
	off, ok := p.Offset(x, y)
	if !ok {
		return nil
	}
	return p.Data[off : off+p.PixelSize]
}

// geometry describes one plane before it is bound to buffer memory.
type geometry struct {
	width, height, pixelSize int
}

// layout returns the plane geometries of format for a frame of the nominal
// width and height. Chroma planes of 4:2:0 formats round up, so odd frame
// sizes still cover every luma pixel.
func layout(format pixel.Format, width, height int) ([]geometry, error) {
	cw, ch := (width+1)/2, (height+1)/2

	switch {
	case format.Packed():
		return []geometry{{width, height, format.PixelSize()}}, nil
	case format == pixel.FormatI420:
		return []geometry{
			{width, height, 1},
			{cw, ch, 1},
			{cw, ch, 1},
		}, nil
	case format == pixel.FormatNV12:
		return []geometry{
			{width, height, 1},
			{cw, ch, 2},
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", pixel.ErrUnsupportedFormat, format)
}

func roundUp2(v int) int { return (v + 1) &^ 1 }
func roundUp4(v int) int { return (v + 3) &^ 3 }

// DefaultLayout returns the plane strides and offsets of GStreamer's default
// raw buffer layout: row strides rounded up to 4-byte alignment, planes laid
// out back to back, the luma region sized for an even row count. Buffers that
// travel without explicit video meta carry exactly this layout, so tight-row
// assumptions mislay every plane whenever the alignment pads a stride.
func DefaultLayout(format pixel.Format, width, height int) (strides, offsets []int, err error) {
	if width <= 0 || height <= 0 {
		return nil, nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	cw, ch := (width+1)/2, (height+1)/2

	switch {
	case format.Packed():
		return []int{roundUp4(width * format.PixelSize())}, []int{0}, nil
	case format == pixel.FormatI420:
		ys := roundUp4(width)
		cs := roundUp4(cw)
		uOff := ys * roundUp2(height)
		return []int{ys, cs, cs}, []int{0, uOff, uOff + cs*ch}, nil
	case format == pixel.FormatNV12:
		ys := roundUp4(width)
		return []int{ys, ys}, []int{0, ys * roundUp2(height)}, nil
	}
	return nil, nil, fmt.Errorf("%w: %s", pixel.ErrUnsupportedFormat, format)
}

// Build slices data into the plane views declared by format for a frame of
// the given nominal width and height.
//
// strides holds per-plane byte strides and offsets per-plane byte offsets
// into data; either may be nil (or shorter than the plane count), in which
// case tightly packed rows laid out back to back are assumed. Build performs
// no copying and fails if data is too small to back every plane.
func Build(data []byte, format pixel.Format, width, height int, strides, offsets []int) ([]Plane, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	geoms, err := layout(format, width, height)
	if err != nil {
		return nil, err
	}

	planes := make([]Plane, 0, len(geoms))
	nextOffset := 0
	for i, g := range geoms {
		stride := g.width * g.pixelSize
		if i < len(strides) && strides[i] > 0 {
			stride = strides[i]
		}
		offset := nextOffset
		if i < len(offsets) && offsets[i] > 0 {
			offset = offsets[i]
		}

		size := (g.height-1)*stride + g.width*g.pixelSize
		if offset+size > len(data) {
			return nil, fmt.Errorf(
				"buffer too small for %s plane %d: need %d bytes at offset %d, have %d",
				format, i, size, offset, len(data),
			)
		}

		planes = append(planes, Plane{
			Data:      data[offset : offset+size],
			Width:     g.width,
			Height:    g.height,
			Stride:    stride,
			PixelSize: g.pixelSize,
		})
		nextOffset = offset + g.height*stride
	}

	return planes, nil
}
