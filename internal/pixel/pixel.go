// Package pixel defines the pixel format and color matrix vocabulary shared
// by the plane adapter and the format renderers.
package pixel

import (
	"errors"
	"strings"
)

// ErrUnsupportedFormat reports a pixel format outside the supported set
// (packed BGR/RGB families, I420, NV12).
var ErrUnsupportedFormat = errors.New("unsupported pixel format")

// Format enumerates the frame memory layouts the annotator can draw on.
//
// Packed formats hold all channels interleaved in a single full-resolution
// plane. I420 splits the frame into a full-resolution luma plane plus two
// half-resolution chroma planes. NV12 keeps the luma plane and interleaves
// both chroma channels in a single half-resolution plane.
type Format int

const (
	FormatUnknown Format = iota
	FormatBGR
	FormatBGRA
	FormatBGRx
	FormatRGB
	FormatRGBA
	FormatRGBx
	FormatI420
	FormatNV12
)

// ParseFormat maps a GStreamer caps format name ("BGRx", "I420", ...) to a
// Format. Returns false for names outside the supported set.
func ParseFormat(name string) (Format, bool) {
	switch name {
	case "BGR":
		return FormatBGR, true
	case "BGRA":
		return FormatBGRA, true
	case "BGRx":
		return FormatBGRx, true
	case "RGB":
		return FormatRGB, true
	case "RGBA":
		return FormatRGBA, true
	case "RGBx":
		return FormatRGBx, true
	case "I420":
		return FormatI420, true
	case "NV12":
		return FormatNV12, true
	}
	return FormatUnknown, false
}

// String returns the GStreamer caps name of the format.
func (f Format) String() string {
	switch f {
	case FormatBGR:
		return "BGR"
	case FormatBGRA:
		return "BGRA"
	case FormatBGRx:
		return "BGRx"
	case FormatRGB:
		return "RGB"
	case FormatRGBA:
		return "RGBA"
	case FormatRGBx:
		return "RGBx"
	case FormatI420:
		return "I420"
	case FormatNV12:
		return "NV12"
	default:
		return "unknown"
	}
}

// Packed reports whether the format stores all channels in one plane.
func (f Format) Packed() bool {
	switch f {
	case FormatBGR, FormatBGRA, FormatBGRx, FormatRGB, FormatRGBA, FormatRGBx:
		return true
	}
	return false
}

// PixelSize returns the bytes per pixel of the packed plane, or 0 for
// planar formats.
func (f Format) PixelSize() int {
	switch f {
	case FormatBGR, FormatRGB:
		return 3
	case FormatBGRA, FormatBGRx, FormatRGBA, FormatRGBx:
		return 4
	}
	return 0
}

// PlaneCount returns the number of planes the format decomposes into.
func (f Format) PlaneCount() int {
	switch {
	case f.Packed():
		return 1
	case f == FormatI420:
		return 3
	case f == FormatNV12:
		return 2
	}
	return 0
}

// RGB is an 8-bit-per-channel color in RGB order.
type RGB struct {
	R, G, B uint8
}

// ColorMatrix identifies the color matrix standard negotiated for a stream.
// It determines the Kr/Kb weighting used when projecting RGB colors onto
// luma/chroma planes.
type ColorMatrix int

const (
	MatrixUnknown ColorMatrix = iota
	// MatrixRGB is the identity matrix used by packed RGB streams; it
	// carries no Kr/Kb weighting.
	MatrixRGB
	MatrixFCC
	MatrixBT709
	MatrixBT601
	MatrixSMPTE240M
	MatrixBT2020
)

// String returns the canonical GStreamer name of the matrix.
func (m ColorMatrix) String() string {
	switch m {
	case MatrixRGB:
		return "rgb"
	case MatrixFCC:
		return "fcc"
	case MatrixBT709:
		return "bt709"
	case MatrixBT601:
		return "bt601"
	case MatrixSMPTE240M:
		return "smpte240m"
	case MatrixBT2020:
		return "bt2020"
	default:
		return "unknown"
	}
}

// KrKb returns the luma weighting coefficients of the matrix, mirroring
// gst_video_color_matrix_get_Kr_Kb. The identity and unknown matrices
// return zeros.
func (m ColorMatrix) KrKb() (kr, kb float64) {
	switch m {
	case MatrixFCC:
		return 0.30, 0.11
	case MatrixBT709:
		return 0.2126, 0.0722
	case MatrixBT601:
		return 0.2990, 0.1140
	case MatrixSMPTE240M:
		return 0.212, 0.087
	case MatrixBT2020:
		return 0.2627, 0.0593
	}
	return 0, 0
}

// ParseColorimetry extracts the color matrix from a GStreamer colorimetry
// string. Both the shorthand names ("bt709") and the raw
// "range:matrix:transfer:primaries" form ("2:3:7:1") are accepted; GStreamer
// emits one or the other depending on whether the combination has a
// well-known name. Unrecognized strings map to MatrixUnknown.
func ParseColorimetry(s string) ColorMatrix {
	l := strings.ToLower(strings.TrimSpace(s))

	switch {
	case strings.Contains(l, "bt709"):
		return MatrixBT709
	case strings.Contains(l, "bt601"),
		strings.Contains(l, "bt470bg"),
		strings.Contains(l, "smpte170m"):
		return MatrixBT601
	case strings.Contains(l, "bt2020"), strings.Contains(l, "bt2100"):
		return MatrixBT2020
	case strings.Contains(l, "smpte240m"):
		return MatrixSMPTE240M
	case strings.Contains(l, "srgb"):
		return MatrixRGB
	}

	// Raw colorimetry form "range:matrix:transfer:primaries"; the matrix
	// field uses the GstVideoColorMatrix enum values.
	if parts := strings.Split(l, ":"); len(parts) == 4 {
		switch parts[1] {
		case "1":
			return MatrixRGB
		case "2":
			return MatrixFCC
		case "3":
			return MatrixBT709
		case "4":
			return MatrixBT601
		case "5":
			return MatrixSMPTE240M
		case "6":
			return MatrixBT2020
		}
	}

	return MatrixUnknown
}
