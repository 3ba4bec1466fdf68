package watermark

import (
	"strings"

	"github.com/pigubaoza/gst-watermark/internal/pixel"
)

// PixelFormat enumerates the frame memory layouts the annotator can draw on.
type PixelFormat = pixel.Format

const (
	FormatUnknown = pixel.FormatUnknown
	FormatBGR     = pixel.FormatBGR
	FormatBGRA    = pixel.FormatBGRA
	FormatBGRx    = pixel.FormatBGRx
	FormatRGB     = pixel.FormatRGB
	FormatRGBA    = pixel.FormatRGBA
	FormatRGBx    = pixel.FormatRGBx
	FormatI420    = pixel.FormatI420
	FormatNV12    = pixel.FormatNV12
)

// ParseFormat maps a GStreamer caps format name ("BGRx", "I420", ...) to a
// PixelFormat. Returns false for names outside the supported set.
func ParseFormat(name string) (PixelFormat, bool) {
	return pixel.ParseFormat(name)
}

// ColorMatrix identifies the color matrix standard negotiated for a stream.
// It determines the Kr/Kb coefficients used to project RGB colors onto luma
// and chroma planes; it is effectively static per stream and only changes on
// caps renegotiation.
type ColorMatrix = pixel.ColorMatrix

const (
	MatrixUnknown   = pixel.MatrixUnknown
	MatrixRGB       = pixel.MatrixRGB
	MatrixFCC       = pixel.MatrixFCC
	MatrixBT709     = pixel.MatrixBT709
	MatrixBT601     = pixel.MatrixBT601
	MatrixSMPTE240M = pixel.MatrixSMPTE240M
	MatrixBT2020    = pixel.MatrixBT2020
)

// ParseColorimetry extracts the color matrix from a GStreamer colorimetry
// string such as "bt709" or the raw "2:4:7:1" form. Unrecognized strings map
// to MatrixUnknown.
func ParseColorimetry(s string) ColorMatrix {
	return pixel.ParseColorimetry(s)
}

// RGB is an 8-bit-per-channel color in RGB order.
type RGB = pixel.RGB

// VideoInfo describes the negotiated geometry of one video stream. It is
// immutable per frame; a new VideoInfo accompanies every caps change.
type VideoInfo struct {
	// Width and Height are the frame's nominal size in pixels.
	Width  int
	Height int
	// Format determines plane count, plane dimensions and the color
	// conversion rule.
	Format PixelFormat
	// Strides holds per-plane byte strides. Nil or zero entries mean
	// tightly packed rows.
	Strides []int
	// Offsets holds per-plane byte offsets into the mapped buffer. Nil or
	// zero entries mean planes laid out back to back.
	Offsets []int
	// Matrix is the stream's color matrix. Drawing refuses to run while it
	// is MatrixUnknown, since YUV writes would use bogus coefficients.
	Matrix ColorMatrix
}

// Rect is a rectangle with float64 coordinates. Depending on context it
// holds normalized [0,1] or absolute pixel values.
type Rect struct {
	X, Y, W, H float64
}

// Region is one detected or tracked object instance attached to a frame.
type Region struct {
	// NormalizedRect is the bounding box in [0,1] frame-relative
	// coordinates. A zero width or height means PixelRect is authoritative
	// instead.
	NormalizedRect Rect
	// PixelRect is the bounding box in absolute pixel coordinates.
	PixelRect Rect
	// ObjectID is the tracker identity; 0 means untracked. A positive id
	// takes precedence over LabelID for both the color index and the
	// leading label text.
	ObjectID int
	// LabelID is the class id; always a valid color index (0 included).
	LabelID int
	// Label is the class label, possibly empty.
	Label string
	// Tensors are the inference results attached to the region.
	Tensors []Tensor
}

// Tensor is one inference result attached to a Region: a classification
// label, a landmark point set, or the raw detection itself.
type Tensor struct {
	// Name tags the producing model or layer. Names containing "landmarks"
	// mark keypoint data.
	Name string
	// Format describes the payload layout; "landmark_points" marks
	// keypoint data.
	Format string
	// Label is the classification result, if any.
	Label string
	// Detection is true for the detection tensor itself, which never
	// contributes label text.
	Detection bool
	// Data is the raw numeric payload. For landmark tensors it is a flat
	// sequence of (x, y) pairs in [0,1] rectangle-local coordinates.
	Data []float32
}

// IsLandmarks reports whether the tensor payload is a landmark point set.
func (t *Tensor) IsLandmarks() bool {
	return t.Format == "landmark_points" || strings.Contains(t.Name, "landmarks")
}

// Stats contains counters for the annotation passes performed so far.
type Stats struct {
	// FramesAnnotated is the number of frames annotated successfully.
	FramesAnnotated uint64
	// FramesFailed is the number of frames whose annotation pass failed.
	FramesFailed uint64
	// RegionsDrawn is the total number of region rectangles drawn.
	RegionsDrawn uint64
	// LandmarkPoints is the total number of landmark keypoints drawn.
	LandmarkPoints uint64
}
