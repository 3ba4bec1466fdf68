package watermark

import (
	"errors"

	"github.com/pigubaoza/gst-watermark/internal/pixel"
)

// Sentinel errors returned (wrapped with stage context) by DrawAnnotations.
// Match them with errors.Is.
var (
	// ErrUnsupportedFormat reports a pixel format outside the supported
	// set. Fatal for the stream: later frames of the same caps will fail
	// the same way.
	ErrUnsupportedFormat = pixel.ErrUnsupportedFormat

	// ErrUndeterminedColorMatrix reports that the stream's color matrix is
	// not negotiated yet. Fatal for the frame only; the caller may retry
	// once caps negotiation settles.
	ErrUndeterminedColorMatrix = errors.New("color matrix not negotiated")

	// ErrMappingFailed reports that the frame buffer could not be acquired
	// for read/write access.
	ErrMappingFailed = errors.New("buffer mapping failed")
)
