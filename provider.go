package watermark

import "fmt"

// FrameMapper exposes a hosting pipeline's frame buffers for in-place
// writes. buf is the host's opaque buffer handle; implementations decide
// which concrete types they accept.
//
// Implementations must guarantee:
//   - Map returns bytes that alias the frame, so writes land in the
//     original buffer (no copy).
//   - The returned release func is always safe to call exactly once and
//     must be called even when drawing fails partway through.
//   - The byte slice is invalid after release; callers must not retain it.
type FrameMapper interface {
	// Map acquires buf for read/write access. info carries the negotiated
	// stream geometry for mappers that need it to size the view.
	//
	// Errors should wrap ErrMappingFailed so callers can classify them.
	Map(buf any, info *VideoInfo) (data []byte, release func(), err error)
}

// RegionProvider supplies the regions attached to one frame, in the order
// they should be drawn. The order must be stable within a call but need not
// be deterministic across runs.
type RegionProvider interface {
	Regions(buf any, info *VideoInfo) ([]Region, error)
}

// SliceMapper implements FrameMapper for frames held in plain byte slices.
// The slice is used as the frame storage directly; release is a no-op since
// there is nothing to unmap.
type SliceMapper struct{}

func (SliceMapper) Map(buf any, _ *VideoInfo) ([]byte, func(), error) {
	data, ok := buf.([]byte)
	if !ok {
		return nil, nil, fmt.Errorf("%w: expected []byte, got %T", ErrMappingFailed, buf)
	}
	return data, func() {}, nil
}

// RegionList is a fixed region set implementing RegionProvider. Useful when
// metadata arrives out of band, e.g. decoded from JSON with
// ParseObjectsJSON, or for synthetic overlays.
type RegionList []Region

func (l RegionList) Regions(any, *VideoInfo) ([]Region, error) {
	return l, nil
}
