package watermark

import (
	"fmt"

	"github.com/tinyzimmer/go-gst/gst"

	"github.com/pigubaoza/gst-watermark/internal/plane"
)

// GstFrameMapper implements FrameMapper over go-gst buffers. Map accepts a
// *gst.Buffer, maps it read/write and returns the mapped bytes without
// copying; release unmaps the buffer.
type GstFrameMapper struct{}

func (GstFrameMapper) Map(buf any, _ *VideoInfo) ([]byte, func(), error) {
	buffer, ok := buf.(*gst.Buffer)
	if !ok {
		return nil, nil, fmt.Errorf("%w: expected *gst.Buffer, got %T", ErrMappingFailed, buf)
	}

	mapInfo := buffer.Map(gst.MapRead | gst.MapWrite)
	if mapInfo == nil {
		return nil, nil, fmt.Errorf("%w: gst buffer map returned nil", ErrMappingFailed)
	}

	// AsUint8Slice views the mapped memory directly; writes land in the
	// GStreamer buffer. The view dies with the unmap.
	data := mapInfo.AsUint8Slice()
	if len(data) == 0 {
		buffer.Unmap()
		return nil, nil, fmt.Errorf("%w: mapped buffer is empty", ErrMappingFailed)
	}

	return data, func() { buffer.Unmap() }, nil
}

// VideoInfoFromCaps translates negotiated video caps into a VideoInfo. The
// caps must be fixed ("video/x-raw" with concrete format, width and height).
// Strides and offsets are filled with GStreamer's default aligned layout. A
// missing or unparseable colorimetry field leaves Matrix as MatrixUnknown,
// which DrawAnnotations rejects until negotiation settles.
func VideoInfoFromCaps(caps *gst.Caps) (*VideoInfo, error) {
	if caps == nil || caps.GetSize() == 0 {
		return nil, fmt.Errorf("watermark: caps are empty")
	}
	s := caps.GetStructureAt(0)
	if s == nil {
		return nil, fmt.Errorf("watermark: caps have no structure")
	}

	name, err := capsString(s, "format")
	if err != nil {
		return nil, fmt.Errorf("watermark: %w", err)
	}
	format, ok := ParseFormat(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}

	width, err := capsInt(s, "width")
	if err != nil {
		return nil, fmt.Errorf("watermark: %w", err)
	}
	height, err := capsInt(s, "height")
	if err != nil {
		return nil, fmt.Errorf("watermark: %w", err)
	}

	// Caps never carry strides; buffers pulled without video meta use
	// GStreamer's default aligned layout, which pads rows past tight
	// packing for widths that are not 4-byte multiples.
	strides, offsets, err := plane.DefaultLayout(format, width, height)
	if err != nil {
		return nil, fmt.Errorf("watermark: %w", err)
	}

	info := &VideoInfo{
		Width:   width,
		Height:  height,
		Format:  format,
		Strides: strides,
		Offsets: offsets,
	}
	// Colorimetry is optional in caps.
	if colorimetry, err := capsString(s, "colorimetry"); err == nil {
		info.Matrix = ParseColorimetry(colorimetry)
	}
	return info, nil
}

func capsString(s *gst.Structure, key string) (string, error) {
	v, err := s.GetValue(key)
	if err != nil {
		return "", fmt.Errorf("caps missing %s: %w", key, err)
	}
	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("caps field %s has unexpected type %T", key, v)
	}
	return str, nil
}

func capsInt(s *gst.Structure, key string) (int, error) {
	v, err := s.GetValue(key)
	if err != nil {
		return 0, fmt.Errorf("caps missing %s: %w", key, err)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint32:
		return int(n), nil
	}
	return 0, fmt.Errorf("caps field %s has unexpected type %T", key, v)
}
