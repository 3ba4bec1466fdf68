package watermark

import (
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/pigubaoza/gst-watermark/internal/palette"
	"github.com/pigubaoza/gst-watermark/internal/plane"
	"github.com/pigubaoza/gst-watermark/internal/render"
)

// Watermark annotates video frames in place with the regions supplied by a
// RegionProvider: bounding box outlines, label text and landmark keypoints.
//
// One Watermark serves one stream. It keeps a single cached renderer that is
// rebuilt only when the stream's pixel format or color matrix changes, since
// both are negotiated per-stream properties that almost never move frame to
// frame. The
// cache is mutex-guarded, so concurrent DrawAnnotations calls on independent
// buffers are safe.
type Watermark struct {
	mapper  FrameMapper
	regions RegionProvider

	// Renderer cache, keyed by the last seen pixel format and color matrix.
	mu       sync.Mutex
	format   PixelFormat
	matrix   ColorMatrix
	renderer render.Renderer

	// Telemetry (atomic for thread-safety).
	framesAnnotated uint64
	framesFailed    uint64
	regionsDrawn    uint64
	landmarkPoints  uint64
}

// New creates a Watermark with fail-fast validation of its collaborators.
func New(mapper FrameMapper, regions RegionProvider) (*Watermark, error) {
	if mapper == nil {
		return nil, fmt.Errorf("watermark: frame mapper is required")
	}
	if regions == nil {
		return nil, fmt.Errorf("watermark: region provider is required")
	}
	return &Watermark{mapper: mapper, regions: regions}, nil
}

// DrawAnnotations runs one annotation pass over buf: it maps the buffer,
// decomposes it into planes, and draws every region the provider reports for
// the frame. The buffer is mutated in place and always released, success or
// failure.
//
// Any failure aborts the frame's annotation and is returned wrapped with the
// stage that failed; plane writes already issued before the failure remain
// (frames are never retried, so best-effort partial annotation is
// acceptable). The caller is expected to surface the error as a stream error
// and drop or pass the frame through unmodified.
func (w *Watermark) DrawAnnotations(buf any, info *VideoInfo) error {
	if err := w.drawAnnotations(buf, info); err != nil {
		atomic.AddUint64(&w.framesFailed, 1)
		return err
	}
	atomic.AddUint64(&w.framesAnnotated, 1)
	return nil
}

func (w *Watermark) drawAnnotations(buf any, info *VideoInfo) error {
	if info == nil {
		return fmt.Errorf("watermark: video info is required")
	}

	renderer, err := w.ensureRenderer(info)
	if err != nil {
		return fmt.Errorf("watermark: renderer init: %w", err)
	}

	data, release, err := w.mapper.Map(buf, info)
	if err != nil {
		return fmt.Errorf("watermark: map frame: %w", err)
	}
	defer release()

	planes, err := plane.Build(data, info.Format, info.Width, info.Height, info.Strides, info.Offsets)
	if err != nil {
		return fmt.Errorf("watermark: build planes: %w", err)
	}

	regions, err := w.regions.Regions(buf, info)
	if err != nil {
		return fmt.Errorf("watermark: read regions: %w", err)
	}

	for i := range regions {
		w.drawRegion(renderer, planes, info, &regions[i])
	}

	slog.Debug("watermark: frame annotated",
		"trace_id", uuid.New().String(),
		"format", info.Format.String(),
		"resolution", fmt.Sprintf("%dx%d", info.Width, info.Height),
		"regions", len(regions),
	)
	return nil
}

// ensureRenderer returns the cached renderer, rebuilding it only when the
// stream's pixel format or color matrix differs from the last seen ones.
// Rebuilding every frame would be wasteful; never rebuilding would draw with
// a stale plane layout or stale Kr/Kb after a caps renegotiation.
func (w *Watermark) ensureRenderer(info *VideoInfo) (render.Renderer, error) {
	if info.Matrix == MatrixUnknown {
		return nil, ErrUndeterminedColorMatrix
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.renderer != nil && w.format == info.Format && w.matrix == info.Matrix {
		return w.renderer, nil
	}

	kr, kb := info.Matrix.KrKb()
	r, err := render.New(info.Format, kr, kb)
	if err != nil {
		return nil, err
	}
	w.format = info.Format
	w.matrix = info.Matrix
	w.renderer = r

	slog.Info("watermark: renderer built",
		"format", info.Format.String(),
		"matrix", info.Matrix.String(),
		"kr", kr,
		"kb", kb,
	)
	return r, nil
}

// drawRegion resolves one region to pixel space and draws its landmarks,
// rectangle outline and label text.
func (w *Watermark) drawRegion(r render.Renderer, planes []plane.Plane, info *VideoInfo, reg *Region) {
	rect := reg.NormalizedRect
	if rect.W != 0 && rect.H != 0 {
		rect.X *= float64(info.Width)
		rect.Y *= float64(info.Height)
		rect.W *= float64(info.Width)
		rect.H *= float64(info.Height)
	} else {
		rect = reg.PixelRect
	}
	rect = clipRect(rect, info.Width, info.Height)

	// A positive tracker id takes visual precedence over the class id.
	colorIndex := reg.LabelID
	var parts []string
	if reg.ObjectID > 0 {
		colorIndex = reg.ObjectID
		parts = append(parts, strconv.Itoa(reg.ObjectID)+":")
	}
	if reg.Label != "" {
		parts = append(parts, reg.Label)
	}

	classified := false
	for i := range reg.Tensors {
		t := &reg.Tensors[i]
		if !classified && !t.Detection && t.Label != "" {
			parts = append(parts, t.Label)
			classified = true
		}
		if t.IsLandmarks() {
			w.drawLandmarks(r, planes, rect, t.Data)
		}
	}

	color := palette.Lookup(colorIndex)
	topLeft := image.Pt(int(rect.X), int(rect.Y))
	bottomRight := image.Pt(int(rect.X+rect.W), int(rect.Y+rect.H))
	r.DrawRectangle(planes, color, topLeft, bottomRight)
	atomic.AddUint64(&w.regionsDrawn, 1)

	if text := strings.Join(parts, " "); text != "" {
		pos := image.Pt(int(rect.X), int(rect.Y)-5)
		if pos.Y < 0 {
			// Off-frame above the box: drop the label inside instead.
			pos.Y = int(rect.Y) + 30
		}
		r.DrawText(planes, color, pos, text)
	}
}

// drawLandmarks renders a flat (x, y) keypoint sequence given in [0,1]
// rectangle-local coordinates. Each keypoint is colored by its index and
// sized relative to the rectangle width.
func (w *Watermark) drawLandmarks(r render.Renderer, planes []plane.Plane, rect Rect, data []float32) {
	radius := 1 + int(0.012*rect.W)
	for i := 0; i+1 < len(data); i += 2 {
		center := image.Pt(
			int(rect.X+rect.W*float64(data[i])),
			int(rect.Y+rect.H*float64(data[i+1])),
		)
		r.DrawCircle(planes, palette.Lookup(i/2), center, radius)
		atomic.AddUint64(&w.landmarkPoints, 1)
	}
}

// clipRect clamps a pixel-space rectangle to the frame bounds. Both corners
// are clamped into [0,width]×[0,height], so an origin pushed inward shrinks
// the rectangle rather than shifting it; negative sizes clamp to zero.
func clipRect(r Rect, width, height int) Rect {
	w, h := float64(width), float64(height)

	x2 := clampF(r.X+r.W, 0, w)
	y2 := clampF(r.Y+r.H, 0, h)
	r.X = clampF(r.X, 0, w)
	r.Y = clampF(r.Y, 0, h)
	r.W = x2 - r.X
	r.H = y2 - r.Y
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Stats returns current annotation counters. Thread-safe.
func (w *Watermark) Stats() Stats {
	return Stats{
		FramesAnnotated: atomic.LoadUint64(&w.framesAnnotated),
		FramesFailed:    atomic.LoadUint64(&w.framesFailed),
		RegionsDrawn:    atomic.LoadUint64(&w.regionsDrawn),
		LandmarkPoints:  atomic.LoadUint64(&w.landmarkPoints),
	}
}

// PaletteSize returns the number of distinct annotation colors; color
// indexes wrap modulo this value.
func PaletteSize() int {
	return palette.Size()
}

// ColorFor returns the annotation color for index, wrapping modulo the
// palette size.
func ColorFor(index int) RGB {
	return palette.Lookup(index)
}
