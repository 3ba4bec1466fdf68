package render

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/pigubaoza/gst-watermark/internal/pixel"
	"github.com/pigubaoza/gst-watermark/internal/plane"
)

// newFrame allocates a tightly packed frame and decomposes it into planes.
func newFrame(t *testing.T, format pixel.Format, width, height int) ([]byte, []plane.Plane) {
	t.Helper()

	cw, ch := (width+1)/2, (height+1)/2
	var size int
	switch {
	case format.Packed():
		size = width * height * format.PixelSize()
	case format == pixel.FormatI420:
		size = width*height + 2*cw*ch
	case format == pixel.FormatNV12:
		size = width*height + 2*cw*ch
	default:
		t.Fatalf("unsupported test format %s", format)
	}

	data := make([]byte, size)
	planes, err := plane.Build(data, format, width, height, nil, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return data, planes
}

func TestNew_UnsupportedFormat(t *testing.T) {
	if _, err := New(pixel.FormatUnknown, 0, 0); !errors.Is(err, pixel.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestPackedRGB_ExactColor(t *testing.T) {
	r, err := New(pixel.FormatRGB, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	_, planes := newFrame(t, pixel.FormatRGB, 32, 32)

	// Pure red must land byte-exact: packed drawing does no conversion.
	r.DrawRectangle(planes, pixel.RGB{R: 255}, image.Pt(2, 2), image.Pt(10, 10))

	px := planes[0].Pixel(2, 2)
	if px[0] != 255 || px[1] != 0 || px[2] != 0 {
		t.Errorf("corner pixel = %v, want [255 0 0]", px)
	}
	// The outline is one pixel wide; the interior stays untouched.
	if px := planes[0].Pixel(5, 5); px[0] != 0 || px[1] != 0 || px[2] != 0 {
		t.Errorf("interior pixel = %v, want untouched", px)
	}
}

func TestPackedBGRA_ChannelOrderAndAlpha(t *testing.T) {
	r, err := New(pixel.FormatBGRA, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	data, planes := newFrame(t, pixel.FormatBGRA, 16, 16)
	for i := 3; i < len(data); i += 4 {
		data[i] = 0xFF // opaque alpha everywhere
	}

	r.DrawCircle(planes, pixel.RGB{R: 10, G: 20, B: 30}, image.Pt(8, 8), 2)

	px := planes[0].Pixel(8, 8)
	if px[0] != 30 || px[1] != 20 || px[2] != 10 {
		t.Errorf("center pixel = %v, want BGR order [30 20 10]", px)
	}
	if px[3] != 0xFF {
		t.Errorf("alpha byte = %d, want untouched 0xFF", px[3])
	}
}

func TestI420_RoundTrip(t *testing.T) {
	kr, kb := pixel.MatrixBT709.KrKb()
	r, err := New(pixel.FormatI420, kr, kb)
	if err != nil {
		t.Fatal(err)
	}
	_, planes := newFrame(t, pixel.FormatI420, 64, 64)

	in := pixel.RGB{R: 200, G: 30, B: 60}
	r.DrawRectangle(planes, in, image.Pt(8, 8), image.Pt(40, 40))

	y := float64(planes[0].Pixel(8, 8)[0])
	u := float64(planes[1].Pixel(4, 4)[0])
	v := float64(planes[2].Pixel(4, 4)[0])

	// Invert the Kr/Kb projection and compare against the input color.
	gotR := y + 2*(1-kr)*(v-128)
	gotB := y + 2*(1-kb)*(u-128)
	gotG := (y - kr*gotR - kb*gotB) / (1 - kr - kb)

	const tolerance = 2.0
	for _, ch := range []struct {
		name string
		got  float64
		want float64
	}{
		{"R", gotR, float64(in.R)},
		{"G", gotG, float64(in.G)},
		{"B", gotB, float64(in.B)},
	} {
		if math.Abs(ch.got-ch.want) > tolerance {
			t.Errorf("%s = %.1f, want %.0f ± %.0f (Y=%v U=%v V=%v)",
				ch.name, ch.got, ch.want, tolerance, y, u, v)
		}
	}
}

func TestI420_ChromaAlignment(t *testing.T) {
	kr, kb := pixel.MatrixBT601.KrKb()
	r, err := New(pixel.FormatI420, kr, kb)
	if err != nil {
		t.Fatal(err)
	}
	_, planes := newFrame(t, pixel.FormatI420, 32, 32)

	r.DrawRectangle(planes, pixel.RGB{G: 255}, image.Pt(10, 10), image.Pt(20, 20))

	// The luma edge at (10, 10) must have its chroma written at the halved
	// coordinate (5, 5), keeping edges visually aligned.
	if planes[1].Pixel(5, 5)[0] == 128 || planes[1].Pixel(5, 5)[0] == 0 {
		// Green projects to a chroma value well away from both the zero
		// buffer and the neutral 128.
		t.Errorf("U plane at (5,5) = %d, expected a drawn chroma sample", planes[1].Pixel(5, 5)[0])
	}
	if got := planes[2].Pixel(2, 2)[0]; got != 0 {
		t.Errorf("V plane at (2,2) = %d, want untouched 0", got)
	}
}

func TestNV12_InterleavedChroma(t *testing.T) {
	kr, kb := pixel.MatrixBT709.KrKb()
	r, err := New(pixel.FormatNV12, kr, kb)
	if err != nil {
		t.Fatal(err)
	}
	_, planes := newFrame(t, pixel.FormatNV12, 32, 32)

	c := pixel.RGB{R: 200, G: 30, B: 60}
	r.DrawCircle(planes, c, image.Pt(16, 16), 4)

	// Expected chroma from an I420 renderer with the same coefficients.
	ref, err := New(pixel.FormatI420, kr, kb)
	if err != nil {
		t.Fatal(err)
	}
	_, refPlanes := newFrame(t, pixel.FormatI420, 32, 32)
	ref.DrawCircle(refPlanes, c, image.Pt(16, 16), 4)

	uv := planes[1].Pixel(8, 8)
	if uv[0] != refPlanes[1].Pixel(8, 8)[0] {
		t.Errorf("U sample = %d, want %d", uv[0], refPlanes[1].Pixel(8, 8)[0])
	}
	if uv[1] != refPlanes[2].Pixel(8, 8)[0] {
		t.Errorf("V sample = %d, want %d", uv[1], refPlanes[2].Pixel(8, 8)[0])
	}
	// Luma must match too.
	if planes[0].Pixel(16, 16)[0] != refPlanes[0].Pixel(16, 16)[0] {
		t.Errorf("luma differs between NV12 and I420 renderers")
	}
}

func TestDrawCircle_FilledAndMinRadius(t *testing.T) {
	r, err := New(pixel.FormatRGB, 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("filled", func(t *testing.T) {
		_, planes := newFrame(t, pixel.FormatRGB, 32, 32)
		r.DrawCircle(planes, pixel.RGB{R: 255}, image.Pt(16, 16), 3)

		if planes[0].Pixel(16, 16)[0] != 255 {
			t.Error("center not filled")
		}
		if planes[0].Pixel(16, 19)[0] != 255 {
			t.Error("edge at radius not filled")
		}
		if planes[0].Pixel(16, 20)[0] != 0 {
			t.Error("pixel past radius was written")
		}
	})

	t.Run("radius below one still plots", func(t *testing.T) {
		_, planes := newFrame(t, pixel.FormatRGB, 32, 32)
		r.DrawCircle(planes, pixel.RGB{R: 255}, image.Pt(4, 4), 0)
		if planes[0].Pixel(4, 4)[0] != 255 {
			t.Error("zero-radius circle plotted nothing")
		}
	})
}

func TestDraw_ClipsAtFrameEdges(t *testing.T) {
	kr, kb := pixel.MatrixBT709.KrKb()
	for _, format := range []pixel.Format{pixel.FormatRGB, pixel.FormatI420, pixel.FormatNV12} {
		t.Run(format.String(), func(t *testing.T) {
			r, err := New(format, kr, kb)
			if err != nil {
				t.Fatal(err)
			}
			_, planes := newFrame(t, format, 16, 16)

			// None of these may panic; out-of-bounds pixels are dropped.
			r.DrawRectangle(planes, pixel.RGB{R: 255}, image.Pt(-5, -5), image.Pt(30, 30))
			r.DrawCircle(planes, pixel.RGB{R: 255}, image.Pt(0, 0), 8)
			r.DrawText(planes, pixel.RGB{R: 255}, image.Pt(-3, 200), "clip")
		})
	}
}

func TestDrawText_WritesGlyphs(t *testing.T) {
	r, err := New(pixel.FormatRGB, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	data, planes := newFrame(t, pixel.FormatRGB, 64, 32)

	r.DrawText(planes, pixel.RGB{R: 255, G: 255, B: 255}, image.Pt(4, 20), "7: car")

	var touched int
	for _, b := range data {
		if b != 0 {
			touched++
		}
	}
	if touched == 0 {
		t.Fatal("DrawText wrote no pixels")
	}
}

func TestDrawText_YUVWritesLumaAndChroma(t *testing.T) {
	kr, kb := pixel.MatrixBT601.KrKb()
	r, err := New(pixel.FormatI420, kr, kb)
	if err != nil {
		t.Fatal(err)
	}
	_, planes := newFrame(t, pixel.FormatI420, 64, 32)

	r.DrawText(planes, pixel.RGB{R: 255}, image.Pt(4, 20), "id")

	lumaTouched, chromaTouched := 0, 0
	for _, b := range planes[0].Data {
		if b != 0 {
			lumaTouched++
		}
	}
	for _, b := range planes[2].Data {
		if b != 0 {
			chromaTouched++
		}
	}
	if lumaTouched == 0 {
		t.Error("text wrote no luma samples")
	}
	if chromaTouched == 0 {
		t.Error("text wrote no chroma samples")
	}
}
