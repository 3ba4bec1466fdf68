package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	watermark "github.com/pigubaoza/gst-watermark"
)

// Version information
const version = "v0.1.0"

func main() {
	format := flag.String("format", "I420", "Pixel format: BGR, BGRA, BGRx, RGB, RGBA, RGBx, I420, NV12")
	width := flag.Int("width", 640, "Frame width in pixels")
	height := flag.Int("height", 480, "Frame height in pixels")
	frames := flag.Int("frames", 30, "Number of test frames to annotate")
	pattern := flag.String("pattern", "smpte", "videotestsrc pattern (smpte, ball, snow, ...)")
	matrixName := flag.String("matrix", "bt709", "Color matrix fallback when caps omit colorimetry")
	outputDir := flag.String("output", "", "Directory to dump annotated raw frames (optional)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("watermark-demo %s\n", version)
		os.Exit(0)
	}

	// Set up logging
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	if _, ok := watermark.ParseFormat(*format); !ok {
		log.Fatalf("Unsupported format: %s", *format)
	}
	fallbackMatrix := watermark.ParseColorimetry(*matrixName)
	if fallbackMatrix == watermark.MatrixUnknown {
		log.Fatalf("Unknown color matrix: %s", *matrixName)
	}

	if *outputDir != "" {
		if err := os.MkdirAll(*outputDir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
		slog.Info("Frame dumping enabled", "directory", *outputDir)
	}

	fmt.Printf("watermark-demo %s\n", version)
	fmt.Printf("  Format:     %s\n", *format)
	fmt.Printf("  Resolution: %dx%d\n", *width, *height)
	fmt.Printf("  Frames:     %d\n", *frames)
	fmt.Printf("\n")

	wm, err := watermark.New(watermark.GstFrameMapper{}, demoRegions())
	if err != nil {
		log.Fatalf("Failed to create watermark: %v", err)
	}

	if err := run(wm, *format, *pattern, *width, *height, *frames, fallbackMatrix, *outputDir); err != nil {
		log.Fatalf("Demo failed: %v", err)
	}

	stats := wm.Stats()
	fmt.Printf("\nDone:\n")
	fmt.Printf("  Frames annotated: %d\n", stats.FramesAnnotated)
	fmt.Printf("  Frames failed:    %d\n", stats.FramesFailed)
	fmt.Printf("  Regions drawn:    %d\n", stats.RegionsDrawn)
	fmt.Printf("  Landmark points:  %d\n", stats.LandmarkPoints)
}

// demoRegions builds a synthetic region set: one tracked person with five
// face landmarks and one untracked vehicle with a classification label.
func demoRegions() watermark.RegionList {
	return watermark.RegionList{
		{
			NormalizedRect: watermark.Rect{X: 0.1, Y: 0.15, W: 0.3, H: 0.5},
			ObjectID:       1,
			Label:          "person",
			Tensors: []watermark.Tensor{
				{
					Name:   "landmarks",
					Format: "landmark_points",
					Data: []float32{
						0.3, 0.3,
						0.7, 0.3,
						0.5, 0.55,
						0.35, 0.8,
						0.65, 0.8,
					},
				},
			},
		},
		{
			NormalizedRect: watermark.Rect{X: 0.55, Y: 0.6, W: 0.35, H: 0.3},
			LabelID:        2,
			Label:          "vehicle",
			Tensors: []watermark.Tensor{
				{Name: "color-classifier", Label: "red"},
			},
		},
	}
}

// run builds a videotestsrc pipeline, annotates every frame arriving at the
// appsink and waits for end of stream.
func run(wm *watermark.Watermark, format, pattern string, width, height, frames int, fallback watermark.ColorMatrix, outputDir string) error {
	gst.Init(nil)

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	src, err := gst.NewElement("videotestsrc")
	if err != nil {
		return fmt.Errorf("failed to create videotestsrc: %w", err)
	}
	src.SetProperty("num-buffers", frames)
	src.SetProperty("pattern", pattern)

	converter, err := gst.NewElement("videoconvert")
	if err != nil {
		return fmt.Errorf("failed to create videoconvert: %w", err)
	}

	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return fmt.Errorf("failed to create capsfilter: %w", err)
	}
	capsStr := fmt.Sprintf("video/x-raw,format=%s,width=%d,height=%d", format, width, height)
	capsfilter.SetProperty("caps", gst.NewCapsFromString(capsStr))

	appsink, err := app.NewAppSink()
	if err != nil {
		return fmt.Errorf("failed to create appsink: %w", err)
	}
	appsink.SetProperty("sync", false)

	pipeline.AddMany(src, converter, capsfilter, appsink.Element)
	if err := gst.ElementLinkMany(src, converter, capsfilter, appsink.Element); err != nil {
		return fmt.Errorf("failed to link pipeline elements: %w", err)
	}

	frameIndex := 0
	appsink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: func(sink *app.Sink) gst.FlowReturn {
			sample := sink.PullSample()
			if sample == nil {
				return gst.FlowEOS
			}
			buffer := sample.GetBuffer()
			if buffer == nil {
				slog.Warn("demo: sample without buffer, skipping frame")
				return gst.FlowOK
			}

			info, err := watermark.VideoInfoFromCaps(sample.GetCaps())
			if err != nil {
				slog.Error("demo: unusable caps", "error", err)
				return gst.FlowError
			}
			if info.Matrix == watermark.MatrixUnknown {
				info.Matrix = fallback
			}

			if err := wm.DrawAnnotations(buffer, info); err != nil {
				slog.Error("demo: annotation failed", "error", err)
				return gst.FlowOK
			}

			if outputDir != "" {
				dumpFrame(buffer, outputDir, format, frameIndex)
			}
			frameIndex++
			return gst.FlowOK
		},
	})

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return fmt.Errorf("failed to start pipeline: %w", err)
	}
	defer pipeline.SetState(gst.StateNull)

	// Stop on EOS, pipeline error or signal.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	bus := pipeline.GetPipelineBus()
	for {
		select {
		case sig := <-sigChan:
			slog.Info("demo: signal received, stopping", "signal", sig)
			return nil
		default:
		}

		msg := bus.TimedPop(100 * time.Millisecond)
		if msg == nil {
			continue
		}
		switch msg.Type() {
		case gst.MessageEOS:
			slog.Info("demo: end of stream")
			return nil
		case gst.MessageError:
			gerr := msg.ParseError()
			return fmt.Errorf("pipeline error: %s (%s)", gerr.Error(), gerr.DebugString())
		}
	}
}

// dumpFrame writes the annotated frame's raw bytes next to its sequence
// number. Raw dumps are a diagnostic; inspect them with e.g.
// ffplay -f rawvideo -pixel_format yuv420p -video_size WxH frame_0000.raw
func dumpFrame(buffer *gst.Buffer, dir, format string, index int) {
	mapInfo := buffer.Map(gst.MapRead)
	if mapInfo == nil {
		slog.Warn("demo: failed to map buffer for dump", "frame", index)
		return
	}
	defer buffer.Unmap()

	path := filepath.Join(dir, fmt.Sprintf("frame_%04d_%s.raw", index, format))
	if err := os.WriteFile(path, mapInfo.Bytes(), 0644); err != nil {
		slog.Warn("demo: failed to write frame dump", "path", path, "error", err)
	}
}
