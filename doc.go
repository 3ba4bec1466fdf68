// Package watermark renders inference annotations (bounding boxes, labels,
// landmark keypoints) directly onto raw video frame buffers.
//
// Drawing happens in place on the frame's native pixel layout. There is no
// intermediate RGB copy of the frame: packed BGR/RGB frames are written
// through a single interleaved plane, while I420 and NV12 frames are written
// plane by plane, with RGB annotation colors projected onto luma and chroma
// using the Kr/Kb coefficients of the stream's negotiated color matrix.
//
// # Quick Start
//
// Annotating GStreamer buffers from an appsink callback:
//
//	wm, err := watermark.New(watermark.GstFrameMapper{}, regionSource)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sink.SetCallbacks(&app.SinkCallbacks{
//	    NewSampleFunc: func(sink *app.Sink) gst.FlowReturn {
//	        sample := sink.PullSample()
//	        if sample == nil {
//	            return gst.FlowEOS
//	        }
//	        info, err := watermark.VideoInfoFromCaps(sample.GetCaps())
//	        if err != nil {
//	            return gst.FlowError
//	        }
//	        if err := wm.DrawAnnotations(sample.GetBuffer(), info); err != nil {
//	            // Surface as a stream error; the frame passes through
//	            // unannotated.
//	            slog.Error("annotation failed", "error", err)
//	        }
//	        return gst.FlowOK
//	    },
//	})
//
// Frames held in plain byte slices work the same way through SliceMapper;
// see examples/annotate.
//
// # Supported Formats
//
//   - Packed: BGR, BGRA, BGRx, RGB, RGBA, RGBx (alpha/padding untouched)
//   - Planar: I420 (Y + half-resolution U and V planes)
//   - Semi-planar: NV12 (Y + half-resolution interleaved UV plane)
//
// Any other format fails with ErrUnsupportedFormat.
//
// # Color Matrix
//
// YUV drawing needs the stream's color matrix (BT.601, BT.709, ...) to
// derive Kr/Kb. The matrix arrives with the caps (VideoInfoFromCaps parses
// the colorimetry field) and is effectively static per stream, so the
// renderer is cached and rebuilt only when the format or matrix changes.
// While the
// matrix is still unknown, DrawAnnotations fails with
// ErrUndeterminedColorMatrix; retry on a later frame once negotiation
// completes.
//
// # Concurrency
//
// DrawAnnotations is a bounded, CPU-only pass over one mapped buffer.
// Concurrent calls are safe as long as each receives an independent buffer;
// the renderer cache is the only shared state and is synchronized
// internally. Plane views never outlive the mapping scope of their call.
package watermark
