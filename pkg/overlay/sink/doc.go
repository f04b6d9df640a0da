// Package sink renders overlay frames to output formats.
//
// # Overview
//
// A sink takes a finished [overlay.Frame] and produces bytes:
//
//   - GeoJSON: a FeatureCollection with one feature per rect, line and label
//   - SVG: vector overlay with the interactive renderer's colors
//   - PNG: raster overlay, optionally on top of a spectrogram background
//
// All renderers share a [Style]. [DefaultStyle] matches the annotation
// editor: red rect strokes, cyan for the selected rect and for tick lines,
// white text.
//
//	svg := sink.RenderSVG(frame, sink.WithStyle(style))
//	png, err := sink.RenderPNG(frame, sink.WithBackground(img), sink.WithScale(2))
//
// [Writer] adapts any of the renderers to the [overlay.Sink] interface.
//
// [overlay.Frame]: github.com/matzehuels/spectromap/pkg/overlay.Frame
// [overlay.Sink]: github.com/matzehuels/spectromap/pkg/overlay.Sink
package sink
