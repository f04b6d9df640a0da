// Package overlay turns annotation lists into renderer-independent drawing data.
//
// # Overview
//
// A [Frame] holds everything a renderer draws over one spectrogram:
//
//   - [Rect]: one polygon per pulse annotation, with selection state
//   - [Line]: short tick lines marking where annotations start and end
//   - [Text]: time labels ("120ms") and species labels for sequences
//
// Polygons come from [spectro.Build]. Annotations whose polygon is the
// sentinel or contains NaN are dropped here, so renderers never see them.
// Output items keep the annotation ID; consumers must associate rects back to
// annotations by ID, not by slice position.
//
// # Sinks
//
// A [Sink] consumes a finished frame. The renderer itself is external; the
// [sink] subpackage provides GeoJSON, SVG and PNG sinks and [Recorder] keeps
// frames in memory.
//
//	frame, err := overlay.Format(ctx, overlay.Input{
//	    View:      layout.View(),
//	    Pulses:    pulses,
//	    Sequences: sequences,
//	})
//	svg, err := sink.RenderSVG(frame)
package overlay
