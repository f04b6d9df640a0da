// Package spectro maps spectrogram annotations to render-space polygons and back.
//
// # Overview
//
// A spectrogram image is drawn by a map-style renderer that only understands
// pixel coordinates. This package converts between the two coordinate systems:
//
//   - Domain space: time in milliseconds, frequency in Hz
//   - Render space: pixel x growing right, pixel y growing down
//
// Two time-axis layouts are supported. A uniform [Layout] has a single
// continuous time axis. A segmented (compressed) layout concatenates disjoint
// time intervals; each occupies a pixel width proportional to its duration
// relative to the whole domain span.
//
// # Forward Mapping
//
// [Build] turns a [Pulse] (a time×frequency box) or a [Sequence] (a time-only
// interval drawn in a fixed band above the axis) into a closed 5-vertex
// [Polygon] in canonical order:
//
//	[upper-left, lower-left, lower-right, upper-right, upper-left]
//
// Annotations that cannot be represented (no containing segment, non-finite
// input, degenerate layout) produce the sentinel polygon whose vertices are
// all (-1,-1). Callers filter with [Polygon.Renderable].
//
// # Inverse Mapping
//
// [Invert] recovers domain values from a canonical polygon. Free-form rings
// from interactive edits go through [Normalize] first ([InvertRing] does both).
// Failures are returned as *errors.Error values alongside best-effort
// [Domain] fields; nothing in this package panics.
//
// # Concurrency
//
// All functions are pure. Layouts, views and annotations are never mutated,
// so every function is safe to call from multiple goroutines.
package spectro
