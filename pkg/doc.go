// Package pkg provides the libraries behind spectromap.
//
// # Overview
//
// Spectromap places annotations drawn on a spectrogram (time on the x axis,
// frequency on the y axis) into the pixel space of the rendered image, and
// maps edited shapes back to time and frequency. The pkg directory is
// organized into four areas:
//
//  1. [spectro] - The transform: layouts, polygons, inversion, normalization
//  2. [overlay] - Overlay frames (rects, ticks, labels) and their sinks
//  3. [pipeline] - Cached rendering and edit orchestration
//  4. Infrastructure: [cache], [store], [config], [errors], [observability]
//
// # Data Flow
//
//	Recording (layout + pulses + sequences)
//	         ↓
//	    [spectro] polygons per annotation
//	         ↓
//	    [overlay] frame of rects, tick lines and labels
//	         ↓
//	    [overlay/sink] SVG, GeoJSON or PNG
//
// Edits run the other way: a ring drawn by the user is snapped to its
// bounding rectangle with [spectro.Normalize] and mapped back with
// [spectro.Invert].
//
// # Quick Start
//
//	layout := spectro.Layout{Width: 1000, Height: 500, EndTime: 1000, HighFreq: 500}
//	poly := spectro.Build(spectro.Pulse{StartTime: 100, EndTime: 200, LowFreq: 100, HighFreq: 200}, layout.View())
//
//	d, err := spectro.Invert(poly, layout.View())
//	// d == Domain{StartTime: 100, EndTime: 200, LowFreq: 100, HighFreq: 200}
//
// [spectro]: https://pkg.go.dev/github.com/matzehuels/spectromap/pkg/spectro
// [overlay]: https://pkg.go.dev/github.com/matzehuels/spectromap/pkg/overlay
// [overlay/sink]: https://pkg.go.dev/github.com/matzehuels/spectromap/pkg/overlay/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/spectromap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/spectromap/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/spectromap/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/spectromap/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/spectromap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/spectromap/pkg/observability
package pkg
