// Package pipeline renders annotation overlays and applies polygon edits.
//
// This package is shared by the CLI and the HTTP server so both produce the
// same artifacts for the same inputs and share one cache layout.
//
// # Architecture
//
// Rendering has two stages:
//
//  1. Format: map annotations to render-space polygons, ticks and labels
//     ([overlay.Format])
//  2. Render: encode the frame in each requested format ([sink.Render])
//
// Artifacts are cached by the hash of the layout, the hash of the
// annotations and the render options. Edits run the other way: a ring drawn
// by the user is normalized and inverted back to domain values.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Render(ctx, pipeline.Options{
//	    Layout:  rec.Layout,
//	    Pulses:  rec.Pulses,
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
//
//	domain, err := runner.Invert(ctx, pipeline.EditRequest{Layout: rec.Layout, Ring: ring})
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spectromap/pkg/cache"
	"github.com/matzehuels/spectromap/pkg/errors"
	"github.com/matzehuels/spectromap/pkg/overlay"
	"github.com/matzehuels/spectromap/pkg/overlay/sink"
	"github.com/matzehuels/spectromap/pkg/spectro"
	"github.com/matzehuels/spectromap/pkg/store"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultScale is the PNG pixel scale.
	DefaultScale = 1.0

	// MaxScale bounds the PNG pixel scale.
	MaxScale = 8.0
)

// Layer names accepted by [ParseLayers].
const (
	LayerRects   = "rects"
	LayerTimes   = "times"
	LayerSpecies = "species"
)

// =============================================================================
// Options - Render Configuration
// =============================================================================

// Options configures one render.
type Options struct {
	Layout       spectro.Layout     `json:"layout"`
	ScaledWidth  float64            `json:"scaled_width,omitempty"`
	ScaledHeight float64            `json:"scaled_height,omitempty"`
	Pulses       []spectro.Pulse    `json:"pulses,omitempty"`
	Sequences    []spectro.Sequence `json:"sequences,omitempty"`
	Selected     *int64             `json:"selected,omitempty"`
	Layers       string             `json:"layers,omitempty"` // comma-separated; empty means all

	Formats    []string   `json:"formats,omitempty"`
	Style      sink.Style `json:"style,omitzero"`
	Scale      float64    `json:"scale,omitempty"`
	Background string     `json:"background,omitempty"` // image path drawn under PNG output
	Refresh    bool       `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// RecordingOptions returns render options for a stored recording.
func RecordingOptions(r store.Recording) Options {
	return Options{
		Layout:     r.Layout,
		Pulses:     r.Pulses,
		Sequences:  r.Sequences,
		Background: r.Background,
	}
}

// View returns the layout at the requested display size.
func (o *Options) View() spectro.View {
	return o.Layout.Scaled(o.ScaledWidth, o.ScaledHeight)
}

// ValidateAndSetDefaults checks the options and fills defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	if o.Layout.Form() == spectro.FormUnrecognized {
		return errors.New(errors.ErrCodeUnrecognizedLayout, spectro.UnrecognizedLayoutMessage)
	}
	if err := errors.ValidateFinite([]string{"scaled_width", "scaled_height"}, o.ScaledWidth, o.ScaledHeight); err != nil {
		return err
	}
	if o.ScaledWidth < 0 || o.ScaledHeight < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scaled size cannot be negative")
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{sink.FormatSVG}
	}
	for i, f := range o.Formats {
		norm, err := sink.ParseFormat(f)
		if err != nil {
			return err
		}
		o.Formats[i] = norm
	}
	o.Formats = slices.Compact(o.Formats)

	if _, err := ParseLayers(o.Layers); err != nil {
		return err
	}
	if o.Style == (sink.Style{}) {
		o.Style = sink.DefaultStyle
	}
	if err := o.Style.Validate(); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if !(o.Scale > 0 && o.Scale <= MaxScale) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %v], got %v", MaxScale, o.Scale)
	}
	if o.Background != "" {
		if err := errors.ValidatePath(o.Background); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	styleHash, _ := cache.HashJSON(o.Style)
	opts := cache.ArtifactKeyOpts{
		Format:       format,
		ScaledWidth:  o.ScaledWidth,
		ScaledHeight: o.ScaledHeight,
		Selected:     o.Selected,
		Layers:       o.Layers,
		Style:        styleHash,
	}
	switch format {
	case sink.FormatPNG:
		opts.Scale = o.Scale
		opts.Background = o.Background
	case sink.FormatSVG:
		opts.Background = o.Background
	}
	return opts
}

// ParseLayers parses a comma-separated layer list. Empty means all layers.
func ParseLayers(s string) (overlay.Layers, error) {
	if strings.TrimSpace(s) == "" {
		return overlay.AllLayers, nil
	}
	var l overlay.Layers
	for _, name := range strings.Split(s, ",") {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case LayerRects:
			l.Rects = true
		case LayerTimes:
			l.Times = true
		case LayerSpecies:
			l.Species = true
		default:
			return overlay.Layers{}, errors.New(errors.ErrCodeInvalidInput, "unknown layer %q (want rects, times or species)", name)
		}
	}
	return l, nil
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a render.
type Result struct {
	// Frame is the formatted overlay. It is zero when every artifact came
	// from the cache.
	Frame overlay.Frame

	// LayoutHash and AnnotationsHash are the content hashes used in cache keys.
	LayoutHash      string
	AnnotationsHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains render statistics.
type Stats struct {
	Pulses     int
	Sequences  int
	Rects      int
	Dropped    int // annotations mapped to the sentinel or NaN
	FormatTime time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which artifacts came from the cache.
type CacheInfo struct {
	RenderHit bool            // every artifact was cached
	Hits      map[string]bool // per format
}

// EditRequest is a polygon edited in render space.
type EditRequest struct {
	Layout       spectro.Layout  `json:"layout"`
	ScaledWidth  float64         `json:"scaled_width,omitempty"`
	ScaledHeight float64         `json:"scaled_height,omitempty"`
	Ring         []spectro.Point `json:"ring"`
}

// View returns the layout at the requested display size.
func (e EditRequest) View() spectro.View {
	return e.Layout.Scaled(e.ScaledWidth, e.ScaledHeight)
}
