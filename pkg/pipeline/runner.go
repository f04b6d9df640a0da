package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/spectromap/pkg/cache"
	"github.com/matzehuels/spectromap/pkg/errors"
	"github.com/matzehuels/spectromap/pkg/observability"
	"github.com/matzehuels/spectromap/pkg/overlay"
	"github.com/matzehuels/spectromap/pkg/overlay/sink"
	"github.com/matzehuels/spectromap/pkg/spectro"
	"github.com/matzehuels/spectromap/pkg/store"
)

// Runner executes renders and edits with caching.
//
// The Runner holds no per-request state. Multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL applies to cached artifacts. Zero means cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner creates a runner. A nil keyer means DefaultKeyer, a nil cache
// disables caching and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Render formats the overlay and encodes it in every requested format.
// Cached artifacts are reused unless opts.Refresh is set.
func (r *Runner) Render(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}

	result := &Result{
		Artifacts: make(map[string][]byte, len(opts.Formats)),
		CacheInfo: CacheInfo{Hits: make(map[string]bool, len(opts.Formats))},
		Stats:     Stats{Pulses: len(opts.Pulses), Sequences: len(opts.Sequences)},
	}

	var err error
	if result.LayoutHash, err = cache.HashJSON(opts.Layout); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash layout")
	}
	if result.AnnotationsHash, err = cache.HashJSON(struct {
		P []spectro.Pulse
		S []spectro.Sequence
	}{opts.Pulses, opts.Sequences}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "hash annotations")
	}

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	err = r.render(ctx, &opts, result)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("rendered overlay",
		"formats", opts.Formats,
		"rects", result.Stats.Rects,
		"dropped", result.Stats.Dropped,
		"cached", result.CacheInfo.RenderHit,
		"duration", time.Since(start).Round(time.Millisecond))
	return result, nil
}

func (r *Runner) render(ctx context.Context, opts *Options, result *Result) error {
	keys := make(map[string]string, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(result.LayoutHash, result.AnnotationsHash, opts.ArtifactKeyOpts(format))
		keys[format] = key
		if !opts.Refresh {
			if data, hit := r.lookup(ctx, key); hit {
				result.Artifacts[format] = data
				result.CacheInfo.Hits[format] = true
				continue
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		result.CacheInfo.RenderHit = true
		return nil
	}

	layers, _ := ParseLayers(opts.Layers)
	formatStart := time.Now()
	frame, err := overlay.Format(ctx, overlay.Input{
		View:      opts.View(),
		Pulses:    opts.Pulses,
		Sequences: opts.Sequences,
		Selected:  opts.Selected,
		Layers:    layers,
	})
	if err != nil {
		return err
	}
	result.Frame = frame
	result.Stats.FormatTime = time.Since(formatStart)
	result.Stats.Rects = len(frame.Rects)
	result.Stats.Dropped = frame.Dropped
	if frame.Dropped > 0 {
		opts.Logger.Debug("dropped unrenderable annotations", "count", frame.Dropped)
	}

	// Formats render concurrently; each goroutine writes only its own slot.
	renderStart := time.Now()
	artifacts := make([][]byte, len(missing))
	g, gctx := errgroup.WithContext(ctx)
	for i, format := range missing {
		g.Go(func() error {
			sinkOpts, err := r.sinkOptions(opts, format)
			if err != nil {
				return err
			}
			data, err := sink.Render(frame, format, sinkOpts...)
			if err != nil {
				return err
			}
			artifacts[i] = data
			r.store(gctx, keys[format], data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, format := range missing {
		result.Artifacts[format] = artifacts[i]
	}
	result.Stats.RenderTime = time.Since(renderStart)
	return nil
}

func (r *Runner) sinkOptions(opts *Options, format string) ([]sink.Option, error) {
	out := []sink.Option{sink.WithStyle(opts.Style), sink.WithScale(opts.Scale)}
	if opts.Background == "" {
		return out, nil
	}
	switch format {
	case sink.FormatSVG:
		out = append(out, sink.WithBackgroundURL(opts.Background))
	case sink.FormatPNG:
		bg, err := sink.LoadBackground(opts.Background)
		if err != nil {
			return nil, err
		}
		out = append(out, sink.WithBackground(bg))
	}
	return out, nil
}

func (r *Runner) lookup(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, key)
	} else {
		observability.Cache().OnCacheMiss(ctx, key)
	}
	return data, hit
}

func (r *Runner) store(ctx context.Context, key string, data []byte) {
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLArtifact
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

// Invert normalizes an edited ring and maps it back to domain values.
// Errors are returned alongside the partially filled domain; a ring that
// spans two segments yields times of -1 and ErrCodeSpansSegments.
func (r *Runner) Invert(ctx context.Context, req EditRequest) (spectro.Domain, error) {
	view := req.View()
	start := time.Now()
	d, err := spectro.InvertRing(req.Ring, view)
	observability.Transform().OnInvert(ctx, view.Form().String(), time.Since(start), err)
	if err != nil {
		r.Logger.Debug("invert rejected", "form", view.Form(), "err", err)
	}
	return d, err
}

// EditPulse inverts ring and stores the result as the new extent of pulse
// pulseID in recording recordingID.
func (r *Runner) EditPulse(ctx context.Context, st store.Store, recordingID string, pulseID int64, ring []spectro.Point, scaledWidth, scaledHeight float64) (spectro.Pulse, error) {
	rec, err := st.Recording(ctx, recordingID)
	if err != nil {
		return spectro.Pulse{}, err
	}
	d, err := r.Invert(ctx, EditRequest{Layout: rec.Layout, ScaledWidth: scaledWidth, ScaledHeight: scaledHeight, Ring: ring})
	if err != nil {
		return spectro.Pulse{}, err
	}
	p := d.Pulse(pulseID)
	for _, old := range rec.Pulses {
		if old.ID == pulseID {
			p.Editing = old.Editing
		}
	}
	if err := st.UpdatePulse(ctx, recordingID, p); err != nil {
		return spectro.Pulse{}, err
	}
	r.Logger.Info("updated pulse", "recording", recordingID, "pulse", pulseID,
		"start", p.StartTime, "end", p.EndTime, "low", p.LowFreq, "high", p.HighFreq)
	return p, nil
}

// EditSequence inverts ring and stores its time span on sequence seqID.
// Frequency values of the ring are ignored.
func (r *Runner) EditSequence(ctx context.Context, st store.Store, recordingID string, seqID int64, ring []spectro.Point, scaledWidth, scaledHeight float64) (spectro.Sequence, error) {
	rec, err := st.Recording(ctx, recordingID)
	if err != nil {
		return spectro.Sequence{}, err
	}
	var seq *spectro.Sequence
	for i := range rec.Sequences {
		if rec.Sequences[i].ID == seqID {
			seq = &rec.Sequences[i]
		}
	}
	if seq == nil {
		return spectro.Sequence{}, errors.New(errors.ErrCodeNotFound, "sequence %d not found in recording %q", seqID, recordingID)
	}
	d, err := r.Invert(ctx, EditRequest{Layout: rec.Layout, ScaledWidth: scaledWidth, ScaledHeight: scaledHeight, Ring: ring})
	if err != nil {
		return spectro.Sequence{}, err
	}
	seq.StartTime, seq.EndTime = d.StartTime, d.EndTime
	if err := st.UpdateSequence(ctx, recordingID, *seq); err != nil {
		return spectro.Sequence{}, err
	}
	return *seq, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
