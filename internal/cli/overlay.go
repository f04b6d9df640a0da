package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spectromap/pkg/errors"
	"github.com/matzehuels/spectromap/pkg/overlay/sink"
	"github.com/matzehuels/spectromap/pkg/pipeline"
)

// overlayOpts holds the flags of the overlay command.
type overlayOpts struct {
	output       string
	formats      string
	background   string
	selected     int64
	layers       string
	scaledWidth  float64
	scaledHeight float64
	scale        float64
	noCache      bool
	refresh      bool
}

func (c *CLI) overlayCommand() *cobra.Command {
	var opts overlayOpts
	cmd := &cobra.Command{
		Use:   "overlay <recording.json>",
		Short: "Render a recording's annotations as SVG, GeoJSON or PNG",
		Long: `Render the annotation overlay of a recording file: pulse rectangles, time
ticks with millisecond labels and species labels above each sequence.

With one format, --output names the file. With several, --output is a base
path and each format adds its own extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var selected *int64
			if cmd.Flags().Changed("selected") {
				selected = &opts.selected
			}
			return c.runOverlay(cmd, args[0], opts, selected)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (one format) or base path (several)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, png (comma-separated)")
	cmd.Flags().StringVar(&opts.background, "background", "", "spectrogram image drawn under the overlay")
	cmd.Flags().Int64Var(&opts.selected, "selected", 0, "pulse id drawn in the selection color")
	cmd.Flags().StringVar(&opts.layers, "layers", "", "layers to draw: rects, times, species (default all)")
	cmd.Flags().Float64Var(&opts.scaledWidth, "scaled-width", 0, "display width in pixels (0 = native)")
	cmd.Flags().Float64Var(&opts.scaledHeight, "scaled-height", 0, "display height in pixels (0 = native)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG pixel scale (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runOverlay(cmd *cobra.Command, path string, o overlayOpts, selected *int64) error {
	ctx := cmd.Context()
	rec, err := readRecording(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := pipeline.RecordingOptions(rec)
	opts.ScaledWidth, opts.ScaledHeight = o.scaledWidth, o.scaledHeight
	opts.Selected = selected
	opts.Layers = o.layers
	opts.Formats = parseFormats(o.formats)
	opts.Scale = o.scale
	opts.Refresh = o.refresh
	if o.background != "" {
		opts.Background = o.background
	} else if opts.Background != "" && !filepath.IsAbs(opts.Background) {
		opts.Background = filepath.Join(filepath.Dir(path), opts.Background)
	}
	c.setCLIDefaults(&opts)

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Rendering overlay...")
	spinner.Start()
	result, err := runner.Render(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("Rendered overlay")

	printSuccess("Overlay for %s", StyleValue.Render(rec.ID))
	printRenderStats(result.Stats.Pulses, result.Stats.Sequences, result.Stats.Dropped, result.CacheInfo.RenderHit)

	base := o.output
	if base == "" {
		base = strings.TrimSuffix(path, filepath.Ext(path))
		if path == "-" {
			base = appName
		}
	}
	formats := make([]string, 0, len(result.Artifacts))
	for _, f := range sink.Formats {
		if _, ok := result.Artifacts[f]; ok {
			formats = append(formats, f)
		}
	}
	for _, f := range formats {
		out := outputPath(base, f, len(formats) > 1 || o.output == "")
		if err := os.WriteFile(out, result.Artifacts[f], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", out)
		}
		printFile(out)
	}
	return nil
}

// outputPath returns base unchanged for a single explicit output, and
// base plus the format's extension otherwise.
func outputPath(base, format string, addExt bool) string {
	if !addExt {
		return base
	}
	return base + extension(format)
}

func extension(format string) string {
	if format == sink.FormatGeoJSON {
		return ".geojson"
	}
	return "." + format
}
