package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/spectromap/pkg/errors"
	"github.com/matzehuels/spectromap/pkg/pipeline"
	"github.com/matzehuels/spectromap/pkg/spectro"
)

// viewFlags are the display-size flags shared by the transform commands.
type viewFlags struct {
	scaledWidth  float64
	scaledHeight float64
	json         bool
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.scaledWidth, "scaled-width", 0, "display width in pixels (0 = native)")
	cmd.Flags().Float64Var(&f.scaledHeight, "scaled-height", 0, "display height in pixels (0 = native)")
	cmd.Flags().BoolVar(&f.json, "json", false, "print JSON instead of a summary")
}

func (c *CLI) polygonCommand() *cobra.Command {
	var (
		flags    viewFlags
		kind     string
		sequence bool
	)
	cmd := &cobra.Command{
		Use:   "polygon <layout.json> <annotation.json>",
		Short: "Map an annotation to its render-space polygon",
		Long: `Map a pulse or sequence annotation to the closed five-vertex ring used by the
overlay renderer. Annotations that cannot be placed in the layout yield the
(-1,-1) sentinel polygon. Use "-" to read either file from stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := readLayout(args[0])
			if err != nil {
				return err
			}
			a, err := readAnnotation(args[1], kind)
			if err != nil {
				return err
			}
			var opts []spectro.BuildOption
			if sequence {
				opts = append(opts, spectro.WithBand(spectro.SequenceBand))
			}
			view := layout.Scaled(flags.scaledWidth, flags.scaledHeight)
			p := spectro.Build(a, view, opts...)
			c.Logger.Debug("built polygon", "kind", a.Kind(), "form", layout.Form(), "sentinel", p.IsSentinel())
			if flags.json {
				return writeJSON(c.Out, p)
			}
			printPolygon(p)
			if p.IsSentinel() && layout.Form() == spectro.FormSegmented {
				if _, err := view.Axis().Locate(a.Span()); err != nil {
					printDetail("%s", errors.UserMessage(err))
				}
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&kind, "kind", "k", "pulse", "annotation kind: pulse or sequence")
	cmd.Flags().BoolVar(&sequence, "display-band", false, "place sequences in the overlay display band")
	return cmd
}

func (c *CLI) invertCommand() *cobra.Command {
	var flags viewFlags
	cmd := &cobra.Command{
		Use:   "invert <layout.json> <polygon.json>",
		Short: "Map an edited polygon back to time and frequency",
		Long: `Normalize an edited ring to its bounding rectangle and map it back to
start/end time (ms) and low/high frequency (Hz). The polygon may be a GeoJSON
Feature, a Polygon geometry or a bare array of positions.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := readLayout(args[0])
			if err != nil {
				return err
			}
			ring, err := readRing(args[1])
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(nil, nil, c.Logger)
			d, err := runner.Invert(cmd.Context(), pipeline.EditRequest{
				Layout:       layout,
				ScaledWidth:  flags.scaledWidth,
				ScaledHeight: flags.scaledHeight,
				Ring:         ring,
			})
			if errors.Is(err, errors.ErrCodeSpansSegments) {
				printWarning("polygon spans two segments; times are unset")
			}
			if flags.json {
				if werr := writeJSON(c.Out, d); werr != nil {
					return werr
				}
			} else if err == nil || errors.Is(err, errors.ErrCodeSpansSegments) {
				printDomain(d)
			}
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) normalizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize <ring.json>",
		Short: "Snap a free-form ring to its canonical bounding rectangle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ring, err := readRing(args[0])
			if err != nil {
				return err
			}
			p, err := spectro.Normalize(ring)
			if err != nil {
				return err
			}
			return writeJSON(c.Out, p)
		},
	}
	return cmd
}

func (c *CLI) centerCommand() *cobra.Command {
	var (
		flags viewFlags
		kind  string
	)
	cmd := &cobra.Command{
		Use:   "center <layout.json> <annotation.json>",
		Short: "Print the centroid of an annotation's polygon",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := readLayout(args[0])
			if err != nil {
				return err
			}
			a, err := readAnnotation(args[1], kind)
			if err != nil {
				return err
			}
			pt, err := spectro.Center(a, layout.Scaled(flags.scaledWidth, flags.scaledHeight))
			if err != nil {
				return err
			}
			if flags.json {
				return writeJSON(c.Out, pt)
			}
			printKeyValue("center", formatPoint(pt))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&kind, "kind", "k", "pulse", "annotation kind: pulse or sequence")
	return cmd
}
