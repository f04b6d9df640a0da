package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spectromap/pkg/buildinfo"
	"github.com/matzehuels/spectromap/pkg/config"
	"github.com/matzehuels/spectromap/pkg/overlay/sink"
	"github.com/matzehuels/spectromap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "spectromap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command results; logs go to Logger.
	Out io.Writer

	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Spectromap maps spectrogram annotations to overlay polygons",
		Long: `Spectromap converts pulse and sequence annotations on a spectrogram into
render-space polygons and back, draws annotation overlays as SVG, GeoJSON or PNG,
and serves the same transforms over HTTP.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultConfigPath()+")")

	root.AddCommand(c.polygonCommand())
	root.AddCommand(c.invertCommand())
	root.AddCommand(c.normalizeCommand())
	root.AddCommand(c.centerCommand())
	root.AddCommand(c.overlayCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and sets the log level. An explicit
// --config must exist; the default path is optional.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	path := c.configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigPath()); err == nil {
			path = config.DefaultConfigPath()
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level, err := log.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil {
		level = LogInfo
	}
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg := c.cfg
	if noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	b, err := openCache(ctx, cfg, c.Logger)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(b.cache, b.keyer, c.Logger)
	runner.TTL = cfg.Cache.TTL
	return runner, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// setCLIDefaults applies configured render defaults to opts.
func (c *CLI) setCLIDefaults(opts *pipeline.Options) {
	if opts.Style == (sink.Style{}) {
		opts.Style = c.cfg.Render.Style
	}
	if opts.Scale == 0 {
		opts.Scale = c.cfg.Render.Scale
	}
	opts.Logger = c.Logger
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
