package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spectromap/internal/server"
	"github.com/matzehuels/spectromap/pkg/pipeline"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the transform and overlay API over HTTP",
		Long: `Serve the HTTP API. Recordings are read from the configured store
(file or mongo) and rendered artifacts are cached in the configured cache
(file, redis or none).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}

			b, err := openCache(ctx, cfg, c.Logger)
			if err != nil {
				return err
			}
			defer b.cache.Close()

			st, err := openStore(ctx, cfg, b, c.Logger)
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ReadTimeout)
				defer cancel()
				_ = st.Close(closeCtx)
			}()

			runner := pipeline.NewRunner(b.cache, b.keyer, c.Logger)
			runner.TTL = cfg.Cache.TTL

			srv := server.New(server.Options{
				Runner: runner,
				Store:  st,
				Logger: c.Logger,
				Render: pipeline.Options{Style: cfg.Render.Style, Scale: cfg.Render.Scale},
			})
			c.Logger.Info("starting server", "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
			err = srv.Run(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
