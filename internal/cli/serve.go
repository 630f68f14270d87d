package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/fabrikdev/econdag/internal/server"
	"github.com/fabrikdev/econdag/pkg/config"
	"github.com/fabrikdev/econdag/pkg/economy"
	"github.com/fabrikdev/econdag/pkg/editor"
	"github.com/fabrikdev/econdag/pkg/store"
)

// serveCommand creates the "serve" command: run the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr string
		load string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the economy HTTP API",
		Long:  `Serve runs an HTTP API over a live economy editor: read and replace the current economy, generate random economies, compute producer overviews from submitted snapshots, and save or load named economies through the configured store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ed := editor.New()
			if load != "" {
				g, err := economy.ImportFile(load)
				if err != nil {
					return err
				}
				ed.ReplaceGraph(g)
				c.Logger.Info("loaded economy", "file", load, "products", g.Len())
			}

			st, err := newStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close(context.Background())
			}

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           server.New(ed, st, cfg.Generator.Icons, c.Logger).Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("serving", "addr", cfg.Server.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
				c.Logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&load, "load", "", "economy document to load on startup")

	return cmd
}

// newStore selects the document store backend from the configuration.
func newStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "", "file":
		return store.NewFileStore(cfg.Dir)
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
