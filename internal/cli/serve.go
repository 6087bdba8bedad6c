package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/minhlq/curmap/internal/server"
	"github.com/minhlq/curmap/pkg/store"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the curriculum mapping API server",
		Long: `Serve starts the HTTP API. Datasets are created by posting CSV tables
and edited through the relation endpoints; snapshots persist to MongoDB
when configured, otherwise to process memory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if listen == "" {
				listen = cfg.Server.Listen
			}

			ctx := cmd.Context()

			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			sc, err := c.newSuggestClient(false)
			if err != nil {
				return err
			}

			srv := server.New(server.Config{
				Store:   st,
				Suggest: sc,
				Logger:  c.Logger,
			})

			httpSrv := &http.Server{
				Addr:              listen,
				Handler:           srv.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- httpSrv.ListenAndServe()
			}()

			printSuccess("API listening on %s", StyleLink.Render(listen))
			printNextStep("Create a dataset", "curl -X POST http://localhost"+listen+"/api/datasets")

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := httpSrv.Shutdown(shutdownCtx); err != nil {
					return err
				}
				c.Logger.Info("server stopped")
				return ctx.Err()
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default from config, :8080)")

	return cmd
}

// newStore opens the snapshot store: MongoDB when a URI is configured,
// otherwise process memory.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if cfg.Mongo.URI != "" {
		c.Logger.Info("connecting snapshot store", "database", cfg.Mongo.Database)
		return store.NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	}
	return store.NewMemoryStore(), nil
}
