package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/internal/server"
)

// newServeCmd creates the serve command running the HTTP API.
func newServeCmd(configPath *string) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the workflow HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := resolveConfig(configPath)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Server.Address = address
			}

			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := &http.Server{
				Addr:    cfg.Server.Address,
				Handler: server.New(st, server.WithLogger(logger)).Router(),
			}

			// Shut down cleanly when the command context is cancelled.
			errCh := make(chan error, 1)
			go func() {
				logger.Info("serving", "address", cfg.Server.Address, "backend", cfg.Store.Backend)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return err
				}
				return cmd.Context().Err()
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "listen address (overrides config)")
	return cmd
}
