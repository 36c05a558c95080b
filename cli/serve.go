package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bookmymovie-cli/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local backend with sample data",
		Long:  `Starts an in-memory backend with a small movie catalog, handy for trying the client without a real deployment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := a.cfg.ServeAddr
			if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
				addr = flagAddr
			}
			return a.runServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().String("addr", "", "listen address, overrides config")
	return cmd
}

func (a *app) runServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(a.log).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	a.log.Info("backend listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
