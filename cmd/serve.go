package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleardwell/assess-cli/internal/server"
	"github.com/cleardwell/assess-cli/internal/store"
)

// how often expired share links are swept from the store.
const shareSweepInterval = time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reports over HTTP",
	Long: `Run the HTTP API: report retrieval, reading intake and expiring
share links. Listens on server.port (default 8080).`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	builder, cat, err := newBuilder()
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := server.New(st, builder, cat, server.Options{
		ShareTTL:        time.Duration(cfg.Server.ShareTTLHours) * time.Hour,
		ShareRatePerMin: cfg.Server.ShareRatePerMin,
	})

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go sweepShareLinks(ctx, st)

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("http server listening", zap.Int("port", cfg.Server.Port))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "serve: listen")
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "serve: shutdown")
	}
	return nil
}

func sweepShareLinks(ctx context.Context, st store.Store) {
	ticker := time.NewTicker(shareSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := st.DeleteExpiredShareLinks(ctx)
			if err != nil {
				zap.L().Warn("share link sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				zap.L().Info("expired share links removed", zap.Int("count", n))
			}
		}
	}
}
