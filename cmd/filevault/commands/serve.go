package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"filevault/internal/adapters/files"
	"filevault/internal/blob"
)

// serveCmd runs the HTTP file server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve blobs read-only over HTTP",
	Long: `Serve every blob under the configured root at GET <serve_prefix>/<name>,
with a long cache lifetime on each response. Also exposes /healthz and
Prometheus metrics at /metrics. No mutation is reachable over HTTP.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := blob.Open(cfg, slog.Default())
	if err != nil {
		return err
	}
	infos, err := store.List(cmd.Context(), "")
	if err != nil {
		return err
	}
	slog.Info("store opened", "driver", store.Driver(), "root", cfg.Root, "blobs", len(infos))

	mux := http.NewServeMux()
	files.New(cfg, slog.Default()).Mount(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("serving files", "addr", cfg.ListenAddr, "prefix", cfg.ServePrefix, "cache_max_age", cfg.CacheMaxAge)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
