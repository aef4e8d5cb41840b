// Package files mounts the blob store root as a read-only, cache-controlled
// static file handler. Once mounted it serves straight from the filesystem
// without going back through the store API.
package files

import (
	"fmt"
	iofs "io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"filevault/internal/config"
	"filevault/internal/metrics"
)

// Handler serves blobs under the configured URL prefix. No write or delete
// operation is exposed over HTTP; mutation happens only through the
// in-process store API.
type Handler struct {
	root   string
	prefix string
	maxAge time.Duration
	logger *slog.Logger
}

// New builds a static file handler for cfg. A nil logger falls back to
// slog.Default.
func New(cfg config.Config, logger *slog.Logger) *Handler {
	prefix := cfg.ServePrefix
	if prefix == "" {
		prefix = config.DefaultServePrefix
	}
	maxAge := cfg.CacheMaxAge
	if maxAge <= 0 {
		maxAge = config.DefaultCacheMaxAge
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{root: cfg.Root, prefix: prefix, maxAge: maxAge, logger: logger}
}

// Mount registers the static handler on mux under the configured prefix.
// Called once at startup.
func (h *Handler) Mount(mux *http.ServeMux) {
	fileServer := http.FileServer(noListingDir{http.Dir(h.root)})
	var handler http.Handler = http.StripPrefix(h.prefix+"/", fileServer)
	handler = h.withCacheControl(handler)
	handler = promhttp.InstrumentHandlerDuration(metrics.RequestDuration,
		promhttp.InstrumentHandlerCounter(metrics.RequestsTotal, handler))
	handler = h.withRequestLog(handler)
	mux.Handle(h.prefix+"/", handler)
}

func (h *Handler) withCacheControl(next http.Handler) http.Handler {
	value := fmt.Sprintf("public, max-age=%d", int(h.maxAge.Seconds()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", value)
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		h.logger.Info("file request",
			"request_id", uuid.NewString(),
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// noListingDir wraps http.Dir and refuses directory reads, so the handler
// serves blobs without exposing an index of the whole namespace.
type noListingDir struct {
	fs http.FileSystem
}

func (d noListingDir) Open(name string) (http.File, error) {
	f, err := d.fs.Open(name)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if fi.IsDir() {
		_ = f.Close()
		// fs.ErrNotExist so the file server answers 404, not 500
		return nil, iofs.ErrNotExist
	}
	return f, nil
}
