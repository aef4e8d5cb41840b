package files_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"filevault/internal/adapters/files"
	"filevault/internal/blob"
	"filevault/internal/config"
	"filevault/internal/metrics"
)

func newMounted(t *testing.T) (config.Config, blob.Store, *http.ServeMux) {
	t.Helper()
	cfg := config.Config{
		Root:        t.TempDir(),
		PublicHost:  "http://cdn.test",
		ServePrefix: "/files",
		CacheMaxAge: time.Hour,
	}
	store, err := blob.Open(cfg, nil)
	require.NoError(t, err)

	mux := http.NewServeMux()
	files.New(cfg, nil).Mount(mux)
	return cfg, store, mux
}

func TestServesWrittenBlob(t *testing.T) {
	ctx := context.Background()
	_, store, mux := newMounted(t)

	require.NoError(t, store.Write(ctx, "users/7/avatar.png", strings.NewReader("png-bytes")))

	url, err := store.URLFor(ctx, "users/7/avatar.png")
	require.NoError(t, err)
	require.Equal(t, "http://cdn.test/files/users/7/avatar.png", url)

	ts := httptest.NewServer(mux)
	defer ts.Close()

	// fetch through the same path the public URL carries
	resp, err := ts.Client().Get(ts.URL + "/files/users/7/avatar.png")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "public, max-age=3600", resp.Header.Get("Cache-Control"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(body))

	require.GreaterOrEqual(t, testutil.CollectAndCount(metrics.RequestsTotal), 1)
}

func TestMissingBlobIs404(t *testing.T) {
	_, _, mux := newMounted(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/nope.txt", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDirectoryListingRefused(t *testing.T) {
	ctx := context.Background()
	_, store, mux := newMounted(t)

	require.NoError(t, store.Write(ctx, "dir/file.txt", strings.NewReader("x")))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/dir/", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTraversalRequestNeverServed(t *testing.T) {
	_, _, mux := newMounted(t)

	req := httptest.NewRequest(http.MethodGet, "/files/x.txt", nil)
	req.URL.Path = "/files/../secret.txt"
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.NotEqual(t, http.StatusOK, rec.Code)
}
