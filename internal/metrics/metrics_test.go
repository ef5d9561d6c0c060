package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/febamba-data/internal/normalize"
	"github.com/albapepper/febamba-data/internal/report"
)

func TestRecorder(t *testing.T) {
	t.Parallel()

	m := New()
	m.Row(2023, normalize.Kept)
	m.Row(2023, normalize.Kept)
	m.Row(2023, normalize.Unplayed)
	m.Problem(report.ParseMiss)
	m.Season("scored")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RowsTotal.WithLabelValues("2023", "kept")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RowsTotal.WithLabelValues("2023", "unplayed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProblemsTotal.WithLabelValues("ParseMiss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SeasonsTotal.WithLabelValues("scored")))
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	m := New()
	m.MarkRun("normalize", time.Unix(1700000000, 0))
	path := filepath.Join(t.TempDir(), "febamba.prom")
	require.NoError(t, m.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `febamba_last_run_timestamp_seconds{command="normalize"} 1.7e+09`)

	assert.NoError(t, m.WriteTextfile(""))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/v1/rankings/{season}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rankings/2024", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/v1/rankings/{season}", "404")))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "febamba_http_requests_total")
}
