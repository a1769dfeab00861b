package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantrypal/pantrypal/pkg/metrics"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Get("/metrics-test/users/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics-test/users/"+id, nil))
	}

	body := scrape(t)
	assert.Contains(t, body, `pantrypal_http_requests_total{method="GET",route="/metrics-test/users/{id}",status="418"} 3`)
	assert.NotContains(t, body, `route="/metrics-test/users/1"`)
}

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept", "text/plain")
	metrics.Handler()(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRoutePatternUnmatched(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, "unmatched", metrics.RoutePattern(req))
}

func TestHandlerExposesNamespace(t *testing.T) {
	metrics.SessionOp("memory", "load", "hit")

	assert.True(t, strings.Contains(scrape(t), "pantrypal_session_operations_total"))
}
