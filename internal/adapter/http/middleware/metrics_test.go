package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/OwenK944/discompress/internal/infrastructure/metrics"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestCount(t *testing.T, method, path, status string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Write(&m))
	return m.GetCounter().GetValue()
}

func TestNewMetricsResponseWriter(t *testing.T) {
	rw := newMetricsResponseWriter(httptest.NewRecorder())

	assert.Equal(t, http.StatusOK, rw.statusCode)
	assert.False(t, rw.wroteHeader)
}

func TestMetricsResponseWriter_FirstStatusWins(t *testing.T) {
	rw := newMetricsResponseWriter(httptest.NewRecorder())

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusNotFound, rw.statusCode)
}

func TestMetrics_RecordsRequests(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		status   int
		wantPath string
	}{
		{name: "health", method: http.MethodGet, path: "/health", status: http.StatusOK, wantPath: "/health"},
		{name: "upload failure", method: http.MethodPost, path: "/api/upload", status: http.StatusInternalServerError, wantPath: "/api/upload"},
		{name: "unknown path collapses", method: http.MethodGet, path: "/wp-admin/setup.php", status: http.StatusNotFound, wantPath: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := tt.status
			handler := Metrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
			}))

			label := strconv.Itoa(tt.status)
			before := requestCount(t, tt.method, tt.wantPath, label)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, before+1, requestCount(t, tt.method, tt.wantPath, label))
		})
	}
}
