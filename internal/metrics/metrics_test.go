package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsManager(t *testing.T) {
	m := NewMetricsManager("devcamper")

	m.RequestsTotal.WithLabelValues("GET", "/api/v1/bootcamps", "200").Inc()
	m.EventsPublished.WithLabelValues("bootcamp.created", "ok").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/v1/bootcamps", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("bootcamp.created", "ok")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "devcamper_http_requests_total")
	assert.Contains(t, string(body), "go_goroutines")
}
