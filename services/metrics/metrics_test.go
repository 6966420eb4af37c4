package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/users", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/users", http.StatusOK, 10*time.Millisecond)
	m.ObserveTransition("approved", nil)
	m.ObserveTransition("approved", errors.New("conflict"))
	m.ObservePaymentIntent(nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/users", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("approved", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("approved", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.paymentIntents.WithLabelValues("ok")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "studyplatform_http_requests_total")
	assert.Contains(t, string(body), "studyplatform_session_transitions_total")
}
