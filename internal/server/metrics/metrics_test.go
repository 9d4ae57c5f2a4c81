package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAuth(t *testing.T) {
	r := NewRegistry()

	r.ObserveAuth("login", "ok")
	r.ObserveAuth("login", "ok")
	r.ObserveAuth("login", "invalid_credentials")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.AuthOps.WithLabelValues("login", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.AuthOps.WithLabelValues("login", "invalid_credentials")))
}

func TestObserveSweep(t *testing.T) {
	r := NewRegistry()

	r.ObserveSweep(3, nil)
	r.ObserveSweep(2, nil)
	r.ObserveSweep(0, errors.New("db down"))

	assert.Equal(t, 5.0, testutil.ToFloat64(r.SessionsSwept))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.SweepRuns.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.SweepRuns.WithLabelValues("error")))
}

func TestObserveHTTP(t *testing.T) {
	r := NewRegistry()
	r.ObserveHTTP(http.MethodPost, "/api/auth/login", 200, 15*time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(r.RequestDuration))
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() {
		r.ObserveAuth("login", "ok")
		r.ObserveSweep(1, nil)
		r.ObserveHTTP("GET", "/", 200, time.Second)
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.ObserveAuth("renew", "expired")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `taskkeeper_auth_operations_total{op="renew",result="expired"} 1`))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}
