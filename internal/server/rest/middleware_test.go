package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_Generated(t *testing.T) {
	h := newHarness()
	rec := h.do(t, http.MethodGet, "/health", "", nil)

	id := rec.Header().Get(common.RequestIDHeaderName)
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "generated id %q must be a uuid", id)
}

func TestRequestID_PreservedWhenValid(t *testing.T) {
	s := newHarness().server()
	want := uuid.New().String()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(common.RequestIDHeaderName, want)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, want, rec.Header().Get(common.RequestIDHeaderName))
}

func TestRequestID_ReplacedWhenInvalid(t *testing.T) {
	s := newHarness().server()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(common.RequestIDHeaderName, "not-a-uuid")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	got := rec.Header().Get(common.RequestIDHeaderName)
	assert.NotEqual(t, "not-a-uuid", got)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
}

func TestRequestID_VisibleToHandlers(t *testing.T) {
	s := newHarness().server()

	var seen string
	h := s.requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, rec.Header().Get(common.RequestIDHeaderName), seen)
}

func TestRecovery(t *testing.T) {
	s := newHarness().server()
	h := s.recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", messageOf(t, rec))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.panicRecoveries))
}

func TestMetrics_LabelledByRouteTemplate(t *testing.T) {
	h := newHarness()
	s := h.server()
	handler := s.Handler()

	doWith(t, handler, http.MethodDelete, "/logout", goodToken, nil)
	doWith(t, handler, http.MethodDelete, "/logout", "", nil)
	doWith(t, handler, http.MethodGet, "/recipes/1", "", nil)
	doWith(t, handler, http.MethodGet, "/recipes/2", "", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requestsTotal.WithLabelValues("DELETE", "/logout", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requestsTotal.WithLabelValues("DELETE", "/logout", "401")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.requestsTotal.WithLabelValues("GET", "/recipes/{id:[0-9]+}", "401")))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.metrics.requestsInFlight))
}

func TestResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)
	require.Equal(t, http.StatusOK, rw.Status())

	rw.WriteHeader(http.StatusTeapot)
	rw.WriteHeader(http.StatusInternalServerError)
	_, _ = rw.Write([]byte("x"))

	assert.Equal(t, http.StatusTeapot, rw.Status())
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
