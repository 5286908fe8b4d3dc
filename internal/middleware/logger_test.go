package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type requestRecorder struct {
	method, route string
	status        int
}

func (r *requestRecorder) Request(_ context.Context, method, route string, status int, _ time.Duration) {
	r.method, r.route, r.status = method, route, status
}

func TestRequestLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	rec := &requestRecorder{}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(Logger(zap.New(core).Sugar()))
	r.Use(RequestLog(rec))
	r.Get("/api/articles/{articleID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/articles/7", nil))

	assert.Equal(t, http.StatusTeapot, resp.Code)
	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/api/articles/{articleID}", rec.route)
	assert.Equal(t, http.StatusTeapot, rec.status)

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/articles/7", fields["path"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestLoggerFromContext_Default(t *testing.T) {
	assert.NotNil(t, LoggerFromContext(context.Background()))
}
