package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type CtxKey int8

const (
	CtxKeyLogger CtxKey = iota
)

// Logger puts log, tagged with the chi request id, on the request context.
func Logger(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := log
			if id := chimiddleware.GetReqID(r.Context()); id != "" {
				l = l.With("request_id", id)
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), CtxKeyLogger, l)))
		})
	}
}

// LoggerFromContext returns the request logger, or a no-op logger outside
// the Logger middleware.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	if l, ok := ctx.Value(CtxKeyLogger).(*zap.SugaredLogger); ok {
		return l
	}

	return zap.NewNop().Sugar()
}

// RequestRecorder receives one observation per completed request.
type RequestRecorder interface {
	Request(ctx context.Context, method, route string, status int, elapsed time.Duration)
}

// RequestLog logs each completed request and reports it to rec. It runs
// inside Logger so the line carries the request id.
func RequestLog(rec RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				elapsed := time.Since(start)
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				route := r.URL.Path
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					route = rctx.RoutePattern()
				}

				LoggerFromContext(r.Context()).Infow("request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"route", route,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", elapsed,
				)

				if rec != nil {
					rec.Request(r.Context(), r.Method, route, status, elapsed)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
