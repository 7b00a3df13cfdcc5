package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vitistack/dnsmasq-hosts/pkg/bslog"
	"github.com/vitistack/dnsmasq-hosts/pkg/rest/response"
)

type MiddlewareFunc func(next http.HandlerFunc) http.HandlerFunc

// HandlerFunc is a handler that leaves unhandled errors to WithErrorHandling
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

type ctxKey string

const requestIDKey ctxKey = "request_id"

func Chain(mws ...MiddlewareFunc) MiddlewareFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

// RequestID returns the id assigned by WithIncomingRequestLogging
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return "N/A"
}

func WithIncomingRequestLogging(logger *slog.Logger) MiddlewareFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			parent := r.Context() // re-use request context

			id, err := uuid.NewV7()
			if err != nil {
				r = r.WithContext(context.WithValue(parent, requestIDKey, "N/A"))
			} else {
				r = r.WithContext(context.WithValue(parent, requestIDKey, id.String()))
			}

			logger.Debug("incoming request",
				slog.GroupAttrs(
					"meta_data",
					slog.String("request_id", RequestID(r.Context())),
					slog.String("method", r.Method),
					slog.String("remote_host", r.RemoteAddr),
					slog.String("route", r.URL.String()),
					slog.String("user_agent", r.UserAgent()),
				),
			)

			next.ServeHTTP(w, r)
		}
	}
}

// WithResponseLogging writes one line per response: "<METHOD> <URL> - <STATUS>"
func WithResponseLogging(logger *slog.Logger) MiddlewareFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			logger.Info(fmt.Sprintf("%s %s - %d", r.Method, r.URL.String(), sw.code),
				slog.String("request_id", RequestID(r.Context())),
			)
		}
	}
}

// Observer receives one call per finished request. route is the mux pattern
// that matched, never the raw path.
type Observer func(method, route string, code int, duration time.Duration)

const UnmatchedRoute = "unmatched"

func WithMetrics(observe Observer) MiddlewareFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)
			observe(r.Method, routeOf(r), sw.code, time.Since(start))
		}
	}
}

// routeOf returns the path part of the matched pattern, "POST /add-host" -> "/add-host"
func routeOf(r *http.Request) string {
	pattern := r.Pattern
	if _, path, ok := strings.Cut(pattern, " "); ok {
		pattern = path
	}
	if pattern == "" {
		return UnmatchedRoute
	}
	return pattern
}

// WithRecovery turns a panic into a 500 response
func WithRecovery() MiddlewareFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				bslog.Error("recovered from panic in handler",
					slog.String("request_id", RequestID(r.Context())),
					slog.Any("panic", rec),
				)
				if !sw.wroteHeader {
					_ = response.Err(sw, fmt.Errorf("internal error"))
				}
			}()
			next.ServeHTTP(sw, r)
		}
	}
}

// WithErrorHandling adapts h to http.HandlerFunc, writing any returned error
// as a response.ErrorBody.
func WithErrorHandling(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		code := response.StatusCode(err)
		logger := bslog.With(slog.String("request_id", RequestID(r.Context())))
		if code >= http.StatusInternalServerError {
			logger.Error("request failed", slog.String("reason", err.Error()))
		} else {
			logger.Warn("request rejected", slog.String("reason", err.Error()), slog.Int("code", code))
		}

		if err := response.Err(w, err); err != nil {
			logger.Error("could not write response to client", slog.String("reason", err.Error()))
		}
	}
}

type statusWriter struct {
	http.ResponseWriter
	code        int
	wroteHeader bool
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, code: http.StatusOK}
}

func (w *statusWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.code = statusCode
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
