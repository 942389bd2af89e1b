package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/auth"
)

type ctxKey int

const (
	logKey ctxKey = iota
	claimsKey
)

// Logger writes one access log line per request and stores a request scoped
// entry in the context for handlers to log through.
func Logger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	tracer := otel.Tracer("hotel-booking/http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			entry := log.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(ctx),
				"method":     r.Method,
				"path":       r.URL.Path,
			})
			if sc := span.SpanContext(); sc.HasTraceID() {
				entry = entry.WithField("trace_id", sc.TraceID().String())
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(context.WithValue(ctx, logKey, entry)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := logrus.Fields{
				"status":  status,
				"bytes":   ww.BytesWritten(),
				"latency": time.Since(start).String(),
			}
			if status >= http.StatusInternalServerError {
				entry.WithFields(fields).Error("request")
			} else {
				entry.WithFields(fields).Info("request")
			}
		})
	}
}

// LogEntry returns the request scoped logger set by Logger.
func LogEntry(r *http.Request) logrus.FieldLogger {
	if entry, ok := r.Context().Value(logKey).(logrus.FieldLogger); ok {
		return entry
	}
	return logrus.StandardLogger()
}

// CORS allows the configured browser origins.
func CORS(origins []string) func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.AllowCredentials(),
	)
}

// Authenticate requires a valid bearer token and stores its claims in the
// request context.
func Authenticate(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			claims, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				LogEntry(r).WithError(err).Debug("rejected token")
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// Authorize requires the authenticated caller's roles to grant act on obj.
// It must run after Authenticate.
func Authorize(policy *auth.Policy, obj, act string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			allowed, err := policy.Allowed(claims.Roles, obj, act)
			if err != nil {
				LogEntry(r).WithError(err).Error("policy check failed")
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if !allowed {
				writeError(w, http.StatusForbidden, "you do not have permission to perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFrom returns the claims stored by Authenticate.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// selfOrAllowed reports whether the caller owns email or holds a role that
// grants act on obj.
func selfOrAllowed(r *http.Request, policy *auth.Policy, email, obj, act string) (bool, error) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		return false, nil
	}
	if strings.EqualFold(claims.Email(), strings.TrimSpace(email)) {
		return true, nil
	}
	return policy.Allowed(claims.Roles, obj, act)
}
