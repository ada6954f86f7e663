package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// GetRequestID returns the id chi's RequestID middleware assigned
func GetRequestID(ctx context.Context) string {
	return chiMiddleware.GetReqID(ctx)
}

// AccessLog writes one structured log line per request.
// Install it after chi's RequestID so lines carry the request id.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		// auth runs deeper in the chain, so the user id is read back from here
		var userID string
		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), accessLogKey, &userID)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}

		ev.
			Str("request_id", GetRequestID(r.Context())).
			Str("user_id", userID).
			Str("method", r.Method).
			Str("path", routePattern(r)).
			Str("remote_ip", r.RemoteAddr).
			Int("status", status).
			Int("bytes_out", ww.BytesWritten()).
			Dur("latency", time.Since(start)).
			Msg("request")
	})
}

const accessLogKey contextKey = "access_log_user"

// noteUserID lets AccessLog see the user id resolved by AuthMiddleware
func noteUserID(ctx context.Context, userID string) {
	if p, ok := ctx.Value(accessLogKey).(*string); ok {
		*p = userID
	}
}

// routePattern returns the matched chi route, or the raw path when nothing matched
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
