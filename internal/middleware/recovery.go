package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"counselpost/internal/httputil"
)

// Recovery turns a handler panic into a 500 response instead of tearing down
// the connection mid-generation. It runs inside the session middleware, so
// the panic log carries the browser session id for correlating with the
// review flow that triggered it.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						"error", err,
						"method", r.Method,
						"path", r.URL.Path,
						"session_id", httputil.GetSessionID(r),
						"stack", string(debug.Stack()),
					)
					httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
