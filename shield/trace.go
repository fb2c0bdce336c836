package shield

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hazyhaar/domtrail/idgen"
	"github.com/hazyhaar/domtrail/kit"
)

// RequestID assigns each request an id, taken from X-Request-ID when the
// caller sent one, and stores it in the context (kit.RequestIDKey), the
// response headers and a per-request logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" || len(id) > 64 {
			id = idgen.New()
		}

		ctx := kit.WithTransport(kit.WithRequestID(r.Context(), id), "http")
		w.Header().Set("X-Request-ID", id)

		logger := slog.Default().With(
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
		)
		ctx = context.WithValue(ctx, LoggerKey, logger)
		logger.Debug("request")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
