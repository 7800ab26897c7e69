package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/ssgi18n/core/logger"
)

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

// Liveness indicates if the process is running.
// Always returns "ALIVE" with 200 OK. No dependency checks.
func Liveness() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ALIVE"))
	})
}

// Readiness runs every check in order. It returns "READY" when all pass and
// 503 Service Unavailable on the first failure.
//
//	mux.Handle("/__health/ready", health.Readiness(log,
//		health.FileExists("./dist/index.html"),
//		redis.Healthcheck(client),
//	))
func Readiness(log *slog.Logger, checks ...Check) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed",
					logger.Component("health"),
					logger.Error(err),
				)
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("READY"))
	})
}
