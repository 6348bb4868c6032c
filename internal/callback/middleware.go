package callback

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/logger"
)

// Logging logs method, path, status and duration of each request.
// Query strings are never logged since they carry tokens.
type Logging struct {
	logger *logger.Logger
}

func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

func (l *Logging) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if status >= http.StatusBadRequest {
			l.logger.Warn("Callback server: request failed", args...)
			return
		}
		l.logger.Info("Callback server: request completed", args...)
	})
}
