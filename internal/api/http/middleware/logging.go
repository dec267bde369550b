package middleware

import (
	"net/http"

	"github.com/felixge/httpsnoop"

	"github.com/dtroode/gophkeeper-session/internal/logger"
)

// Logging logs every HTTP request with its status and duration.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle wraps next.
func (l *Logging) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l.logger.Debug("HTTP request started",
			"method", r.Method,
			"path", r.URL.Path)

		metrics := httpsnoop.CaptureMetrics(next, w, r)

		l.logger.Info("HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", metrics.Code,
			"duration_ms", metrics.Duration.Milliseconds(),
			"bytes", metrics.Written)

		if metrics.Code >= http.StatusInternalServerError {
			l.logger.Error("HTTP request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", metrics.Code)
		}
	})
}
