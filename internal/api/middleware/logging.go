package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/consultora/consulting-tracker/pkg/logger"
)

// LoggingMiddleware logs incoming HTTP requests and their outcomes
type LoggingMiddleware struct {
	logger logger.Logger
}

// NewLoggingMiddleware creates a new LoggingMiddleware instance
func NewLoggingMiddleware(logger logger.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger: logger,
	}
}

// LogRequest logs each request with its status, duration and request ID
func (m *LoggingMiddleware) LogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())

		rwWithStatus := newResponseWriterWithStatus(w)
		startTime := time.Now()

		next.ServeHTTP(rwWithStatus, r)

		duration := time.Since(startTime)
		fields := map[string]interface{}{
			"request_id":  requestID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"query":       r.URL.RawQuery,
			"remote_addr": r.RemoteAddr,
			"status":      rwWithStatus.statusCode,
			"duration_ms": duration.Milliseconds(),
		}

		// Log level depends on the response status
		switch {
		case rwWithStatus.statusCode >= 500:
			m.logger.Error("Request completed with server error", nil, fields)
		case rwWithStatus.statusCode >= 400:
			m.logger.Warn("Request completed with client error", fields)
		default:
			m.logger.Info("Request completed", fields)
		}
	})
}

// responseWriterWithStatus wraps http.ResponseWriter to capture the status code
type responseWriterWithStatus struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriterWithStatus(w http.ResponseWriter) *responseWriterWithStatus {
	return &responseWriterWithStatus{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader records the status code before writing it
func (rw *responseWriterWithStatus) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Hijack passes through to the underlying ResponseWriter when supported
func (rw *responseWriterWithStatus) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("underlying ResponseWriter does not support Hijack")
}

func (rw *responseWriterWithStatus) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
