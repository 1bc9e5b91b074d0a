// shared/api/middleware.go
package api

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
)

// RequestIDHeader carries the per-request id, generated when the caller did not send one.
const RequestIDHeader = "X-Request-ID"

// LoggingMiddleware logs method, path, status and duration of each request.
func LoggingMiddleware(lggr logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = ksuid.New().String()
			}
			w.Header().Set(RequestIDHeader, reqID)

			lrw := &loggingResponseWriter{w: w, statusCode: http.StatusOK}
			next.ServeHTTP(lrw, r)

			lggr.Infow("request",
				"requestId", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", lrw.statusCode,
				"duration", time.Since(start),
			)
		})
	}
}

// loggingResponseWriter is a wrapper to capture the HTTP status code.
type loggingResponseWriter struct {
	w          http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) Header() http.Header {
	return lrw.w.Header()
}

func (lrw *loggingResponseWriter) Write(buf []byte) (int, error) {
	return lrw.w.Write(buf)
}

func (lrw *loggingResponseWriter) WriteHeader(statusCode int) {
	lrw.statusCode = statusCode
	lrw.w.WriteHeader(statusCode)
}

// Hijack lets the websocket upgrader take over the connection.
func (lrw *loggingResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := lrw.w.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	lrw.statusCode = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (lrw *loggingResponseWriter) Flush() {
	if f, ok := lrw.w.(http.Flusher); ok {
		f.Flush()
	}
}
