package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/huddle/pkg/logger"
	"github.com/okian/huddle/pkg/metrics"
)

// errorCodes mirrors the codes writeError puts in error bodies.
var errorCodes = map[int]string{ //nolint:gochecknoglobals // immutable lookup table
	http.StatusBadRequest:            "bad_request",
	http.StatusNotFound:              "not_found",
	http.StatusMethodNotAllowed:      "method_not_allowed",
	http.StatusConflict:              "conflict",
	http.StatusRequestEntityTooLarge: "too_large",
	http.StatusTooManyRequests:       "backpressure",
	http.StatusServiceUnavailable:    "unavailable",
}

// MetricsMiddleware records request count, latency in milliseconds and
// error codes per endpoint. 5xx responses other than 503 are logged and
// counted against the http component.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		code := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, millis(elapsed))

		if rec.status < http.StatusBadRequest {
			return
		}
		name := errorCode(rec.status)
		metrics.RecordErrorByEndpoint(endpoint, r.Method, name)
		if rec.status >= http.StatusInternalServerError && rec.status != http.StatusServiceUnavailable {
			metrics.RecordErrorByComponent("http", name)
			logger.Get().Named("http").Error(r.Context(), "request failed",
				logger.String("endpoint", endpoint),
				logger.String("method", r.Method),
				logger.Int("status", rec.status),
				logger.Duration("elapsed", elapsed),
			)
		}
	}
}

// millis converts d to fractional milliseconds.
func millis(d time.Duration) float64 {
	return d.Seconds() * 1000
}

func errorCode(status int) string {
	if name, ok := errorCodes[status]; ok {
		return name
	}
	if status >= http.StatusInternalServerError {
		return "internal_error"
	}
	return "client_error"
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b) //nolint:wrapcheck // passthrough
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
