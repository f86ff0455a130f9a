package http

import (
	"log"
	"net/http"
	"time"
)

// RequestLogger wraps a handler with one structured-ish log line per
// request: method, path, response status and latency.
func RequestLogger(next http.Handler, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Printf("request method=%s path=%s status=%d duration=%s remote=%s",
			r.Method, r.URL.Path, rec.status, time.Since(start), r.RemoteAddr)
	})
}

// statusRecorder captures the status code written downstream; handlers
// that never call WriteHeader implicitly send 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
