package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/natichat/natichat/pkg/logx"
)

// RequestLogger emits one structured log line per completed request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logx.L().Info().
			Str(logx.FieldRequestID, chimiddleware.GetReqID(r.Context())).
			Str(logx.FieldMethod, r.Method).
			Str(logx.FieldPath, r.URL.Path).
			Int(logx.FieldStatus, rec.status).
			Float64(logx.FieldLatency, float64(time.Since(start).Microseconds())/1000).
			Msg("request completed")
	})
}

// statusRecorder captures the response status. Hijack passes through so the
// websocket upgrade keeps working behind this middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
