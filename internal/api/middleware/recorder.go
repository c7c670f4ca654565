package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// statusRecorder captures the status code and body size of a response.
// Middlewares reuse an existing recorder instead of stacking wrappers.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	written     int64
	wroteHeader bool

	// caller is filled in by Auth so outer middlewares can report it.
	caller string
}

func recordResponse(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
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
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// routePattern returns the matched chi pattern, e.g. /notify/new-order, or
// "unmatched" when no route handled the request. Raw paths are never used as
// attribute values.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// setCaller records the authenticated caller on w when w is a recorder.
func setCaller(w http.ResponseWriter, caller string) {
	if rec, ok := w.(*statusRecorder); ok {
		rec.caller = caller
	}
}
