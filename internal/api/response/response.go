// Package response writes the API's JSON bodies and {ok:false} errors.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/orderpush/orderpush/internal/api/middleware"
	"github.com/orderpush/orderpush/internal/api/models"
)

// JSON writes data with the given status and the request's X-Request-Id.
// data is encoded before the header is sent, so an unencodable value turns
// into a 500 error response instead of a truncated body.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := middleware.GetRequestID(r.Context())

	var body []byte
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			Error(w, models.NewInternalError(requestID, "failed to encode response"))
			return
		}
		body = append(encoded, '\n')
	}

	if requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Error writes an {ok:false,error} response.
func Error(w http.ResponseWriter, problem *models.Problem) {
	problem.Write(w)
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, models.NewBadRequest(middleware.GetRequestID(r.Context()), message))
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, models.NewNotFound(middleware.GetRequestID(r.Context()), message))
}

// InternalError writes a 500 error response.
func InternalError(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, models.NewInternalError(middleware.GetRequestID(r.Context()), message))
}
