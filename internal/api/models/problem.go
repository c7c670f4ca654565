package models

import (
	"encoding/json"
	"net/http"
)

// Problem is the error envelope of every non-2xx response:
// {"ok":false,"error":"..."}.
type Problem struct {
	OK     bool   `json:"ok"`
	Status int    `json:"-"`
	Error  string `json:"error"`

	// TraceID is the request identifier, also sent as X-Request-Id.
	TraceID string `json:"traceId,omitempty"`
}

// NewProblem creates a new Problem with the given status and message.
func NewProblem(status int, message, traceID string) *Problem {
	return &Problem{
		Status:  status,
		Error:   message,
		TraceID: traceID,
	}
}

// Write writes the Problem as JSON to the ResponseWriter.
func (p *Problem) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	if p.TraceID != "" {
		w.Header().Set("X-Request-Id", p.TraceID)
	}
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// NewBadRequest creates a 400 Bad Request problem.
func NewBadRequest(traceID, message string) *Problem {
	return NewProblem(http.StatusBadRequest, message, traceID)
}

// NewUnauthorized creates a 401 Unauthorized problem.
func NewUnauthorized(traceID, message string) *Problem {
	return NewProblem(http.StatusUnauthorized, message, traceID)
}

// NewNotFound creates a 404 Not Found problem.
func NewNotFound(traceID, message string) *Problem {
	return NewProblem(http.StatusNotFound, message, traceID)
}

// NewTooManyRequests creates a 429 Too Many Requests problem.
func NewTooManyRequests(traceID, message string) *Problem {
	return NewProblem(http.StatusTooManyRequests, message, traceID)
}

// NewInternalError creates a 500 Internal Server Error problem.
func NewInternalError(traceID, message string) *Problem {
	return NewProblem(http.StatusInternalServerError, message, traceID)
}
