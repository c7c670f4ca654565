package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orderpush/orderpush/internal/api/middleware"
	"github.com/orderpush/orderpush/internal/api/models"
	"github.com/orderpush/orderpush/internal/api/response"
)

// serve runs write behind the RequestID middleware with the given inbound ID.
func serve(inboundID string, write func(http.ResponseWriter, *http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/notify/new-order", http.NoBody)
	if inboundID != "" {
		req.Header.Set("X-Request-Id", inboundID)
	}
	rec := httptest.NewRecorder()
	middleware.RequestID(http.HandlerFunc(write)).ServeHTTP(rec, req)
	return rec
}

func TestJSON_WritesCountsBody(t *testing.T) {
	rec := serve("req-abc", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, models.NotifyResponse{
			OK:     true,
			Counts: models.Counts{Admin: 2, Owner: 1},
		})
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", got)
	}
	if got := rec.Header().Get("X-Request-Id"); got != "req-abc" {
		t.Errorf("expected X-Request-Id req-abc, got %q", got)
	}

	want := `{"ok":true,"counts":{"admin":2,"owner":1,"customer":0}}` + "\n"
	if rec.Body.String() != want {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestJSON_WithoutRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	rec := httptest.NewRecorder()

	response.JSON(rec, req, http.StatusOK, models.Health{OK: true, Message: "up"})

	if got := rec.Header().Get("X-Request-Id"); got != "" {
		t.Errorf("expected no X-Request-Id header, got %q", got)
	}
}

func TestJSON_NilData(t *testing.T) {
	rec := serve("", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusNoContent, nil)
	})

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

func TestJSON_UnencodableData(t *testing.T) {
	rec := serve("req-bad", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]any{"ch": make(chan int)})
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var problem models.Problem
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if problem.Error != "failed to encode response" || problem.TraceID != "req-bad" {
		t.Errorf("unexpected problem %+v", problem)
	}
}

func TestErrorHelpers_WriteOKFalseEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		write   func(http.ResponseWriter, *http.Request)
		status  int
		message string
	}{
		{"bad request", func(w http.ResponseWriter, r *http.Request) { response.BadRequest(w, r, "orderId is required") }, http.StatusBadRequest, "orderId is required"},
		{"not found", func(w http.ResponseWriter, r *http.Request) { response.NotFound(w, r, "order not found") }, http.StatusNotFound, "order not found"},
		{"internal", func(w http.ResponseWriter, r *http.Request) { response.InternalError(w, r, "boom") }, http.StatusInternalServerError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve("req-err", tt.write)

			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}

			var problem models.Problem
			if err := json.NewDecoder(rec.Body).Decode(&problem); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if problem.OK {
				t.Error("expected ok to be false")
			}
			if problem.Error != tt.message {
				t.Errorf("expected error %q, got %q", tt.message, problem.Error)
			}
			if problem.TraceID != "req-err" {
				t.Errorf("expected traceId req-err, got %q", problem.TraceID)
			}
		})
	}
}
