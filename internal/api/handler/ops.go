// Package handler provides HTTP handlers for the notification API.
package handler

import (
	"net/http"

	"github.com/orderpush/orderpush/internal/api/models"
	"github.com/orderpush/orderpush/internal/api/response"
	"github.com/orderpush/orderpush/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	providers *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler. providers may be nil.
func NewOpsHandler(version, buildTime string, providers *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		providers: providers,
	}
}

// HealthCheck handles GET /health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		OK:      true,
		Message: "orderpush " + h.version + " is running",
	})
}

// ProviderStatus handles GET /health/providers - circuit state per push lane.
func (h *OpsHandler) ProviderStatus(w http.ResponseWriter, r *http.Request) {
	status := models.ProvidersStatus{OK: true, Providers: []models.ProviderStatus{}}
	if h.providers == nil {
		response.JSON(w, r, http.StatusOK, status)
		return
	}

	for _, ph := range h.providers.Snapshot() {
		ps := models.ProviderStatus{
			Provider:      ph.Name,
			Status:        models.HealthStatusOK,
			CircuitState:  ph.CircuitState.String(),
			LastSuccessAt: ph.LastSuccessAt,
			LastFailureAt: ph.LastFailureAt,
		}
		switch ph.Status() {
		case resilience.StatusDown:
			ps.Status = models.HealthStatusFail
			status.OK = false
		case resilience.StatusDegraded:
			ps.Status = models.HealthStatusDegraded
		}
		if ph.LastError != "" {
			msg := ph.LastError
			ps.Message = &msg
		}
		status.Providers = append(status.Providers, ps)
	}

	response.JSON(w, r, http.StatusOK, status)
}
