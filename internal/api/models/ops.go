package models

import "time"

// Health is the liveness response.
type Health struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// HealthStatus represents the health status of a provider.
type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "OK"
	HealthStatusDegraded HealthStatus = "DEGRADED"
	HealthStatusFail     HealthStatus = "FAIL"
)

// ProviderStatus represents the circuit state of one push lane.
type ProviderStatus struct {
	Provider      string       `json:"provider"`
	Status        HealthStatus `json:"status"`
	CircuitState  string       `json:"circuitState"`
	LastSuccessAt *time.Time   `json:"lastSuccessAt,omitempty"`
	LastFailureAt *time.Time   `json:"lastFailureAt,omitempty"`
	Message       *string      `json:"message,omitempty"`
}

// ProvidersStatus is the response of the provider health endpoint.
type ProvidersStatus struct {
	OK        bool             `json:"ok"`
	Providers []ProviderStatus `json:"providers"`
}
