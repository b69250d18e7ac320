package domain

import "context"

// HealthStatus reports dependency state for the health endpoint.
type HealthStatus struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthStatus
}
