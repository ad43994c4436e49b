package plugin

import "context"

// Health states reported by modules.
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// HealthStatus is a module's self-reported condition.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker is implemented by modules that report their own health.
// Modules without it are assumed healthy.
type HealthChecker interface {
	Health(ctx context.Context) HealthStatus
}

// Validator is implemented by modules that check their config after Init.
// A validation error aborts InitAll like an Init error.
type Validator interface {
	ValidateConfig() error
}
