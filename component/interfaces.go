package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a part of the service with a start/stop lifecycle.
type Component interface {
	// Name must be unique within a Registry.
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description summarizes a component for startup output.
type Description struct {
	// Name defaults to the component's Name().
	Name string
	// Type categorizes the component, e.g. "http-client".
	Type string
	// Details is a one-line summary such as "https://api.example.com workers=5 queue=64".
	Details string
}

// Describable is optionally implemented by components.
type Describable interface {
	Describe() Description
}
