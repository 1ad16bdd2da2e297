package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/strata/logger"
	"github.com/kbukum/strata/observability"
)

// Environments accepted by ServiceConfig.
var Environments = []string{"development", "staging", "production"}

// ServiceConfig holds the fields every strata service shares. Embed it with
// mapstructure:",squash" to extend it.
type ServiceConfig struct {
	Name        string                     `yaml:"name" mapstructure:"name"`
	Environment string                     `yaml:"environment" mapstructure:"environment"`
	Version     string                     `yaml:"version" mapstructure:"version"`
	Debug       bool                       `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config              `yaml:"logging" mapstructure:"logging"`
	Tracing     observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics     observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// GetServiceConfig returns c. It is promoted through embedding.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults fills in the environment and propagates the service identity
// into the logging and telemetry sections.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()

	c.Tracing.ServiceName = or(c.Tracing.ServiceName, c.Name)
	c.Tracing.ServiceVersion = or(c.Tracing.ServiceVersion, c.Version)
	c.Tracing.Environment = or(c.Tracing.Environment, c.Environment)
	c.Metrics.ServiceName = or(c.Metrics.ServiceName, c.Name)
	c.Metrics.ServiceVersion = or(c.Metrics.ServiceVersion, c.Version)
	c.Metrics.Environment = or(c.Metrics.Environment, c.Environment)
}

// Validate checks the shared fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if !slices.Contains(Environments, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", Environments, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("config.tracing.sample_rate must be within [0, 1] (got: %g)", c.Tracing.SampleRate)
	}
	return nil
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
