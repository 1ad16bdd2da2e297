package bootstrap

import (
	"time"

	"github.com/kbukum/strata/logger"
)

const defaultGracefulTimeout = 15 * time.Second

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout time.Duration
	telemetry       bool
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{gracefulTimeout: defaultGracefulTimeout, telemetry: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger replaces the logger built from the Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout bounds shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = d }
}

// WithoutTelemetry skips tracer and meter setup even when endpoints are
// configured.
func WithoutTelemetry() Option {
	return func(o *appOptions) { o.telemetry = false }
}
