package httpclient

import (
	"github.com/kbukum/strata/logger"
)

// LogErrorHandler logs status errors at warn level and swallows them. A nil
// log uses the global logger.
func LogErrorHandler(log *logger.Logger) ErrorHandler {
	return func(err *StatusError) error {
		l := log
		if l == nil {
			l = logger.WithComponent("httpclient")
		}
		fields := logger.Fields(
			logger.FieldStatus, err.StatusCode(),
			logger.FieldError, err.Error(),
		)
		if err.Response != nil {
			fields["url"] = err.Response.URL
			fields["body"] = truncate(err.Body(), 512)
		}
		l.Warn("http status error", fields)
		return nil
	}
}

// RaiseErrorHandler returns every status error to the caller.
func RaiseErrorHandler(err *StatusError) error { return err }

// WithErrorHandler wraps a handler into a configuration layer.
func WithErrorHandler(h ErrorHandler) *Config {
	return &Config{ErrorHandler: Set(h)}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
