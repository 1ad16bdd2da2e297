// Package logger provides structured logging for strata using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("httpclient")
//	log.Info("exchange finished", logger.Fields(logger.FieldHost, "api", logger.FieldStatus, 200))
package logger
