package httpclient

import (
	"context"
	"errors"
	"time"

	"github.com/kbukum/strata/observability"
)

// Exchange outcome labels reported to observers.
const (
	StatusCompleted = "completed"
	StatusDeclined  = "declined"
	StatusRejected  = "rejected"
	StatusFailed    = "failed"
)

// ExchangeEvent describes one finished exchange.
type ExchangeEvent struct {
	Method     Method
	Host       string
	StatusCode int
	// Status is one of StatusCompleted, StatusDeclined, StatusRejected or StatusFailed.
	Status   string
	Duration time.Duration
	Err      error
}

// Observer receives exchange lifecycle notifications.
type Observer interface {
	ExchangeStarted(ctx context.Context, method Method, host string)
	ExchangeFinished(ctx context.Context, ev ExchangeEvent)
}

type nopObserver struct{}

func (nopObserver) ExchangeStarted(context.Context, Method, string) {}
func (nopObserver) ExchangeFinished(context.Context, ExchangeEvent) {}

// Observers fans out to several observers.
type Observers []Observer

// ExchangeStarted notifies every observer.
func (o Observers) ExchangeStarted(ctx context.Context, method Method, host string) {
	for _, obs := range o {
		obs.ExchangeStarted(ctx, method, host)
	}
}

// ExchangeFinished notifies every observer.
func (o Observers) ExchangeFinished(ctx context.Context, ev ExchangeEvent) {
	for _, obs := range o {
		obs.ExchangeFinished(ctx, ev)
	}
}

// OTelObserver records exchanges on OpenTelemetry instruments.
type OTelObserver struct {
	Metrics *observability.Metrics
}

// NewOTelObserver creates an observer backed by m.
func NewOTelObserver(m *observability.Metrics) *OTelObserver {
	return &OTelObserver{Metrics: m}
}

// ExchangeStarted increments the in-flight gauge.
func (o *OTelObserver) ExchangeStarted(ctx context.Context, _ Method, _ string) {
	o.Metrics.RecordExchangeStart(ctx)
}

// ExchangeFinished records the exchange and, for failures, an error.
func (o *OTelObserver) ExchangeFinished(ctx context.Context, ev ExchangeEvent) {
	o.Metrics.RecordExchangeEnd(ctx, observability.Exchange{
		Method:     ev.Method.String(),
		Host:       ev.Host,
		Outcome:    ev.Status,
		StatusCode: ev.StatusCode,
		Duration:   ev.Duration,
	})
	switch ev.Status {
	case StatusFailed:
		o.Metrics.RecordError(ctx, ErrorType(ev.Err), ev.Host)
	case StatusRejected:
		o.Metrics.RecordError(ctx, "status", ev.Host)
	}
}

// ErrorType returns the error code name of a client error, or "unknown".
func ErrorType(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code.String()
	}
	return "unknown"
}
