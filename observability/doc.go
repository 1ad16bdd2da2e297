// Package observability wires OpenTelemetry tracing and metrics for HTTP
// client exchanges.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("billing"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanHTTPExchange)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("billing"))
//	defer mp.Shutdown(ctx)
//
//	m, err := observability.NewMetrics(observability.Meter("billing"))
//	m.RecordExchangeEnd(ctx, observability.Exchange{Method: "GET", Host: "api", Outcome: "completed"})
package observability
