// Package observability provides OpenTelemetry metrics and tracing for cache
// runs.
//
// Instruments are created on any metric.Meter; spans use the global tracer
// provider so they join whatever tracing the host test binary configured.
//
//	metrics, err := observability.NewMetrics(observability.Meter("sqlcache"))
//	runner, err := cache.New(manager, cache.WithMetrics(metrics))
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanRun)
//	defer span.End()
package observability
