package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	MetricDecisions = "sqlcache.decisions"
	MetricLines     = "sqlcache.lines"
	MetricDuration  = "sqlcache.duration"
	MetricErrors    = "sqlcache.errors"
)

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by cache runs. A nil *Metrics
// records nothing.
type Metrics struct {
	decisions metric.Int64Counter
	lines     metric.Int64Counter
	duration  metric.Float64Histogram
	errors    metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	decisions, err := meter.Int64Counter(MetricDecisions,
		metric.WithDescription("Cache runs by record or replay decision"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricDecisions, err)
	}

	lines, err := meter.Int64Counter(MetricLines,
		metric.WithDescription("Dump lines written or replayed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricLines, err)
	}

	duration, err := meter.Float64Histogram(MetricDuration,
		metric.WithDescription("Duration of cache runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricDuration, err)
	}

	errorTotal, err := meter.Int64Counter(MetricErrors,
		metric.WithDescription("Failed cache runs by stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrors, err)
	}

	return &Metrics{
		decisions: decisions,
		lines:     lines,
		duration:  duration,
		errors:    errorTotal,
	}, nil
}

// RecordRun records a completed run: its decision, line count and duration.
func (m *Metrics) RecordRun(ctx context.Context, mode string, lines int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrMode, mode))
	m.decisions.Add(ctx, 1, attrs)
	m.lines.Add(ctx, int64(lines), attrs)
	m.duration.Record(ctx, duration.Seconds(), attrs)
}

// RecordError records a failed run at the given stage.
func (m *Metrics) RecordError(ctx context.Context, mode, stage string) {
	if m == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrMode, mode),
		attribute.String(AttrStage, stage),
	))
}
