// Package observe provides observability primitives for the codemix
// translation service: OpenTelemetry metrics, a Prometheus exporter bridge,
// and HTTP middleware tying request handling into both.
//
// Metrics are recorded through the OpenTelemetry Metrics API and exported
// via the Prometheus bridge set up in [InitProvider] so they can be scraped
// from the standard /metrics endpoint. A package-level default [Metrics]
// instance ([DefaultMetrics]) exists for convenience; tests should build
// their own via [NewMetrics] with a private [metric.MeterProvider].
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for all codemix metrics.
const meterName = "github.com/bharatml/codemix"

// Metrics holds all OpenTelemetry metric instruments for the service.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// TranslateDuration tracks end-to-end pipeline latency per call. Use
	// with attribute.String("route", ...).
	TranslateDuration metric.Float64Histogram

	// ModelLoadDuration tracks translation model load latency. Use with
	// attribute.String("model", ...), attribute.String("status", ...).
	ModelLoadDuration metric.Float64Histogram

	// RouteDecisions counts routing outcomes. Use with
	// attribute.String("route", ...).
	RouteDecisions metric.Int64Counter

	// ProviderRequests counts external provider calls. Attributes:
	// attribute.String("kind", ...), attribute.String("status", ...).
	ProviderRequests metric.Int64Counter

	// ProviderErrors counts external provider failures by kind.
	ProviderErrors metric.Int64Counter

	// LowConfidence counts translations scored below the display threshold.
	LowConfidence metric.Int64Counter

	// HTTPRequestDuration tracks HTTP request processing time. Attributes:
	// attribute.String("method", ...), attribute.String("path", ...).
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds). Model
// loads on CPU can take tens of seconds, hence the long tail.
var latencyBuckets = []float64{
	0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

// NewMetrics creates a fully initialised [Metrics] using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.TranslateDuration, err = m.Float64Histogram("codemix.translate.duration",
		metric.WithDescription("End-to-end translation pipeline latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ModelLoadDuration, err = m.Float64Histogram("codemix.model_load.duration",
		metric.WithDescription("Translation model load latency by model and status."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.RouteDecisions, err = m.Int64Counter("codemix.route.decisions",
		metric.WithDescription("Routing outcomes by route."),
	); err != nil {
		return nil, err
	}
	if met.ProviderRequests, err = m.Int64Counter("codemix.provider.requests",
		metric.WithDescription("External provider calls by kind and status."),
	); err != nil {
		return nil, err
	}
	if met.ProviderErrors, err = m.Int64Counter("codemix.provider.errors",
		metric.WithDescription("External provider failures by kind."),
	); err != nil {
		return nil, err
	}
	if met.LowConfidence, err = m.Int64Counter("codemix.translate.low_confidence",
		metric.WithDescription("Translations scored below the low-confidence threshold."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("codemix.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it
// on first call from [otel.GetMeterProvider]. Panics if instrument creation
// fails, which cannot happen with the global provider.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordTranslate records one pipeline call with its route and duration.
func (m *Metrics) RecordTranslate(ctx context.Context, route string, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("route", route))
	m.TranslateDuration.Record(ctx, d.Seconds(), attrs)
	m.RouteDecisions.Add(ctx, 1, attrs)
}

// RecordModelLoad records one model load attempt.
func (m *Metrics) RecordModelLoad(ctx context.Context, model, status string, d time.Duration) {
	m.ModelLoadDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(
			attribute.String("model", model),
			attribute.String("status", status),
		),
	)
}

// RecordProviderRequest records one external provider call outcome.
func (m *Metrics) RecordProviderRequest(ctx context.Context, kind, status string) {
	m.ProviderRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("status", status),
		),
	)
	if status != "ok" {
		m.ProviderErrors.Add(ctx, 1,
			metric.WithAttributes(attribute.String("kind", kind)),
		)
	}
}

// RecordLowConfidence counts one translation flagged as low confidence.
func (m *Metrics) RecordLowConfidence(ctx context.Context) {
	m.LowConfidence.Add(ctx, 1)
}
