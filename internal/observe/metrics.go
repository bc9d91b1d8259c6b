// Package observe provides application-wide observability primitives for
// Chime: OpenTelemetry metrics, tracing, and HTTP middleware tying them
// together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so metrics can be scraped
// from the standard /metrics endpoint. Tests should use [NewMetrics] with a
// private [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// meterName is the instrumentation scope name for all Chime metrics.
const meterName = "github.com/verselabs/chime"

// Metrics holds the OTel metric instruments for the rhyme service. All
// fields are safe for concurrent use.
type Metrics struct {
	// TranscribeDuration tracks one external transcriber invocation.
	TranscribeDuration metric.Float64Histogram

	// TrainDuration tracks a whole training run.
	TrainDuration metric.Float64Histogram

	// TagDuration tracks one tagging request end to end.
	TagDuration metric.Float64Histogram

	// TrainIterations counts estimation passes. Attribute:
	//   attribute.Bool("equilibrium", ...) on the final increment.
	TrainIterations metric.Int64Counter

	// PoemsIngested counts poems added to a model.
	PoemsIngested metric.Int64Counter

	// LinesTagged counts lines processed by tagging requests.
	LinesTagged metric.Int64Counter

	// ChainsDetected counts rhyme chains returned to callers.
	ChainsDetected metric.Int64Counter

	// HTTPRequestDuration tracks HTTP request processing time. Attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram boundaries (seconds). Tagging a poem is
// sub-second; training a corpus can run into minutes.
var latencyBuckets = []float64{
	0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300, 1200,
}

// NewMetrics creates a fully initialised [Metrics] using the given
// [metric.MeterProvider]. Returns an error if any instrument creation
// fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	met := &Metrics{}
	var err error

	if met.TranscribeDuration, err = m.Float64Histogram("chime.transcribe.duration",
		metric.WithDescription("Latency of one external IPA transcriber call."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TrainDuration, err = m.Float64Histogram("chime.train.duration",
		metric.WithDescription("Duration of a full training run."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TagDuration, err = m.Float64Histogram("chime.tag.duration",
		metric.WithDescription("Duration of one tagging request."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TrainIterations, err = m.Int64Counter("chime.train.iterations",
		metric.WithDescription("Training estimation passes performed."),
	); err != nil {
		return nil, err
	}
	if met.PoemsIngested, err = m.Int64Counter("chime.corpus.poems",
		metric.WithDescription("Poems ingested into models."),
	); err != nil {
		return nil, err
	}
	if met.LinesTagged, err = m.Int64Counter("chime.tag.lines",
		metric.WithDescription("Lines processed by tagging requests."),
	); err != nil {
		return nil, err
	}
	if met.ChainsDetected, err = m.Int64Counter("chime.tag.chains",
		metric.WithDescription("Rhyme chains returned to callers."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("chime.http.request.duration",
		metric.WithDescription("HTTP request processing time."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// Default returns the process-wide [Metrics] built from the global meter
// provider. Instrument creation cannot fail with the fixed names used
// here; should it anyway, no-op instruments are returned so callers never
// hold nil instruments. Tests should prefer [NewMetrics].
func Default() *Metrics {
	defaultMetricsOnce.Do(func() {
		m, err := NewMetrics(otel.GetMeterProvider())
		if err != nil {
			m, _ = NewMetrics(noop.NewMeterProvider())
		}
		defaultMetrics = m
	})
	return defaultMetrics
}
