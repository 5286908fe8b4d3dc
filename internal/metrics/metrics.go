package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
)

var (
	methodKey    = attribute.Key("http.method")
	routeKey     = attribute.Key("http.route")
	statusKey    = attribute.Key("http.status_code")
	operationKey = attribute.Key("db.operation")
	outcomeKey   = attribute.Key("db.outcome")
)

// Metrics holds the service instruments.
type Metrics struct {
	completed metric.Int64Counter
	duration  metric.Float64ValueRecorder
	queries   metric.Int64Counter
}

// NewPrometheus installs a Prometheus-backed meter provider as the global
// provider and returns the scrape handler for the diagnostics router.
func NewPrometheus() (http.Handler, error) {
	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)

	exporter, err := prometheus.New(config, c)
	if err != nil {
		return nil, fmt.Errorf("initialize prometheus exporter: %w", err)
	}
	global.SetMeterProvider(exporter.MeterProvider())

	return exporter, nil
}

// New creates the instruments on the global meter for service. Without a
// provider installed they are no-ops.
func New(service string) *Metrics {
	meter := metric.Must(global.Meter(service))

	return &Metrics{
		completed: meter.NewInt64Counter(
			"http/server/completed_count",
			metric.WithDescription("Count of completed requests, by HTTP method, route and response status"),
		),
		duration: meter.NewFloat64ValueRecorder(
			"http/server/duration_ms",
			metric.WithDescription("Request duration in milliseconds, by HTTP method and route"),
		),
		queries: meter.NewInt64Counter(
			"articles/storage/query_count",
			metric.WithDescription("Count of storage statements, by operation and outcome"),
		),
	}
}

// Request records one completed HTTP request.
func (m *Metrics) Request(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	m.completed.Add(ctx, 1,
		methodKey.String(method),
		routeKey.String(route),
		statusKey.String(strconv.Itoa(status)),
	)
	m.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond),
		methodKey.String(method),
		routeKey.String(route),
	)
}

// StorageQuery records one storage statement.
func (m *Metrics) StorageQuery(ctx context.Context, op, outcome string) {
	m.queries.Add(ctx, 1, operationKey.String(op), outcomeKey.String(outcome))
}
