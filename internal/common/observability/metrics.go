package observability

import (
	"context"
	"log"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type Options struct {
	ServiceName    string
	TracingEnabled bool
	// Registerer receives the otel Prometheus exporter. Defaults to the
	// global registry so /metrics exposes both metric sets.
	Registerer promclient.Registerer
}

type Observability struct {
	meterProvider    *metric.MeterProvider
	tracerProvider   *sdktrace.TracerProvider
	tracer           trace.Tracer
	questionCounter  otelmetric.Int64Counter
	questionDuration otelmetric.Float64Histogram
}

func New(opts Options) *Observability {
	o := &Observability{tracer: noop.NewTracerProvider().Tracer(opts.ServiceName)}

	if opts.TracingEnabled {
		o.tracerProvider = sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
		otel.SetTracerProvider(o.tracerProvider)
		o.tracer = o.tracerProvider.Tracer(opts.ServiceName)
	}

	registerer := opts.Registerer
	if registerer == nil {
		registerer = promclient.DefaultRegisterer
	}
	exporter, err := prometheus.New(prometheus.WithRegisterer(registerer))
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(opts.ServiceName)

	questionCounter, _ := meter.Int64Counter(
		"questions_processed",
		otelmetric.WithDescription("Number of questions processed"),
	)

	questionDuration, _ := meter.Float64Histogram(
		"questions_duration",
		otelmetric.WithDescription("Question resolution duration"),
		otelmetric.WithUnit("ms"),
	)

	o.meterProvider = provider
	o.questionCounter = questionCounter
	o.questionDuration = questionDuration
	return o
}

// NewNoop returns an Observability that records nothing.
func NewNoop() *Observability {
	return &Observability{tracer: noop.NewTracerProvider().Tracer("noop")}
}

// StartSpan starts a span named name as a child of any span in ctx.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return noop.NewTracerProvider().Tracer("noop").Start(ctx, name)
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) TracerProvider() trace.TracerProvider {
	if o == nil || o.tracerProvider == nil {
		return noop.NewTracerProvider()
	}
	return o.tracerProvider
}

func (o *Observability) RecordQuestionProcessed(ctx context.Context, method, answerType string) {
	if o != nil && o.questionCounter != nil {
		o.questionCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("method", method),
			attribute.String("type", answerType),
		))
	}
}

func (o *Observability) RecordQuestionDuration(ctx context.Context, duration time.Duration, method string) {
	if o != nil && o.questionDuration != nil {
		o.questionDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("method", method),
		))
	}
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		o.tracerProvider.Shutdown(ctx)
	}
}
