package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/zatekoja/placeviewer"

// Metrics holds all application metrics
type Metrics struct {
	DatasetLoadCount    metric.Int64Counter
	DatasetLoadDuration metric.Float64Histogram
	DatasetPlaceCount   metric.Int64Histogram
	GeocodeRequestCount metric.Int64Counter
	GeocodeDuration     metric.Float64Histogram
	CacheHitCount       metric.Int64Counter
	CacheMissCount      metric.Int64Counter
}

// Setup initializes OpenTelemetry traces, metrics and logs with OTLP/gRPC exporters
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	// Set up trace exporter
	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	// Set up trace provider
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// Set up metric exporter
	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, errors.Join(err, tracerProvider.Shutdown(ctx))
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(time.Second)); err != nil {
		return nil, errors.Join(err, tracerProvider.Shutdown(ctx), meterProvider.Shutdown(ctx))
	}

	// Set up log exporter; zerolog events reach it through the hook
	// installed by InitLogger.
	logExporter, err := otlploggrpc.New(ctx,
		otlploggrpc.WithEndpoint(endpoint),
		otlploggrpc.WithInsecure(),
	)
	if err != nil {
		return nil, errors.Join(err, tracerProvider.Shutdown(ctx), meterProvider.Shutdown(ctx))
	}

	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)
	global.SetLoggerProvider(loggerProvider)

	// Shutdown function
	shutdown := func(ctx context.Context) error {
		return errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
			loggerProvider.Shutdown(ctx),
		)
	}

	return shutdown, nil
}

// InitMetrics initializes application metrics. Without a configured meter
// provider the instruments are no-ops.
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	loadCount, err := meter.Int64Counter(
		"placeview.dataset.load.count",
		metric.WithDescription("Number of dataset load attempts"),
	)
	if err != nil {
		return nil, err
	}

	loadDuration, err := meter.Float64Histogram(
		"placeview.dataset.load.duration",
		metric.WithDescription("Dataset parse and normalize duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	placeCount, err := meter.Int64Histogram(
		"placeview.dataset.places",
		metric.WithDescription("Number of places per loaded dataset"),
	)
	if err != nil {
		return nil, err
	}

	geocodeCount, err := meter.Int64Counter(
		"placeview.geocode.request.count",
		metric.WithDescription("Number of geocoder requests by provider and outcome"),
	)
	if err != nil {
		return nil, err
	}

	geocodeDuration, err := meter.Float64Histogram(
		"placeview.geocode.request.duration",
		metric.WithDescription("Geocoder request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheHitCount, err := meter.Int64Counter(
		"cache.hit.count",
		metric.WithDescription("Number of cache hits"),
	)
	if err != nil {
		return nil, err
	}

	cacheMissCount, err := meter.Int64Counter(
		"cache.miss.count",
		metric.WithDescription("Number of cache misses"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		DatasetLoadCount:    loadCount,
		DatasetLoadDuration: loadDuration,
		DatasetPlaceCount:   placeCount,
		GeocodeRequestCount: geocodeCount,
		GeocodeDuration:     geocodeDuration,
		CacheHitCount:       cacheHitCount,
		CacheMissCount:      cacheMissCount,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName)
}

// RecordError records an error in the current span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// SetSpanAttributes sets attributes on a span
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordDatasetLoad records one dataset load attempt
func RecordDatasetLoad(ctx context.Context, metrics *Metrics, outcome string, places int, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	metrics.DatasetLoadCount.Add(ctx, 1, attrs)
	metrics.DatasetLoadDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	if outcome == "ok" {
		metrics.DatasetPlaceCount.Record(ctx, int64(places))
	}
}

// RecordGeocodeMetric records one geocoder request
func RecordGeocodeMetric(ctx context.Context, metrics *Metrics, provider, outcome string, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("geocoder.provider", provider),
		attribute.String("outcome", outcome),
	)
	metrics.GeocodeRequestCount.Add(ctx, 1, attrs)
	metrics.GeocodeDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordCacheHit records a cache hit
func RecordCacheHit(ctx context.Context, metrics *Metrics, cacheName string) {
	if metrics == nil {
		return
	}
	metrics.CacheHitCount.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.name", cacheName)))
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(ctx context.Context, metrics *Metrics, cacheName string) {
	if metrics == nil {
		return
	}
	metrics.CacheMissCount.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.name", cacheName)))
}
