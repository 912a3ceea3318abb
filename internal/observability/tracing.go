package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/detectors/aws/ecs"
	lambdadetector "go.opentelemetry.io/contrib/detectors/aws/lambda"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// DefaultCollectorEndpoint is where the ADOT collector listens inside Lambda and ECS.
const DefaultCollectorEndpoint = "localhost:4317"

// InitTracer installs an OTLP tracer provider with the X-Ray ID generator and
// propagator. The returned function flushes and shuts it down.
func InitTracer(ctx context.Context, serviceName, serviceVersion, endpoint string, logger *zap.Logger) (func(context.Context) error, error) {
	if endpoint == "" {
		endpoint = DefaultCollectorEndpoint
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(newResource(ctx, serviceName, serviceVersion, logger)),
		sdktrace.WithIDGenerator(xray.NewIDGenerator()),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		xray.Propagator{},
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown TracerProvider: %w", err)
		}
		return nil
	}, nil
}

// newResource merges whatever the Lambda and ECS detectors find with the service identity.
func newResource(ctx context.Context, serviceName, serviceVersion string, logger *zap.Logger) *resource.Resource {
	r := resource.NewSchemaless(
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	)

	detectors := map[string]resource.Detector{
		"lambda": lambdadetector.NewResourceDetector(),
		"ecs":    ecs.NewResourceDetector(),
	}
	for name, detector := range detectors {
		detected, err := detector.Detect(ctx)
		if err != nil || detected == nil {
			logger.Debug("Resource detector found nothing", zap.String("detector", name), zap.Error(err))
			continue
		}
		merged, err := resource.Merge(detected, r)
		if err != nil {
			logger.Debug("Failed to merge detected resource", zap.String("detector", name), zap.Error(err))
			continue
		}
		r = merged
	}

	return r
}
