package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/lambdupdate/lambdupdate/internal/app"
	"github.com/lambdupdate/lambdupdate/internal/config"
	"github.com/lambdupdate/lambdupdate/internal/logging"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda/xrayconfig"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()
	cfg := config.NewConfig()

	logger, err := logging.NewLogger(cfg.LogVerbosity)
	if err != nil {
		log.Fatalf("Failed to build logger: %s\n", err)
	}
	defer logger.Sync() //nolint:errcheck
	cfg.Log(logger)

	updateHandler, err := app.NewUpdateHandler(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize update handler", zap.Error(err))
	}

	tp, err := xrayconfig.NewTracerProvider(ctx)
	if err != nil {
		logger.Fatal("Failed to initialize OpenTelemetry tracer provider", zap.Error(err))
	}
	defer func(ctx context.Context) {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Failed to shut down OpenTelemetry tracer provider", zap.Error(err))
		}
	}(ctx)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(xray.Propagator{})

	lambda.Start(otellambda.InstrumentHandler(updateHandler.ProcessNotification, xrayconfig.WithRecommendedOptions(tp)...))
}
