package services

import (
	"context"
	"sync"

	"github.com/lambdupdate/lambdupdate/internal/functions"
	"github.com/lambdupdate/lambdupdate/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/lambdupdate/lambdupdate/internal/services"

// UpdateDispatcher fans out one UpdateCode call per target.
type UpdateDispatcher struct {
	Updater functions.FunctionUpdater
	logger  *zap.Logger
	tracer  trace.Tracer
}

func NewUpdateDispatcher(updater functions.FunctionUpdater, logger *zap.Logger) *UpdateDispatcher {
	return &UpdateDispatcher{
		Updater: updater,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}
}

// Dispatch updates every target concurrently and waits for all of them.
// Outcomes are returned in completion order; a failure never stops the others.
func (d *UpdateDispatcher) Dispatch(ctx context.Context, targets []models.ResolvedTarget) []models.UpdateOutcome {
	var wg sync.WaitGroup
	outcomeResults := make(chan models.UpdateOutcome, len(targets))

	d.logger.Debug("Dispatching function updates", zap.Int("count", len(targets)))

	for _, target := range targets {
		wg.Add(1)
		go func(target models.ResolvedTarget) {
			defer wg.Done()
			outcomeResults <- d.update(ctx, target)
		}(target)
	}
	wg.Wait()
	close(outcomeResults)

	return channelToSlice(outcomeResults)
}

func (d *UpdateDispatcher) update(ctx context.Context, target models.ResolvedTarget) models.UpdateOutcome {
	ctx, span := d.tracer.Start(ctx, "UpdateFunctionCode", trace.WithAttributes(
		attribute.String("faas.name", target.FunctionName),
		attribute.String("aws.s3.bucket", target.SourceBucket),
		attribute.String("aws.s3.key", target.SourceKey),
	))
	defer span.End()

	fields := []zap.Field{
		zap.String("function", target.FunctionName),
		zap.String("bucket", target.SourceBucket),
		zap.String("key", target.SourceKey),
	}
	d.logger.Debug("Update Function Code", fields...)

	err := d.Updater.UpdateCode(ctx, target.FunctionName, target.SourceBucket, target.SourceKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update function code failed")
		d.logger.Error("Update Function Code Failed",
			append(fields, zap.Bool("not_found", functions.IsFunctionNotFound(err)), zap.Error(err))...)
		return models.UpdateOutcome{FunctionName: target.FunctionName, Succeeded: false, Err: err}
	}

	d.logger.Info("Update Function Code Succeeded", fields...)
	return models.UpdateOutcome{FunctionName: target.FunctionName, Succeeded: true}
}

func channelToSlice[T any](ch <-chan T) []T {
	result := []T{}
	for val := range ch {
		result = append(result, val)
	}
	return result
}
