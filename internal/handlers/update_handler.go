package handlers

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/lambdupdate/lambdupdate/internal/events"
	"github.com/lambdupdate/lambdupdate/internal/models"
	"github.com/lambdupdate/lambdupdate/internal/observability"
	"github.com/lambdupdate/lambdupdate/internal/services"
	"go.uber.org/zap"
)

type UpdateHandler interface {
	ProcessNotification(ctx context.Context, payload json.RawMessage) error
	HandleEvent(ctx context.Context, event models.NotificationEvent) error
}

type GfUpdateHandler struct {
	UpdateService    services.UpdateService
	ReportDispatcher events.ReportDispatcher
	logger           *zap.Logger
}

func NewUpdateHandler(updateService services.UpdateService, reportDispatcher events.ReportDispatcher, logger *zap.Logger) *GfUpdateHandler {
	if reportDispatcher == nil {
		reportDispatcher = events.NopReportDispatcher{}
	}
	return &GfUpdateHandler{
		UpdateService:    updateService,
		ReportDispatcher: reportDispatcher,
		logger:           logger,
	}
}

// ProcessNotification is the Lambda entry point for S3 upload notifications.
func (uh *GfUpdateHandler) ProcessNotification(ctx context.Context, payload json.RawMessage) error {
	logger := uh.logger.With(zap.String("request_id", requestID(ctx)))

	ctx, parseSeg := observability.BeginSubsegment(ctx, "ParseNotification")
	event, err := events.ParseNotification(payload)
	if err != nil {
		observability.SafeAddError(logger, parseSeg, err)
		observability.CloseSegment(parseSeg, err)
		logger.Error("Invalid notification", zap.Error(err))
		return err
	}
	observability.SafeAddMetadata(logger, parseSeg, observability.KeyEventRecordsCount, len(event.Records))
	observability.CloseSegment(parseSeg, nil)

	return uh.handle(ctx, logger, event)
}

// HandleEvent runs an already decoded event, as built by the local CLI.
func (uh *GfUpdateHandler) HandleEvent(ctx context.Context, event models.NotificationEvent) error {
	return uh.handle(ctx, uh.logger.With(zap.String("request_id", requestID(ctx))), event)
}

func (uh *GfUpdateHandler) handle(ctx context.Context, logger *zap.Logger, event models.NotificationEvent) error {
	ctx, updateSeg := observability.BeginSubsegment(ctx, "UpdateFunctions")

	objectKeys := make([]string, 0, len(event.Records))
	for _, record := range event.Records {
		objectKeys = append(objectKeys, record.BucketName+"/"+record.ObjectKey)
	}
	observability.SafeAddMetadata(logger, updateSeg, observability.KeyObjectKeys, objectKeys)
	logger.Debug("Event", zap.Strings("objects", objectKeys))

	result, err := uh.UpdateService.Update(ctx, event)

	functionNames := make([]string, 0, len(result.Outcomes))
	for _, outcome := range result.Outcomes {
		functionNames = append(functionNames, outcome.FunctionName)
	}
	observability.SafeAddMetadata(logger, updateSeg, observability.KeyFunctionNames, functionNames)
	observability.SafeAddMetadata(logger, updateSeg, observability.KeyFailedFunctions, result.FailedFunctions())
	observability.SafeAddMetadata(logger, updateSeg, observability.KeyUpdateSucceeded, err == nil)
	observability.SafeAddError(logger, updateSeg, err)
	observability.CloseSegment(updateSeg, err)

	// Nothing was dispatched when the event itself was unusable.
	if len(result.Outcomes) > 0 {
		if reportErr := uh.ReportDispatcher.DispatchUpdateReport(ctx, event, result, err); reportErr != nil {
			logger.Warn("Failed to dispatch update report", zap.Error(reportErr))
		}
	}

	if err != nil {
		logger.Error("Function update failed",
			zap.Strings("failed_functions", result.FailedFunctions()),
			zap.Error(err),
		)
		return err
	}

	logger.Info("Function update succeeded", zap.Strings("functions", functionNames))
	return nil
}

func requestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.New().String()
}
