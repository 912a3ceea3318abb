package observability

import (
	"context"

	"github.com/aws/aws-xray-sdk-go/xray"
	"go.uber.org/zap"
)

// Segment metadata keys
const (
	KeyEventRecordsCount = "EventRecordsCount"
	KeyRegion            = "Region"
	KeyObjectKeys        = "ObjectKeys"
	KeyFunctionNames     = "FunctionNames"
	KeyFailedFunctions   = "FailedFunctions"
	KeyUpdateSucceeded   = "UpdateSucceeded"
	KeyMessageID         = "MessageID-"
)

// SafeAddMetadata adds metadata to an X-Ray segment, tolerating a nil segment.
func SafeAddMetadata(logger *zap.Logger, seg *xray.Segment, key string, value interface{}) {
	if seg == nil {
		return
	}
	if err := seg.AddMetadata(key, value); err != nil {
		logger.Debug("Failed to add segment metadata", zap.String("key", key), zap.Error(err))
	}
}

// SafeAddError records err on an X-Ray segment, tolerating a nil segment.
func SafeAddError(logger *zap.Logger, seg *xray.Segment, err error) {
	if seg == nil || err == nil {
		return
	}
	if addErr := seg.AddError(err); addErr != nil {
		logger.Debug("Failed to add error to segment", zap.Error(addErr))
	}
}

func SafeAddAnnotation(logger *zap.Logger, ctx context.Context, key string, value string) {
	if !tracingAvailable(ctx) {
		return
	}
	if err := xray.AddAnnotation(ctx, key, value); err != nil {
		logger.Debug("Failed to add annotation", zap.String("key", key), zap.Error(err))
	}
}

// BeginSubsegment starts a subsegment when ctx carries a segment or a Lambda
// trace header; otherwise it returns ctx unchanged and a nil segment.
func BeginSubsegment(ctx context.Context, name string) (context.Context, *xray.Segment) {
	if !tracingAvailable(ctx) {
		return ctx, nil
	}
	return xray.BeginSubsegment(ctx, name)
}

func tracingAvailable(ctx context.Context) bool {
	return xray.GetSegment(ctx) != nil || ctx.Value(xray.LambdaTraceHeaderKey) != nil
}

func CloseSegment(seg *xray.Segment, err error) {
	if seg == nil {
		return
	}
	seg.Close(err)
}
