package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBeginSubsegment_WithoutTrace(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	subCtx, seg := BeginSubsegment(ctx, "UpdateFunctions")

	assert.Nil(t, seg)
	assert.Equal(t, ctx, subCtx)
	assert.NotPanics(t, func() {
		SafeAddMetadata(logger, seg, KeyFunctionNames, []string{"fn1"})
		SafeAddError(logger, seg, errors.New("boom"))
		SafeAddAnnotation(logger, subCtx, KeyRegion, "us-east-1")
		CloseSegment(seg, nil)
	})
}
