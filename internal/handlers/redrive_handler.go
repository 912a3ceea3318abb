package handlers

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/lambdupdate/lambdupdate/internal/middleware"
	"github.com/lambdupdate/lambdupdate/internal/models"
	"github.com/lambdupdate/lambdupdate/internal/observability"
	"go.uber.org/zap"
)

// RedriveHandler re-runs notifications that ended up in the dead-letter queue.
type RedriveHandler struct {
	UpdateHandler UpdateHandler
	logger        *zap.Logger
}

func NewRedriveHandler(updateHandler UpdateHandler, logger *zap.Logger) *RedriveHandler {
	return &RedriveHandler{
		UpdateHandler: updateHandler,
		logger:        logger,
	}
}

// destinationRecord is the envelope written by an on-failure destination.
type destinationRecord struct {
	RequestPayload json.RawMessage `json:"requestPayload"`
}

// ProcessDLQEvent re-runs every message of the batch concurrently. Messages are
// independent notifications, so one failure never blocks the others.
func (rh *RedriveHandler) ProcessDLQEvent(ctx context.Context, event events.SQSEvent) (*models.BatchResult, error) {
	var wg sync.WaitGroup
	errorResults := make(chan error, len(event.Records))
	failedMessages := make(chan string, len(event.Records))

	for i, record := range event.Records {
		observability.SafeAddAnnotation(rh.logger, ctx, observability.KeyMessageID+strconv.Itoa(i), record.MessageId)

		wg.Add(1)
		go func(record events.SQSMessage) {
			defer wg.Done()

			err := rh.UpdateHandler.ProcessNotification(ctx, unwrapPayload(record.Body))
			if err != nil {
				rh.logger.Error("Redrive failed", zap.String("message_id", record.MessageId), zap.Error(err))
				errorResults <- err
				failedMessages <- record.MessageId
				return
			}

			rh.logger.Info("Redrive succeeded", zap.String("message_id", record.MessageId))
		}(record)
	}
	wg.Wait()
	close(errorResults)
	close(failedMessages)

	var failedMessageIDs []string
	for id := range failedMessages {
		failedMessageIDs = append(failedMessageIDs, id)
	}

	batchResultInput := &middleware.GetBatchResultInput{
		FailedMessageIDs: failedMessageIDs,
		Err:              middleware.MergeErrors(errorResults),
	}

	return middleware.GetBatchResult(batchResultInput, len(event.Records))
}

// unwrapPayload returns the original notification, whether the body is the
// bare payload (dead-letter queue) or a destination envelope.
func unwrapPayload(body string) json.RawMessage {
	var envelope destinationRecord
	if err := json.Unmarshal([]byte(body), &envelope); err == nil && len(envelope.RequestPayload) > 0 {
		return envelope.RequestPayload
	}
	return json.RawMessage(body)
}
