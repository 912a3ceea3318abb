package middleware

import (
	"github.com/lambdupdate/lambdupdate/internal/models"
)

type GetBatchResultInput struct {
	FailedMessageIDs []string
	Err              error
}

// GetBatchResult builds the partial batch response. The error is returned only
// when every message failed, so the whole batch is retried.
func GetBatchResult(input *GetBatchResultInput, batchSize int) (*models.BatchResult, error) {
	result := &models.BatchResult{BatchItemFailures: []models.BatchItemFailure{}}
	for _, id := range input.FailedMessageIDs {
		result.AddFailure(id)
	}

	if batchSize > 0 && len(input.FailedMessageIDs) == batchSize {
		return result, input.Err
	}

	return result, nil
}
