package middleware

import (
	"errors"

	"github.com/lambdupdate/lambdupdate/internal/models"
)

func MergeErrors(errCh <-chan error) error {
	result := []error{}
	for err := range errCh {
		result = append(result, err)
	}

	return errors.Join(result...)
}

// AggregateOutcomes folds update outcomes into one result. The returned error is
// an *models.UpdateFailedError naming every failed function, or nil.
func AggregateOutcomes(outcomes []models.UpdateOutcome) (models.AggregateResult, error) {
	result := models.AggregateResult{
		Outcomes:  outcomes,
		Succeeded: true,
	}

	var failures []models.FunctionFailure
	for _, outcome := range outcomes {
		if outcome.Succeeded {
			continue
		}
		result.Succeeded = false

		err := outcome.Err
		if err == nil {
			err = errors.New("update failed")
		}
		failures = append(failures, models.FunctionFailure{FunctionName: outcome.FunctionName, Err: err})
	}

	if len(failures) > 0 {
		return result, &models.UpdateFailedError{Failures: failures}
	}

	return result, nil
}
