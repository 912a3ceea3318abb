package messaging

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lambdupdate/lambdupdate/internal/models"
)

// UpdateReport is the message published after an invocation finishes.
type UpdateReport struct {
	ReportID        string          `json:"reportId"`
	Succeeded       bool            `json:"succeeded"`
	Sources         []ReportSource  `json:"sources"`
	Outcomes        []ReportOutcome `json:"outcomes"`
	FailedFunctions []string        `json:"failedFunctions"`
	Error           string          `json:"error,omitempty"`
}

type ReportSource struct {
	Region string `json:"region"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type ReportOutcome struct {
	FunctionName string `json:"functionName"`
	Succeeded    bool   `json:"succeeded"`
	Error        string `json:"error,omitempty"`
}

// NewUpdateReport describes one invocation. updateErr is the invocation's error, which
// also covers records that were skipped before any update was dispatched.
func NewUpdateReport(event models.NotificationEvent, result models.AggregateResult, updateErr error) UpdateReport {
	report := UpdateReport{
		ReportID:        uuid.New().String(),
		Succeeded:       result.Succeeded && updateErr == nil,
		Sources:         make([]ReportSource, 0, len(event.Records)),
		Outcomes:        make([]ReportOutcome, 0, len(result.Outcomes)),
		FailedFunctions: result.FailedFunctions(),
	}

	if updateErr != nil {
		report.Error = updateErr.Error()
	}

	for _, record := range event.Records {
		report.Sources = append(report.Sources, ReportSource{
			Region: record.Region,
			Bucket: record.BucketName,
			Key:    record.ObjectKey,
		})
	}

	for _, outcome := range result.Outcomes {
		ro := ReportOutcome{FunctionName: outcome.FunctionName, Succeeded: outcome.Succeeded}
		if outcome.Err != nil {
			ro.Error = outcome.Err.Error()
		}
		report.Outcomes = append(report.Outcomes, ro)
	}

	return report
}

func (r UpdateReport) Status() string {
	if r.Succeeded {
		return StatusSucceeded
	}
	return StatusFailed
}

func (r UpdateReport) Subject() string {
	if r.Succeeded {
		return fmt.Sprintf("lambdupdate: %d function(s) updated", len(r.Outcomes))
	}
	if len(r.FailedFunctions) == 0 {
		return fmt.Sprintf("lambdupdate: %d function(s) updated, some records were skipped", len(r.Outcomes))
	}
	return fmt.Sprintf("lambdupdate: %d of %d function update(s) failed", len(r.FailedFunctions), len(r.Outcomes))
}
