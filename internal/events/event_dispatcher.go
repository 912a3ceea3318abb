package events

import (
	"context"
	"fmt"

	"github.com/lambdupdate/lambdupdate/internal/messaging"
	"github.com/lambdupdate/lambdupdate/internal/models"
	"go.uber.org/zap"
)

type ReportDispatcher interface {
	DispatchUpdateReport(ctx context.Context, event models.NotificationEvent, result models.AggregateResult, updateErr error) error
}

// GfReportDispatcher publishes update reports through SNS.
type GfReportDispatcher struct {
	SNSMessenger messaging.SNSMessenger
	logger       *zap.Logger
}

func NewGfReportDispatcher(snsMessenger messaging.SNSMessenger, logger *zap.Logger) *GfReportDispatcher {
	return &GfReportDispatcher{
		SNSMessenger: snsMessenger,
		logger:       logger,
	}
}

func (dispatcher *GfReportDispatcher) DispatchUpdateReport(ctx context.Context, event models.NotificationEvent, result models.AggregateResult, updateErr error) error {
	report := messaging.NewUpdateReport(event, result, updateErr)

	messageID, err := dispatcher.SNSMessenger.PublishUpdateReport(ctx, report)
	if err != nil {
		return fmt.Errorf("error publishing update report %s: %w", report.ReportID, err)
	}

	dispatcher.logger.Info("Update report published",
		zap.String("report_id", report.ReportID),
		zap.String("message_id", messageID),
		zap.Bool("succeeded", report.Succeeded),
	)

	return nil
}

// NopReportDispatcher is used when no report topic is configured.
type NopReportDispatcher struct{}

func (NopReportDispatcher) DispatchUpdateReport(context.Context, models.NotificationEvent, models.AggregateResult, error) error {
	return nil
}
