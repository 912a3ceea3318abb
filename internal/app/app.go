// Package app wires the update pipeline from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/lambdupdate/lambdupdate/internal/config"
	"github.com/lambdupdate/lambdupdate/internal/events"
	"github.com/lambdupdate/lambdupdate/internal/functions"
	"github.com/lambdupdate/lambdupdate/internal/handlers"
	"github.com/lambdupdate/lambdupdate/internal/messaging"
	"github.com/lambdupdate/lambdupdate/internal/services"
	"github.com/lambdupdate/lambdupdate/internal/storage"
	"go.uber.org/zap"
)

// NewUpdateHandler builds the handler shared by every entry point.
func NewUpdateHandler(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*handlers.GfUpdateHandler, error) {
	awsConf, err := config.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return newUpdateHandler(ctx, cfg, awsConf, logger)
}

func newUpdateHandler(ctx context.Context, cfg *config.Config, awsConf aws.Config, logger *zap.Logger) (*handlers.GfUpdateHandler, error) {
	var metadataFactory storage.MetadataSourceFactory
	if cfg.FetchObjectMetadata {
		metadataFactory = storage.NewS3MetadataSourceFactory(awsConf)
	}
	updateService := services.NewUpdateService(functions.NewLambdaUpdaterFactory(awsConf), metadataFactory, logger)

	reportDispatcher, err := newReportDispatcher(ctx, cfg, sns.NewFromConfig(awsConf), logger)
	if err != nil {
		return nil, err
	}

	return handlers.NewUpdateHandler(updateService, reportDispatcher, logger), nil
}

func newReportDispatcher(ctx context.Context, cfg *config.Config, snsClient messaging.SNSAPI, logger *zap.Logger) (events.ReportDispatcher, error) {
	if cfg.ReportTopicName == "" {
		return events.NopReportDispatcher{}, nil
	}

	topicArn, err := messaging.CreateTopic(ctx, snsClient, cfg.ReportTopicName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve report topic %s: %w", cfg.ReportTopicName, err)
	}

	snsMessenger := messaging.NewGfSNSMessenger(snsClient, cfg.ReportTopicName, topicArn)
	return events.NewGfReportDispatcher(snsMessenger, logger), nil
}
