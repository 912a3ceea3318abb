package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lambdupdate/lambdupdate/internal/events"
	"github.com/lambdupdate/lambdupdate/internal/functions"
	"github.com/lambdupdate/lambdupdate/internal/middleware"
	"github.com/lambdupdate/lambdupdate/internal/models"
	"github.com/lambdupdate/lambdupdate/internal/resolver"
	"github.com/lambdupdate/lambdupdate/internal/storage"
	"go.uber.org/zap"
)

type UpdateService interface {
	Update(ctx context.Context, event models.NotificationEvent) (models.AggregateResult, error)
}

// GfUpdateService runs the update pipeline for one notification event.
type GfUpdateService struct {
	UpdaterFactory  functions.UpdaterFactory
	MetadataFactory storage.MetadataSourceFactory
	logger          *zap.Logger
}

// NewUpdateService wires the pipeline. metadataFactory may be nil, in which case
// records without inline metadata are resolved from their object key.
func NewUpdateService(updaterFactory functions.UpdaterFactory, metadataFactory storage.MetadataSourceFactory, logger *zap.Logger) *GfUpdateService {
	return &GfUpdateService{
		UpdaterFactory:  updaterFactory,
		MetadataFactory: metadataFactory,
		logger:          logger,
	}
}

func (s *GfUpdateService) Update(ctx context.Context, event models.NotificationEvent) (models.AggregateResult, error) {
	region, err := events.ExtractRegion(event)
	if err != nil {
		return models.AggregateResult{}, err
	}

	logger := s.logger.With(zap.String("region", region))
	for _, i := range events.MismatchedRegions(event, region) {
		logger.Warn("Record region differs from batch region, updating with batch region client",
			zap.Int("record", i),
			zap.String("record_region", event.Records[i].Region),
		)
	}

	updater, err := s.UpdaterFactory(ctx, region)
	if err != nil {
		return models.AggregateResult{}, fmt.Errorf("failed to build function updater: %w", err)
	}

	metadataSource := s.metadataSource(ctx, region, event, logger)

	var targets []models.ResolvedTarget
	var resolveErrors []error
	for i, record := range event.Records {
		if record.Metadata == nil && metadataSource != nil {
			record.Metadata = lookupMetadata(ctx, metadataSource, record, logger)
		}

		recordTargets, err := resolver.ResolveTargets(record)
		if err != nil {
			logger.Error("Skipping record, function names could not be resolved",
				zap.Int("record", i),
				zap.String("bucket", record.BucketName),
				zap.String("key", record.ObjectKey),
				zap.Error(err),
			)
			resolveErrors = append(resolveErrors, err)
			continue
		}
		targets = append(targets, recordTargets...)
	}

	logger.Debug("Resolved function update targets", zap.Int("count", len(targets)))

	outcomes := NewUpdateDispatcher(updater, logger).Dispatch(ctx, targets)
	result, updateErr := middleware.AggregateOutcomes(outcomes)

	return result, joinErrors(append(resolveErrors, updateErr)...)
}

func (s *GfUpdateService) metadataSource(ctx context.Context, region string, event models.NotificationEvent, logger *zap.Logger) storage.MetadataSource {
	if s.MetadataFactory == nil || !needsMetadata(event) {
		return nil
	}

	source, err := s.MetadataFactory(ctx, region)
	if err != nil {
		logger.Warn("Object metadata lookup disabled, will use object keys for function names", zap.Error(err))
		return nil
	}
	return source
}

func needsMetadata(event models.NotificationEvent) bool {
	for _, record := range event.Records {
		if record.Metadata == nil {
			return true
		}
	}
	return false
}

func lookupMetadata(ctx context.Context, source storage.MetadataSource, record models.Record, logger *zap.Logger) map[string]string {
	metadata, err := source.ObjectMetadata(ctx, record.BucketName, record.ObjectKey)
	if err != nil {
		logger.Info("Head Object Failed, will use object key for function name",
			zap.String("bucket", record.BucketName),
			zap.String("key", record.ObjectKey),
			zap.Error(err),
		)
		return nil
	}

	logger.Debug("Head Object Succeeded", zap.String("bucket", record.BucketName), zap.String("key", record.ObjectKey))
	return metadata
}

func joinErrors(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}

	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return errors.Join(nonNil...)
	}
}
