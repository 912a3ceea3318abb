package services

import (
	"context"

	"github.com/lambdupdate/lambdupdate/internal/functions"
	"github.com/lambdupdate/lambdupdate/internal/storage"
	"github.com/stretchr/testify/mock"
)

type MockFunctionUpdater struct {
	mock.Mock
}

func (m *MockFunctionUpdater) UpdateCode(ctx context.Context, functionName, bucket, key string) error {
	args := m.Called(ctx, functionName, bucket, key)
	return args.Error(0)
}

type MockMetadataSource struct {
	mock.Mock
}

func (m *MockMetadataSource) ObjectMetadata(ctx context.Context, bucket, key string) (map[string]string, error) {
	args := m.Called(ctx, bucket, key)
	metadata, _ := args.Get(0).(map[string]string)
	return metadata, args.Error(1)
}

// updaterFactory hands out updater and records every region it was asked for.
func updaterFactory(updater functions.FunctionUpdater, regions *[]string) functions.UpdaterFactory {
	return func(_ context.Context, region string) (functions.FunctionUpdater, error) {
		*regions = append(*regions, region)
		return updater, nil
	}
}

func metadataFactory(source storage.MetadataSource) storage.MetadataSourceFactory {
	return func(context.Context, string) (storage.MetadataSource, error) {
		return source, nil
	}
}
