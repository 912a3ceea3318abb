package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockHeadObjectAPI struct {
	mock.Mock
}

func (m *MockHeadObjectAPI) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*s3.HeadObjectOutput)
	return output, args.Error(1)
}

func TestObjectMetadata(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := &MockHeadObjectAPI{}
	client.On("HeadObject", ctx, &s3.HeadObjectInput{Bucket: aws.String("code"), Key: aws.String("shared.zip")}).
		Return(&s3.HeadObjectOutput{Metadata: map[string]string{"Function.Names": "fn1,fn2"}}, nil).Once()

	// Act
	metadata, err := NewS3MetadataSource(client).ObjectMetadata(ctx, "code", "shared.zip")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"function.names": "fn1,fn2"}, metadata)
	client.AssertExpectations(t)
}

func TestObjectMetadata_NoUserMetadata(t *testing.T) {
	ctx := context.Background()
	client := &MockHeadObjectAPI{}
	client.On("HeadObject", ctx, mock.Anything).Return(&s3.HeadObjectOutput{}, nil).Once()

	metadata, err := NewS3MetadataSource(client).ObjectMetadata(ctx, "code", "svcA.zip")

	require.NoError(t, err)
	assert.NotNil(t, metadata)
	assert.Empty(t, metadata)
}

func TestObjectMetadata_Error(t *testing.T) {
	ctx := context.Background()
	headErr := errors.New("Forbidden")
	client := &MockHeadObjectAPI{}
	client.On("HeadObject", ctx, mock.Anything).Return(nil, headErr).Once()

	metadata, err := NewS3MetadataSource(client).ObjectMetadata(ctx, "code", "svcA.zip")

	assert.Nil(t, metadata)
	assert.ErrorIs(t, err, headErr)
	assert.Contains(t, err.Error(), "code:svcA.zip")
}

func TestNewS3MetadataSourceFactory(t *testing.T) {
	factory := NewS3MetadataSourceFactory(aws.Config{Region: "us-east-1"})

	source, err := factory(context.Background(), "us-west-2")
	require.NoError(t, err)
	assert.IsType(t, &S3MetadataSource{}, source)

	_, err = factory(context.Background(), "")
	assert.Error(t, err)
}
