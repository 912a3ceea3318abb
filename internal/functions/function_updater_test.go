package functions

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLambdaAPI struct {
	mock.Mock
}

func (m *MockLambdaAPI) UpdateFunctionCode(ctx context.Context, params *lambda.UpdateFunctionCodeInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionCodeOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*lambda.UpdateFunctionCodeOutput)
	return output, args.Error(1)
}

func TestUpdateCode(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := &MockLambdaAPI{}
	client.On("UpdateFunctionCode", ctx, mock.MatchedBy(func(input *lambda.UpdateFunctionCodeInput) bool {
		return aws.ToString(input.FunctionName) == "svcA" &&
			aws.ToString(input.S3Bucket) == "code" &&
			aws.ToString(input.S3Key) == "svcA.zip" &&
			input.ZipFile == nil
	})).Return(&lambda.UpdateFunctionCodeOutput{FunctionName: aws.String("svcA")}, nil).Once()

	// Act
	err := NewGfLambdaUpdater(client).UpdateCode(ctx, "svcA", "code", "svcA.zip")

	// Assert
	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestUpdateCode_Error(t *testing.T) {
	ctx := context.Background()
	apiErr := &types.ResourceNotFoundException{Message: aws.String("Function not found: svcA")}
	client := &MockLambdaAPI{}
	client.On("UpdateFunctionCode", ctx, mock.Anything).Return(nil, apiErr).Once()

	err := NewGfLambdaUpdater(client).UpdateCode(ctx, "svcA", "code", "svcA.zip")

	require.Error(t, err)
	assert.ErrorIs(t, err, apiErr)
	assert.Contains(t, err.Error(), "svcA from code:svcA.zip")
	assert.True(t, IsFunctionNotFound(err))
}

func TestIsFunctionNotFound(t *testing.T) {
	assert.False(t, IsFunctionNotFound(nil))
	assert.False(t, IsFunctionNotFound(errors.New("AccessDenied")))
	assert.True(t, IsFunctionNotFound(fmt.Errorf("wrapped: %w", &types.ResourceNotFoundException{})))
}

func TestNewLambdaUpdaterFactory(t *testing.T) {
	factory := NewLambdaUpdaterFactory(aws.Config{Region: "us-east-1"})

	updater, err := factory(context.Background(), "eu-west-1")
	require.NoError(t, err)
	assert.IsType(t, &GfLambdaUpdater{}, updater)

	_, err = factory(context.Background(), "")
	assert.Error(t, err)
}
