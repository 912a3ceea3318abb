package functions

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// FunctionUpdater points a function's code at an archive in S3.
type FunctionUpdater interface {
	UpdateCode(ctx context.Context, functionName, bucket, key string) error
}

// UpdaterFactory builds a FunctionUpdater scoped to one region.
type UpdaterFactory func(ctx context.Context, region string) (FunctionUpdater, error)

// LambdaAPI is the subset of the Lambda client used by GfLambdaUpdater.
type LambdaAPI interface {
	UpdateFunctionCode(ctx context.Context, params *lambda.UpdateFunctionCodeInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionCodeOutput, error)
}

// GfLambdaUpdater implements FunctionUpdater with the AWS Lambda API.
type GfLambdaUpdater struct {
	client LambdaAPI
}

func NewGfLambdaUpdater(client LambdaAPI) *GfLambdaUpdater {
	return &GfLambdaUpdater{
		client: client,
	}
}

// NewLambdaUpdaterFactory returns a factory that copies base and overrides its region.
func NewLambdaUpdaterFactory(base aws.Config) UpdaterFactory {
	return func(ctx context.Context, region string) (FunctionUpdater, error) {
		if region == "" {
			return nil, errors.New("region is required to build a Lambda client")
		}
		cfg := base.Copy()
		cfg.Region = region
		return NewGfLambdaUpdater(lambda.NewFromConfig(cfg)), nil
	}
}

func (u *GfLambdaUpdater) UpdateCode(ctx context.Context, functionName, bucket, key string) error {
	input := &lambda.UpdateFunctionCodeInput{
		FunctionName: aws.String(functionName),
		S3Bucket:     aws.String(bucket),
		S3Key:        aws.String(key),
	}

	_, err := u.client.UpdateFunctionCode(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to update function code for %s from %s:%s: %w", functionName, bucket, key, err)
	}

	return nil
}

// IsFunctionNotFound reports whether err says the target function does not exist.
func IsFunctionNotFound(err error) bool {
	var notFound *types.ResourceNotFoundException
	return errors.As(err, &notFound)
}
