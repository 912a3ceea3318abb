package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MetadataSource looks up the user metadata of an uploaded object.
type MetadataSource interface {
	ObjectMetadata(ctx context.Context, bucket, key string) (map[string]string, error)
}

type MetadataSourceFactory func(ctx context.Context, region string) (MetadataSource, error)

// HeadObjectAPI is the subset of the S3 client used by S3MetadataSource.
type HeadObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type S3MetadataSource struct {
	client HeadObjectAPI
}

func NewS3MetadataSource(client HeadObjectAPI) *S3MetadataSource {
	return &S3MetadataSource{client: client}
}

func NewS3MetadataSourceFactory(base aws.Config) MetadataSourceFactory {
	return func(ctx context.Context, region string) (MetadataSource, error) {
		if region == "" {
			return nil, errors.New("region is required to build an S3 client")
		}
		cfg := base.Copy()
		cfg.Region = region
		return NewS3MetadataSource(s3.NewFromConfig(cfg)), nil
	}
}

// ObjectMetadata returns the object's user metadata with lower-cased keys.
func (m *S3MetadataSource) ObjectMetadata(ctx context.Context, bucket, key string) (map[string]string, error) {
	output, err := m.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to head object %s:%s: %w", bucket, key, err)
	}

	metadata := make(map[string]string, len(output.Metadata))
	for k, v := range output.Metadata {
		metadata[strings.ToLower(k)] = v
	}
	return metadata, nil
}
