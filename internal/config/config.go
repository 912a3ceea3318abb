package config

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	DefaultRegion      = "us-east-1"
	DefaultServiceName = "lambdupdate"
)

// Config holds everything the entry points need to wire the pipeline.
type Config struct {
	Region              string
	AssumeRoleARN       string
	ReportTopicName     string
	FetchObjectMetadata bool
	LogVerbosity        int
	ServiceName         string
	ServiceVersion      string
}

// GetEnv retrieves an environment variable or returns a default value
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func GetEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func GetEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// LoadEnv loads a .env file from the working directory, if there is one.
// Values already present in the environment are not overridden.
func LoadEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	var existing []string
	for _, filename := range filenames {
		if _, err := os.Stat(filename); err == nil {
			existing = append(existing, filename)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// NewConfig reads the configuration from the environment.
func NewConfig() *Config {
	return &Config{
		Region:              GetEnv("AWS_REGION", DefaultRegion),
		AssumeRoleARN:       GetEnv("ASSUME_ROLE_ARN", ""),
		ReportTopicName:     GetEnv("REPORT_TOPIC_NAME", ""),
		FetchObjectMetadata: GetEnvBool("FETCH_OBJECT_METADATA", true),
		LogVerbosity:        GetEnvInt("LOG_VERBOSITY", 0),
		ServiceName:         GetEnv("SERVICE_NAME", DefaultServiceName),
		ServiceVersion:      GetEnv("SERVICE_VERSION", "dev"),
	}
}

func (c *Config) Log(logger *zap.Logger) {
	logger.Info("Configuration loaded",
		zap.String("region", c.Region),
		zap.Bool("assume_role", c.AssumeRoleARN != ""),
		zap.String("report_topic", c.ReportTopicName),
		zap.Bool("fetch_object_metadata", c.FetchObjectMetadata),
		zap.String("service", c.ServiceName),
		zap.String("version", c.ServiceVersion),
	)
}

// LoadAWSConfig loads the default AWS configuration for c.Region, switching to
// assumed-role credentials when AssumeRoleARN is set.
func LoadAWSConfig(ctx context.Context, c *Config) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if c.AssumeRoleARN != "" {
		provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(cfg), c.AssumeRoleARN, func(o *stscreds.AssumeRoleOptions) {
			o.RoleSessionName = c.ServiceName
		})
		cfg.Credentials = aws.NewCredentialsCache(provider)
	}

	return cfg, nil
}
