package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const (
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
)

// SNSAPI is the subset of the SNS client used by the messenger.
type SNSAPI interface {
	CreateTopic(ctx context.Context, params *sns.CreateTopicInput, optFns ...func(*sns.Options)) (*sns.CreateTopicOutput, error)
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSMessenger interface {
	PublishUpdateReport(ctx context.Context, report UpdateReport) (string, error)
}

type GfSNSMessenger struct {
	Client    SNSAPI
	TopicName string
	TopicArn  string
}

func NewGfSNSMessenger(snsClient SNSAPI, topicName string, topicArn string) *GfSNSMessenger {
	return &GfSNSMessenger{
		Client:    snsClient,
		TopicName: topicName,
		TopicArn:  topicArn,
	}
}

// CreateTopic returns the ARN of the named topic, creating it when needed.
func CreateTopic(ctx context.Context, client SNSAPI, topicName string) (string, error) {
	input := &sns.CreateTopicInput{
		Name: aws.String(topicName),
	}

	result, err := client.CreateTopic(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to create SNS topic: %w", err)
	}

	return aws.ToString(result.TopicArn), nil
}

func (messenger *GfSNSMessenger) PublishUpdateReport(ctx context.Context, report UpdateReport) (string, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal update report: %w", err)
	}

	input := &sns.PublishInput{
		Message:           aws.String(string(body)),
		Subject:           aws.String(report.Subject()),
		TopicArn:          aws.String(messenger.TopicArn),
		MessageAttributes: GetMessageAttributes(report),
	}

	publishOutput, err := messenger.Client.Publish(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to publish update report to %s: %w", messenger.TopicName, err)
	}

	return aws.ToString(publishOutput.MessageId), nil
}

func GetMessageAttributes(report UpdateReport) map[string]types.MessageAttributeValue {
	return map[string]types.MessageAttributeValue{
		"Status":   NewMessageAttributeValue("String", report.Status()),
		"ReportID": NewMessageAttributeValue("String", report.ReportID),
	}
}

func NewMessageAttributeValue(dataType string, stringValue string) types.MessageAttributeValue {
	return types.MessageAttributeValue{
		DataType:    aws.String(dataType),
		StringValue: aws.String(stringValue),
	}
}
