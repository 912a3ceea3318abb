package events

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/go-playground/validator"
	"github.com/lambdupdate/lambdupdate/internal/models"
)

type notificationPayload struct {
	Records []recordPayload `json:"records"`
}

// recordPayload accepts both the flat record layout and the native S3 one
// (awsRegion + s3.bucket/s3.object).
type recordPayload struct {
	Region    string        `json:"region"`
	AWSRegion string        `json:"awsRegion"`
	Bucket    bucketPayload `json:"bucket"`
	Object    objectPayload `json:"object"`
	S3        *s3Payload    `json:"s3"`
}

type s3Payload struct {
	Bucket bucketPayload `json:"bucket"`
	Object objectPayload `json:"object"`
}

type bucketPayload struct {
	Name string `json:"name"`
}

type objectPayload struct {
	Key      string            `json:"key"`
	Metadata map[string]string `json:"metadata"`
}

type recordFields struct {
	Bucket string `validate:"required"`
	Key    string `validate:"required"`
}

var validate = validator.New()

// ParseNotification decodes a raw notification payload into a NotificationEvent.
func ParseNotification(payload []byte) (models.NotificationEvent, error) {
	var notification notificationPayload
	if err := json.Unmarshal(payload, &notification); err != nil {
		return models.NotificationEvent{}, &models.ParseError{Reason: "malformed payload", Err: err}
	}

	if len(notification.Records) == 0 {
		return models.NotificationEvent{}, &models.ParseError{Reason: "no records"}
	}

	event := models.NotificationEvent{Records: make([]models.Record, 0, len(notification.Records))}
	for i, rp := range notification.Records {
		record, err := rp.toRecord()
		if err != nil {
			return models.NotificationEvent{}, &models.ParseError{Reason: fmt.Sprintf("record %d", i), Err: err}
		}
		event.Records = append(event.Records, record)
	}

	return event, nil
}

func (rp recordPayload) toRecord() (models.Record, error) {
	region := rp.Region
	if region == "" {
		region = rp.AWSRegion
	}

	bucket, object := rp.Bucket, rp.Object
	metadata := normalizeMetadata(object.Metadata)
	if rp.S3 != nil {
		bucket = rp.S3.Bucket
		object = rp.S3.Object
		object.Key = decodeObjectKey(object.Key)
		metadata = normalizeMetadata(object.Metadata)
	} else if metadata == nil {
		// Flat records carry metadata inline, so an absent block means no metadata.
		metadata = map[string]string{}
	}

	if err := validate.Struct(recordFields{Bucket: bucket.Name, Key: object.Key}); err != nil {
		return models.Record{}, err
	}

	return models.Record{
		Region:     region,
		BucketName: bucket.Name,
		ObjectKey:  object.Key,
		Metadata:   metadata,
	}, nil
}

// FromS3Event converts a native S3 notification. Such notifications never carry object metadata.
func FromS3Event(s3Event lambdaevents.S3Event) (models.NotificationEvent, error) {
	if len(s3Event.Records) == 0 {
		return models.NotificationEvent{}, &models.ParseError{Reason: "no records"}
	}

	event := models.NotificationEvent{Records: make([]models.Record, 0, len(s3Event.Records))}
	for i, r := range s3Event.Records {
		key := r.S3.Object.URLDecodedKey
		if key == "" {
			key = decodeObjectKey(r.S3.Object.Key)
		}

		if err := validate.Struct(recordFields{Bucket: r.S3.Bucket.Name, Key: key}); err != nil {
			return models.NotificationEvent{}, &models.ParseError{Reason: fmt.Sprintf("record %d", i), Err: err}
		}

		event.Records = append(event.Records, models.Record{
			Region:     r.AWSRegion,
			BucketName: r.S3.Bucket.Name,
			ObjectKey:  key,
		})
	}

	return event, nil
}

// NewLocalEvent builds the single-record event used for local invocations.
// An empty functionNames leaves the record without metadata, so the object's own
// metadata is looked up when a metadata source is configured.
func NewLocalEvent(region, bucket, key, functionNames string) models.NotificationEvent {
	record := models.Record{
		Region:     region,
		BucketName: bucket,
		ObjectKey:  key,
	}
	if functionNames != "" {
		record.Metadata = map[string]string{models.FunctionNamesMetadataKey: functionNames}
	}

	return models.NotificationEvent{Records: []models.Record{record}}
}

// ExtractRegion returns the region downstream clients are configured for: the first record's.
// Every record must name a region, even though only the first one is used.
func ExtractRegion(event models.NotificationEvent) (string, error) {
	if len(event.Records) == 0 {
		return "", &models.MissingRegionError{RecordIndex: 0}
	}
	for i, record := range event.Records {
		if record.Region == "" {
			return "", &models.MissingRegionError{RecordIndex: i}
		}
	}
	return event.Records[0].Region, nil
}

// MismatchedRegions lists the indexes of records whose region differs from region.
func MismatchedRegions(event models.NotificationEvent, region string) []int {
	var mismatched []int
	for i, record := range event.Records {
		if record.Region != region {
			mismatched = append(mismatched, i)
		}
	}
	return mismatched
}

func normalizeMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}

	normalized := make(map[string]string, len(metadata))
	for k, v := range metadata {
		normalized[strings.ToLower(k)] = v
	}
	return normalized
}

// S3 notifications carry form-encoded keys.
func decodeObjectKey(key string) string {
	decoded, err := url.QueryUnescape(key)
	if err != nil {
		return key
	}
	return decoded
}
