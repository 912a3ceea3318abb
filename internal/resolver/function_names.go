// Package resolver decides which functions an uploaded archive is deployed to.
package resolver

import (
	"strings"

	"github.com/lambdupdate/lambdupdate/internal/models"
)

const zipSuffix = ".zip"

const (
	SourceMetadata  = "metadata"
	SourceObjectKey = "object key"
)

// ResolveFunctionNames returns the functions a record applies to, in order.
// The "function.names" metadata always wins over the key-derived name.
func ResolveFunctionNames(record models.Record) ([]string, error) {
	if functionNames, ok := record.FunctionNames(); ok {
		pieces := strings.Split(functionNames, ",")
		names := make([]string, 0, len(pieces))
		for _, piece := range pieces {
			name := strings.TrimSpace(piece)
			if name == "" {
				return nil, emptyName(record, SourceMetadata)
			}
			names = append(names, name)
		}
		return names, nil
	}

	name := strings.TrimSuffix(record.ObjectKey, zipSuffix)
	if name == "" {
		return nil, emptyName(record, SourceObjectKey)
	}

	return []string{name}, nil
}

// ResolveTargets pairs every resolved function name with the record's archive location.
func ResolveTargets(record models.Record) ([]models.ResolvedTarget, error) {
	names, err := ResolveFunctionNames(record)
	if err != nil {
		return nil, err
	}

	targets := make([]models.ResolvedTarget, 0, len(names))
	for _, name := range names {
		targets = append(targets, models.ResolvedTarget{
			FunctionName: name,
			SourceBucket: record.BucketName,
			SourceKey:    record.ObjectKey,
		})
	}
	return targets, nil
}

func emptyName(record models.Record, source string) error {
	return &models.EmptyFunctionNameError{
		Bucket: record.BucketName,
		Key:    record.ObjectKey,
		Source: source,
	}
}
