package models

import (
	"fmt"
	"strings"
)

// ParseError reports a notification payload that could not be decoded into a usable event.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid notification: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid notification: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingRegionError is returned when the event does not name a region to build clients for.
type MissingRegionError struct {
	RecordIndex int
}

func (e *MissingRegionError) Error() string {
	return fmt.Sprintf("no region found in record %d", e.RecordIndex)
}

// EmptyFunctionNameError is returned when a record resolves to an empty function name.
type EmptyFunctionNameError struct {
	Bucket string
	Key    string
	Source string
}

func (e *EmptyFunctionNameError) Error() string {
	return fmt.Sprintf("empty function name resolved from %s for %s:%s", e.Source, e.Bucket, e.Key)
}

type FunctionFailure struct {
	FunctionName string
	Err          error
}

// UpdateFailedError carries every failed update of an invocation, not just the first.
type UpdateFailedError struct {
	Failures []FunctionFailure
}

func (e *UpdateFailedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", failure.FunctionName, failure.Err))
	}
	return fmt.Sprintf("%d function update(s) failed: %s", len(e.Failures), strings.Join(parts, "; "))
}

func (e *UpdateFailedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, failure := range e.Failures {
		errs = append(errs, failure.Err)
	}
	return errs
}

// FunctionNames lists the failed functions in report order.
func (e *UpdateFailedError) FunctionNames() []string {
	names := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		names = append(names, failure.FunctionName)
	}
	return names
}
