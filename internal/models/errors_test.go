package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateFailedError(t *testing.T) {
	denied := errors.New("AccessDenied")
	err := &UpdateFailedError{Failures: []FunctionFailure{
		{FunctionName: "fn1", Err: denied},
		{FunctionName: "fn3", Err: errors.New("throttled")},
	}}

	assert.Equal(t, "2 function update(s) failed: fn1: AccessDenied; fn3: throttled", err.Error())
	assert.Equal(t, []string{"fn1", "fn3"}, err.FunctionNames())
	assert.ErrorIs(t, err, denied)
}

func TestParseError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")

	assert.Equal(t, "invalid notification: no records", (&ParseError{Reason: "no records"}).Error())
	assert.ErrorIs(t, &ParseError{Reason: "malformed payload", Err: cause}, cause)
}

func TestRecordFunctionNames(t *testing.T) {
	_, ok := Record{}.FunctionNames()
	assert.False(t, ok)

	names, ok := Record{Metadata: map[string]string{FunctionNamesMetadataKey: "fn1"}}.FunctionNames()
	assert.True(t, ok)
	assert.Equal(t, "fn1", names)
}
