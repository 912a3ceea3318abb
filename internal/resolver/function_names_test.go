package resolver

import (
	"errors"
	"testing"

	"github.com/lambdupdate/lambdupdate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(key string, metadata map[string]string) models.Record {
	return models.Record{Region: "us-east-1", BucketName: "code", ObjectKey: key, Metadata: metadata}
}

func TestResolveFunctionNames(t *testing.T) {
	t.Run("Metadata names are split and trimmed", func(t *testing.T) {
		names, err := ResolveFunctionNames(record("shared.zip", map[string]string{"function.names": "a, b ,c"}))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, names)
	})

	t.Run("Metadata wins over object key", func(t *testing.T) {
		names, err := ResolveFunctionNames(record("svc.zip", map[string]string{"function.names": "fn1,fn2"}))
		require.NoError(t, err)
		assert.Equal(t, []string{"fn1", "fn2"}, names)
	})

	t.Run("Single metadata name", func(t *testing.T) {
		names, err := ResolveFunctionNames(record("svc.zip", map[string]string{"function.names": " my-function "}))
		require.NoError(t, err)
		assert.Equal(t, []string{"my-function"}, names)
	})

	t.Run("Zip suffix is stripped from key", func(t *testing.T) {
		names, err := ResolveFunctionNames(record("svc.zip", nil))
		require.NoError(t, err)
		assert.Equal(t, []string{"svc"}, names)
	})

	t.Run("Key without zip suffix is used unchanged", func(t *testing.T) {
		names, err := ResolveFunctionNames(record("svc", nil))
		require.NoError(t, err)
		assert.Equal(t, []string{"svc"}, names)
	})

	t.Run("Metadata without function names falls back to key", func(t *testing.T) {
		names, err := ResolveFunctionNames(record("svc.zip", map[string]string{"owner": "team"}))
		require.NoError(t, err)
		assert.Equal(t, []string{"svc"}, names)
	})

	t.Run("Only the trailing suffix is removed", func(t *testing.T) {
		names, err := ResolveFunctionNames(record("svc.zip.zip", nil))
		require.NoError(t, err)
		assert.Equal(t, []string{"svc.zip"}, names)
	})

	t.Run("Bare zip key is an empty name", func(t *testing.T) {
		_, err := ResolveFunctionNames(record(".zip", nil))

		var emptyErr *models.EmptyFunctionNameError
		require.True(t, errors.As(err, &emptyErr))
		assert.Equal(t, SourceObjectKey, emptyErr.Source)
		assert.Equal(t, ".zip", emptyErr.Key)
	})

	t.Run("Empty metadata piece is an empty name", func(t *testing.T) {
		_, err := ResolveFunctionNames(record("svc.zip", map[string]string{"function.names": "fn1, ,fn2"}))

		var emptyErr *models.EmptyFunctionNameError
		require.True(t, errors.As(err, &emptyErr))
		assert.Equal(t, SourceMetadata, emptyErr.Source)
	})

	t.Run("Trailing comma is an empty name", func(t *testing.T) {
		_, err := ResolveFunctionNames(record("svc.zip", map[string]string{"function.names": "fn1,"}))
		assert.ErrorAs(t, err, new(*models.EmptyFunctionNameError))
	})

	t.Run("Empty metadata value is an empty name", func(t *testing.T) {
		_, err := ResolveFunctionNames(record("svc.zip", map[string]string{"function.names": ""}))
		assert.ErrorAs(t, err, new(*models.EmptyFunctionNameError))
	})
}

func TestResolveTargets(t *testing.T) {
	targets, err := ResolveTargets(record("shared.zip", map[string]string{"function.names": "fn1,fn2"}))
	require.NoError(t, err)

	assert.Equal(t, []models.ResolvedTarget{
		{FunctionName: "fn1", SourceBucket: "code", SourceKey: "shared.zip"},
		{FunctionName: "fn2", SourceBucket: "code", SourceKey: "shared.zip"},
	}, targets)

	_, err = ResolveTargets(record(".zip", nil))
	assert.Error(t, err)
}
