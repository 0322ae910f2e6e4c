package stateset_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateset-io/stateset-client/pkg/stateset"
)

func TestRunBulkAllSucceed(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5}

	var calls atomic.Int32

	result, err := stateset.RunBulk(context.Background(), items, 2, 4, func(context.Context, int) error {
		calls.Add(1)

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 5, result.SuccessCount)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Empty(t, result.Errors)
	assert.False(t, result.Failed())
	assert.Equal(t, int32(5), calls.Load())
}

func TestRunBulkIsolatesItemFailure(t *testing.T) {
	t.Parallel()

	items := []string{"a", "b", "c", "d", "e"}

	result, err := stateset.RunBulk(context.Background(), items, 2, 1, func(_ context.Context, item string) error {
		if item == "c" {
			return stateset.NewErrorFromResponse(http.StatusUnprocessableEntity, nil, 0)
		}

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 4, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Index, "index refers to the original slice")
	assert.Equal(t, stateset.ErrorKindValidation, result.Errors[0].Err.Kind)
	assert.True(t, result.Failed())
}

func TestRunBulkInvalidBatchSize(t *testing.T) {
	t.Parallel()

	_, err := stateset.RunBulk(context.Background(), []int{1}, 0, 1, func(context.Context, int) error {
		return nil
	})

	assert.ErrorIs(t, err, stateset.ErrBatchSizeInvalid)
}

func TestRunBulkCancellationStopsRemainingBatches(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	items := make([]int, 10)

	var calls atomic.Int32

	result, err := stateset.RunBulk(ctx, items, 2, 1, func(context.Context, int) error {
		if calls.Add(1) == 2 {
			cancel()
		}

		return nil
	})

	require.Error(t, err)
	assert.True(t, stateset.IsCancelled(err))
	assert.Less(t, int(calls.Load()), len(items))
	assert.NotNil(t, result)
}

func TestRunBulkEmptyInput(t *testing.T) {
	t.Parallel()

	result, err := stateset.RunBulk(context.Background(), nil, 10, 2, func(context.Context, string) error {
		t.Fatal("op should not be called")

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 0, result.ErrorCount)
}

func TestRunBulkWrapsPlainErrors(t *testing.T) {
	t.Parallel()

	result, err := stateset.RunBulk(context.Background(), []int{1}, 1, 1, func(context.Context, int) error {
		return assert.AnError
	})

	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, stateset.ErrorKindConnection, result.Errors[0].Err.Kind)
}
