package utils

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *Logger {
	return NewLoggerWith(io.Discard, "disabled", "json")
}

func TestRetryWithBackoff_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, quietLogger())

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_WrapsLastError(t *testing.T) {
	sentinel := errors.New("connection refused")
	calls := 0
	err := RetryWithBackoff(2, time.Millisecond, func() error {
		calls++
		return sentinel
	}, quietLogger())

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 2, calls)
}

func TestRetryWithBackoff_AtLeastOneAttempt(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(0, time.Millisecond, func() error {
		calls++
		return nil
	}, quietLogger())

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
