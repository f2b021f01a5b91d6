package kafka

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	retryable := []error{
		errors.New("dial tcp: connection refused"),
		errors.New("read: i/o timeout"),
		errors.New("Broker Not Available"),
		errors.New("write: broken pipe"),
		errors.New("lookup kafka: no such host"),
	}
	for _, err := range retryable {
		assert.True(t, isRetryableError(err), err.Error())
	}

	permanent := []error{
		errors.New("invalid message size"),
		errors.New("unknown topic or partition"),
	}
	for _, err := range permanent {
		assert.False(t, isRetryableError(err), err.Error())
	}

	assert.False(t, isRetryableError(nil))
}
