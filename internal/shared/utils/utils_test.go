package utils

import (
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("BC_TEST_STRING", "value")
	t.Setenv("BC_TEST_EMPTY", "")

	assert.Equal(t, "value", GetEnvVariable("BC_TEST_STRING", "fallback"))
	assert.Equal(t, "fallback", GetEnvVariable("BC_TEST_UNSET", "fallback"))
	assert.Equal(t, "fallback", GetEnvVariable("BC_TEST_EMPTY", "fallback"))
}

func TestTaskRoundTrip(t *testing.T) {
	type payload struct {
		OrderID string `json:"order_id"`
	}

	task, err := MarshalTask("bayarcash:test", payload{OrderID: "100"})
	require.NoError(t, err)
	assert.Equal(t, "bayarcash:test", task.Type())

	var got payload
	require.NoError(t, UnmarshalTask(task, &got))
	assert.Equal(t, "100", got.OrderID)
}

func TestUnmarshalTask_BadPayloadSkipsRetry(t *testing.T) {
	var got map[string]string
	err := UnmarshalTask(asynq.NewTask("bayarcash:test", []byte("{")), &got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
