package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/52tanbivv/coin-exchange-backend/pkg/errors"
)

func TestBaseErrorAggregatesDetails(t *testing.T) {
	base := errors.NewBaseError(
		errors.NewErrorDetails("unparsable price", errors.KafkaReadError, "price"),
	)
	base.AddErrorDetails(
		errors.NewErrorDetails("unparsable volume", errors.KafkaReadError, "volume"),
	)

	require.Len(t, base.GetDetails(), 2)
	msg := base.Error()
	assert.Contains(t, msg, "code: kafka_read_error")
	assert.Contains(t, msg, "field: price")
	assert.Contains(t, msg, "field: volume")
}

func TestErrorCodeEquals(t *testing.T) {
	err := errors.NewErrorDetails("no such event", errors.ErrJournalEventNotFound, "")

	assert.True(t, errors.ErrorCodeEquals(err, errors.ErrJournalEventNotFound))
	assert.False(t, errors.ErrorCodeEquals(err, errors.ErrJournalStore))
	assert.False(t, errors.ErrorCodeEquals(fmt.Errorf("plain"), errors.ErrJournalStore))
}

func TestTracerWrapAttachesStack(t *testing.T) {
	cause := fmt.Errorf("broker unreachable")
	tracer := errors.NewTracer("failed to publish exchange event").Wrap(cause)

	assert.Equal(t, "failed to publish exchange event", tracer.Error())
	assert.NotNil(t, tracer.StackTrace())
	assert.ErrorContains(t, tracer.Unwrap(), "broker unreachable")
}

func TestTracerFromErrorKeepsExistingStack(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	tracer := errors.TracerFromError(cause)

	// Wrapping the tracer again must not stack a second trace on top.
	rewrapped := errors.TracerFromError(tracer)
	assert.Same(t, tracer, rewrapped.Unwrap())
	assert.Equal(t, cause.Error(), tracer.Error())
	assert.NotNil(t, tracer.StackTrace())
}
