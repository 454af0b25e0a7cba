package rabbitmq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/config"
	"github.com/GoArmGo/ContentGenius/internal/logger"
	"github.com/GoArmGo/ContentGenius/internal/messaging/payloads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandler struct {
	err       error
	panicWith any
	failErr   error
	handled   []payloads.GenerationJobPayload
	failed    []payloads.GenerationJobPayload
	cause     error
}

func (h *stubHandler) HandleGenerationJob(_ context.Context, p payloads.GenerationJobPayload) error {
	h.handled = append(h.handled, p)
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *stubHandler) FailGenerationJob(_ context.Context, p payloads.GenerationJobPayload, cause error) error {
	h.failed = append(h.failed, p)
	h.cause = cause
	return h.failErr
}

func testClient() *Client {
	return newClient(config.RabbitMQConfig{
		QueueName:         "generation_jobs",
		MaxAttempts:       3,
		RetryBackoff:      30 * time.Second,
		WorkerConcurrency: 2,
	}, logger.Discard())
}

const validBody = `{"generation_id":7,"uuid":"0f8fad5b-d9cb-469f-a165-70867728950e","type":"article","attempt":1}`

func TestNewClientDerivesRetryQueue(t *testing.T) {
	c := testClient()
	assert.Equal(t, "generation_jobs.retry", c.retryQueueName)
	assert.Equal(t, 2, c.concurrency)

	clamped := newClient(config.RabbitMQConfig{QueueName: "q"}, logger.Discard())
	assert.Equal(t, 1, clamped.concurrency)
	assert.Equal(t, 1, clamped.maxAttempts)
}

func TestProcessAcksSuccessfulJob(t *testing.T) {
	h := &stubHandler{}
	d := testClient().process(context.Background(), []byte(validBody), h)
	assert.Equal(t, actionAck, d.action)
	require.Len(t, h.handled, 1)
	assert.Equal(t, int64(7), h.handled[0].GenerationID)
}

func TestProcessDropsMalformedMessages(t *testing.T) {
	c := testClient()
	h := &stubHandler{}

	assert.Equal(t, actionDrop, c.process(context.Background(), []byte("{not json"), h).action)
	assert.Equal(t, actionDrop, c.process(context.Background(), []byte(`{"generation_id":0,"attempt":1}`), h).action)
	assert.Empty(t, h.handled)
}

func TestProcessSchedulesRetryWithNextAttempt(t *testing.T) {
	h := &stubHandler{err: errors.New("db unavailable")}
	d := testClient().process(context.Background(), []byte(validBody), h)
	assert.Equal(t, actionRetry, d.action)
	assert.Equal(t, 2, d.next.Attempt)
	assert.Equal(t, int64(7), d.next.GenerationID)
	assert.Empty(t, h.failed)
}

func TestProcessFailsJobOnFinalAttempt(t *testing.T) {
	h := &stubHandler{err: errors.New("db unavailable")}
	body := `{"generation_id":7,"uuid":"0f8fad5b-d9cb-469f-a165-70867728950e","type":"article","attempt":3}`

	d := testClient().process(context.Background(), []byte(body), h)
	assert.Equal(t, actionAck, d.action)
	require.Len(t, h.failed, 1)
	assert.EqualError(t, h.cause, "db unavailable")
}

func TestProcessRequeuesWhenFinalFailureCannotBeRecorded(t *testing.T) {
	h := &stubHandler{err: errors.New("db unavailable"), failErr: errors.New("still unavailable")}
	body := `{"generation_id":7,"uuid":"x","type":"article","attempt":5}`

	d := testClient().process(context.Background(), []byte(body), h)
	assert.Equal(t, actionRequeue, d.action)
}

func TestProcessRecoversHandlerPanic(t *testing.T) {
	h := &stubHandler{panicWith: "nil map write"}
	d := testClient().process(context.Background(), []byte(validBody), h)
	assert.Equal(t, actionRetry, d.action)
}
