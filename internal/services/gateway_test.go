package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slowGateway struct {
	delay    time.Duration
	response string
}

func (s *slowGateway) Generate(ctx context.Context, _ string, _ ResponseFormat) (string, error) {
	select {
	case <-time.After(s.delay):
		return s.response, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestWithTimeoutPassesThroughFastCalls(t *testing.T) {
	gateway := WithTimeout(&slowGateway{delay: time.Millisecond, response: "ok"}, time.Second)

	out, err := gateway.Generate(context.Background(), "prompt", FormatFree)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestWithTimeoutReportsUnavailableOnDeadline(t *testing.T) {
	gateway := WithTimeout(&slowGateway{delay: time.Second, response: "late"}, 10*time.Millisecond)

	_, err := gateway.Generate(context.Background(), "prompt", FormatFree)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestWithTimeoutZeroDisablesWrapper(t *testing.T) {
	inner := &slowGateway{delay: time.Millisecond, response: "ok"}
	assert.Equal(t, LLMGateway(inner), WithTimeout(inner, 0))
}
