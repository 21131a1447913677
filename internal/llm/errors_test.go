package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantIs    error
		retryable bool
	}{
		{
			name:   "unauthorized",
			err:    &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"},
			wantIs: agendaerrors.ErrCollaboratorAuth,
		},
		{
			name:   "forbidden",
			err:    &openai.APIError{HTTPStatusCode: http.StatusForbidden, Message: "no access"},
			wantIs: agendaerrors.ErrCollaboratorAuth,
		},
		{
			name:      "rate limited",
			err:       &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"},
			wantIs:    agendaerrors.ErrCollaboratorRateLimited,
			retryable: true,
		},
		{
			name:      "server error from request error",
			err:       &openai.RequestError{HTTPStatusCode: http.StatusBadGateway, Err: errors.New("bad gateway")},
			wantIs:    agendaerrors.ErrCollaborator,
			retryable: true,
		},
		{
			name:   "bad request",
			err:    &openai.APIError{HTTPStatusCode: http.StatusBadRequest, Message: "unknown model"},
			wantIs: errRequestRejected,
		},
		{
			name:      "transport failure",
			err:       fmt.Errorf("dial tcp: %w", errors.New("connection refused")),
			wantIs:    agendaerrors.ErrCollaborator,
			retryable: true,
		},
		{
			name:   "context canceled passes through",
			err:    context.Canceled,
			wantIs: context.Canceled,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyError(tc.err)
			require.ErrorIs(t, got, tc.wantIs)
			assert.Equal(t, tc.retryable, isRetryable(got))
		})
	}
}

func TestClassifyError_Nil(t *testing.T) {
	assert.NoError(t, classifyError(nil))
	assert.False(t, isRetryable(nil))
}

func TestIsRetryable_UnclassifiedErrors(t *testing.T) {
	assert.False(t, isRetryable(errors.New("plain error")))
	assert.False(t, isRetryable(agendaerrors.ErrAPIKeyMissing))
	assert.False(t, isRetryable(context.DeadlineExceeded))
	assert.True(t, isRetryable(agendaerrors.ErrCollaboratorEmptyResponse))
}
