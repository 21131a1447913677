package llm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/mrz1836/agenda/internal/ctxutil"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

// errRequestRejected marks 4xx responses other than auth and rate limit.
// Resending the same request cannot succeed, so these are not retried.
var errRequestRejected = errors.New("request rejected")

// classifyError maps a go-openai error onto the collaborator sentinels.
// Context errors pass through unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if ctxutil.IsContextError(err) {
		return err
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %w", agendaerrors.ErrCollaboratorAuth, err)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", agendaerrors.ErrCollaboratorRateLimited, err)
	case status >= 400 && status < 500:
		return fmt.Errorf("%w: %w: status %d: %w", agendaerrors.ErrCollaborator, errRequestRejected, status, err)
	case status >= 500:
		return fmt.Errorf("%w: server error %d: %w", agendaerrors.ErrCollaborator, status, err)
	default:
		return fmt.Errorf("%w: %w", agendaerrors.ErrCollaborator, err)
	}
}
