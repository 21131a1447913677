// Package llm provides the language model collaborator for agenda.
//
// This package defines the Client interface used by the planner, the edit
// interpreter and the executor, and provides the OpenAIClient implementation.
// Every failure returned by a Client wraps errors.ErrCollaborator, so callers
// can treat authentication, rate limit and transport problems identically.
//
// IMPORTANT: This package may import internal/constants, internal/errors,
// internal/config, internal/ctxutil and internal/domain. It MUST NOT import
// internal/task, internal/session or internal/cli.
package llm

import (
	"context"

	"github.com/mrz1836/agenda/internal/domain"
)

// Client sends one prompt to a language model and returns the raw text of
// its reply. The reply is untrusted: callers validate it before use.
type Client interface {
	Complete(ctx context.Context, spec *domain.PromptSpec) (string, error)
}
