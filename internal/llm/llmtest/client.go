// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

// Response is one scripted reply: either content or an error.
type Response struct {
	Content string
	Err     error
}

// Reply scripts a successful reply.
func Reply(content string) Response {
	return Response{Content: content}
}

// Fail scripts a failed call.
func Fail(err error) Response {
	return Response{Err: err}
}

// Client returns its scripted responses in order and records every prompt.
// Calls beyond the script fail with errors.ErrCollaborator.
type Client struct {
	mu        sync.Mutex
	responses []Response
	prompts   []domain.PromptSpec
}

// New creates a client that will answer with responses, in order.
func New(responses ...Response) *Client {
	return &Client{responses: responses}
}

// Complete implements llm.Client.
func (c *Client) Complete(ctx context.Context, spec *domain.PromptSpec) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if spec != nil {
		c.prompts = append(c.prompts, *spec)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(c.responses) == 0 {
		return "", fmt.Errorf("%w: no scripted response left", agendaerrors.ErrCollaborator)
	}
	next := c.responses[0]
	c.responses = c.responses[1:]
	if next.Err != nil {
		return "", next.Err
	}
	return next.Content, nil
}

// Push appends more scripted responses.
func (c *Client) Push(responses ...Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = append(c.responses, responses...)
}

// Prompts returns every prompt received so far.
func (c *Client) Prompts() []domain.PromptSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.PromptSpec, len(c.prompts))
	copy(out, c.prompts)
	return out
}

// Calls returns the number of Complete calls received.
func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}
