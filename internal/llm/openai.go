package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/mrz1836/agenda/internal/config"
	"github.com/mrz1836/agenda/internal/constants"
	"github.com/mrz1836/agenda/internal/ctxutil"
	"github.com/mrz1836/agenda/internal/domain"
	agendaerrors "github.com/mrz1836/agenda/internal/errors"
)

// OpenAIClient implements Client against the OpenAI chat completions API or
// any compatible endpoint.
type OpenAIClient struct {
	api         *openai.Client
	model       string
	timeout     time.Duration
	maxTokens   int
	maxAttempts int
	logger      zerolog.Logger
}

// Ensure OpenAIClient implements Client.
var _ Client = (*OpenAIClient)(nil)

// APIKeyFromEnv reads the API key from the environment variable named in cfg.
func APIKeyFromEnv(cfg *config.LLMConfig) (string, error) {
	envVar := cfg.APIKeyEnvVar
	if envVar == "" {
		envVar = constants.DefaultAPIKeyEnvVar
	}
	key := strings.TrimSpace(os.Getenv(envVar))
	if key == "" {
		return "", fmt.Errorf("%w: %s is empty", agendaerrors.ErrAPIKeyMissing, envVar)
	}
	return key, nil
}

// NewOpenAIClient creates a client from the llm configuration section.
func NewOpenAIClient(cfg *config.LLMConfig, apiKey string, logger zerolog.Logger) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, agendaerrors.ErrAPIKeyMissing
	}

	apiCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	c := &OpenAIClient{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		timeout:     cfg.Timeout,
		maxTokens:   cfg.MaxTokens,
		maxAttempts: cfg.MaxAttempts,
		logger:      logger,
	}
	if c.model == "" {
		c.model = constants.DefaultModel
	}
	if c.timeout <= 0 {
		c.timeout = constants.DefaultLLMTimeout
	}
	if c.maxTokens <= 0 {
		c.maxTokens = constants.DefaultMaxTokens
	}
	if c.maxAttempts <= 0 || c.maxAttempts > constants.MaxRetryAttempts {
		c.maxAttempts = constants.MaxRetryAttempts
	}
	return c, nil
}

// Model returns the model name requests are sent to.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Complete sends spec as a system + user message pair and returns the
// assistant's reply.
func (c *OpenAIClient) Complete(ctx context.Context, spec *domain.PromptSpec) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}
	if spec == nil {
		return "", fmt.Errorf("%w: prompt is nil", agendaerrors.ErrInvalidArgument)
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.runWithRetry(runCtx, spec)
}

// runWithRetry sends the request, retrying transient failures with backoff.
func (c *OpenAIClient) runWithRetry(ctx context.Context, spec *domain.PromptSpec) (string, error) {
	var lastErr error
	backoff := constants.InitialBackoff
	log := c.logger.With().Str("purpose", spec.Purpose).Str("model", c.model).Logger()

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			log.Debug().
				Int("attempt", attempt).
				Int("max_attempts", c.maxAttempts).
				Msg("retrying llm request")
		}

		content, err := c.createCompletion(ctx, spec)
		if err == nil {
			if attempt > 1 {
				log.Info().Int("attempt", attempt).Msg("llm request succeeded after retry")
			}
			return content, nil
		}

		if !isRetryable(err) {
			log.Debug().Err(err).Int("attempt", attempt).Msg("llm request failed with non-retryable error")
			return "", err
		}

		lastErr = err
		if attempt < c.maxAttempts {
			log.Warn().
				Err(err).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("llm request failed, will retry after backoff")

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-timeSleep(backoff):
				backoff *= 2
			}
		}
	}

	log.Error().Err(lastErr).Int("max_attempts", c.maxAttempts).Msg("llm request failed after max retries")
	return "", lastErr
}

func (c *OpenAIClient) createCompletion(ctx context.Context, spec *domain.PromptSpec) (string, error) {
	maxTokens := spec.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: spec.Temperature,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: spec.System},
			{Role: openai.ChatMessageRoleUser, Content: spec.User},
		},
	}
	if spec.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", agendaerrors.ErrCollaboratorEmptyResponse
	}

	c.logger.Debug().
		Str("purpose", spec.Purpose).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("llm request completed")

	return resp.Choices[0].Message.Content, nil
}
