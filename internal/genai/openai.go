package genai

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/acadport/acadport-api/pkg/config"
	"github.com/acadport/acadport-api/pkg/errors"
)

// OpenAIChatCompleter implements Completer against any OpenAI-compatible
// chat completion endpoint.
type OpenAIChatCompleter struct {
	client  openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewOpenAIChatCompleter builds a completer from the assistant configuration.
func NewOpenAIChatCompleter(cfg config.AssistantConfig, logger *zap.Logger) (*OpenAIChatCompleter, error) {
	if cfg.APIKey == "" {
		return nil, errors.Clone(errors.ErrModelConfig, "assistant API key is not configured")
	}
	if cfg.Model == "" {
		return nil, errors.Clone(errors.ErrModelConfig, "assistant model is not configured")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &OpenAIChatCompleter{
		client:  openai.NewClient(opts...),
		model:   cfg.Model,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Complete sends the prompt as a single user message and returns the first
// choice. Temperature is left at the provider default; some deployments
// reject requests that set it explicitly.
func (c *OpenAIChatCompleter) Complete(ctx context.Context, prompt string, maxOutputTokens int64) (*Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(maxOutputTokens),
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		c.logger.Warn("chat completion failed",
			zap.String("model", c.model),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil, classifyProviderError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.Clone(errors.ErrUpstream, "completion returned no choices")
	}

	choice := resp.Choices[0]
	c.logger.Debug("chat completion succeeded",
		zap.String("model", c.model),
		zap.String("finish_reason", choice.FinishReason),
		zap.Int64("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", time.Since(start)))

	return &Completion{
		Content:      choice.Message.Content,
		FinishReason: FinishReason(choice.FinishReason),
	}, nil
}

// classifyProviderError maps provider failures into the application error
// taxonomy. Rejected sampling parameters surface as 400s mentioning the
// parameter name; those mean the deployment and config disagree, not that
// the upstream is down.
func classifyProviderError(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(err, errors.ErrUpstreamTimeout.Code, errors.ErrUpstreamTimeout.Status, errors.ErrUpstreamTimeout.Message)
	}

	var apiErr *openai.Error
	if stderrors.As(err, &apiErr) {
		msg := strings.ToLower(apiErr.Message)
		if apiErr.StatusCode == 400 && (strings.Contains(msg, "unsupported") ||
			strings.Contains(msg, "temperature") ||
			strings.Contains(msg, "parameter")) {
			return errors.Wrap(err, errors.ErrModelConfig.Code, errors.ErrModelConfig.Status, errors.ErrModelConfig.Message)
		}
		if apiErr.StatusCode == 401 || apiErr.StatusCode == 403 {
			return errors.Wrap(err, errors.ErrModelConfig.Code, errors.ErrModelConfig.Status, "completion provider rejected credentials")
		}
	}

	return errors.Wrap(err, errors.ErrUpstream.Code, errors.ErrUpstream.Status, errors.ErrUpstream.Message)
}
