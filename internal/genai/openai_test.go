package genai

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadport/acadport-api/pkg/config"
	"github.com/acadport/acadport-api/pkg/errors"
)

func TestNewOpenAIChatCompleter_MissingConfig(t *testing.T) {
	logger := zap.NewNop()

	_, err := NewOpenAIChatCompleter(config.AssistantConfig{Model: "gpt-4o-mini"}, logger)
	require.Error(t, err)
	assert.Equal(t, errors.ErrModelConfig.Code, errors.FromError(err).Code)

	_, err = NewOpenAIChatCompleter(config.AssistantConfig{APIKey: "sk-test"}, logger)
	require.Error(t, err)
	assert.Equal(t, errors.ErrModelConfig.Code, errors.FromError(err).Code)
}

func TestNewOpenAIChatCompleter_DefaultsTimeout(t *testing.T) {
	c, err := NewOpenAIChatCompleter(config.AssistantConfig{
		APIKey: "sk-test",
		Model:  "gpt-4o-mini",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, c.timeout)
}

func TestClassifyProviderError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "deadline exceeded maps to timeout",
			err:      fmt.Errorf("request: %w", context.DeadlineExceeded),
			wantCode: errors.ErrUpstreamTimeout.Code,
		},
		{
			name:     "unsupported parameter maps to model config",
			err:      &openai.Error{StatusCode: 400, Message: "Unsupported value: 'temperature' does not support 0.2 with this model."},
			wantCode: errors.ErrModelConfig.Code,
		},
		{
			name:     "unsupported param name maps to model config",
			err:      &openai.Error{StatusCode: 400, Message: "unknown parameter: 'max_tokens'"},
			wantCode: errors.ErrModelConfig.Code,
		},
		{
			name:     "unauthorized maps to model config",
			err:      &openai.Error{StatusCode: 401, Message: "Incorrect API key provided"},
			wantCode: errors.ErrModelConfig.Code,
		},
		{
			name:     "server error maps to upstream",
			err:      &openai.Error{StatusCode: 500, Message: "internal error"},
			wantCode: errors.ErrUpstream.Code,
		},
		{
			name:     "plain error maps to upstream",
			err:      fmt.Errorf("connection refused"),
			wantCode: errors.ErrUpstream.Code,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyProviderError(tt.err)
			require.Error(t, got)
			assert.Equal(t, tt.wantCode, errors.FromError(got).Code)
		})
	}
}
