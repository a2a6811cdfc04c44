package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const deepSeekBaseURL = "https://api.deepseek.com/v1"

// DeepSeekClient talks to the DeepSeek chat-completion endpoint through the
// OpenAI-compatible API surface.
type DeepSeekClient struct {
	client *openai.Client
	model  string
}

func NewDeepSeekClient(apiKey, model string) *DeepSeekClient {
	if model == "" {
		model = "deepseek-chat"
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = deepSeekBaseURL

	return &DeepSeekClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *DeepSeekClient) Chat(ctx context.Context, messages []Message, opts Options) (string, error) {
	reqMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		reqMessages = append(reqMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    reqMessages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("deepseek: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("deepseek: no completion returned")
	}

	return resp.Choices[0].Message.Content, nil
}
