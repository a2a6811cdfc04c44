package llm

import (
	"context"
	"fmt"
	"strings"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat-completion conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Options struct {
	Temperature float32
	MaxTokens   int
}

// ChatClient is the single capability the generation pipeline depends on.
// Implementations must be stateless per call and safe for concurrent use.
type ChatClient interface {
	Chat(ctx context.Context, messages []Message, opts Options) (string, error)
}

// NewChatClient creates a chat client for the configured provider.
func NewChatClient(provider, apiKey, model string) (ChatClient, error) {
	switch strings.ToLower(provider) {
	case "deepseek":
		return NewDeepSeekClient(apiKey, model), nil
	case "gemini":
		return NewGeminiClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported chat provider: %s. Use 'deepseek' or 'gemini'", provider)
	}
}
