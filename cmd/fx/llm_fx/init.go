package llm_fx

import (
	"log"
	"os"
	"strings"

	"go.uber.org/fx"

	"tripweaver/pkg/llm"
)

var Module = fx.Provide(
	ProvideChatClient)

// ChatConfig holds configuration for the chat model client
type ChatConfig struct {
	Provider string
	APIKey   string
	Model    string
}

// ProvideChatClient creates a chat client based on environment variables
func ProvideChatClient() (llm.ChatClient, error) {
	config := getChatConfig()

	log.Printf("Initializing %s chat client with model: %s", config.Provider, config.Model)

	return llm.NewChatClient(config.Provider, config.APIKey, config.Model)
}

// getChatConfig reads configuration from environment variables
func getChatConfig() ChatConfig {
	provider := getEnvWithDefault("CHAT_PROVIDER", "deepseek")

	var apiKey, model string

	switch strings.ToLower(provider) {
	case "deepseek":
		apiKey = os.Getenv("DEEPSEEK_API_KEY")
		model = getEnvWithDefault("DEEPSEEK_MODEL", "deepseek-chat")
		if apiKey == "" {
			log.Fatal("DEEPSEEK_API_KEY is required when using DeepSeek provider")
		}
	case "gemini":
		apiKey = os.Getenv("GEMINI_API_KEY")
		model = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
		if apiKey == "" {
			log.Fatal("GEMINI_API_KEY is required when using Gemini provider")
		}
	}

	return ChatConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
	}
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
