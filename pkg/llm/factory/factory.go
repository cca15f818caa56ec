package factory

import (
	"fmt"

	"radiology-consult-be/pkg/llm"
	"radiology-consult-be/pkg/llm/ollama"
	"radiology-consult-be/pkg/llm/openai"
)

// NewLLMProvider builds a provider from config. "none" (or an openai
// selection without an API key) returns a nil provider, which callers treat
// as the signal to run with offline collaborators.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "openai":
		if apiKey == "" {
			return nil, nil
		}
		return openai.NewOpenAIProvider(apiKey, baseURL, modelName), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
