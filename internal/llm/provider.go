package llm

import (
	"context"
	"fmt"
	"time"
)

// completionTimeout bounds one hosted completion call. Local ollama gets a
// longer budget of its own since small machines can take minutes per response.
const completionTimeout = 120 * time.Second

// ProviderName identifies a supported completion provider.
type ProviderName string

const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
	ProviderGemini    ProviderName = "gemini"
	ProviderOllama    ProviderName = "ollama"
)

// CompleteOptions controls per-request completion parameters.
// A nil value uses provider-specific defaults.
type CompleteOptions struct {
	Temperature *float32
	MaxTokens   int
}

// ProviderConfig holds the configuration needed to construct a Provider.
type ProviderConfig struct {
	Name       ProviderName
	APIKey     string
	Model      string
	OllamaHost string
}

// Provider abstracts a completion backend. The assessment pipeline calls
// Complete exactly once per run.
type Provider interface {
	Complete(ctx context.Context, system, prompt string, opts *CompleteOptions) (string, error)
}

// NewProvider creates a Provider for the given configuration.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Name {
	case ProviderOpenAI:
		return newOpenAI(cfg.APIKey, cfg.Model), nil
	case ProviderAnthropic:
		return newAnthropic(cfg.APIKey, cfg.Model), nil
	case ProviderGemini:
		return newGemini(cfg.APIKey, cfg.Model)
	case ProviderOllama:
		return newOllama(cfg.OllamaHost, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Name)
	}
}
