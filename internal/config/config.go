package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/joho/godotenv"

	"skillscope/internal/gitfetch"
	"skillscope/internal/llm"
)

var validUsername = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,37}[a-zA-Z0-9])?$`)

// Config holds all runtime configuration for skillscope. Credentials are
// carried here explicitly and handed to the components that need them; they
// are never read from the environment past startup and never logged.
type Config struct {
	Username     string
	GitHubToken  string
	Provider     llm.ProviderName
	Model        string
	OllamaHost   string
	APIKey       string
	OutputDir    string
	WindowMonths int
	MaxRepos     int
	MaxCommits   int
	RepoPolicy   gitfetch.SelectionPolicy
	Verbose      bool
}

// Validate checks that all required fields are set and consistent.
// The GitHub token is deliberately not required: unauthenticated runs work
// against the public API with a lower request quota.
func (c *Config) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("github username is required")
	}
	if !validUsername.MatchString(c.Username) {
		return fmt.Errorf("invalid github username %q", c.Username)
	}
	switch c.Provider {
	case llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderGemini, llm.ProviderOllama:
	default:
		return fmt.Errorf("unsupported LLM provider %q: must be openai, anthropic, gemini, or ollama", c.Provider)
	}
	if c.APIKey == "" && c.Provider != llm.ProviderOllama {
		return fmt.Errorf("%s requires an API key (set %s)", c.Provider, envKeyForProvider(c.Provider))
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.WindowMonths < 1 {
		return fmt.Errorf("--months must be at least 1")
	}
	if c.MaxRepos < 1 {
		return fmt.Errorf("--max-repos must be at least 1")
	}
	if c.MaxCommits < 1 {
		return fmt.Errorf("--max-commits must be at least 1")
	}
	switch c.RepoPolicy {
	case gitfetch.PolicyBalanced, gitfetch.PolicyRecent:
	default:
		return fmt.Errorf("unknown repo policy %q: must be balanced or recent", c.RepoPolicy)
	}
	return nil
}

// LoadFromEnv populates environment-dependent fields (tokens, keys, hosts).
// A .env file in the working directory is honored when present.
func (c *Config) LoadFromEnv() {
	_ = godotenv.Load()
	if c.Username == "" {
		c.Username = os.Getenv("GITHUB_USERNAME")
	}
	c.GitHubToken = os.Getenv("GITHUB_TOKEN")
	c.OllamaHost = os.Getenv("OLLAMA_HOST")
	if c.OllamaHost == "" {
		c.OllamaHost = "http://localhost:11434"
	}
	switch c.Provider {
	case llm.ProviderOpenAI:
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	case llm.ProviderAnthropic:
		c.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case llm.ProviderGemini:
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// DefaultModel returns the default model name for the given provider.
func DefaultModel(provider llm.ProviderName) string {
	switch provider {
	case llm.ProviderOpenAI:
		return "gpt-4o"
	case llm.ProviderAnthropic:
		return "claude-sonnet-4-5"
	case llm.ProviderGemini:
		return "gemini-2.5-flash"
	case llm.ProviderOllama:
		return "llama3"
	default:
		return ""
	}
}

func envKeyForProvider(provider llm.ProviderName) string {
	switch provider {
	case llm.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case llm.ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case llm.ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}
