package llm

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

type geminiProvider struct {
	client *genai.Client
	model  string
}

func newGemini(apiKey, model string) (*geminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: completionTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiProvider{
		client: client,
		model:  model,
	}, nil
}

func (p *geminiProvider) Complete(ctx context.Context, system, prompt string, opts *CompleteOptions) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if opts != nil {
		if opts.Temperature != nil {
			cfg.Temperature = opts.Temperature
		}
		if opts.MaxTokens > 0 {
			cfg.MaxOutputTokens = int32(opts.MaxTokens)
		}
	}
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}
	return "", fmt.Errorf("gemini returned no text content")
}
