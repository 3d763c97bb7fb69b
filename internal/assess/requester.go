// Package assess turns one evidence bundle into one validated skills
// assessment through a completion provider. It performs exactly one
// completion call per run and never repairs nonconforming output.
package assess

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"skillscope/internal/evidence"
	"skillscope/internal/llm"
)

const (
	completionTemperature = 0.2
	completionMaxTokens   = 2000
)

// Requester asks the configured completion provider for a skills assessment.
type Requester struct {
	provider llm.Provider
}

// New returns a Requester backed by the given provider.
func New(provider llm.Provider) *Requester {
	return &Requester{provider: provider}
}

// Assess performs the run's single completion call and validates the
// response. Failed calls surface as *ServiceError, nonconforming output as
// *SchemaError.
func (r *Requester) Assess(ctx context.Context, login string, bundle *evidence.Bundle) (*Result, error) {
	prompt := BuildPrompt(login, bundle)
	slog.Info("requesting assessment", "prompt_bytes", len(prompt))

	temp := float32(completionTemperature)
	raw, err := r.provider.Complete(ctx, systemPrompt, prompt, &llm.CompleteOptions{
		Temperature: &temp,
		MaxTokens:   completionMaxTokens,
	})
	if err != nil {
		return nil, &ServiceError{Err: err}
	}

	result, err := ParseResult(raw)
	if err != nil {
		return nil, err
	}
	slog.Info("assessment accepted",
		"experience_level", string(result.ExperienceLevel),
		"skills", len(result.Skills),
		"recommendations", len(result.Recommendations))
	return result, nil
}

// BuildPrompt renders the evidence bundle into the completion prompt. Maps
// are walked in sorted order so equal bundles produce byte-identical
// prompts.
func BuildPrompt(login string, bundle *evidence.Bundle) string {
	return fmt.Sprintf(assessmentPrompt, login, bundleText(bundle))
}

func bundleText(b *evidence.Bundle) string {
	var sb strings.Builder

	t := b.Totals
	sb.WriteString("ACTIVITY SUMMARY:\n")
	fmt.Fprintf(&sb, "Commits: %d across %d active repositories\n", t.Commits, t.ActiveRepos)
	fmt.Fprintf(&sb, "Line changes: +%d/-%d\n", t.Additions, t.Deletions)
	if t.MostActiveRepo != "" {
		fmt.Fprintf(&sb, "Most active repository: %s\n", t.MostActiveRepo)
	}

	sb.WriteString("\nLANGUAGE LINE CHANGES:\n")
	writeLanguageLines(&sb, b.LanguageLines)

	sb.WriteString("\nTEMPORAL PROGRESSION:\n")
	if b.Progression.Available {
		writePhase(&sb, "Early", b.Progression.Early)
		writePhase(&sb, "Recent", b.Progression.Recent)
	} else {
		sb.WriteString("Not available: fewer than two commits in the window.\n")
	}

	sb.WriteString("\nREPOSITORIES ANALYZED:\n")
	for _, repo := range b.Repositories {
		lang := repo.Language
		if lang == "" {
			lang = "no primary language"
		}
		fmt.Fprintf(&sb, "- %s (%s, %d stars): %d commits, documentation level %d/3",
			repo.Name, lang, repo.Stars, repo.Commits, repo.DocLevel)
		if repo.Commits > 0 {
			fmt.Fprintf(&sb, ", active %s to %s",
				repo.FirstCommit.Format("2006-01-02"), repo.LastCommit.Format("2006-01-02"))
		}
		sb.WriteString("\n")
	}

	c := b.Collaboration
	fmt.Fprintf(&sb, "\nCOLLABORATION:\nOriginal repositories: %d, forks: %d, engagement score: %.2f\n",
		c.Originals, c.Forks, c.Score)

	return sb.String()
}

func writePhase(sb *strings.Builder, label string, p evidence.Phase) {
	fmt.Fprintf(sb, "%s phase (%s to %s, %d commits):\n",
		label, p.From.Format("2006-01-02"), p.To.Format("2006-01-02"), p.Commits)
	writeLanguageLines(sb, p.LanguageLines)
}

// writeLanguageLines orders buckets by line count descending, names
// ascending on ties.
func writeLanguageLines(sb *strings.Builder, lines map[string]int) {
	if len(lines) == 0 {
		sb.WriteString("  none\n")
		return
	}
	names := make([]string, 0, len(lines))
	for name := range lines {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if lines[names[i]] != lines[names[j]] {
			return lines[names[i]] > lines[names[j]]
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		fmt.Fprintf(sb, "  %s: %d\n", name, lines[name])
	}
}
