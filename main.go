package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"skillscope/internal/assess"
	"skillscope/internal/config"
	"skillscope/internal/evidence"
	"skillscope/internal/gitfetch"
	"skillscope/internal/llm"
	"skillscope/internal/report"
)

func main() {
	var cfg config.Config
	var provider, policy string
	flag.StringVar(&provider, "provider", "openai", "LLM provider: openai, anthropic, gemini, ollama")
	flag.StringVar(&cfg.Model, "model", "", "LLM model (default: per-provider)")
	flag.StringVar(&cfg.OutputDir, "output", "./reports", "Output directory for the report files")
	flag.IntVar(&cfg.WindowMonths, "months", 12, "Analysis window in months")
	flag.IntVar(&cfg.MaxRepos, "max-repos", 20, "Maximum repositories to analyze")
	flag.IntVar(&cfg.MaxCommits, "max-commits", 50, "Maximum commits to analyze per repository")
	flag.StringVar(&policy, "repo-policy", "balanced", "Repository selection: balanced (newest plus oldest) or recent")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: skillscope [flags] <github-username>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg.Provider = llm.ProviderName(provider)
	cfg.RepoPolicy = gitfetch.SelectionPolicy(policy)

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}
	if flag.NArg() == 1 {
		cfg.Username = flag.Arg(0)
	}

	cfg.LoadFromEnv()
	if cfg.Model == "" {
		cfg.Model = config.DefaultModel(cfg.Provider)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, &cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("starting skillscope",
		"username", cfg.Username,
		"provider", cfg.Provider,
		"model", cfg.Model,
		"months", cfg.WindowMonths,
		"repo_policy", cfg.RepoPolicy,
	)
	if cfg.GitHubToken == "" {
		slog.Warn("no GitHub token provided, using the public API with a lower request quota")
	}

	collector := gitfetch.NewCollector(cfg.GitHubToken, gitfetch.Options{
		MaxRepos:     cfg.MaxRepos,
		MaxCommits:   cfg.MaxCommits,
		WindowMonths: cfg.WindowMonths,
		Policy:       cfg.RepoPolicy,
	})
	ev, err := collector.Collect(ctx, cfg.Username)
	if err != nil {
		return fmt.Errorf("collecting evidence: %w", err)
	}

	bundle := evidence.Normalize(ev.Repos, ev.Commits)

	provider, err := llm.NewProvider(llm.ProviderConfig{
		Name:       cfg.Provider,
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		OllamaHost: cfg.OllamaHost,
	})
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}
	result, err := assess.New(provider).Assess(ctx, cfg.Username, bundle)
	if err != nil {
		return fmt.Errorf("requesting assessment: %w", err)
	}

	doc := report.Build(ev.Subject, bundle, result, time.Now().UTC())
	jsonPath, mdPath, err := report.NewRenderer(cfg.OutputDir).Write(doc)
	if err != nil {
		return fmt.Errorf("writing reports: %w", err)
	}

	if err := report.PrintSummary(os.Stdout, doc); err != nil {
		return fmt.Errorf("printing summary: %w", err)
	}
	fmt.Println(jsonPath)
	fmt.Println(mdPath)
	slog.Info("done", "reports_written", 2)
	return nil
}
