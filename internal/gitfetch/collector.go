package gitfetch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"

	"skillscope/internal/textutil"
)

const (
	reposPerPage   = 100
	maxCandidates  = 300
	descriptionMax = 500
)

// Collector fetches a subject's repositories and commit history from the
// hosting API, bounded by Options. All calls happen sequentially.
type Collector struct {
	client *github.Client
	opts   Options
}

// Options bound how much evidence a collection pass may gather.
type Options struct {
	MaxRepos     int
	MaxCommits   int // per repository
	WindowMonths int
	Policy       SelectionPolicy
}

// NewCollector returns a Collector for the given token and bounds. An empty
// token selects anonymous access.
func NewCollector(token string, opts Options) *Collector {
	return &Collector{
		client: newGitHubClient(token),
		opts:   opts,
	}
}

// Collect gathers the subject profile, a policy-selected set of repositories,
// and the commit records inside the window. A repository that cannot be
// reached is skipped with a warning; subject-level, credential, and
// rate-limit failures abort the pass.
func (c *Collector) Collect(ctx context.Context, login string) (*Evidence, error) {
	now := time.Now().UTC()
	window := Window{Since: now.AddDate(0, -c.opts.WindowMonths, 0), Until: now}

	subject, err := c.fetchSubject(ctx, login)
	if err != nil {
		return nil, err
	}
	slog.Info("collecting evidence",
		"subject", subject.Login, "since", window.Since.Format("2006-01-02"))

	candidates, err := c.fetchRepoCandidates(ctx, login)
	if err != nil {
		return nil, err
	}
	selected := selectRepos(candidates, c.opts.MaxRepos, c.opts.Policy)
	slog.Debug("selected repositories",
		"candidates", len(candidates), "selected", len(selected), "policy", c.opts.Policy)

	ev := &Evidence{Subject: subject, Window: window}
	for _, repo := range selected {
		summary, records, err := c.collectRepo(ctx, login, repo, window)
		if err != nil {
			if abortsCollection(err) {
				return nil, err
			}
			slog.Warn("skipping repository", "repo", repo.GetFullName(), "error", err)
			continue
		}
		summary.CommitCount = len(records)
		ev.Repos = append(ev.Repos, summary)
		ev.Commits = append(ev.Commits, records...)
	}

	sort.Slice(ev.Repos, func(i, j int) bool {
		if !ev.Repos[i].LastActivity.Equal(ev.Repos[j].LastActivity) {
			return ev.Repos[i].LastActivity.After(ev.Repos[j].LastActivity)
		}
		return ev.Repos[i].FullName < ev.Repos[j].FullName
	})
	sort.Slice(ev.Commits, func(i, j int) bool {
		if !ev.Commits[i].Timestamp.Equal(ev.Commits[j].Timestamp) {
			return ev.Commits[i].Timestamp.After(ev.Commits[j].Timestamp)
		}
		return ev.Commits[i].SHA < ev.Commits[j].SHA
	})

	slog.Info("evidence collected",
		"repos", len(ev.Repos), "commits", len(ev.Commits), "line_changes", ev.TotalLineChanges())
	return ev, nil
}

func (c *Collector) fetchSubject(ctx context.Context, login string) (Subject, error) {
	user, _, err := c.client.Users.Get(ctx, login)
	if err != nil {
		return Subject{}, classify("fetching subject "+login, err)
	}
	return Subject{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		JoinedAt:    user.GetCreatedAt().Time,
		PublicRepos: user.GetPublicRepos(),
		Followers:   user.GetFollowers(),
	}, nil
}

func (c *Collector) fetchRepoCandidates(ctx context.Context, login string) ([]*github.Repository, error) {
	opts := &github.RepositoryListByUserOptions{
		Sort:        "pushed",
		Direction:   "desc",
		Type:        "all",
		ListOptions: github.ListOptions{PerPage: reposPerPage},
	}

	var all []*github.Repository
	for {
		repos, resp, err := c.client.Repositories.ListByUser(ctx, login, opts)
		if err != nil {
			return nil, classify("listing repositories", err)
		}
		all = append(all, repos...)
		if resp.NextPage == 0 || len(all) >= maxCandidates {
			break
		}
		opts.Page = resp.NextPage
	}
	if len(all) > maxCandidates {
		all = all[:maxCandidates]
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].GetPushedAt().After(all[j].GetPushedAt().Time)
	})
	return all, nil
}

// selectRepos applies the selection policy to candidates sorted newest-first
// by push time.
func selectRepos(repos []*github.Repository, max int, policy SelectionPolicy) []*github.Repository {
	if len(repos) <= max {
		return repos
	}
	if policy == PolicyRecent {
		return repos[:max]
	}

	// Balanced: the newest half of the budget by push time, then the oldest
	// of the remaining candidates by creation date.
	newest := (max + 1) / 2
	selected := make([]*github.Repository, 0, max)
	selected = append(selected, repos[:newest]...)

	rest := make([]*github.Repository, len(repos)-newest)
	copy(rest, repos[newest:])
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].GetCreatedAt().Before(rest[j].GetCreatedAt().Time)
	})
	return append(selected, rest[:max-newest]...)
}

func (c *Collector) collectRepo(ctx context.Context, login string, repo *github.Repository, window Window) (RepositorySummary, []CommitRecord, error) {
	owner := repo.GetOwner().GetLogin()
	name := repo.GetName()
	slog.Debug("collecting repository", "repo", repo.GetFullName())

	summary := RepositorySummary{
		Name:         name,
		FullName:     repo.GetFullName(),
		Description:  textutil.Truncate(repo.GetDescription(), descriptionMax, "..."),
		Language:     repo.GetLanguage(),
		Stars:        repo.GetStargazersCount(),
		IsFork:       repo.GetFork(),
		CreatedAt:    repo.GetCreatedAt().Time,
		LastActivity: repo.GetPushedAt().Time,
	}

	readme, _, err := c.client.Repositories.GetReadme(ctx, owner, name, nil)
	if err == nil {
		if content, cerr := readme.GetContent(); cerr == nil {
			summary.HasReadme = true
			summary.ReadmeLength = len(content)
		}
	}

	records, err := c.fetchCommitRecords(ctx, owner, name, repo.GetFullName(), login, window)
	if err != nil {
		return RepositorySummary{}, nil, err
	}
	return summary, records, nil
}

func (c *Collector) fetchCommitRecords(ctx context.Context, owner, name, fullName, author string, window Window) ([]CommitRecord, error) {
	listed, err := c.listCommits(ctx, owner, name, author, window)
	if err != nil {
		return nil, err
	}

	records := make([]CommitRecord, 0, len(listed))
	for _, cm := range listed {
		detail, _, err := c.client.Repositories.GetCommit(ctx, owner, name, cm.GetSHA(), nil)
		if err != nil {
			return nil, classify("fetching commit "+cm.GetSHA(), err)
		}
		records = append(records, commitRecord(fullName, detail))
	}
	return filterRecords(records, window), nil
}

func (c *Collector) listCommits(ctx context.Context, owner, name, author string, window Window) ([]*github.RepositoryCommit, error) {
	perPage := min(c.opts.MaxCommits, 100)
	opts := &github.CommitsListOptions{
		Author:      author,
		Since:       window.Since,
		Until:       window.Until,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var all []*github.RepositoryCommit
	for {
		commits, resp, err := c.client.Repositories.ListCommits(ctx, owner, name, opts)
		if err != nil {
			var ghErr *github.ErrorResponse
			if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusConflict {
				return nil, nil // empty repository
			}
			return nil, classify("listing commits for "+owner+"/"+name, err)
		}
		all = append(all, commits...)
		if resp.NextPage == 0 || len(all) >= c.opts.MaxCommits {
			break
		}
		opts.Page = resp.NextPage
	}
	if len(all) > c.opts.MaxCommits {
		all = all[:c.opts.MaxCommits]
	}
	return all, nil
}

// commitRecord converts a detailed commit (stats and files populated) into a
// CommitRecord.
func commitRecord(repo string, detail *github.RepositoryCommit) CommitRecord {
	return CommitRecord{
		Repo:       repo,
		SHA:        detail.GetSHA(),
		Message:    detail.GetCommit().GetMessage(),
		Timestamp:  detail.GetCommit().GetAuthor().GetDate().Time,
		Additions:  detail.GetStats().GetAdditions(),
		Deletions:  detail.GetStats().GetDeletions(),
		Extensions: fileExtensions(detail.Files),
	}
}

// fileExtensions returns the sorted set of lowercase extensions among files.
// A file without an extension contributes an empty string entry.
func fileExtensions(files []*github.CommitFile) []string {
	set := make(map[string]bool, len(files))
	for _, f := range files {
		if f.GetFilename() == "" {
			continue
		}
		set[strings.ToLower(path.Ext(f.GetFilename()))] = true
	}
	exts := make([]string, 0, len(set))
	for ext := range set {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// filterRecords drops records outside the window and collapses duplicate
// SHAs within a repository, keeping the first occurrence. Collection passes
// resumed after a rate-limit pause therefore never double-count a commit.
func filterRecords(records []CommitRecord, window Window) []CommitRecord {
	seen := make(map[string]bool, len(records))
	out := make([]CommitRecord, 0, len(records))
	for _, rec := range records {
		key := rec.Repo + "@" + rec.SHA
		if seen[key] || !window.Contains(rec.Timestamp) {
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}
