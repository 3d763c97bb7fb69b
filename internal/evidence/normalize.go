// Package evidence reduces collected repository and commit data to the
// bounded, deterministic aggregate handed to the assessment step. Nothing
// here touches the network or the clock.
package evidence

import (
	"sort"
	"time"

	"skillscope/internal/gitfetch"
)

// Bundle is the normalized view of one collection pass. Every number in it
// derives from the summaries and records handed to Normalize; nothing is
// recomputed from the live API afterwards.
type Bundle struct {
	LanguageLines map[string]int
	RepoCommits   map[string]int
	Repositories  []RepoEvidence
	Progression   Progression
	Totals        Totals
	Collaboration Collaboration
}

// RepoEvidence is one repository row: identity, the documentation ordinal,
// and the span of the subject's commits inside the analysis window. The
// timestamps are zero when the repository had no qualifying commits.
type RepoEvidence struct {
	Name        string
	Language    string
	Stars       int
	DocLevel    int
	Commits     int
	FirstCommit time.Time
	LastCommit  time.Time
}

// Phase aggregates one half of the temporal split.
type Phase struct {
	Commits       int
	From          time.Time
	To            time.Time
	LanguageLines map[string]int
}

// Progression splits the commit history at its midpoint into an early and a
// recent phase. Available is false when fewer than two commits exist; the
// phases are then zero-valued rather than fabricated.
type Progression struct {
	Available bool
	Early     Phase
	Recent    Phase
}

// Totals holds the overall activity numbers.
type Totals struct {
	Commits        int
	Additions      int
	Deletions      int
	ActiveRepos    int
	MostActiveRepo string
}

// Collaboration estimates community engagement from the fork/original mix of
// the analyzed repositories. The score is capped at 1.
type Collaboration struct {
	Originals int
	Forks     int
	Score     float64
}

// Normalize reduces the collected summaries and commit records to a Bundle.
// It is pure: identical inputs produce deeply equal bundles.
func Normalize(repos []gitfetch.RepositorySummary, commits []gitfetch.CommitRecord) *Bundle {
	perRepo := make(map[string][]gitfetch.CommitRecord)
	for _, c := range commits {
		perRepo[c.Repo] = append(perRepo[c.Repo], c)
	}

	b := &Bundle{
		LanguageLines: languageTotals(commits),
		RepoCommits:   make(map[string]int, len(repos)),
		Repositories:  make([]RepoEvidence, 0, len(repos)),
		Progression:   progression(commits),
		Totals:        totals(commits),
		Collaboration: collaboration(repos),
	}

	for _, r := range repos {
		recs := perRepo[r.FullName]
		b.RepoCommits[r.FullName] = len(recs)

		row := RepoEvidence{
			Name:     r.FullName,
			Language: r.Language,
			Stars:    r.Stars,
			DocLevel: docLevel(r),
			Commits:  len(recs),
		}
		for _, c := range recs {
			if row.FirstCommit.IsZero() || c.Timestamp.Before(row.FirstCommit) {
				row.FirstCommit = c.Timestamp
			}
			if c.Timestamp.After(row.LastCommit) {
				row.LastCommit = c.Timestamp
			}
		}
		b.Repositories = append(b.Repositories, row)
	}
	sort.Slice(b.Repositories, func(i, j int) bool {
		return b.Repositories[i].Name < b.Repositories[j].Name
	})

	return b
}

// languageTotals attributes each commit's line changes to language buckets.
// A commit touching several languages splits its total evenly across the
// sorted bucket names; the integer remainder is handed out one line at a
// time starting from the first bucket, so per-language totals always sum
// exactly to the input line changes.
func languageTotals(commits []gitfetch.CommitRecord) map[string]int {
	out := make(map[string]int)
	for _, c := range commits {
		buckets := commitLanguages(c)
		lines := c.Additions + c.Deletions
		share := lines / len(buckets)
		rem := lines % len(buckets)
		for i, lang := range buckets {
			out[lang] += share
			if i < rem {
				out[lang]++
			}
		}
	}
	return out
}

// commitLanguages maps a commit's extension set to the sorted, deduplicated
// language buckets it evidences. Commits with no extension information land
// in the unspecified bucket.
func commitLanguages(c gitfetch.CommitRecord) []string {
	if len(c.Extensions) == 0 {
		return []string{UnspecifiedLanguage}
	}
	seen := make(map[string]bool, len(c.Extensions))
	langs := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		lang := LanguageFor(ext)
		if !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs
}

func progression(commits []gitfetch.CommitRecord) Progression {
	if len(commits) < 2 {
		return Progression{}
	}
	sorted := make([]gitfetch.CommitRecord, len(commits))
	copy(sorted, commits)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		return sorted[i].SHA < sorted[j].SHA
	})
	mid := len(sorted) / 2
	return Progression{
		Available: true,
		Early:     phase(sorted[:mid]),
		Recent:    phase(sorted[mid:]),
	}
}

func phase(commits []gitfetch.CommitRecord) Phase {
	return Phase{
		Commits:       len(commits),
		From:          commits[0].Timestamp,
		To:            commits[len(commits)-1].Timestamp,
		LanguageLines: languageTotals(commits),
	}
}

func totals(commits []gitfetch.CommitRecord) Totals {
	t := Totals{Commits: len(commits)}
	repoLines := make(map[string]int)
	for _, c := range commits {
		t.Additions += c.Additions
		t.Deletions += c.Deletions
		repoLines[c.Repo] += c.Additions + c.Deletions
	}
	t.ActiveRepos = len(repoLines)
	for repo, lines := range repoLines {
		if t.MostActiveRepo == "" {
			t.MostActiveRepo = repo
			continue
		}
		best := repoLines[t.MostActiveRepo]
		if lines > best || (lines == best && repo < t.MostActiveRepo) {
			t.MostActiveRepo = repo
		}
	}
	return t
}

func collaboration(repos []gitfetch.RepositorySummary) Collaboration {
	var c Collaboration
	for _, r := range repos {
		if r.IsFork {
			c.Forks++
		} else {
			c.Originals++
		}
	}
	total := c.Forks + c.Originals
	if total == 0 {
		return c
	}
	score := (float64(c.Forks)*0.1 + float64(c.Originals)*0.3) / float64(total)
	if score > 1 {
		score = 1
	}
	c.Score = score
	return c
}

// docLevel is the 0 to 3 documentation ordinal: one point each for having a
// README, a README of at least 500 characters, and a non-empty description.
func docLevel(r gitfetch.RepositorySummary) int {
	level := 0
	if r.HasReadme {
		level++
		if r.ReadmeLength >= 500 {
			level++
		}
	}
	if r.Description != "" {
		level++
	}
	return level
}
