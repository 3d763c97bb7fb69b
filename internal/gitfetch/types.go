package gitfetch

import "time"

// SelectionPolicy names a repository selection strategy.
type SelectionPolicy string

const (
	// PolicyBalanced fills half the budget with the most recently pushed
	// repositories and the rest with the oldest by creation date, so both
	// current and historical activity are represented.
	PolicyBalanced SelectionPolicy = "balanced"
	// PolicyRecent fills the whole budget with the most recently pushed
	// repositories.
	PolicyRecent SelectionPolicy = "recent"
)

// Subject is the developer account under analysis. Built once at the start
// of a run and never mutated.
type Subject struct {
	Login       string
	Name        string
	JoinedAt    time.Time
	PublicRepos int
	Followers   int
}

// Window is the time span within which commits are eligible for collection.
type Window struct {
	Since time.Time
	Until time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Since) && !t.After(w.Until)
}

// RepositorySummary describes one analyzed repository. The readme and
// description fields are raw inputs for the documentation signal computed
// downstream; nothing here is derived.
type RepositorySummary struct {
	Name         string
	FullName     string
	Description  string
	Language     string
	Stars        int
	IsFork       bool
	CreatedAt    time.Time
	LastActivity time.Time
	CommitCount  int
	HasReadme    bool
	ReadmeLength int
}

// CommitRecord describes one analyzed commit. Additions and Deletions are
// never negative; Timestamp always falls inside the analysis window;
// Extensions is the sorted, deduplicated, lowercase set of changed-file
// extensions (an empty string entry stands for files without one).
type CommitRecord struct {
	Repo       string
	SHA        string
	Message    string
	Timestamp  time.Time
	Additions  int
	Deletions  int
	Extensions []string
}

// Evidence holds everything collected for one subject within the window.
type Evidence struct {
	Subject Subject
	Window  Window
	Repos   []RepositorySummary
	Commits []CommitRecord
}

// TotalCommits returns the number of commit records collected.
func (e *Evidence) TotalCommits() int { return len(e.Commits) }

// TotalLineChanges returns the sum of additions and deletions across all
// collected commits.
func (e *Evidence) TotalLineChanges() int {
	n := 0
	for _, c := range e.Commits {
		n += c.Additions + c.Deletions
	}
	return n
}
