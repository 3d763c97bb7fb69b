package gitfetch

import (
	"testing"
	"time"

	"github.com/google/go-github/v68/github"
)

func TestSelectRepos(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	// Six repos: r1 pushed most recently, r6 least recently. Creation order
	// is the reverse, so r6 is the oldest repository.
	mkRepo := func(name string, age int) *github.Repository {
		return &github.Repository{
			Name:      github.Ptr(name),
			FullName:  github.Ptr("user/" + name),
			PushedAt:  &github.Timestamp{Time: base.AddDate(0, 0, -age)},
			CreatedAt: &github.Timestamp{Time: base.AddDate(-age, 0, 0)},
		}
	}
	repos := []*github.Repository{
		mkRepo("r1", 1),
		mkRepo("r2", 2),
		mkRepo("r3", 3),
		mkRepo("r4", 4),
		mkRepo("r5", 5),
		mkRepo("r6", 6),
	}

	names := func(got []*github.Repository) []string {
		out := make([]string, len(got))
		for i, r := range got {
			out[i] = r.GetName()
		}
		return out
	}

	tests := []struct {
		name   string
		max    int
		policy SelectionPolicy
		want   []string
	}{
		{
			name:   "fewer candidates than budget",
			max:    10,
			policy: PolicyBalanced,
			want:   []string{"r1", "r2", "r3", "r4", "r5", "r6"},
		},
		{
			name:   "recent takes newest",
			max:    3,
			policy: PolicyRecent,
			want:   []string{"r1", "r2", "r3"},
		},
		{
			name:   "balanced even budget",
			max:    4,
			policy: PolicyBalanced,
			want:   []string{"r1", "r2", "r6", "r5"},
		},
		{
			name:   "balanced odd budget favors newest",
			max:    3,
			policy: PolicyBalanced,
			want:   []string{"r1", "r2", "r6"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(selectRepos(repos, tt.max, tt.policy))
			if len(got) != len(tt.want) {
				t.Fatalf("selectRepos() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("selectRepos()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCommitRecord(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	detail := &github.RepositoryCommit{
		SHA: github.Ptr("abc123"),
		Commit: &github.Commit{
			Message: github.Ptr("add retry to fetcher"),
			Author:  &github.CommitAuthor{Date: &github.Timestamp{Time: ts}},
		},
		Stats: &github.CommitStats{
			Additions: github.Ptr(50),
			Deletions: github.Ptr(10),
		},
		Files: []*github.CommitFile{
			{Filename: github.Ptr("cmd/Main.GO")},
			{Filename: github.Ptr("README")},
			{Filename: github.Ptr("pkg/util.go")},
		},
	}

	rec := commitRecord("user/repo", detail)
	if rec.Repo != "user/repo" {
		t.Errorf("Repo = %q, want %q", rec.Repo, "user/repo")
	}
	if rec.SHA != "abc123" {
		t.Errorf("SHA = %q, want %q", rec.SHA, "abc123")
	}
	if rec.Message != "add retry to fetcher" {
		t.Errorf("Message = %q", rec.Message)
	}
	if !rec.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", rec.Timestamp, ts)
	}
	if rec.Additions != 50 || rec.Deletions != 10 {
		t.Errorf("stats = +%d/-%d, want +50/-10", rec.Additions, rec.Deletions)
	}
	want := []string{"", ".go"}
	if len(rec.Extensions) != len(want) {
		t.Fatalf("Extensions = %v, want %v", rec.Extensions, want)
	}
	for i := range want {
		if rec.Extensions[i] != want[i] {
			t.Errorf("Extensions[%d] = %q, want %q", i, rec.Extensions[i], want[i])
		}
	}
}

func TestFileExtensions(t *testing.T) {
	tests := []struct {
		name  string
		files []*github.CommitFile
		want  []string
	}{
		{
			name:  "no files",
			files: nil,
			want:  []string{},
		},
		{
			name: "deduplicated lowercase sorted",
			files: []*github.CommitFile{
				{Filename: github.Ptr("a.PY")},
				{Filename: github.Ptr("b.py")},
				{Filename: github.Ptr("dir/c.go")},
			},
			want: []string{".go", ".py"},
		},
		{
			name: "file without extension",
			files: []*github.CommitFile{
				{Filename: github.Ptr("Makefile")},
			},
			want: []string{""},
		},
		{
			name: "blank filename skipped",
			files: []*github.CommitFile{
				{Filename: github.Ptr("")},
				{Filename: github.Ptr("x.rs")},
			},
			want: []string{".rs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fileExtensions(tt.files)
			if len(got) != len(tt.want) {
				t.Fatalf("fileExtensions() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("fileExtensions()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFilterRecords(t *testing.T) {
	window := Window{
		Since: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Until: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	in := func(day int) time.Time { return time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC) }

	t.Run("duplicate shas collapsed", func(t *testing.T) {
		records := []CommitRecord{
			{Repo: "u/a", SHA: "s1", Timestamp: in(1), Additions: 5},
			{Repo: "u/a", SHA: "s1", Timestamp: in(1), Additions: 5},
			{Repo: "u/a", SHA: "s2", Timestamp: in(2)},
		}
		got := filterRecords(records, window)
		if len(got) != 2 {
			t.Fatalf("expected 2 records, got %d", len(got))
		}
	})

	t.Run("same sha in different repos kept", func(t *testing.T) {
		records := []CommitRecord{
			{Repo: "u/a", SHA: "s1", Timestamp: in(1)},
			{Repo: "u/b", SHA: "s1", Timestamp: in(1)},
		}
		got := filterRecords(records, window)
		if len(got) != 2 {
			t.Fatalf("expected 2 records, got %d", len(got))
		}
	})

	t.Run("outside window dropped", func(t *testing.T) {
		records := []CommitRecord{
			{Repo: "u/a", SHA: "old", Timestamp: window.Since.AddDate(0, 0, -1)},
			{Repo: "u/a", SHA: "new", Timestamp: window.Until.AddDate(0, 0, 1)},
			{Repo: "u/a", SHA: "ok", Timestamp: in(15)},
		}
		got := filterRecords(records, window)
		if len(got) != 1 || got[0].SHA != "ok" {
			t.Fatalf("expected only the in-window record, got %v", got)
		}
	})

	t.Run("window boundaries inclusive", func(t *testing.T) {
		records := []CommitRecord{
			{Repo: "u/a", SHA: "lo", Timestamp: window.Since},
			{Repo: "u/a", SHA: "hi", Timestamp: window.Until},
		}
		got := filterRecords(records, window)
		if len(got) != 2 {
			t.Fatalf("expected boundary records kept, got %d", len(got))
		}
	})
}
