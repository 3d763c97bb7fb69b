// Package report renders one assessment run into its two artifacts, a JSON
// document and a Markdown document, plus the post-run console summary. Both
// artifacts derive from the same Document so they never drift apart.
package report

import (
	"sort"
	"time"

	"skillscope/internal/assess"
	"skillscope/internal/evidence"
	"skillscope/internal/gitfetch"
)

const dateLayout = "2006-01-02"

// Document is the single source both artifacts render from. Slices are
// sorted at build time so the JSON marshal is stable.
type Document struct {
	Metadata      Metadata          `json:"metadata"`
	Subject       SubjectInfo       `json:"subject"`
	Activity      ActivitySummary   `json:"activity_summary"`
	Languages     []LanguageTotal   `json:"language_totals"`
	Repositories  []RepositoryRow   `json:"repositories"`
	Progression   ProgressionInfo   `json:"progression"`
	Collaboration CollaborationInfo `json:"collaboration"`
	Assessment    AssessmentInfo    `json:"assessment"`
}

// Metadata identifies one report: subject plus generation timestamp.
type Metadata struct {
	Subject      string    `json:"subject"`
	GeneratedAt  time.Time `json:"generated_at"`
	Commits      int       `json:"commits_analyzed"`
	Repositories int       `json:"repositories_analyzed"`
}

// SubjectInfo is the analyzed developer's profile block.
type SubjectInfo struct {
	Login       string    `json:"login"`
	Name        string    `json:"name,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
}

// ActivitySummary carries the overall activity numbers.
type ActivitySummary struct {
	TotalCommits   int    `json:"total_commits"`
	TotalAdditions int    `json:"total_additions"`
	TotalDeletions int    `json:"total_deletions"`
	ActiveRepos    int    `json:"active_repositories"`
	MostActiveRepo string `json:"most_active_repository,omitempty"`
}

// LanguageTotal is one language bucket with its cumulative line changes.
type LanguageTotal struct {
	Language string `json:"language"`
	Lines    int    `json:"lines"`
}

// RepositoryRow is one repository in the report table. The commit dates are
// empty for repositories without qualifying commits.
type RepositoryRow struct {
	Name        string `json:"name"`
	Language    string `json:"language,omitempty"`
	Stars       int    `json:"stars"`
	Commits     int    `json:"commits"`
	DocLevel    int    `json:"documentation_level"`
	FirstCommit string `json:"first_commit,omitempty"`
	LastCommit  string `json:"last_commit,omitempty"`
}

// ProgressionInfo mirrors the temporal split; the phases are nil when the
// window held fewer than two commits.
type ProgressionInfo struct {
	Available bool       `json:"available"`
	Early     *PhaseInfo `json:"early,omitempty"`
	Recent    *PhaseInfo `json:"recent,omitempty"`
}

// PhaseInfo is one half of the temporal split.
type PhaseInfo struct {
	Commits   int             `json:"commits"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Languages []LanguageTotal `json:"languages"`
}

// CollaborationInfo carries the fork/original engagement estimate.
type CollaborationInfo struct {
	OriginalRepos int     `json:"original_repositories"`
	ForkedRepos   int     `json:"forked_repositories"`
	Score         float64 `json:"score"`
}

// AssessmentInfo is the validated model output. Strengths, improvement
// areas, and recommendations keep the model's own ranking.
type AssessmentInfo struct {
	ExperienceLevel  string              `json:"experience_level"`
	Skills           []SkillScore        `json:"skills"`
	Strengths        []string            `json:"strengths"`
	ImprovementAreas []string            `json:"improvement_areas"`
	Recommendations  []RecommendationRow `json:"recommendations"`
}

// SkillScore is one scored technology.
type SkillScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// RecommendationRow is one suggested next step.
type RecommendationRow struct {
	Action   string `json:"action"`
	Priority string `json:"priority"`
}

// Build assembles the Document for one run. It is pure; generatedAt is the
// only clock input and becomes part of the report identity.
func Build(subject gitfetch.Subject, bundle *evidence.Bundle, result *assess.Result, generatedAt time.Time) *Document {
	doc := &Document{
		Metadata: Metadata{
			Subject:      subject.Login,
			GeneratedAt:  generatedAt,
			Commits:      bundle.Totals.Commits,
			Repositories: len(bundle.Repositories),
		},
		Subject: SubjectInfo{
			Login:       subject.Login,
			Name:        subject.Name,
			JoinedAt:    subject.JoinedAt,
			PublicRepos: subject.PublicRepos,
			Followers:   subject.Followers,
		},
		Activity: ActivitySummary{
			TotalCommits:   bundle.Totals.Commits,
			TotalAdditions: bundle.Totals.Additions,
			TotalDeletions: bundle.Totals.Deletions,
			ActiveRepos:    bundle.Totals.ActiveRepos,
			MostActiveRepo: bundle.Totals.MostActiveRepo,
		},
		Languages: languageTotals(bundle.LanguageLines),
		Collaboration: CollaborationInfo{
			OriginalRepos: bundle.Collaboration.Originals,
			ForkedRepos:   bundle.Collaboration.Forks,
			Score:         bundle.Collaboration.Score,
		},
		Assessment: assessmentInfo(result),
	}

	for _, repo := range bundle.Repositories {
		row := RepositoryRow{
			Name:     repo.Name,
			Language: repo.Language,
			Stars:    repo.Stars,
			Commits:  repo.Commits,
			DocLevel: repo.DocLevel,
		}
		if repo.Commits > 0 {
			row.FirstCommit = repo.FirstCommit.Format(dateLayout)
			row.LastCommit = repo.LastCommit.Format(dateLayout)
		}
		doc.Repositories = append(doc.Repositories, row)
	}

	doc.Progression.Available = bundle.Progression.Available
	if bundle.Progression.Available {
		doc.Progression.Early = phaseInfo(bundle.Progression.Early)
		doc.Progression.Recent = phaseInfo(bundle.Progression.Recent)
	}

	return doc
}

func phaseInfo(p evidence.Phase) *PhaseInfo {
	return &PhaseInfo{
		Commits:   p.Commits,
		From:      p.From.Format(dateLayout),
		To:        p.To.Format(dateLayout),
		Languages: languageTotals(p.LanguageLines),
	}
}

// languageTotals flattens a language map into rows ordered by line count
// descending, names ascending on ties.
func languageTotals(lines map[string]int) []LanguageTotal {
	out := make([]LanguageTotal, 0, len(lines))
	for lang, n := range lines {
		out = append(out, LanguageTotal{Language: lang, Lines: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Lines != out[j].Lines {
			return out[i].Lines > out[j].Lines
		}
		return out[i].Language < out[j].Language
	})
	return out
}

// assessmentInfo flattens the skill map into rows ordered by score
// descending, names ascending on ties. Everything else keeps the model's
// ordering.
func assessmentInfo(result *assess.Result) AssessmentInfo {
	info := AssessmentInfo{
		ExperienceLevel:  string(result.ExperienceLevel),
		Strengths:        append([]string(nil), result.Strengths...),
		ImprovementAreas: append([]string(nil), result.ImprovementAreas...),
	}
	for name, score := range result.Skills {
		info.Skills = append(info.Skills, SkillScore{Name: name, Score: score})
	}
	sort.Slice(info.Skills, func(i, j int) bool {
		if info.Skills[i].Score != info.Skills[j].Score {
			return info.Skills[i].Score > info.Skills[j].Score
		}
		return info.Skills[i].Name < info.Skills[j].Name
	})
	for _, rec := range result.Recommendations {
		info.Recommendations = append(info.Recommendations, RecommendationRow{
			Action:   rec.Action,
			Priority: string(rec.Priority),
		})
	}
	return info
}
