package report

import (
	"bytes"
	"fmt"
	"text/template"

	"skillscope/internal/assess"
)

const markdownTemplate = `# Skills Assessment: {{.Doc.Metadata.Subject}}

**Developer:** {{.Doc.Subject.Login}}{{if .Doc.Subject.Name}} ({{.Doc.Subject.Name}}){{end}}
**Generated:** {{.Doc.Metadata.GeneratedAt.Format "2006-01-02 15:04:05"}}
**Commits Analyzed:** {{.Doc.Metadata.Commits}}
**Repositories Analyzed:** {{.Doc.Metadata.Repositories}}
**Experience Level:** {{.Doc.Assessment.ExperienceLevel}}

## Activity Summary

- **Total Commits:** {{.Doc.Activity.TotalCommits}}
- **Lines Added:** {{.Doc.Activity.TotalAdditions}}
- **Lines Removed:** {{.Doc.Activity.TotalDeletions}}
- **Active Repositories:** {{.Doc.Activity.ActiveRepos}}
- **Most Active Repository:** {{if .Doc.Activity.MostActiveRepo}}{{.Doc.Activity.MostActiveRepo}}{{else}}none{{end}}

## Language Activity

{{if .Doc.Languages}}| Language | Line Changes |
|----------|--------------|
{{range .Doc.Languages}}| {{.Language}} | {{.Lines}} |
{{end}}{{else}}No language activity recorded.
{{end}}
## Technical Skills

{{if .Doc.Assessment.Skills}}| Technology | Proficiency |
|------------|-------------|
{{range .Doc.Assessment.Skills}}| {{.Name}} | {{printf "%.1f" .Score}}/10 |
{{end}}{{else}}No skills were scored.
{{end}}
## Strengths

{{if .Doc.Assessment.Strengths}}{{range .Doc.Assessment.Strengths}}- {{.}}
{{end}}{{else}}None identified.
{{end}}
## Areas for Improvement

{{if .Doc.Assessment.ImprovementAreas}}{{range .Doc.Assessment.ImprovementAreas}}- {{.}}
{{end}}{{else}}None identified.
{{end}}
## Recommendations

{{if .High}}### High Priority

{{range .High}}- {{.Action}}
{{end}}
{{end}}{{if .Medium}}### Medium Priority

{{range .Medium}}- {{.Action}}
{{end}}
{{end}}{{if .Low}}### Low Priority

{{range .Low}}- {{.Action}}
{{end}}
{{end}}{{if not .Doc.Assessment.Recommendations}}None provided.
{{end}}
## Repositories

{{if .Doc.Repositories}}| Repository | Language | Stars | Commits | Documentation | Last Commit |
|------------|----------|-------|---------|---------------|-------------|
{{range .Doc.Repositories}}| {{.Name}} | {{if .Language}}{{.Language}}{{else}}-{{end}} | {{.Stars}} | {{.Commits}} | {{.DocLevel}}/3 | {{if .LastCommit}}{{.LastCommit}}{{else}}-{{end}} |
{{end}}{{else}}No repositories analyzed.
{{end}}
## Skill Progression

{{if .Doc.Progression.Available}}**Early phase** ({{.Doc.Progression.Early.From}} to {{.Doc.Progression.Early.To}}, {{.Doc.Progression.Early.Commits}} commits):

{{range .Doc.Progression.Early.Languages}}- {{.Language}}: {{.Lines}} lines
{{end}}
**Recent phase** ({{.Doc.Progression.Recent.From}} to {{.Doc.Progression.Recent.To}}, {{.Doc.Progression.Recent.Commits}} commits):

{{range .Doc.Progression.Recent.Languages}}- {{.Language}}: {{.Lines}} lines
{{end}}{{else}}Not enough commits in the window to chart progression.
{{end}}
## Collaboration

- **Original Repositories:** {{.Doc.Collaboration.OriginalRepos}}
- **Forks:** {{.Doc.Collaboration.ForkedRepos}}
- **Engagement Score:** {{printf "%.2f" .Doc.Collaboration.Score}}
`

type markdownData struct {
	Doc    *Document
	High   []RecommendationRow
	Medium []RecommendationRow
	Low    []RecommendationRow
}

// renderMarkdown renders the Markdown artifact. Recommendations are grouped
// by priority here; the grouping is formatting only, the JSON artifact keeps
// the model's ordering.
func renderMarkdown(doc *Document) (string, error) {
	tmpl, err := template.New("markdown").Parse(markdownTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing markdown template: %w", err)
	}

	data := markdownData{Doc: doc}
	for _, rec := range doc.Assessment.Recommendations {
		switch rec.Priority {
		case string(assess.PriorityHigh):
			data.High = append(data.High, rec)
		case string(assess.PriorityMedium):
			data.Medium = append(data.Medium, rec)
		default:
			data.Low = append(data.Low, rec)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing markdown template: %w", err)
	}
	return buf.String(), nil
}
