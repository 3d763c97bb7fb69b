package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

const maxSummarySkills = 5

var (
	highColor   = color.New(color.FgRed, color.Bold)
	mediumColor = color.New(color.FgYellow)
	lowColor    = color.New(color.FgCyan)
)

// PrintSummary writes the post-run console banner: headline numbers, the top
// skill scores, and recommendations with color-coded priorities. Cosmetic
// only; the two report files are the artifacts of record.
func PrintSummary(w io.Writer, doc *Document) error {
	fmt.Fprintf(w, "\nAnalysis complete for %s\n", doc.Metadata.Subject)
	fmt.Fprintf(w, "Analyzed %d commits across %d repositories\n",
		doc.Metadata.Commits, doc.Metadata.Repositories)
	fmt.Fprintf(w, "Experience level: %s\n\n", doc.Assessment.ExperienceLevel)

	if len(doc.Assessment.Skills) > 0 {
		table := tablewriter.NewWriter(w)
		defer func() { _ = table.Close() }()

		table.Header([]string{"Skill", "Score"})

		skills := doc.Assessment.Skills
		if len(skills) > maxSummarySkills {
			skills = skills[:maxSummarySkills]
		}
		var data [][]string
		for _, s := range skills {
			data = append(data, []string{s.Name, fmt.Sprintf("%.1f/10", s.Score)})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if len(doc.Assessment.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, rec := range doc.Assessment.Recommendations {
			fmt.Fprintf(w, "  [%s] %s\n", priorityLabel(rec.Priority), rec.Action)
		}
	}
	return nil
}

func priorityLabel(priority string) string {
	switch priority {
	case "High":
		return highColor.Sprint(priority)
	case "Medium":
		return mediumColor.Sprint(priority)
	case "Low":
		return lowColor.Sprint(priority)
	}
	return priority
}
