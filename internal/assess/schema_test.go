package assess

import (
	"errors"
	"strings"
	"testing"
)

const validResponse = `{
  "experience_level": "Mid",
  "skills": {"Go": 7.5, "Python": 4, "SQL": 0},
  "strengths": ["Ships small focused commits", "Consistent Go usage"],
  "improvement_areas": ["Test coverage", "Documentation depth"],
  "recommendations": [
    {"action": "Add table-driven tests to the two most active repositories", "priority": "High"},
    {"action": "Write a README for the newest project", "priority": "Low"}
  ]
}`

func TestParseResult(t *testing.T) {
	t.Run("raw json with all fields", func(t *testing.T) {
		result, err := ParseResult(validResponse)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ExperienceLevel != LevelMid {
			t.Errorf("ExperienceLevel = %q, want Mid", result.ExperienceLevel)
		}
		if result.Skills["Go"] != 7.5 {
			t.Errorf("Skills[Go] = %v, want 7.5", result.Skills["Go"])
		}
		if len(result.Strengths) != 2 || result.Strengths[0] != "Ships small focused commits" {
			t.Errorf("Strengths = %v", result.Strengths)
		}
		if len(result.Recommendations) != 2 || result.Recommendations[1].Priority != PriorityLow {
			t.Errorf("Recommendations = %v", result.Recommendations)
		}
	})

	t.Run("json in code fence", func(t *testing.T) {
		result, err := ParseResult("Here is the assessment:\n```json\n" + validResponse + "\n```")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ExperienceLevel != LevelMid {
			t.Errorf("ExperienceLevel = %q, want Mid", result.ExperienceLevel)
		}
	})

	t.Run("code fence without json tag", func(t *testing.T) {
		result, err := ParseResult("```\n" + validResponse + "\n```")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Skills["Python"] != 4 {
			t.Errorf("Skills[Python] = %v, want 4", result.Skills["Python"])
		}
	})

	t.Run("fence inside a string value survives", func(t *testing.T) {
		input := `{
  "experience_level": "Senior",
  "skills": {"Go": 9},
  "strengths": ["Uses ` + "```suggestion```" + ` blocks in reviews"],
  "improvement_areas": [],
  "recommendations": []
}`
		result, err := ParseResult(input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(result.Strengths[0], "```suggestion```") {
			t.Errorf("Strengths[0] = %q, fence was mangled", result.Strengths[0])
		}
	})

	t.Run("empty collections conform", func(t *testing.T) {
		input := `{
  "experience_level": "Junior",
  "skills": {},
  "strengths": [],
  "improvement_areas": [],
  "recommendations": []
}`
		if _, err := ParseResult(input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestParseResultRejections(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantReason string
	}{
		{
			name:       "empty response",
			input:      "   \n",
			wantReason: "empty response",
		},
		{
			name:       "not json",
			input:      "I could not produce an assessment.",
			wantReason: "invalid JSON",
		},
		{
			name: "missing experience level",
			input: `{
  "skills": {"Go": 7},
  "strengths": ["a"],
  "improvement_areas": ["b"],
  "recommendations": []
}`,
			wantReason: "experience_level",
		},
		{
			name: "unknown experience level",
			input: `{
  "experience_level": "Principal",
  "skills": {"Go": 7},
  "strengths": [],
  "improvement_areas": [],
  "recommendations": []
}`,
			wantReason: "experience_level",
		},
		{
			name: "score above range",
			input: `{
  "experience_level": "Senior",
  "skills": {"Go": 11},
  "strengths": [],
  "improvement_areas": [],
  "recommendations": []
}`,
			wantReason: "outside 0 to 10",
		},
		{
			name: "negative score",
			input: `{
  "experience_level": "Senior",
  "skills": {"Go": -0.5},
  "strengths": [],
  "improvement_areas": [],
  "recommendations": []
}`,
			wantReason: "outside 0 to 10",
		},
		{
			name: "missing skills",
			input: `{
  "experience_level": "Mid",
  "strengths": [],
  "improvement_areas": [],
  "recommendations": []
}`,
			wantReason: "skills field is missing",
		},
		{
			name: "null strengths",
			input: `{
  "experience_level": "Mid",
  "skills": {},
  "strengths": null,
  "improvement_areas": [],
  "recommendations": []
}`,
			wantReason: "strengths field is missing",
		},
		{
			name: "missing recommendations",
			input: `{
  "experience_level": "Mid",
  "skills": {},
  "strengths": [],
  "improvement_areas": []
}`,
			wantReason: "recommendations field is missing",
		},
		{
			name: "unknown priority",
			input: `{
  "experience_level": "Mid",
  "skills": {},
  "strengths": [],
  "improvement_areas": [],
  "recommendations": [{"action": "do a thing", "priority": "Urgent"}]
}`,
			wantReason: "priority",
		},
		{
			name: "recommendation without action",
			input: `{
  "experience_level": "Mid",
  "skills": {},
  "strengths": [],
  "improvement_areas": [],
  "recommendations": [{"action": "", "priority": "High"}]
}`,
			wantReason: "no action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResult(tt.input)
			if err == nil {
				t.Fatal("expected rejection, got nil error")
			}
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("error type = %T, want *SchemaError", err)
			}
			if !strings.Contains(schemaErr.Reason, tt.wantReason) {
				t.Errorf("Reason = %q, want it to mention %q", schemaErr.Reason, tt.wantReason)
			}
		})
	}
}

func TestSchemaErrorExcerptBounded(t *testing.T) {
	_, err := ParseResult("garbage " + strings.Repeat("x", 5000))
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error type = %T, want *SchemaError", err)
	}
	if len(schemaErr.Raw) > rawExcerptLen+len("...") {
		t.Errorf("excerpt length = %d, want at most %d plus the ellipsis", len(schemaErr.Raw), rawExcerptLen)
	}
	if schemaErr.Raw == "" {
		t.Error("excerpt should carry the start of the raw response")
	}
}
