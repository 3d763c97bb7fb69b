package assess

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"skillscope/internal/textutil"
)

const rawExcerptLen = 500

// Level is the enumerated experience label.
type Level string

const (
	LevelJunior Level = "Junior"
	LevelMid    Level = "Mid"
	LevelSenior Level = "Senior"
)

// Priority tags a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Recommendation is one suggested next step.
type Recommendation struct {
	Action   string   `json:"action"`
	Priority Priority `json:"priority"`
}

// Result is the validated assessment produced by the completion service.
// Slice order is the model's own ranking and is preserved.
type Result struct {
	ExperienceLevel  Level              `json:"experience_level"`
	Skills           map[string]float64 `json:"skills"`
	Strengths        []string           `json:"strengths"`
	ImprovementAreas []string           `json:"improvement_areas"`
	Recommendations  []Recommendation   `json:"recommendations"`
}

// SchemaError reports model output that does not satisfy the response
// schema. The result is rejected whole; nothing is clamped or repaired.
type SchemaError struct {
	Reason string
	Raw    string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("assessment rejected: %s (response excerpt: %s)", e.Reason, e.Raw)
}

// ServiceError reports a failed completion call.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string { return "completion service: " + e.Err.Error() }

func (e *ServiceError) Unwrap() error { return e.Err }

// ParseResult decodes and validates one completion response. Code fences are
// stripped only when the response has non-JSON preamble; if it already
// starts with '{' a fence may sit inside a string value and must survive.
func ParseResult(raw string) (*Result, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, &SchemaError{Reason: "empty response"}
	}

	if text[0] != '{' {
		if idx := strings.Index(text, "```"); idx >= 0 {
			text = text[idx+3:]
			text = strings.TrimPrefix(text, "json")
			if end := strings.LastIndex(text, "```"); end >= 0 {
				text = text[:end]
			}
			text = strings.TrimSpace(text)
		}
	}

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, &SchemaError{
			Reason: "invalid JSON: " + err.Error(),
			Raw:    textutil.Excerpt(raw, rawExcerptLen),
		}
	}

	if reason := result.validate(); reason != "" {
		return nil, &SchemaError{
			Reason: reason,
			Raw:    textutil.Excerpt(raw, rawExcerptLen),
		}
	}
	return &result, nil
}

// validate returns the first schema violation, walking map keys in sorted
// order so equal inputs always report the same violation. Empty collections
// conform to the schema; missing or null ones do not.
func (r *Result) validate() string {
	switch r.ExperienceLevel {
	case LevelJunior, LevelMid, LevelSenior:
	default:
		return fmt.Sprintf("experience_level %q is not one of Junior, Mid, Senior", r.ExperienceLevel)
	}

	if r.Skills == nil {
		return "skills field is missing"
	}
	names := make([]string, 0, len(r.Skills))
	for name := range r.Skills {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if score := r.Skills[name]; score < 0 || score > 10 {
			return fmt.Sprintf("skill %q score %v is outside 0 to 10", name, score)
		}
	}

	if r.Strengths == nil {
		return "strengths field is missing"
	}
	if r.ImprovementAreas == nil {
		return "improvement_areas field is missing"
	}
	if r.Recommendations == nil {
		return "recommendations field is missing"
	}
	for i, rec := range r.Recommendations {
		if rec.Action == "" {
			return fmt.Sprintf("recommendation %d has no action", i)
		}
		switch rec.Priority {
		case PriorityHigh, PriorityMedium, PriorityLow:
		default:
			return fmt.Sprintf("recommendation %d priority %q is not one of High, Medium, Low", i, rec.Priority)
		}
	}
	return ""
}
