package models

import (
	"encoding/json"
	"fmt"
)

// Analysis is the beginner-facing explanation of a repository. The two text
// fields may be empty strings; list fields are never nil so they marshal as
// arrays rather than null.
type Analysis struct {
	ProjectSummary   string         `json:"project_summary"`
	HowItHelpsPeople string         `json:"how_it_helps_people"`
	MainFeatures     []string       `json:"main_features"`
	HowItWorks       []string       `json:"how_it_works"`
	TechStack        []string       `json:"tech_stack"`
	GettingStarted   []string       `json:"getting_started"`
	NextSteps        []string       `json:"next_steps"`
	Glossary         []GlossaryItem `json:"glossary"`
}

type GlossaryItem struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// ValidationError reports an analysis payload that does not match the
// declared shape.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("analysis field %q %s", e.Field, e.Reason)
}

// ParseAnalysis decodes an untrusted JSON payload into an Analysis. The two
// text fields must be present; list fields may be omitted and default to
// empty. Mistyped fields and glossary entries missing a term or definition
// are rejected, unknown keys are ignored.
func ParseAnalysis(data []byte) (Analysis, error) {
	var shape struct {
		ProjectSummary   *string  `json:"project_summary"`
		HowItHelpsPeople *string  `json:"how_it_helps_people"`
		MainFeatures     []string `json:"main_features"`
		HowItWorks       []string `json:"how_it_works"`
		TechStack        []string `json:"tech_stack"`
		GettingStarted   []string `json:"getting_started"`
		NextSteps        []string `json:"next_steps"`
		Glossary         []struct {
			Term       *string `json:"term"`
			Definition *string `json:"definition"`
		} `json:"glossary"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return Analysis{}, fmt.Errorf("parsing analysis: %w", err)
	}
	if shape.ProjectSummary == nil {
		return Analysis{}, &ValidationError{Field: "project_summary", Reason: "is required"}
	}
	if shape.HowItHelpsPeople == nil {
		return Analysis{}, &ValidationError{Field: "how_it_helps_people", Reason: "is required"}
	}

	a := Analysis{
		ProjectSummary:   *shape.ProjectSummary,
		HowItHelpsPeople: *shape.HowItHelpsPeople,
		MainFeatures:     shape.MainFeatures,
		HowItWorks:       shape.HowItWorks,
		TechStack:        shape.TechStack,
		GettingStarted:   shape.GettingStarted,
		NextSteps:        shape.NextSteps,
		Glossary:         make([]GlossaryItem, 0, len(shape.Glossary)),
	}
	for i, item := range shape.Glossary {
		if item.Term == nil || item.Definition == nil {
			return Analysis{}, &ValidationError{
				Field:  fmt.Sprintf("glossary[%d]", i),
				Reason: "needs both a term and a definition",
			}
		}
		a.Glossary = append(a.Glossary, GlossaryItem{Term: *item.Term, Definition: *item.Definition})
	}
	for _, list := range []*[]string{&a.MainFeatures, &a.HowItWorks, &a.TechStack, &a.GettingStarted, &a.NextSteps} {
		if *list == nil {
			*list = []string{}
		}
	}
	return a, nil
}

// Validate checks the invariants both generators guarantee by construction:
// every list field non-nil, so the marshaled form never carries null where
// clients expect an array.
func (a Analysis) Validate() error {
	lists := []struct {
		name string
		val  []string
	}{
		{"main_features", a.MainFeatures},
		{"how_it_works", a.HowItWorks},
		{"tech_stack", a.TechStack},
		{"getting_started", a.GettingStarted},
		{"next_steps", a.NextSteps},
	}
	for _, l := range lists {
		if l.val == nil {
			return &ValidationError{Field: l.name, Reason: "must be a list, not null"}
		}
	}
	if a.Glossary == nil {
		return &ValidationError{Field: "glossary", Reason: "must be a list, not null"}
	}
	return nil
}
