package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/coursewiz/internal/course"
	"github.com/abhisek/coursewiz/internal/llm"
)

// StructuresSchema defines the JSON schema for course outline generation.
var StructuresSchema = &llm.Schema{
	Name:        "course-structures",
	Description: "Three alternative course outlines, each with modules of lessons and a closing quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"structures": map[string]any{
				"type":        "array",
				"description": "Exactly 3 structures labeled Structure 1, Structure 2 and Structure 3",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"label": map[string]any{"type": "string"},
						"modules": map[string]any{
							"type":        "array",
							"description": "3 modules",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"title": map[string]any{"type": "string"},
									"lessons": map[string]any{
										"type":        "array",
										"description": "3 concise lessons",
										"items": map[string]any{
											"type": "object",
											"properties": map[string]any{
												"title": map[string]any{"type": "string"},
											},
											"required":             []any{"title"},
											"additionalProperties": false,
										},
									},
									"quizTitle": map[string]any{
										"type":        "string",
										"description": "Title of the quiz at the end of the module",
									},
								},
								"required":             []any{"title", "lessons", "quizTitle"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"label", "modules"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"structures"},
		"additionalProperties": false,
	},
}

// SuggestionsSchema defines the JSON schema for field suggestions.
var SuggestionsSchema = &llm.Schema{
	Name:        "course-suggestions",
	Description: "Three unique suggestions for one course field",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"suggestions": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Exactly 3 unique suggestions",
			},
		},
		"required":             []any{"suggestions"},
		"additionalProperties": false,
	},
}

// MaxSuggestions caps the suggestions returned per request.
const MaxSuggestions = 3

type structuresOutput struct {
	Structures []structureOutput `json:"structures" validate:"len=3,dive"`
}

type structureOutput struct {
	Label   string         `json:"label" validate:"min=1"`
	Modules []moduleOutput `json:"modules" validate:"min=1,dive"`
}

type moduleOutput struct {
	Title     string         `json:"title" validate:"min=1"`
	Lessons   []lessonOutput `json:"lessons" validate:"min=1,dive"`
	QuizTitle string         `json:"quizTitle" validate:"min=1"`
}

type lessonOutput struct {
	Title string `json:"title" validate:"min=1"`
}

type suggestionsOutput struct {
	Suggestions []string `json:"suggestions"`
}

// parseStructures decodes and checks a structure response, assigning ids
// s1..s3 in order.
func parseStructures(raw json.RawMessage) ([]course.SuggestedStructure, error) {
	var out structuresOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse structures response: %w", err)
	}
	if err := requestValidator().Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("structures response does not match the expected shape: %s", verrs[0].Namespace())
		}
		return nil, fmt.Errorf("structures response does not match the expected shape: %w", err)
	}

	structures := make([]course.SuggestedStructure, len(out.Structures))
	for i, s := range out.Structures {
		st := course.SuggestedStructure{
			ID:      fmt.Sprintf("s%d", i+1),
			Label:   s.Label,
			Modules: make([]course.StructureModule, len(s.Modules)),
		}
		for j, m := range s.Modules {
			lessons := make([]course.Lesson, len(m.Lessons))
			for k, l := range m.Lessons {
				lessons[k] = course.Lesson{Title: l.Title}
			}
			st.Modules[j] = course.StructureModule{
				Title:     m.Title,
				Lessons:   lessons,
				QuizTitle: m.QuizTitle,
			}
		}
		structures[i] = st
	}
	return structures, nil
}

// parseSuggestions keeps the first three suggestions, trimmed, dropping
// empty ones.
func parseSuggestions(raw json.RawMessage) ([]string, error) {
	var out suggestionsOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse suggestions response: %w", err)
	}
	if out.Suggestions == nil {
		return nil, errors.New("Invalid suggestions payload returned by model")
	}

	list := out.Suggestions
	if len(list) > MaxSuggestions {
		list = list[:MaxSuggestions]
	}
	suggestions := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions, nil
}
