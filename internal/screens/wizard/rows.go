package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/coursewiz/internal/course"
	"github.com/abhisek/coursewiz/internal/llm"
)

type rowKind int

const (
	rowText rowKind = iota
	rowChoice
	rowToggle
	rowNumber
	rowBias
)

// row is one editable line of a form step.
type row struct {
	field       course.Field
	label       string
	kind        rowKind
	placeholder string
	suggest     course.SuggestionField
}

func (r row) editable() bool {
	return r.kind == rowText || r.kind == rowNumber || r.kind == rowBias
}

// rowsFor lists the form rows of step. Steps with their own views return nil.
func rowsFor(step int, v course.FormValues) []row {
	switch step {
	case course.StepPurpose:
		return []row{
			{field: course.FieldCourseTopic, label: "Course topic", kind: rowText, placeholder: "What is the course about?"},
			{field: course.FieldLanguage, label: "Language", kind: rowChoice},
			{field: course.FieldFormOfAddress, label: "Form of address", kind: rowChoice},
			{field: course.FieldAudience, label: "Audience", kind: rowText, placeholder: "Who is it for?"},
			{field: course.FieldLearnerProficiency, label: "Proficiency", kind: rowChoice},
			{field: course.FieldCourseDuration, label: "Course pace", kind: rowChoice},
		}
	case course.StepContext:
		return []row{
			{field: course.FieldLearningGoal, label: "Learning goal", kind: rowText, suggest: course.SuggestLearningGoal},
			{field: course.FieldCourseTitle, label: "Course title", kind: rowText, suggest: course.SuggestCourseTitle},
			{field: course.FieldCourseDescription, label: "Description", kind: rowText, suggest: course.SuggestCourseDescription},
			{field: course.FieldAIProvider, label: "AI provider", kind: rowChoice},
			{field: course.FieldAIModel, label: "Model", kind: rowChoice},
			{field: course.FieldTemperature, label: "Temperature", kind: rowNumber},
			{field: course.FieldTopP, label: "Top-p", kind: rowNumber},
			{field: course.FieldPresencePenalty, label: "Presence penalty", kind: rowNumber},
			{field: course.FieldFrequencyPenalty, label: "Frequency penalty", kind: rowNumber},
			{field: course.FieldLogitBias, label: "Token bias", kind: rowBias, placeholder: "token:bias, token:bias"},
		}
	case course.StepGenerate:
		rows := []row{
			{field: course.FieldGenerateAllContent, label: "Generate all content", kind: rowToggle},
			{field: course.FieldGenerateModuleSummaries, label: "Module summaries", kind: rowToggle},
			{field: course.FieldGenerateLessonText, label: "Lesson text", kind: rowToggle},
			{field: course.FieldGenerateKnowledgeChecks, label: "Knowledge checks", kind: rowToggle},
			{field: course.FieldGenerateFinalAssessment, label: "Final assessment", kind: rowToggle},
			{field: course.FieldIncludeImages, label: "Include images", kind: rowToggle},
		}
		if v.IncludeImages {
			rows = append(rows, row{field: course.FieldImageStyle, label: "Image style", kind: rowChoice})
		}
		return rows
	}
	return nil
}

// choices returns the selectable values of a choice row.
func choices(field course.Field, v course.FormValues) []string {
	switch field {
	case course.FieldLanguage:
		return course.Languages
	case course.FieldFormOfAddress:
		return stringsOf(course.Addresses)
	case course.FieldLearnerProficiency:
		return stringsOf(course.Proficiencies)
	case course.FieldCourseDuration:
		return stringsOf(course.Durations)
	case course.FieldAIProvider:
		return llm.Providers()
	case course.FieldAIModel:
		var ids []string
		for _, m := range llm.Models(v.AIProvider) {
			if m.Available {
				ids = append(ids, m.ID)
			}
		}
		return ids
	case course.FieldImageStyle:
		return course.ImageStyles
	}
	return nil
}

func stringsOf[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

// cycle returns the option delta steps away from current, wrapping around.
// An unknown current value starts from the first option.
func cycle(options []string, current string, delta int) string {
	if len(options) == 0 {
		return current
	}
	for i, o := range options {
		if o == current {
			return options[((i+delta)%len(options)+len(options))%len(options)]
		}
	}
	return options[0]
}

// fieldText returns the text shown for a field.
func fieldText(v course.FormValues, field course.Field) string {
	switch field {
	case course.FieldCourseTopic:
		return v.CourseTopic
	case course.FieldLanguage:
		return v.Language
	case course.FieldFormOfAddress:
		return string(v.FormOfAddress)
	case course.FieldAudience:
		return v.Audience
	case course.FieldLearnerProficiency:
		return string(v.LearnerProficiency)
	case course.FieldCourseDuration:
		return string(v.CourseDuration)
	case course.FieldLearningGoal:
		return v.LearningGoal
	case course.FieldCourseTitle:
		return v.CourseTitle
	case course.FieldCourseDescription:
		return v.CourseDescription
	case course.FieldAIProvider:
		return v.AIProvider
	case course.FieldAIModel:
		return v.AIModel
	case course.FieldTemperature:
		return formatFloat(v.Temperature)
	case course.FieldTopP:
		return formatFloat(v.TopP)
	case course.FieldPresencePenalty:
		return formatFloat(v.PresencePenalty)
	case course.FieldFrequencyPenalty:
		return formatFloat(v.FrequencyPenalty)
	case course.FieldLogitBias:
		return formatBiases(v.LogitBias)
	case course.FieldImageStyle:
		return v.ImageStyle
	}
	return ""
}

// choiceLabel is the display form of a choice value.
func choiceLabel(field course.Field, v course.FormValues, value string) string {
	switch field {
	case course.FieldAIProvider:
		return llm.ProviderLabel(value)
	case course.FieldAIModel:
		for _, m := range llm.Models(v.AIProvider) {
			if m.ID == value {
				return m.DisplayLabel()
			}
		}
	}
	return value
}

func toggleValue(v course.FormValues, field course.Field) bool {
	switch field {
	case course.FieldGenerateAllContent:
		return v.GenerateAllContent
	case course.FieldGenerateModuleSummaries:
		return v.GenerateModuleSummaries
	case course.FieldGenerateLessonText:
		return v.GenerateLessonText
	case course.FieldGenerateKnowledgeChecks:
		return v.GenerateKnowledgeChecks
	case course.FieldGenerateFinalAssessment:
		return v.GenerateFinalAssessment
	case course.FieldIncludeImages:
		return v.IncludeImages
	}
	return false
}

// withNumber returns g with field set to x.
func withNumber(g course.GenerationSettings, field course.Field, x float64) course.GenerationSettings {
	switch field {
	case course.FieldTemperature:
		g.Temperature = x
	case course.FieldTopP:
		g.TopP = x
	case course.FieldPresencePenalty:
		g.PresencePenalty = x
	case course.FieldFrequencyPenalty:
		g.FrequencyPenalty = x
	}
	return g
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func formatBiases(biases []course.TokenBias) string {
	parts := make([]string, len(biases))
	for i, tb := range biases {
		parts[i] = tb.Token + ":" + formatFloat(tb.Bias)
	}
	return strings.Join(parts, ", ")
}

// parseBiases reads "token:bias" pairs separated by commas. The bias is
// taken after the last colon so tokens may contain colons.
func parseBiases(s string) ([]course.TokenBias, error) {
	var out []course.TokenBias
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i := strings.LastIndex(part, ":")
		if i < 0 {
			return nil, fmt.Errorf("%q: use token:bias", part)
		}
		bias, err := strconv.ParseFloat(strings.TrimSpace(part[i+1:]), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: bias must be a number", part)
		}
		out = append(out, course.TokenBias{Token: strings.TrimSpace(part[:i]), Bias: bias})
	}
	return out, nil
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
