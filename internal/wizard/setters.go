package wizard

import (
	"fmt"
	"strings"

	"github.com/abhisek/coursewiz/internal/course"
	"github.com/abhisek/coursewiz/internal/llm"
)

// SetText stores a string-valued field. Enum fields take their raw value.
func (c *Controller) SetText(field course.Field, text string) error {
	v := &c.values
	switch field {
	case course.FieldCourseTopic:
		v.CourseTopic = text
	case course.FieldLanguage:
		v.Language = text
	case course.FieldFormOfAddress:
		v.FormOfAddress = course.Address(text)
	case course.FieldAudience:
		v.Audience = text
	case course.FieldLearnerProficiency:
		v.LearnerProficiency = course.Proficiency(text)
	case course.FieldCourseDuration:
		v.CourseDuration = course.Duration(text)
	case course.FieldLearningGoal:
		v.LearningGoal = text
	case course.FieldCourseTitle:
		v.CourseTitle = text
	case course.FieldCourseDescription:
		v.CourseDescription = text
	case course.FieldStructureLabel:
		v.StructureLabel = text
	case course.FieldImageStyle:
		v.ImageStyle = text
	case course.FieldAIProvider:
		return c.SetProvider(text)
	case course.FieldAIModel:
		c.SetModel(text)
		return nil
	default:
		return fmt.Errorf("set text %q: %w", field, ErrUnknownField)
	}
	c.revalidate(field)
	return nil
}

// SetToggle stores a content-generation flag. The master switch sets every
// sub-toggle; a sub-toggle recomputes the master switch.
func (c *Controller) SetToggle(field course.Field, on bool) error {
	v := &c.values
	switch field {
	case course.FieldGenerateAllContent:
		v.GenerateAllContent = on
		v.GenerateModuleSummaries = on
		v.GenerateLessonText = on
		v.GenerateKnowledgeChecks = on
		v.GenerateFinalAssessment = on
		return nil
	case course.FieldGenerateModuleSummaries:
		v.GenerateModuleSummaries = on
	case course.FieldGenerateLessonText:
		v.GenerateLessonText = on
	case course.FieldGenerateKnowledgeChecks:
		v.GenerateKnowledgeChecks = on
	case course.FieldGenerateFinalAssessment:
		v.GenerateFinalAssessment = on
	case course.FieldIncludeImages:
		v.IncludeImages = on
		if on && v.ImageStyle == "" {
			v.ImageStyle = course.ImageStyles[0]
		}
		c.revalidate(course.FieldImageStyle)
		return nil
	default:
		return fmt.Errorf("set toggle %q: %w", field, ErrUnknownField)
	}
	v.GenerateAllContent = v.GenerateModuleSummaries &&
		v.GenerateLessonText &&
		v.GenerateKnowledgeChecks &&
		v.GenerateFinalAssessment
	return nil
}

// SetProvider switches the AI provider and selects its first available
// model.
func (c *Controller) SetProvider(provider string) error {
	if !llm.KnownProvider(provider) {
		return fmt.Errorf("unknown provider %q", provider)
	}
	c.values.AIProvider = provider
	c.values.AIModel = ""
	if m, ok := llm.FirstAvailableModel(provider); ok {
		c.values.AIModel = m.ID
	}
	c.revalidate(course.FieldAIProvider)
	c.revalidate(course.FieldAIModel)
	return nil
}

// SetModel selects a model of the current provider.
func (c *Controller) SetModel(model string) {
	c.values.AIModel = model
	c.revalidate(course.FieldAIModel)
}

// SetGeneration replaces the numeric sampling parameters and keeps the
// token biases.
func (c *Controller) SetGeneration(g course.GenerationSettings) {
	g.LogitBias = c.values.LogitBias
	c.values.SetSettings(g)
	for _, f := range []course.Field{
		course.FieldTemperature,
		course.FieldTopP,
		course.FieldPresencePenalty,
		course.FieldFrequencyPenalty,
	} {
		c.revalidate(f)
	}
}

// AddTokenBias appends an empty bias row and returns its index.
func (c *Controller) AddTokenBias() int {
	c.values.LogitBias = append(c.values.LogitBias, course.TokenBias{})
	return len(c.values.LogitBias) - 1
}

// UpdateTokenBias replaces the bias row at i.
func (c *Controller) UpdateTokenBias(i int, tb course.TokenBias) error {
	if i < 0 || i >= len(c.values.LogitBias) {
		return fmt.Errorf("token bias %d: %w", i, ErrIndexOutOfRange)
	}
	tb.Token = strings.TrimSpace(tb.Token)
	c.values.LogitBias[i] = tb
	c.touch(course.FieldLogitBias)
	return nil
}

// RemoveTokenBias deletes the bias row at i.
func (c *Controller) RemoveTokenBias(i int) error {
	bias := c.values.LogitBias
	if i < 0 || i >= len(bias) {
		return fmt.Errorf("token bias %d: %w", i, ErrIndexOutOfRange)
	}
	c.values.LogitBias = append(bias[:i:i], bias[i+1:]...)
	c.revalidate(course.FieldLogitBias)
	return nil
}
