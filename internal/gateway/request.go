package gateway

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/coursewiz/internal/course"
	"github.com/abhisek/coursewiz/internal/llm"
)

// Request defaults applied to omitted fields.
const (
	DefaultLanguage    = "English"
	DefaultProficiency = course.ProficiencyEntry
	DefaultDuration    = course.DurationRegular
	DefaultTemperature = 0.7
	DefaultTopP        = 1.0
)

// CourseContext is the course description shared by both endpoints.
type CourseContext struct {
	CourseTopic        string             `json:"courseTopic"`
	Language           string             `json:"language"`
	Audience           string             `json:"audience"`
	LearnerProficiency course.Proficiency `json:"learnerProficiency" validate:"omitempty,oneof=entry intermediate advanced"`
	CourseDuration     course.Duration    `json:"courseDuration" validate:"omitempty,oneof=quick regular extensive"`
	LearningGoal       string             `json:"learningGoal"`
	CourseTitle        string             `json:"courseTitle"`
}

func (c *CourseContext) applyDefaults() {
	if strings.TrimSpace(c.Language) == "" {
		c.Language = DefaultLanguage
	}
	if c.LearnerProficiency == "" {
		c.LearnerProficiency = DefaultProficiency
	}
	if c.CourseDuration == "" {
		c.CourseDuration = DefaultDuration
	}
}

// GenerationParams are the optional sampling parameters. Nil fields take
// the request defaults.
type GenerationParams struct {
	Temperature      *float64           `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	TopP             *float64           `json:"topP,omitempty" validate:"omitempty,gte=0,lte=1"`
	PresencePenalty  *float64           `json:"presencePenalty,omitempty" validate:"omitempty,gte=-2,lte=2"`
	FrequencyPenalty *float64           `json:"frequencyPenalty,omitempty" validate:"omitempty,gte=-2,lte=2"`
	LogitBias        map[string]float64 `json:"logitBias,omitempty" validate:"omitempty,dive,keys,required,endkeys,gte=-100,lte=100"`
}

// ParamsFromSettings converts wizard settings into request parameters.
func ParamsFromSettings(s course.GenerationSettings) GenerationParams {
	return GenerationParams{
		Temperature:      &s.Temperature,
		TopP:             &s.TopP,
		PresencePenalty:  &s.PresencePenalty,
		FrequencyPenalty: &s.FrequencyPenalty,
		LogitBias:        s.BiasMap(),
	}
}

// apply copies the parameters, with defaults for unset values, onto req.
func (g GenerationParams) apply(req *llm.Request) {
	req.Temperature = valueOr(g.Temperature, DefaultTemperature)
	req.TopP = valueOr(g.TopP, DefaultTopP)
	req.PresencePenalty = valueOr(g.PresencePenalty, 0)
	req.FrequencyPenalty = valueOr(g.FrequencyPenalty, 0)
	if len(g.LogitBias) > 0 {
		req.LogitBias = make(map[string]int, len(g.LogitBias))
		for tok, bias := range g.LogitBias {
			req.LogitBias[tok] = int(math.Round(bias))
		}
	}
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// StructureRequest is the body of a course structure request.
type StructureRequest struct {
	Provider string `json:"provider" validate:"required,oneof=openai gemini anthropic"`
	Model    string `json:"model" validate:"required"`
	CourseContext
	GenerationParams
}

// StructureRequestFromQuery builds a request from the wizard's query.
func StructureRequestFromQuery(q course.StructureQuery) StructureRequest {
	return StructureRequest{
		Provider: q.Provider,
		Model:    q.Model,
		CourseContext: CourseContext{
			CourseTopic:        q.CourseTopic,
			Language:           q.Language,
			Audience:           q.Audience,
			LearnerProficiency: q.LearnerProficiency,
			CourseDuration:     q.CourseDuration,
			LearningGoal:       q.LearningGoal,
			CourseTitle:        q.CourseTitle,
		},
		GenerationParams: ParamsFromSettings(q.Settings),
	}
}

// Validate checks the request shape. It returns *RequestError.
func (r StructureRequest) Validate() error {
	return validateStruct(r)
}

// SuggestionRequest is the body of a field suggestion request.
type SuggestionRequest struct {
	Provider string                 `json:"provider" validate:"required,oneof=openai gemini anthropic"`
	Model    string                 `json:"model" validate:"required"`
	Field    course.SuggestionField `json:"field" validate:"required,oneof=learningGoal courseTitle courseDescription"`
	CourseContext
	GenerationParams
}

// SuggestionRequestFromQuery builds a request from the wizard's query.
func SuggestionRequestFromQuery(q course.SuggestionQuery) SuggestionRequest {
	return SuggestionRequest{
		Provider: q.Provider,
		Model:    q.Model,
		Field:    q.Field,
		CourseContext: CourseContext{
			CourseTopic:        q.CourseTopic,
			Language:           q.Language,
			Audience:           q.Audience,
			LearnerProficiency: q.LearnerProficiency,
			CourseDuration:     q.CourseDuration,
			LearningGoal:       q.LearningGoal,
			CourseTitle:        q.CourseTitle,
		},
		GenerationParams: ParamsFromSettings(q.Settings),
	}
}

// Validate checks the request shape. It returns *RequestError.
func (r SuggestionRequest) Validate() error {
	return validateStruct(r)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		validate = v
	})
	return validate
}

func validateStruct(s any) error {
	err := requestValidator().Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &RequestError{Problems: []string{err.Error()}}
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return &RequestError{Problems: problems}
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return field + " is invalid"
}
