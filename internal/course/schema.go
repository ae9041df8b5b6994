package course

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/coursewiz/internal/llm"
)

// Field names a top-level FormValues field by its JSON name.
type Field string

const (
	FieldCourseTopic        Field = "courseTopic"
	FieldLanguage           Field = "language"
	FieldFormOfAddress      Field = "formOfAddress"
	FieldAudience           Field = "audience"
	FieldLearnerProficiency Field = "learnerProficiency"
	FieldCourseDuration     Field = "courseDuration"
	FieldLearningGoal       Field = "learningGoal"
	FieldCourseTitle        Field = "courseTitle"
	FieldCourseDescription  Field = "courseDescription"
	FieldAIProvider         Field = "aiProvider"
	FieldAIModel            Field = "aiModel"
	FieldTemperature        Field = "temperature"
	FieldTopP               Field = "topP"
	FieldPresencePenalty    Field = "presencePenalty"
	FieldFrequencyPenalty   Field = "frequencyPenalty"
	FieldLogitBias          Field = "logitBias"
	FieldStructureLabel     Field = "structureLabel"
	FieldModules            Field = "modules"

	FieldGenerateAllContent      Field = "generateAllContent"
	FieldGenerateModuleSummaries Field = "generateModuleSummaries"
	FieldGenerateLessonText      Field = "generateLessonText"
	FieldGenerateKnowledgeChecks Field = "generateKnowledgeChecks"
	FieldGenerateFinalAssessment Field = "generateFinalAssessment"
	FieldIncludeImages           Field = "includeImages"
	FieldImageStyle              Field = "imageStyle"
)

// messages maps an error path (indices replaced by "*") to its message.
// A "path|tag" entry overrides the path message for that rule.
var messages = map[string]string{
	"courseTopic":        "Please provide at least 20 characters.",
	"language":           "Select a language.",
	"formOfAddress":      "Select form of address.",
	"audience":           "Please describe your audience (min 10 chars).",
	"learnerProficiency": "Select learner proficiency.",
	"courseDuration":     "Select a course pace.",
	"learningGoal":       "Learning goal is required (min 15 chars).",
	"courseTitle":        "Course title is required.",
	"courseDescription":  "Course description is required (min 30 chars).",
	"aiProvider":         "Select an AI provider.",
	"aiModel":            "Select an available model for the provider.",
	"aiModel|required":   "Select a model.",
	"temperature":        "Temperature must be between 0 and 2.",
	"topP":               "Top-p must be between 0 and 1.",
	"presencePenalty":    "Presence penalty must be between -2 and 2.",
	"frequencyPenalty":   "Frequency penalty must be between -2 and 2.",
	"logitBias":          "Token bias entries must use unique tokens.",
	"logitBias.*.token":  "Token is required.",
	"logitBias.*.bias":   "Bias must be between -100 and 100.",

	"modules":                   "Pick a structure with at least one module.",
	"modules.*.title":           "Module title is required.",
	"modules.*.lessons":         "At least one lesson is required.",
	"modules.*.lessons.*.title": "Lesson title is required.",
	"modules.*.quizPosition":    "Quiz position is out of range.",

	"imageStyle": "Choose an image style.",
}

const fallbackMessage = "Invalid value."

var (
	validateOnce sync.Once
	validate     *validator.Validate

	indexPattern = regexp.MustCompile(`\[(\d+)\]`)
)

func schema() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterStructValidation(formLevel, FormValues{})
		v.RegisterStructValidation(moduleLevel, Module{})
		validate = v
	})
	return validate
}

// formLevel holds the rules that span several fields.
func formLevel(sl validator.StructLevel) {
	fv := sl.Current().Interface().(FormValues)

	if fv.AIModel != "" && !llm.ModelAvailable(fv.AIProvider, fv.AIModel) {
		sl.ReportError(fv.AIModel, "aiModel", "AIModel", "model_available", fv.AIProvider)
	}
	if fv.IncludeImages && !IsImageStyle(fv.ImageStyle) {
		sl.ReportError(fv.ImageStyle, "imageStyle", "ImageStyle", "image_style", "")
	}
}

func moduleLevel(sl validator.StructLevel) {
	m := sl.Current().Interface().(Module)

	switch {
	case m.HasQuiz() && m.QuizPosition != nil:
		if p := *m.QuizPosition; p < 0 || p > len(m.Lessons) {
			sl.ReportError(m.QuizPosition, "quizPosition", "QuizPosition", "quiz_range", "")
		}
	case !m.HasQuiz() && m.QuizPosition != nil:
		sl.ReportError(m.QuizPosition, "quizPosition", "QuizPosition", "quiz_range", "")
	}
}

// FieldErrors maps a dotted field path (e.g. "modules.0.lessons.1.title")
// to its violation message.
type FieldErrors map[string]string

// Has reports whether any error belongs to field, including nested paths.
func (fe FieldErrors) Has(field Field) bool {
	for k := range fe {
		if topLevel(k) == string(field) {
			return true
		}
	}
	return false
}

// Get returns the message stored for an exact path.
func (fe FieldErrors) Get(path string) string {
	return fe[path]
}

// Filter returns the errors whose top-level field is one of fields.
func (fe FieldErrors) Filter(fields ...Field) FieldErrors {
	keep := make(map[string]bool, len(fields))
	for _, f := range fields {
		keep[string(f)] = true
	}
	out := FieldErrors{}
	for k, msg := range fe {
		if keep[topLevel(k)] {
			out[k] = msg
		}
	}
	return out
}

// Paths returns the error paths in sorted order.
func (fe FieldErrors) Paths() []string {
	paths := make([]string, 0, len(fe))
	for k := range fe {
		paths = append(paths, k)
	}
	sort.Strings(paths)
	return paths
}

// ValidationError reports a failed full-schema check.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	paths := e.Fields.Paths()
	if len(paths) == 0 {
		return "validation failed"
	}
	return "validation failed: " + paths[0] + ": " + e.Fields[paths[0]]
}

// ValidateAll evaluates the full schema. It never panics and never mutates
// values; an empty result means the values pass.
func ValidateAll(values FormValues) FieldErrors {
	out := FieldErrors{}
	err := schema().Struct(values)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = err.Error()
		return out
	}
	// Several failing rules on one path: the last reported wins.
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		out[path] = message(path, fe.Tag())
	}
	return out
}

// ValidateFields evaluates the full schema and keeps the errors of fields.
func ValidateFields(values FormValues, fields ...Field) FieldErrors {
	return ValidateAll(values).Filter(fields...)
}

// fieldPath converts "FormValues.modules[0].lessons[1].title" to
// "modules.0.lessons.1.title".
func fieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		path = namespace
	}
	return indexPattern.ReplaceAllString(path, ".$1")
}

func message(path, tag string) string {
	segs := strings.Split(path, ".")
	for i, seg := range segs {
		if _, err := strconv.Atoi(seg); err == nil {
			segs[i] = "*"
		}
	}
	generic := strings.Join(segs, ".")

	if msg, ok := messages[generic+"|"+tag]; ok {
		return msg
	}
	if msg, ok := messages[generic]; ok {
		return msg
	}
	return fallbackMessage
}

func topLevel(path string) string {
	head, _, _ := strings.Cut(path, ".")
	return head
}
