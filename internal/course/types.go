package course

// Proficiency is the learner proficiency level.
type Proficiency string

const (
	ProficiencyEntry        Proficiency = "entry"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
)

// Proficiencies lists the valid proficiency levels in display order.
var Proficiencies = []Proficiency{ProficiencyEntry, ProficiencyIntermediate, ProficiencyAdvanced}

// Duration is the course pace.
type Duration string

const (
	DurationQuick     Duration = "quick"
	DurationRegular   Duration = "regular"
	DurationExtensive Duration = "extensive"
)

// Durations lists the valid course paces in display order.
var Durations = []Duration{DurationQuick, DurationRegular, DurationExtensive}

// Address is the form of address used in generated content.
type Address string

const (
	AddressFormal   Address = "formal"
	AddressInformal Address = "informal"
)

// Addresses lists the valid forms of address.
var Addresses = []Address{AddressFormal, AddressInformal}

// Languages offered by the wizard. Any non-empty language passes validation.
var Languages = []string{"English", "German", "French", "Spanish", "Italian", "Portuguese"}

// ImageStyles are the selectable illustration styles.
var ImageStyles = []string{
	"modern educational",
	"cartoon & friendly",
	"realistic with people",
	"minimalist",
}

// IsImageStyle reports whether s is one of ImageStyles.
func IsImageStyle(s string) bool {
	for _, style := range ImageStyles {
		if style == s {
			return true
		}
	}
	return false
}

// SuggestionField is a context field the AI can propose text for.
type SuggestionField string

const (
	SuggestLearningGoal      SuggestionField = "learningGoal"
	SuggestCourseTitle       SuggestionField = "courseTitle"
	SuggestCourseDescription SuggestionField = "courseDescription"
)

// SuggestionFields lists the suggestion targets in form order.
var SuggestionFields = []SuggestionField{SuggestLearningGoal, SuggestCourseTitle, SuggestCourseDescription}

// Valid reports whether f is a known suggestion target.
func (f SuggestionField) Valid() bool {
	switch f {
	case SuggestLearningGoal, SuggestCourseTitle, SuggestCourseDescription:
		return true
	}
	return false
}

// Lesson is a single lesson inside a module.
type Lesson struct {
	Title string `json:"title" yaml:"title" validate:"min=3"`
}

// Module groups lessons plus an optional quiz. QuizPosition is the lesson
// index the quiz renders before; len(Lessons) places it after every lesson.
// It is nil whenever QuizTitle is empty.
type Module struct {
	Title        string   `json:"title" yaml:"title" validate:"min=3"`
	Lessons      []Lesson `json:"lessons" yaml:"lessons" validate:"min=1,dive"`
	QuizTitle    string   `json:"quizTitle,omitempty" yaml:"quizTitle,omitempty"`
	QuizPosition *int     `json:"quizPosition,omitempty" yaml:"quizPosition,omitempty"`
}

// HasQuiz reports whether the module carries a quiz.
func (m Module) HasQuiz() bool {
	return m.QuizTitle != ""
}

// Clone returns a deep copy of the module.
func (m Module) Clone() Module {
	out := m
	out.Lessons = cloneSlice(m.Lessons)
	if m.QuizPosition != nil {
		pos := *m.QuizPosition
		out.QuizPosition = &pos
	}
	return out
}

// TokenBias nudges the likelihood of a single token.
type TokenBias struct {
	Token string  `json:"token" yaml:"token" validate:"required"`
	Bias  float64 `json:"bias" yaml:"bias" validate:"gte=-100,lte=100"`
}

// GenerationSettings are the sampling parameters sent with AI requests.
type GenerationSettings struct {
	Temperature      float64     `json:"temperature"`
	TopP             float64     `json:"topP"`
	PresencePenalty  float64     `json:"presencePenalty"`
	FrequencyPenalty float64     `json:"frequencyPenalty"`
	LogitBias        []TokenBias `json:"logitBias"`
}

// DefaultGenerationSettings mirrors the gateway request defaults.
func DefaultGenerationSettings() GenerationSettings {
	return GenerationSettings{
		Temperature: 0.7,
		TopP:        1,
	}
}

// BiasMap converts the token-bias pairs into the provider wire shape.
func (g GenerationSettings) BiasMap() map[string]float64 {
	if len(g.LogitBias) == 0 {
		return nil
	}
	out := make(map[string]float64, len(g.LogitBias))
	for _, tb := range g.LogitBias {
		out[tb.Token] = tb.Bias
	}
	return out
}

// FormValues is the complete wizard value set.
type FormValues struct {
	// Define the purpose.
	CourseTopic        string      `json:"courseTopic" yaml:"courseTopic" validate:"min=20"`
	Language           string      `json:"language" yaml:"language" validate:"required"`
	FormOfAddress      Address     `json:"formOfAddress" yaml:"formOfAddress" validate:"oneof=formal informal"`
	Audience           string      `json:"audience" yaml:"audience" validate:"min=10"`
	LearnerProficiency Proficiency `json:"learnerProficiency" yaml:"learnerProficiency" validate:"oneof=entry intermediate advanced"`
	CourseDuration     Duration    `json:"courseDuration" yaml:"courseDuration" validate:"oneof=quick regular extensive"`

	// Set the context.
	LearningGoal      string `json:"learningGoal" yaml:"learningGoal" validate:"min=15"`
	CourseTitle       string `json:"courseTitle" yaml:"courseTitle" validate:"min=5"`
	CourseDescription string `json:"courseDescription" yaml:"courseDescription" validate:"min=30"`

	AIProvider       string      `json:"aiProvider" yaml:"aiProvider" validate:"oneof=openai gemini anthropic"`
	AIModel          string      `json:"aiModel" yaml:"aiModel" validate:"required"`
	Temperature      float64     `json:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
	TopP             float64     `json:"topP" yaml:"topP" validate:"gte=0,lte=1"`
	PresencePenalty  float64     `json:"presencePenalty" yaml:"presencePenalty" validate:"gte=-2,lte=2"`
	FrequencyPenalty float64     `json:"frequencyPenalty" yaml:"frequencyPenalty" validate:"gte=-2,lte=2"`
	LogitBias        []TokenBias `json:"logitBias" yaml:"logitBias" validate:"unique=Token,dive"`

	// Course structure.
	StructureLabel string   `json:"structureLabel" yaml:"structureLabel"`
	Modules        []Module `json:"modules" yaml:"modules" validate:"min=1,dive"`

	// Generate content.
	GenerateAllContent      bool   `json:"generateAllContent" yaml:"generateAllContent"`
	GenerateModuleSummaries bool   `json:"generateModuleSummaries" yaml:"generateModuleSummaries"`
	GenerateLessonText      bool   `json:"generateLessonText" yaml:"generateLessonText"`
	GenerateKnowledgeChecks bool   `json:"generateKnowledgeChecks" yaml:"generateKnowledgeChecks"`
	GenerateFinalAssessment bool   `json:"generateFinalAssessment" yaml:"generateFinalAssessment"`
	IncludeImages           bool   `json:"includeImages" yaml:"includeImages"`
	ImageStyle              string `json:"imageStyle,omitempty" yaml:"imageStyle,omitempty"`
}

// DefaultValues returns the initial wizard values for the given provider
// and model selection.
func DefaultValues(provider, model string) FormValues {
	v := FormValues{
		AIProvider:              provider,
		AIModel:                 model,
		Modules:                 []Module{},
		GenerateAllContent:      true,
		GenerateModuleSummaries: true,
		GenerateLessonText:      true,
		GenerateKnowledgeChecks: true,
		GenerateFinalAssessment: true,
	}
	v.SetSettings(DefaultGenerationSettings())
	return v
}

// Settings returns the generation parameters of the values.
func (v FormValues) Settings() GenerationSettings {
	return GenerationSettings{
		Temperature:      v.Temperature,
		TopP:             v.TopP,
		PresencePenalty:  v.PresencePenalty,
		FrequencyPenalty: v.FrequencyPenalty,
		LogitBias:        cloneSlice(v.LogitBias),
	}
}

// SetSettings replaces the generation parameters.
func (v *FormValues) SetSettings(g GenerationSettings) {
	v.Temperature = g.Temperature
	v.TopP = g.TopP
	v.PresencePenalty = g.PresencePenalty
	v.FrequencyPenalty = g.FrequencyPenalty
	v.LogitBias = cloneSlice(g.LogitBias)
}

// Clone returns a deep copy of the values.
func (v FormValues) Clone() FormValues {
	out := v
	out.LogitBias = cloneSlice(v.LogitBias)
	if v.Modules != nil {
		out.Modules = make([]Module, len(v.Modules))
		for i, m := range v.Modules {
			out.Modules[i] = m.Clone()
		}
	}
	return out
}

// StructureContextComplete reports whether every field the structure prompt
// depends on has a value.
func (v FormValues) StructureContextComplete() bool {
	return v.SuggestionContextComplete() && v.LearningGoal != "" && v.CourseTitle != ""
}

// SuggestionContextComplete reports whether the purpose fields the
// suggestion prompt depends on have values.
func (v FormValues) SuggestionContextComplete() bool {
	return v.CourseTopic != "" &&
		v.Language != "" &&
		v.Audience != "" &&
		v.LearnerProficiency != "" &&
		v.CourseDuration != ""
}

// Text returns the value of a suggestion target field.
func (v FormValues) Text(f SuggestionField) string {
	switch f {
	case SuggestLearningGoal:
		return v.LearningGoal
	case SuggestCourseTitle:
		return v.CourseTitle
	case SuggestCourseDescription:
		return v.CourseDescription
	}
	return ""
}

// StructureModule is a module as proposed by the AI, without quiz position.
type StructureModule struct {
	Title     string   `json:"title"`
	Lessons   []Lesson `json:"lessons"`
	QuizTitle string   `json:"quizTitle"`
}

// SuggestedStructure is one AI-proposed course outline.
type SuggestedStructure struct {
	ID      string            `json:"id"`
	Label   string            `json:"label"`
	Modules []StructureModule `json:"modules"`
}

// Clone returns a deep copy of the structure.
func (s SuggestedStructure) Clone() SuggestedStructure {
	out := s
	out.Modules = make([]StructureModule, len(s.Modules))
	for i, m := range s.Modules {
		m.Lessons = cloneSlice(m.Lessons)
		out.Modules[i] = m
	}
	return out
}

// FormModules converts the proposal into editable modules, placing each quiz
// after the module's lessons.
func (s SuggestedStructure) FormModules() []Module {
	out := make([]Module, len(s.Modules))
	for i, m := range s.Modules {
		mod := Module{
			Title:     m.Title,
			Lessons:   cloneSlice(m.Lessons),
			QuizTitle: m.QuizTitle,
		}
		if mod.HasQuiz() {
			pos := len(mod.Lessons)
			mod.QuizPosition = &pos
		}
		out[i] = mod
	}
	return out
}

// StructureQuery is the input for a course structure request.
type StructureQuery struct {
	Provider           string             `json:"provider"`
	Model              string             `json:"model"`
	CourseTopic        string             `json:"courseTopic"`
	Language           string             `json:"language"`
	Audience           string             `json:"audience"`
	LearnerProficiency Proficiency        `json:"learnerProficiency"`
	CourseDuration     Duration           `json:"courseDuration"`
	LearningGoal       string             `json:"learningGoal"`
	CourseTitle        string             `json:"courseTitle"`
	Settings           GenerationSettings `json:"-"`
}

// SuggestionQuery is the input for a field suggestion request.
type SuggestionQuery struct {
	Provider           string             `json:"provider"`
	Model              string             `json:"model"`
	Field              SuggestionField    `json:"field"`
	CourseTopic        string             `json:"courseTopic"`
	Language           string             `json:"language"`
	Audience           string             `json:"audience"`
	LearnerProficiency Proficiency        `json:"learnerProficiency"`
	CourseDuration     Duration           `json:"courseDuration"`
	LearningGoal       string             `json:"learningGoal"`
	CourseTitle        string             `json:"courseTitle"`
	Settings           GenerationSettings `json:"-"`
}

// StructureQuery builds the structure request for the current values.
func (v FormValues) StructureQuery() StructureQuery {
	return StructureQuery{
		Provider:           v.AIProvider,
		Model:              v.AIModel,
		CourseTopic:        v.CourseTopic,
		Language:           v.Language,
		Audience:           v.Audience,
		LearnerProficiency: v.LearnerProficiency,
		CourseDuration:     v.CourseDuration,
		LearningGoal:       v.LearningGoal,
		CourseTitle:        v.CourseTitle,
		Settings:           v.Settings(),
	}
}

// SuggestionQuery builds the suggestion request for field.
func (v FormValues) SuggestionQuery(field SuggestionField) SuggestionQuery {
	return SuggestionQuery{
		Provider:           v.AIProvider,
		Model:              v.AIModel,
		Field:              field,
		CourseTopic:        v.CourseTopic,
		Language:           v.Language,
		Audience:           v.Audience,
		LearnerProficiency: v.LearnerProficiency,
		CourseDuration:     v.CourseDuration,
		LearningGoal:       v.LearningGoal,
		CourseTitle:        v.CourseTitle,
		Settings:           v.Settings(),
	}
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
