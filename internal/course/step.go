package course

// Wizard step indices.
const (
	StepPurpose = iota
	StepContext
	StepStructure
	StepModules
	StepGenerate
)

// Step describes one wizard page and the fields it owns.
type Step struct {
	Title    string
	Subtitle string

	// Fields is the projection of the full schema checked by the gate.
	Fields []Field

	// Trigger lists the fields checked individually before the gate runs.
	Trigger []Field
}

// Steps is the ordered wizard flow.
var Steps = []Step{
	{
		Title:    "Define the purpose",
		Subtitle: "Describe your course",
		Fields: []Field{
			FieldCourseTopic, FieldLanguage, FieldFormOfAddress, FieldAudience,
			FieldLearnerProficiency, FieldCourseDuration,
		},
		Trigger: []Field{
			FieldCourseTopic, FieldLanguage, FieldAudience,
			FieldLearnerProficiency, FieldCourseDuration,
		},
	},
	{
		Title:    "Set the context",
		Subtitle: "Explain the background",
		Fields: []Field{
			FieldLearningGoal, FieldCourseTitle, FieldCourseDescription,
			FieldAIProvider, FieldAIModel, FieldTemperature, FieldTopP,
			FieldPresencePenalty, FieldFrequencyPenalty, FieldLogitBias,
		},
		Trigger: []Field{FieldLearningGoal, FieldCourseTitle, FieldCourseDescription},
	},
	{
		Title:    "Course structure",
		Subtitle: "Define modules and lessons",
		Fields:   []Field{FieldStructureLabel, FieldModules},
		Trigger:  []Field{FieldStructureLabel, FieldModules},
	},
	{
		Title:    "Modules and lessons",
		Subtitle: "Revise generated structure manually",
		Fields:   []Field{FieldStructureLabel, FieldModules},
		Trigger:  []Field{FieldStructureLabel, FieldModules},
	},
	{
		Title:    "Generate content",
		Subtitle: "Let the AI create content",
		Fields: []Field{
			FieldGenerateAllContent, FieldGenerateModuleSummaries, FieldGenerateLessonText,
			FieldGenerateKnowledgeChecks, FieldGenerateFinalAssessment,
			FieldIncludeImages, FieldImageStyle,
		},
		Trigger: []Field{
			FieldGenerateAllContent, FieldGenerateModuleSummaries, FieldGenerateLessonText,
			FieldGenerateKnowledgeChecks, FieldGenerateFinalAssessment,
		},
	},
}

// StepCount is the number of wizard steps.
var StepCount = len(Steps)

// StepResult is the verdict of the step gate.
type StepResult struct {
	OK          bool
	FieldErrors FieldErrors
}

// ValidateStep evaluates the schema of step against values. An unknown step
// index is reported as a failure on the "step" key.
func ValidateStep(values FormValues, step int) StepResult {
	if step < 0 || step >= len(Steps) {
		return StepResult{FieldErrors: FieldErrors{"step": "Unknown step."}}
	}
	errs := ValidateFields(values, Steps[step].Fields...)
	return StepResult{OK: len(errs) == 0, FieldErrors: errs}
}

// TriggerStep runs the per-field check that precedes the gate.
func TriggerStep(values FormValues, step int) FieldErrors {
	if step < 0 || step >= len(Steps) {
		return FieldErrors{"step": "Unknown step."}
	}
	return ValidateFields(values, Steps[step].Trigger...)
}
