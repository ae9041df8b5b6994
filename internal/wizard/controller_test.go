package wizard

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/coursewiz/internal/course"
)

type fakeStructures struct {
	calls   []course.StructureQuery
	results []course.SuggestedStructure
	err     error
}

func (f *fakeStructures) FetchStructures(_ context.Context, q course.StructureQuery) ([]course.SuggestedStructure, error) {
	f.calls = append(f.calls, q)
	return f.results, f.err
}

type fakeSuggestions struct {
	calls []course.SuggestionQuery
	list  []string
}

func (f *fakeSuggestions) FetchSuggestions(_ context.Context, q course.SuggestionQuery) ([]string, error) {
	f.calls = append(f.calls, q)
	return f.list, nil
}

type fakeSubmitter struct {
	got []course.FormValues
	err error
}

func (f *fakeSubmitter) Submit(_ context.Context, v course.FormValues) error {
	f.got = append(f.got, v)
	return f.err
}

func purposeValues() course.FormValues {
	v := course.DefaultValues("openai", "gpt-4.1-nano")
	v.CourseTopic = "Intro to basic arithmetic for young learners"
	v.Language = "English"
	v.FormOfAddress = course.AddressInformal
	v.Audience = "Elementary school children"
	v.LearnerProficiency = course.ProficiencyEntry
	v.CourseDuration = course.DurationQuick
	return v
}

func contextValues() course.FormValues {
	v := purposeValues()
	v.LearningGoal = "Add and subtract numbers up to 100"
	v.CourseTitle = "Numbers are fun"
	v.CourseDescription = "A playful first course on adding and subtracting small numbers."
	return v
}

func completeValues() course.FormValues {
	v := contextValues()
	v.StructureLabel = "Structure 1"
	v.Modules = sampleStructure().FormModules()
	return v
}

func sampleStructure() course.SuggestedStructure {
	return course.SuggestedStructure{
		ID:    "s1",
		Label: "Structure 1",
		Modules: []course.StructureModule{
			{Title: "Counting", Lessons: lessons("One to ten", "Tens"), QuizTitle: "Counting quiz"},
			{Title: "Adding", Lessons: lessons("Small sums")},
		},
	}
}

func runAll(t *testing.T, c *Controller, fetches []Fetch) {
	t.Helper()
	for _, f := range fetches {
		if !c.Apply(f.Run()) {
			t.Fatalf("fresh %s outcome was ignored", f.Kind)
		}
	}
}

func TestNext_BlocksOnInvalidStep(t *testing.T) {
	c := New(Options{})

	tr := c.Next()
	assert.False(t, tr.Moved)
	assert.Equal(t, course.StepPurpose, c.State().ActiveStep)
	assert.Equal(t, "Please provide at least 20 characters.", tr.Errors["courseTopic"])
	assert.Equal(t, "Select form of address.", tr.Errors["formOfAddress"])
	assert.True(t, c.Errors().Has(course.FieldAudience))
}

func TestNext_AdvancesAndClearsErrors(t *testing.T) {
	c := New(Options{})
	c.Next()
	require.NotEmpty(t, c.Errors())

	v := purposeValues()
	require.NoError(t, c.SetText(course.FieldCourseTopic, v.CourseTopic))
	require.NoError(t, c.SetText(course.FieldLanguage, v.Language))
	require.NoError(t, c.SetText(course.FieldFormOfAddress, string(v.FormOfAddress)))
	require.NoError(t, c.SetText(course.FieldAudience, v.Audience))
	require.NoError(t, c.SetText(course.FieldLearnerProficiency, string(v.LearnerProficiency)))
	require.NoError(t, c.SetText(course.FieldCourseDuration, string(v.CourseDuration)))
	assert.Empty(t, c.Errors(), "touched fields should revalidate on change")

	tr := c.Next()
	assert.True(t, tr.Moved)
	assert.Equal(t, course.StepContext, c.State().ActiveStep)
}

func TestStructureStep_AutoFetchesOnce(t *testing.T) {
	structures := &fakeStructures{results: []course.SuggestedStructure{sampleStructure()}}
	v := contextValues()
	c := New(Options{Values: &v, Structures: structures, Suggestions: &fakeSuggestions{}})

	tr := c.Next()
	require.True(t, tr.Moved)
	require.Len(t, tr.Fetches, len(course.SuggestionFields))
	runAll(t, c, tr.Fetches)

	tr = c.Next()
	require.True(t, tr.Moved)
	require.Equal(t, course.StepStructure, c.State().ActiveStep)
	require.Len(t, tr.Fetches, 1)
	assert.Equal(t, FetchStructures, tr.Fetches[0].Kind)
	assert.True(t, c.Structures().Loading)
	runAll(t, c, tr.Fetches)

	assert.Len(t, structures.calls, 1)
	assert.Equal(t, "Numbers are fun", structures.calls[0].CourseTitle)
	assert.Equal(t, 1, c.State().StructureRefreshCount)
	assert.Len(t, c.Structures().Structures, 1)

	c.Previous()
	tr = c.Next()
	require.True(t, tr.Moved)
	assert.Empty(t, tr.Fetches, "re-entering the step must not fetch again")
}

func TestStructureStep_NoFetchWithIncompleteContext(t *testing.T) {
	v := contextValues()
	v.CourseTitle = ""
	c := New(Options{Values: &v})

	// The context gate would block on the title; land on the step directly.
	c.state.ActiveStep = course.StepStructure
	assert.Empty(t, c.enterStep())
	assert.Equal(t, 0, c.State().StructureRefreshCount)
}

func TestApply_IgnoresStaleStructures(t *testing.T) {
	structures := &fakeStructures{results: []course.SuggestedStructure{sampleStructure()}}
	v := contextValues()
	c := New(Options{Values: &v, Structures: structures})

	first := c.RequestStructureRegeneration()
	second := c.RequestStructureRegeneration()

	stale := first.Run()
	assert.ErrorIs(t, first.ctx.Err(), context.Canceled, "superseded fetch should be cancelled")
	assert.False(t, c.Apply(stale))
	assert.True(t, c.Structures().Loading)

	assert.True(t, c.Apply(second.Run()))
	assert.False(t, c.Structures().Loading)
	assert.Equal(t, 2, c.State().StructureRefreshCount)
}

func TestApply_RecordsFetchError(t *testing.T) {
	v := contextValues()
	c := New(Options{Values: &v, Structures: &fakeStructures{err: errors.New("Failed to generate course structures")}})

	f := c.RequestStructureRegeneration()
	require.True(t, c.Apply(f.Run()))

	st := c.Structures()
	assert.False(t, st.Loading)
	assert.Equal(t, "Failed to generate course structures", st.Err)
	assert.Empty(t, st.Structures)
}

func TestRequestStructureRegeneration_NoFetcher(t *testing.T) {
	v := contextValues()
	c := New(Options{Values: &v})

	out := c.RequestStructureRegeneration().Run()
	assert.ErrorIs(t, out.Err, ErrFetcherUnavailable)
}

func TestSelectStructure_DoesNotMutateSource(t *testing.T) {
	v := contextValues()
	c := New(Options{Values: &v})
	src := sampleStructure()
	orig := src.Clone()

	c.SelectStructure(src)
	require.NoError(t, c.Edit(func(e *Editor) error {
		if err := e.RenameLesson(0, 0, "Renamed"); err != nil {
			return err
		}
		return e.AddLesson(1)
	}))

	assert.True(t, reflect.DeepEqual(orig, src), "source structure changed")
	got := c.Values()
	assert.Equal(t, "Structure 1", got.StructureLabel)
	assert.Equal(t, "s1", c.State().SelectedStructureID)
	assert.Equal(t, "Renamed", got.Modules[0].Lessons[0].Title)
	assert.Equal(t, 2, *got.Modules[0].QuizPosition)
}

func TestSelectStructureByID(t *testing.T) {
	v := contextValues()
	c := New(Options{Values: &v, Structures: &fakeStructures{results: []course.SuggestedStructure{sampleStructure()}}})
	c.Apply(c.RequestStructureRegeneration().Run())

	require.NoError(t, c.SelectStructureByID("s1"))
	assert.Error(t, c.SelectStructureByID("s9"))
	assert.Len(t, c.Values().Modules, 2)
}

func TestPreviousThenNext_RestoresState(t *testing.T) {
	v := completeValues()
	c := New(Options{Values: &v})
	for i := 0; i < course.StepModules; i++ {
		require.True(t, c.Next().Moved, "step %d", i)
	}
	before := c.Values()
	step := c.State().ActiveStep

	c.Previous()
	c.Next()

	assert.Equal(t, step, c.State().ActiveStep)
	assert.Equal(t, before, c.Values())
}

func TestPrevious_AtFirstStep(t *testing.T) {
	c := New(Options{})
	assert.False(t, c.Previous().Moved)
	assert.Equal(t, 0, c.State().ActiveStep)
}

func TestSuggestions_FetchAndApply(t *testing.T) {
	sugg := &fakeSuggestions{list: []string{"Learn to add numbers up to one hundred", "b", "c"}}
	v := purposeValues()
	c := New(Options{Values: &v, Suggestions: sugg})

	f, err := c.RequestSuggestions(course.SuggestLearningGoal)
	require.NoError(t, err)
	assert.True(t, c.Suggestions(course.SuggestLearningGoal).Loading)
	require.True(t, c.Apply(f.Run()))

	st := c.Suggestions(course.SuggestLearningGoal)
	assert.Equal(t, sugg.list, st.Suggestions)
	assert.Equal(t, 1, st.RefreshCount)
	assert.Equal(t, course.SuggestLearningGoal, sugg.calls[0].Field)

	require.NoError(t, c.ApplySuggestion(course.SuggestLearningGoal, st.Suggestions[0]))
	assert.Equal(t, "Learn to add numbers up to one hundred", c.Values().LearningGoal)
	assert.False(t, c.Errors().Has(course.FieldLearningGoal))

	_, err = c.RequestSuggestions("audience")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSuggestions_RequireContext(t *testing.T) {
	c := New(Options{Suggestions: &fakeSuggestions{}})
	_, err := c.RequestSuggestions(course.SuggestCourseTitle)
	assert.ErrorIs(t, err, ErrContextIncomplete)
}

func TestSuggestions_StaleIgnored(t *testing.T) {
	v := purposeValues()
	c := New(Options{Values: &v, Suggestions: &fakeSuggestions{list: []string{"x"}}})

	old, err := c.RequestSuggestions(course.SuggestCourseTitle)
	require.NoError(t, err)
	fresh, err := c.RequestSuggestions(course.SuggestCourseTitle)
	require.NoError(t, err)

	assert.False(t, c.Apply(old.Run()))
	assert.True(t, c.Apply(fresh.Run()))
	assert.Equal(t, 2, c.Suggestions(course.SuggestCourseTitle).RefreshCount)
}

func TestSetToggle_MasterSwitch(t *testing.T) {
	c := New(Options{})

	require.NoError(t, c.SetToggle(course.FieldGenerateLessonText, false))
	v := c.Values()
	assert.False(t, v.GenerateAllContent)
	assert.True(t, v.GenerateModuleSummaries)

	require.NoError(t, c.SetToggle(course.FieldGenerateAllContent, false))
	v = c.Values()
	assert.False(t, v.GenerateModuleSummaries || v.GenerateLessonText || v.GenerateKnowledgeChecks || v.GenerateFinalAssessment)

	for _, f := range []course.Field{
		course.FieldGenerateModuleSummaries,
		course.FieldGenerateLessonText,
		course.FieldGenerateKnowledgeChecks,
		course.FieldGenerateFinalAssessment,
	} {
		require.NoError(t, c.SetToggle(f, true))
	}
	assert.True(t, c.Values().GenerateAllContent)

	assert.ErrorIs(t, c.SetToggle(course.FieldCourseTitle, true), ErrUnknownField)
}

func TestSetToggle_IncludeImagesPicksStyle(t *testing.T) {
	c := New(Options{})
	require.NoError(t, c.SetToggle(course.FieldIncludeImages, true))
	assert.Equal(t, course.ImageStyles[0], c.Values().ImageStyle)
}

func TestSetProvider_SelectsFirstAvailableModel(t *testing.T) {
	c := New(Options{})

	require.NoError(t, c.SetProvider("anthropic"))
	assert.Equal(t, "claude-haiku-4-5-20251001", c.Values().AIModel)
	assert.Error(t, c.SetProvider("acme"))

	c.Touch(course.FieldAIModel)
	c.SetModel("claude-opus-4-1-20250805")
	assert.Equal(t, "Select an available model for the provider.", c.Errors()["aiModel"])
}

func TestTokenBias(t *testing.T) {
	c := New(Options{})

	i := c.AddTokenBias()
	require.NoError(t, c.UpdateTokenBias(i, course.TokenBias{Token: " 1234 ", Bias: 5}))
	j := c.AddTokenBias()
	require.NoError(t, c.UpdateTokenBias(j, course.TokenBias{Token: "1234", Bias: 9}))
	assert.True(t, c.Errors().Has(course.FieldLogitBias))

	require.NoError(t, c.RemoveTokenBias(j))
	assert.False(t, c.Errors().Has(course.FieldLogitBias))
	assert.Equal(t, []course.TokenBias{{Token: "1234", Bias: 5}}, c.Values().LogitBias)
	assert.ErrorIs(t, c.RemoveTokenBias(3), ErrIndexOutOfRange)
}

func TestSetGeneration_KeepsBiases(t *testing.T) {
	c := New(Options{})
	c.AddTokenBias()
	c.SetGeneration(course.GenerationSettings{Temperature: 1.5, TopP: 0.3})

	v := c.Values()
	assert.Equal(t, 1.5, v.Temperature)
	assert.Equal(t, 0.3, v.TopP)
	assert.Len(t, v.LogitBias, 1)
}

func TestSubmit(t *testing.T) {
	v := completeValues()
	sub := &fakeSubmitter{}
	c := New(Options{Values: &v, Submitter: sub})

	assert.ErrorIs(t, c.Submit(context.Background()), ErrNotTerminalStep)

	for !c.IsLastStep() {
		require.True(t, c.Next().Moved)
	}
	require.NoError(t, c.Submit(context.Background()))
	require.Len(t, sub.got, 1)
	assert.Equal(t, v, sub.got[0], "submitted values must be unchanged")
	assert.True(t, c.State().Submitted)
}

func TestSubmit_ValidationFailure(t *testing.T) {
	v := completeValues()
	sub := &fakeSubmitter{}
	c := New(Options{Values: &v, Submitter: sub})
	c.state.ActiveStep = course.StepCount - 1
	require.NoError(t, c.SetText(course.FieldCourseTopic, "too short"))

	err := c.Submit(context.Background())
	var verr *course.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "courseTopic")
	assert.Empty(t, sub.got)
}

func TestSubmit_SubmitterError(t *testing.T) {
	v := completeValues()
	c := New(Options{Values: &v, Submitter: &fakeSubmitter{err: errors.New("disk full")}})
	c.state.ActiveStep = course.StepCount - 1

	err := c.Submit(context.Background())
	assert.ErrorContains(t, err, "disk full")
	assert.False(t, c.State().Submitted)
}
