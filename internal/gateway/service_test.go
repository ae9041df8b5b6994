package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/coursewiz/internal/course"
	"github.com/abhisek/coursewiz/internal/llm"
)

const threeStructures = `{"structures":[
	{"label":"Structure 1","modules":[{"title":"Counting","lessons":[{"title":"Numbers to 10"},{"title":"Numbers to 20"},{"title":"Skip counting"}],"quizTitle":"Counting quiz"}]},
	{"label":"Structure 2","modules":[{"title":"Adding","lessons":[{"title":"Plus one"}],"quizTitle":"Adding quiz"}]},
	{"label":"Structure 3","modules":[{"title":"Taking away","lessons":[{"title":"Minus one"}],"quizTitle":"Subtraction quiz"}]}
]}`

func newTestService(t *testing.T, provider string, responses ...llm.MockResponse) (*Service, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	reg := llm.NewStaticRegistry(llm.DefaultConfig(), map[string]llm.Provider{provider: mock})
	return NewService(reg, DefaultConfig(), nil), mock
}

func structureRequest() StructureRequest {
	return StructureRequest{
		Provider: llm.ProviderOpenAI,
		Model:    "gpt-4.1-nano",
		CourseContext: CourseContext{
			CourseTopic:  "Intro to basic arithmetic for young learners",
			Audience:     "Elementary school children",
			LearningGoal: "Add and subtract numbers up to 20",
			CourseTitle:  "Numbers are fun",
		},
	}
}

func suggestionRequest(field course.SuggestionField) SuggestionRequest {
	return SuggestionRequest{
		Provider: llm.ProviderGemini,
		Model:    "gemini-2.0-flash",
		Field:    field,
		CourseContext: CourseContext{
			CourseTopic: "Intro to basic arithmetic for young learners",
			Language:    "German",
			Audience:    "Elementary school children",
		},
	}
}

func TestStructures_NormalizesResponse(t *testing.T) {
	svc, mock := newTestService(t, llm.ProviderOpenAI, llm.MockResponse{Content: json.RawMessage(threeStructures)})

	got, err := svc.Structures(context.Background(), structureRequest())
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i, s := range got {
		assert.Equal(t, "s"+string(rune('1'+i)), s.ID)
	}
	assert.Equal(t, "Structure 1", got[0].Label)
	assert.Equal(t, "Counting quiz", got[0].Modules[0].QuizTitle)
	assert.Len(t, got[0].Modules[0].Lessons, 3)

	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	assert.Equal(t, "gpt-4.1-nano", call.Model)
	assert.Equal(t, systemPrompt, call.System)
	assert.Equal(t, StructuresSchema, call.Schema)
	assert.Equal(t, DefaultTemperature, call.Temperature)
	assert.Equal(t, DefaultTopP, call.TopP)
	assert.Nil(t, call.LogitBias)
	assert.Contains(t, call.Messages[0].Content, "Language: English")
	assert.Contains(t, call.Messages[0].Content, "Course title: Numbers are fun")
}

func TestStructures_PassesGenerationParams(t *testing.T) {
	svc, mock := newTestService(t, llm.ProviderOpenAI, llm.MockResponse{Content: json.RawMessage(threeStructures)})

	req := structureRequest()
	temp, topP, presence := 1.2, 0.8, -0.5
	req.Temperature = &temp
	req.TopP = &topP
	req.PresencePenalty = &presence
	req.LogitBias = map[string]float64{"1234": 20.4}

	_, err := svc.Structures(context.Background(), req)
	require.NoError(t, err)

	call := mock.Calls[0]
	assert.Equal(t, 1.2, call.Temperature)
	assert.Equal(t, 0.8, call.TopP)
	assert.Equal(t, -0.5, call.PresencePenalty)
	assert.Equal(t, 0.0, call.FrequencyPenalty)
	assert.Equal(t, map[string]int{"1234": 20}, call.LogitBias)
}

func TestStructures_RejectsWrongShape(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"two structures", `{"structures":[{"label":"a","modules":[{"title":"m","lessons":[{"title":"l"}],"quizTitle":"q"}]},{"label":"b","modules":[{"title":"m","lessons":[{"title":"l"}],"quizTitle":"q"}]}]}`},
		{"empty quiz title", strings.Replace(threeStructures, `"Counting quiz"`, `""`, 1)},
		{"no lessons", strings.Replace(threeStructures, `[{"title":"Plus one"}]`, `[]`, 1)},
		{"not json", `Here are your structures`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, llm.ProviderOpenAI, llm.MockResponse{Content: json.RawMessage(tt.content)})

			_, err := svc.Structures(context.Background(), structureRequest())
			var up *UpstreamError
			require.ErrorAs(t, err, &up)
			assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
		})
	}
}

func TestStructures_DisallowedModelMakesNoCall(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		model    string
	}{
		{"unknown model", llm.ProviderOpenAI, "gpt-9"},
		{"unavailable model", llm.ProviderAnthropic, "claude-opus-4-1-20250805"},
		{"model of another provider", llm.ProviderGemini, "gpt-4.1-nano"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := newTestService(t, tt.provider)
			req := structureRequest()
			req.Provider = tt.provider
			req.Model = tt.model

			_, err := svc.Structures(context.Background(), req)
			var disallowed *DisallowedModelError
			require.ErrorAs(t, err, &disallowed)
			assert.Equal(t, "Model "+tt.model+" is not available for "+tt.provider, err.Error())
			assert.Equal(t, http.StatusBadRequest, StatusCode(err))
			assert.Zero(t, mock.CallCount())
		})
	}
}

func TestStructures_InvalidRequest(t *testing.T) {
	svc, mock := newTestService(t, llm.ProviderOpenAI)

	req := structureRequest()
	req.Provider = "cohere"
	temp := 3.0
	req.Temperature = &temp
	req.LearnerProficiency = "expert"

	_, err := svc.Structures(context.Background(), req)
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Len(t, reqErr.Problems, 3)
	assert.Contains(t, err.Error(), "provider must be one of: openai, gemini, anthropic")
	assert.Contains(t, err.Error(), "temperature must be at most 2")
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	assert.Zero(t, mock.CallCount())
}

func TestStructures_MissingCredentials(t *testing.T) {
	reg := llm.NewStaticRegistry(llm.DefaultConfig(), nil)
	svc := NewService(reg, DefaultConfig(), nil)

	_, err := svc.Structures(context.Background(), structureRequest())
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "OPENAI_KEY is not configured", err.Error())
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
}

func TestSuggestions_TrimsAndCaps(t *testing.T) {
	svc, mock := newTestService(t, llm.ProviderGemini, llm.MockResponse{
		Content: json.RawMessage(`{"suggestions":["  Rechnen lernen ","","Zahlen entdecken","Mathe mit Spaß"]}`),
	})

	got, err := svc.Suggestions(context.Background(), suggestionRequest(course.SuggestCourseTitle))
	require.NoError(t, err)
	assert.Equal(t, []string{"Rechnen lernen", "Zahlen entdecken"}, got)

	msg := mock.Calls[0].Messages[0].Content
	assert.Contains(t, msg, "Return concise, marketable course titles.")
	assert.Contains(t, msg, "Language: German")
	assert.Contains(t, msg, "Learner proficiency: entry")
	assert.Contains(t, msg, "Current learning goal: N/A")
	assert.True(t, strings.HasSuffix(msg, "Target field: courseTitle"))
}

func TestSuggestions_MissingList(t *testing.T) {
	svc, _ := newTestService(t, llm.ProviderGemini, llm.MockResponse{Content: json.RawMessage(`{"ideas":["x"]}`)})

	_, err := svc.Suggestions(context.Background(), suggestionRequest(course.SuggestLearningGoal))
	require.Error(t, err)
	assert.Equal(t, "Invalid suggestions payload returned by model", err.Error())
}

func TestSuggestions_UnknownField(t *testing.T) {
	svc, _ := newTestService(t, llm.ProviderGemini)

	_, err := svc.Suggestions(context.Background(), suggestionRequest("audience"))
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
}

func TestUpstreamMessages(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		err      error
		want     string
	}{
		{
			name:     "gemini quota",
			provider: llm.ProviderGemini,
			err:      &llm.ErrRateLimit{Err: &llm.StatusError{Provider: "Gemini", Status: 429, Details: "Resource exhausted"}},
			want:     "Gemini quota exceeded (429). Your current Gemini plan has no remaining quota for this model. Try another Gemini model, switch to OpenAI, or retry later. Details: Resource exhausted",
		},
		{
			name:     "gemini model missing",
			provider: llm.ProviderGemini,
			err:      &llm.ErrModelNotFound{Err: &llm.StatusError{Provider: "Gemini", Status: 404, Details: "not found"}},
			want:     "Selected Gemini model is unavailable for generateContent (404). Please choose a different Gemini model from the dropdown. Details: not found",
		},
		{
			name:     "openai status",
			provider: llm.ProviderOpenAI,
			err:      &llm.ErrRequestRejected{Status: 400, Err: &llm.StatusError{Provider: "OpenAI", Status: 400, Details: "bad request"}},
			want:     "OpenAI request failed: 400 bad request",
		},
		{
			name:     "empty response",
			provider: llm.ProviderOpenAI,
			err:      &llm.ErrInvalidResponse{Err: errors.New("OpenAI returned an empty response")},
			want:     "OpenAI returned an empty response",
		},
		{
			name:     "timeout",
			provider: llm.ProviderGemini,
			err:      context.DeadlineExceeded,
			want:     "Gemini request timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, tt.provider, llm.MockResponse{Err: tt.err})
			req := structureRequest()
			req.Provider = tt.provider
			if tt.provider == llm.ProviderGemini {
				req.Model = "gemini-2.0-flash"
			}

			_, err := svc.Structures(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestService_FetchStructuresFromQuery(t *testing.T) {
	svc, mock := newTestService(t, llm.ProviderOpenAI, llm.MockResponse{Content: json.RawMessage(threeStructures)})

	values := course.DefaultValues(llm.ProviderOpenAI, "gpt-4.1-mini")
	values.CourseTopic = "Intro to basic arithmetic for young learners"
	values.Language = "English"
	values.Audience = "Elementary school children"
	values.LearnerProficiency = course.ProficiencyEntry
	values.CourseDuration = course.DurationQuick
	values.LogitBias = []course.TokenBias{{Token: "42", Bias: -5}}

	got, err := svc.FetchStructures(context.Background(), values.StructureQuery())
	require.NoError(t, err)
	assert.Len(t, got, 3)

	call := mock.Calls[0]
	assert.Equal(t, "gpt-4.1-mini", call.Model)
	assert.Equal(t, 0.7, call.Temperature)
	assert.Equal(t, map[string]int{"42": -5}, call.LogitBias)
}
