package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/coursewiz/internal/course"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", server.Client())
}

func TestClient_Structures(t *testing.T) {
	var got StructureRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, StructuresPath, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"structures": []course.SuggestedStructure{{ID: "s1", Label: "Structure 1"}},
		})
	})

	structures, err := c.Structures(context.Background(), structureRequest())
	require.NoError(t, err)
	require.Len(t, structures, 1)
	assert.Equal(t, "s1", structures[0].ID)
	assert.Equal(t, "Numbers are fun", got.CourseTitle)
	assert.Equal(t, "gpt-4.1-nano", got.Model)
}

func TestClient_ErrorsSurfaceVerbatim(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error message", http.StatusBadRequest, `{"error":"Model gpt-9 is not available for openai"}`, "Model gpt-9 is not available for openai"},
		{"non-2xx without message", http.StatusBadGateway, `upstream down`, "Failed to generate course structures"},
		{"2xx missing field", http.StatusOK, `{}`, "Failed to generate course structures"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.Structures(context.Background(), structureRequest())
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestClient_Suggestions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, SuggestionsPath, r.URL.Path)
		var req SuggestionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, course.SuggestLearningGoal, req.Field)
		w.Write([]byte(`{"suggestions":["Count to 20"]}`))
	})

	got, err := c.Suggestions(context.Background(), suggestionRequest(course.SuggestLearningGoal))
	require.NoError(t, err)
	assert.Equal(t, []string{"Count to 20"}, got)
}

func TestClient_SuggestionsFallbackMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Suggestions(context.Background(), suggestionRequest(course.SuggestCourseTitle))
	require.Error(t, err)
	assert.Equal(t, "Failed to generate suggestions", err.Error())
}

func TestClient_EmptySuggestionListIsSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"suggestions":[]}`))
	})

	got, err := c.Suggestions(context.Background(), suggestionRequest(course.SuggestCourseTitle))
	require.NoError(t, err)
	assert.Empty(t, got)
}
