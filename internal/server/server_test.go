package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/coursewiz/internal/gateway"
	"github.com/abhisek/coursewiz/internal/llm"
)

const threeStructures = `{"structures":[
	{"label":"Structure 1","modules":[{"title":"Counting","lessons":[{"title":"Numbers to 10"}],"quizTitle":"Counting quiz"}]},
	{"label":"Structure 2","modules":[{"title":"Adding","lessons":[{"title":"Plus one"}],"quizTitle":"Adding quiz"}]},
	{"label":"Structure 3","modules":[{"title":"Taking away","lessons":[{"title":"Minus one"}],"quizTitle":"Subtraction quiz"}]}
]}`

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, providers map[string]llm.Provider) *gin.Engine {
	t.Helper()
	reg := llm.NewStaticRegistry(llm.DefaultConfig(), providers)
	svc := gateway.NewService(reg, gateway.DefaultConfig(), nil)
	return NewRouter(RouterConfig{
		AIHandler: NewAIHandler(svc, reg.Names),
	})
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestStructures_OK(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(threeStructures)})
	router := newTestRouter(t, map[string]llm.Provider{llm.ProviderOpenAI: mock})

	w := do(router, http.MethodPost, gateway.StructuresPath,
		`{"provider":"openai","model":"gpt-4.1-nano","courseTopic":"Arithmetic"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp gateway.StructuresResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Structures, 3)
	assert.Equal(t, "s1", resp.Structures[0].ID)
	assert.Equal(t, 1, mock.CallCount())
}

func TestStructures_DisallowedModel(t *testing.T) {
	mock := llm.NewMockProvider()
	router := newTestRouter(t, map[string]llm.Provider{llm.ProviderOpenAI: mock})

	w := do(router, http.MethodPost, gateway.StructuresPath,
		`{"provider":"openai","model":"gpt-9","courseTopic":"Arithmetic"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Model gpt-9 is not available for openai", decode(t, w)["error"])
	assert.Zero(t, mock.CallCount())
}

func TestStructures_MalformedBody(t *testing.T) {
	router := newTestRouter(t, nil)

	w := do(router, http.MethodPost, gateway.StructuresPath, `{"provider":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "invalid JSON body")
}

func TestStructures_MissingCredentials(t *testing.T) {
	router := newTestRouter(t, nil)

	w := do(router, http.MethodPost, gateway.StructuresPath,
		`{"provider":"openai","model":"gpt-4.1-nano","courseTopic":"Arithmetic"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "OPENAI_KEY is not configured", decode(t, w)["error"])
}

func TestSuggestions_EmptyListIsArray(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"suggestions":["", "  "]}`)})
	router := newTestRouter(t, map[string]llm.Provider{llm.ProviderGemini: mock})

	w := do(router, http.MethodPost, gateway.SuggestionsPath,
		`{"provider":"gemini","model":"gemini-2.0-flash","field":"courseTitle","courseTopic":"Arithmetic"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"suggestions":[]}`, w.Body.String())
}

func TestSuggestions_UnknownField(t *testing.T) {
	router := newTestRouter(t, map[string]llm.Provider{llm.ProviderGemini: llm.NewMockProvider()})

	w := do(router, http.MethodPost, gateway.SuggestionsPath,
		`{"provider":"gemini","model":"gemini-2.0-flash","field":"audience"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "field must be one of")
}

func TestGenerationRoutes_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{gateway.StructuresPath, gateway.SuggestionsPath} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			w := do(router, method, path, "")
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code, "%s %s", method, path)
			assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
			assert.Equal(t, "Method not allowed", decode(t, w)["error"])
		}
	}
}

func TestModels(t *testing.T) {
	router := newTestRouter(t, map[string]llm.Provider{llm.ProviderGemini: llm.NewMockProvider()})

	w := do(router, http.MethodGet, gateway.ModelsPath, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Providers []providerInfo `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Providers, 3)
	assert.Equal(t, llm.ProviderOpenAI, resp.Providers[0].ID)
	assert.False(t, resp.Providers[0].Configured)
	assert.True(t, resp.Providers[1].Configured)
	assert.NotEmpty(t, resp.Providers[2].Models)
}

func TestHealthz(t *testing.T) {
	w := do(newTestRouter(t, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, gateway.StructuresPath, nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
