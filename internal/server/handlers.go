package server

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/coursewiz/internal/course"
	"github.com/abhisek/coursewiz/internal/gateway"
	"github.com/abhisek/coursewiz/internal/llm"
)

// Generator produces structures and suggestions. *gateway.Service
// implements it.
type Generator interface {
	Structures(ctx context.Context, req gateway.StructureRequest) ([]course.SuggestedStructure, error)
	Suggestions(ctx context.Context, req gateway.SuggestionRequest) ([]string, error)
}

// AIHandler serves the /api/ai routes.
type AIHandler struct {
	gen        Generator
	configured func() []string
}

// NewAIHandler creates an AIHandler. configured lists the providers that have
// credentials; it may be nil.
func NewAIHandler(gen Generator, configured func() []string) *AIHandler {
	return &AIHandler{gen: gen, configured: configured}
}

func (h *AIHandler) Structures(c *gin.Context) {
	var req gateway.StructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, gateway.NewRequestError(fmt.Sprintf("invalid JSON body: %v", err)))
		return
	}

	structures, err := h.gen.Structures(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"structures": structures})
}

func (h *AIHandler) Suggestions(c *gin.Context) {
	var req gateway.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, gateway.NewRequestError(fmt.Sprintf("invalid JSON body: %v", err)))
		return
	}

	suggestions, err := h.gen.Suggestions(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	respondOK(c, gin.H{"suggestions": suggestions})
}

type providerInfo struct {
	ID         string              `json:"id"`
	Label      string              `json:"label"`
	Configured bool                `json:"configured"`
	Models     []llm.ProviderModel `json:"models"`
}

// Models lists the catalog, flagging providers that have credentials.
func (h *AIHandler) Models(c *gin.Context) {
	configured := map[string]bool{}
	if h.configured != nil {
		for _, name := range h.configured() {
			configured[name] = true
		}
	}

	providers := make([]providerInfo, 0, len(llm.Providers()))
	for _, id := range llm.Providers() {
		providers = append(providers, providerInfo{
			ID:         id,
			Label:      llm.ProviderLabel(id),
			Configured: configured[id],
			Models:     llm.Models(id),
		})
	}
	respondOK(c, gin.H{"providers": providers})
}
