// Package gateway turns course context into AI-generated outlines and field
// suggestions. It validates requests, enforces the model catalog, builds
// prompts and normalizes provider output.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/coursewiz/internal/course"
	"github.com/abhisek/coursewiz/internal/llm"
	"github.com/abhisek/coursewiz/internal/logger"
)

// ProviderSource resolves a provider id to a Provider.
type ProviderSource interface {
	Get(name string) (llm.Provider, error)
}

// Config holds generation settings.
type Config struct {
	StructureMaxTokens  int
	SuggestionMaxTokens int
	// Timeout bounds one gateway call, retries included. Zero disables it.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for generation.
func DefaultConfig() Config {
	return Config{
		StructureMaxTokens:  4096,
		SuggestionMaxTokens: 1024,
		Timeout:             60 * time.Second,
	}
}

// Service generates course structures and suggestions in-process.
type Service struct {
	providers ProviderSource
	cfg       Config
	log       *logger.Logger
}

// NewService creates a gateway service.
func NewService(providers ProviderSource, cfg Config, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{providers: providers, cfg: cfg, log: log}
}

// Structures returns exactly three suggested outlines for the course.
func (s *Service) Structures(ctx context.Context, req StructureRequest) ([]course.SuggestedStructure, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.applyDefaults()

	provider, err := s.provider(req.Provider, req.Model)
	if err != nil {
		return nil, err
	}

	llmReq := llm.Request{
		Model:  req.Model,
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildStructureUserMessage(req.CourseContext)},
		},
		Schema:    StructuresSchema,
		MaxTokens: s.cfg.StructureMaxTokens,
	}
	req.GenerationParams.apply(&llmReq)

	resp, err := s.generate(llm.WithPurpose(ctx, "structures"), provider, req.Provider, llmReq)
	if err != nil {
		return nil, err
	}

	structures, err := parseStructures(resp.Content)
	if err != nil {
		return nil, upstreamError(req.Provider, err)
	}
	return structures, nil
}

// Suggestions returns up to three suggestions for req.Field.
func (s *Service) Suggestions(ctx context.Context, req SuggestionRequest) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.applyDefaults()

	provider, err := s.provider(req.Provider, req.Model)
	if err != nil {
		return nil, err
	}

	llmReq := llm.Request{
		Model:  req.Model,
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildSuggestionUserMessage(req.Field, req.CourseContext)},
		},
		Schema:    SuggestionsSchema,
		MaxTokens: s.cfg.SuggestionMaxTokens,
	}
	req.GenerationParams.apply(&llmReq)

	resp, err := s.generate(llm.WithPurpose(ctx, "suggestions:"+string(req.Field)), provider, req.Provider, llmReq)
	if err != nil {
		return nil, err
	}

	suggestions, err := parseSuggestions(resp.Content)
	if err != nil {
		return nil, upstreamError(req.Provider, err)
	}
	return suggestions, nil
}

// FetchStructures implements the wizard's structure fetcher.
func (s *Service) FetchStructures(ctx context.Context, q course.StructureQuery) ([]course.SuggestedStructure, error) {
	return s.Structures(ctx, StructureRequestFromQuery(q))
}

// FetchSuggestions implements the wizard's suggestion fetcher.
func (s *Service) FetchSuggestions(ctx context.Context, q course.SuggestionQuery) ([]string, error) {
	return s.Suggestions(ctx, SuggestionRequestFromQuery(q))
}

// provider checks the catalog before resolving credentials, so a disallowed
// model never reaches a provider.
func (s *Service) provider(name, model string) (llm.Provider, error) {
	if !llm.ModelAvailable(name, model) {
		return nil, &DisallowedModelError{Provider: name, Model: model}
	}
	p, err := s.providers.Get(name)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	return p, nil
}

func (s *Service) generate(ctx context.Context, p llm.Provider, name string, req llm.Request) (*llm.Response, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp, err := p.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		var creds *llm.ErrMissingCredentials
		if errors.As(err, &creds) {
			return nil, &ConfigError{Err: err}
		}
		s.log.Warn("ai generation failed", "provider", name, "model", req.Model,
			"purpose", llm.PurposeFrom(ctx), "error", err)
		return nil, upstreamError(name, err)
	}
	return resp, nil
}
