package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abhisek/coursewiz/internal/course"
)

// HTTP routes served by the gateway.
const (
	StructuresPath  = "/api/ai/structures"
	SuggestionsPath = "/api/ai/suggestions"
	ModelsPath      = "/api/ai/models"
)

// StructuresResponse is the structures endpoint envelope.
type StructuresResponse struct {
	Structures []course.SuggestedStructure `json:"structures,omitempty"`
	Error      string                      `json:"error,omitempty"`
}

// SuggestionsResponse is the suggestions endpoint envelope.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Client calls a remote gateway over HTTP. It implements the same fetcher
// interfaces as Service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the gateway at baseURL. A nil httpClient
// uses one with a 90s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 90 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Structures requests three outlines. Any failure is reported with the
// server's error string, or a generic message when there is none.
func (c *Client) Structures(ctx context.Context, req StructureRequest) ([]course.SuggestedStructure, error) {
	var out StructuresResponse
	ok, err := c.post(ctx, StructuresPath, req, &out)
	if err != nil {
		return nil, err
	}
	if !ok || out.Structures == nil {
		return nil, failure(out.Error, "Failed to generate course structures")
	}
	return out.Structures, nil
}

// Suggestions requests field suggestions.
func (c *Client) Suggestions(ctx context.Context, req SuggestionRequest) ([]string, error) {
	var out SuggestionsResponse
	ok, err := c.post(ctx, SuggestionsPath, req, &out)
	if err != nil {
		return nil, err
	}
	if !ok || out.Suggestions == nil {
		return nil, failure(out.Error, "Failed to generate suggestions")
	}
	return out.Suggestions, nil
}

// FetchStructures implements the wizard's structure fetcher.
func (c *Client) FetchStructures(ctx context.Context, q course.StructureQuery) ([]course.SuggestedStructure, error) {
	return c.Structures(ctx, StructureRequestFromQuery(q))
}

// FetchSuggestions implements the wizard's suggestion fetcher.
func (c *Client) FetchSuggestions(ctx context.Context, q course.SuggestionQuery) ([]string, error) {
	return c.Suggestions(ctx, SuggestionRequestFromQuery(q))
}

// post sends body as JSON and decodes the reply into out. ok reports a 2xx
// status; a body that is not JSON leaves out untouched.
func (c *Client) post(ctx context.Context, path string, body, out any) (ok bool, err error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return false, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return false, fmt.Errorf("read gateway response: %w", err)
	}
	_ = json.Unmarshal(data, out)

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

func failure(msg, fallback string) error {
	if msg == "" {
		msg = fallback
	}
	return errors.New(msg)
}
