package wizard

import (
	"context"
	"errors"

	"github.com/abhisek/coursewiz/internal/course"
)

// StructureFetcher produces suggested course outlines.
type StructureFetcher interface {
	FetchStructures(ctx context.Context, q course.StructureQuery) ([]course.SuggestedStructure, error)
}

// SuggestionFetcher produces text suggestions for one context field.
type SuggestionFetcher interface {
	FetchSuggestions(ctx context.Context, q course.SuggestionQuery) ([]string, error)
}

// Submitter receives the validated value set from the final step.
type Submitter interface {
	Submit(ctx context.Context, values course.FormValues) error
}

var (
	// ErrFetcherUnavailable is reported when no AI backend is configured.
	ErrFetcherUnavailable = errors.New("AI generation is not configured")

	// ErrContextIncomplete is returned when suggestions are requested before
	// the purpose fields are filled in.
	ErrContextIncomplete = errors.New("fill in topic, language, audience, proficiency and duration first")
)

// FetchKind identifies what a Fetch retrieves.
type FetchKind int

const (
	FetchStructures FetchKind = iota
	FetchSuggestions
)

func (k FetchKind) String() string {
	switch k {
	case FetchStructures:
		return "structures"
	case FetchSuggestions:
		return "suggestions"
	}
	return "unknown"
}

// Fetch is an outstanding AI request issued by the controller. Run it off
// the event loop and hand the Outcome back to Controller.Apply.
type Fetch struct {
	Kind  FetchKind
	Field course.SuggestionField
	Token int

	ctx context.Context
	run func(ctx context.Context) Outcome
}

// Run performs the request. It is safe to call from another goroutine.
func (f Fetch) Run() Outcome {
	out := f.run(f.ctx)
	out.Kind = f.Kind
	out.Field = f.Field
	out.Token = f.Token
	return out
}

// Outcome is the result of a Fetch.
type Outcome struct {
	Kind        FetchKind
	Field       course.SuggestionField
	Token       int
	Structures  []course.SuggestedStructure
	Suggestions []string
	Err         error
}

// StructureStatus is the state of the structure request.
type StructureStatus struct {
	Loading    bool
	Err        string
	Structures []course.SuggestedStructure
}

// SuggestionStatus is the state of one field's suggestion request.
type SuggestionStatus struct {
	Loading      bool
	Err          string
	Suggestions  []string
	RefreshCount int
}

type fetchState struct {
	loading bool
	err     string
	cancel  context.CancelFunc
}

// begin cancels any request still in flight and marks a new one.
func (s *fetchState) begin(parent context.Context) context.Context {
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.loading = true
	s.err = ""
	return ctx
}

func (s *fetchState) finish(err error) {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.loading = false
	s.err = ""
	if err != nil {
		s.err = err.Error()
	}
}

type suggestionState struct {
	fetchState
	count int
	list  []string
}
