package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/coursewiz/internal/course"
	"github.com/abhisek/coursewiz/internal/llm"
)

var (
	// ErrNotTerminalStep is returned by Submit outside the last step.
	ErrNotTerminalStep = errors.New("submit is only available on the last step")

	// ErrUnknownField is returned by setters given a field they do not own.
	ErrUnknownField = errors.New("unknown field")
)

// State is the navigation state of the wizard.
type State struct {
	ActiveStep            int
	SelectedStructureID   string
	StructureRefreshCount int
	Submitted             bool
}

// Transition reports the result of Next or Previous.
type Transition struct {
	// Moved is true when the active step changed.
	Moved bool
	// Errors holds the field errors that blocked the step.
	Errors course.FieldErrors
	// Fetches are requests scheduled by entering the new step.
	Fetches []Fetch
}

// Options configures a Controller.
type Options struct {
	// Values seeds the form; zero value uses course.DefaultValues with the
	// first catalog provider.
	Values *course.FormValues

	Structures  StructureFetcher
	Suggestions SuggestionFetcher
	Submitter   Submitter

	// Context bounds every fetch. Default: context.Background().
	Context context.Context
}

// Controller owns the wizard value set and drives the step flow. It is not
// safe for concurrent use; call it from a single event loop.
type Controller struct {
	values  course.FormValues
	state   State
	errors  course.FieldErrors
	touched map[course.Field]bool

	structureFetcher  StructureFetcher
	suggestionFetcher SuggestionFetcher
	submitter         Submitter
	ctx               context.Context

	structureFetch fetchState
	structures     []course.SuggestedStructure
	suggestions    map[course.SuggestionField]*suggestionState
}

// New creates a Controller positioned on the first step.
func New(opts Options) *Controller {
	var values course.FormValues
	if opts.Values != nil {
		values = opts.Values.Clone()
	} else {
		model, _ := llm.FirstAvailableModel(llm.ProviderOpenAI)
		values = course.DefaultValues(llm.ProviderOpenAI, model.ID)
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	c := &Controller{
		values:            values,
		errors:            course.FieldErrors{},
		touched:           map[course.Field]bool{},
		structureFetcher:  opts.Structures,
		suggestionFetcher: opts.Suggestions,
		submitter:         opts.Submitter,
		ctx:               ctx,
		suggestions:       map[course.SuggestionField]*suggestionState{},
	}
	for _, f := range course.SuggestionFields {
		c.suggestions[f] = &suggestionState{}
	}
	return c
}

// Values returns a copy of the current values.
func (c *Controller) Values() course.FormValues {
	return c.values.Clone()
}

// State returns the navigation state.
func (c *Controller) State() State {
	return c.state
}

// Step returns the definition of the active step.
func (c *Controller) Step() course.Step {
	return course.Steps[c.state.ActiveStep]
}

// IsLastStep reports whether the active step is the terminal one.
func (c *Controller) IsLastStep() bool {
	return c.state.ActiveStep == course.StepCount-1
}

// Errors returns a copy of the field errors currently shown.
func (c *Controller) Errors() course.FieldErrors {
	out := make(course.FieldErrors, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// Next runs the step gate and advances on success.
func (c *Controller) Next() Transition {
	step := c.state.ActiveStep
	triggered := course.TriggerStep(c.values, step)
	gate := course.ValidateStep(c.values, step)

	for _, f := range course.Steps[step].Fields {
		c.touched[f] = true
	}
	c.replaceErrors(course.Steps[step].Fields, triggered)
	for k, v := range gate.FieldErrors {
		c.errors[k] = v
	}

	if len(triggered) > 0 || !gate.OK {
		return Transition{Errors: c.Errors()}
	}
	if c.IsLastStep() {
		return Transition{}
	}
	c.state.ActiveStep++
	return Transition{Moved: true, Fetches: c.enterStep()}
}

// Previous moves back one step without validation.
func (c *Controller) Previous() Transition {
	if c.state.ActiveStep == 0 {
		return Transition{}
	}
	c.state.ActiveStep--
	return Transition{Moved: true, Fetches: c.enterStep()}
}

// enterStep schedules the automatic fetches of the newly active step.
func (c *Controller) enterStep() []Fetch {
	var fetches []Fetch
	switch c.state.ActiveStep {
	case course.StepContext:
		if !c.values.SuggestionContextComplete() {
			return nil
		}
		for _, f := range course.SuggestionFields {
			st := c.suggestions[f]
			if st.count == 0 && len(st.list) == 0 && !st.loading {
				fetches = append(fetches, c.requestSuggestions(f))
			}
		}
	case course.StepStructure:
		if c.values.StructureContextComplete() &&
			len(c.structures) == 0 &&
			c.state.StructureRefreshCount == 0 {
			fetches = append(fetches, c.RequestStructureRegeneration())
		}
	}
	return fetches
}

// SelectStructure copies the modules of s into the form.
func (c *Controller) SelectStructure(s course.SuggestedStructure) {
	c.state.SelectedStructureID = s.ID
	c.values.StructureLabel = s.Label
	c.values.Modules = s.FormModules()
	c.touch(course.FieldStructureLabel)
	c.touch(course.FieldModules)
}

// SelectStructureByID selects one of the fetched structures.
func (c *Controller) SelectStructureByID(id string) error {
	for _, s := range c.structures {
		if s.ID == id {
			c.SelectStructure(s)
			return nil
		}
	}
	return fmt.Errorf("structure %q not found", id)
}

// RequestStructureRegeneration bumps the refresh counter and returns the
// fetch for it. A fetch still in flight is cancelled and its result will be
// ignored.
func (c *Controller) RequestStructureRegeneration() Fetch {
	c.state.StructureRefreshCount++
	c.structures = nil
	ctx := c.structureFetch.begin(c.ctx)

	query := c.values.StructureQuery()
	fetcher := c.structureFetcher
	return Fetch{
		Kind:  FetchStructures,
		Token: c.state.StructureRefreshCount,
		ctx:   ctx,
		run: func(ctx context.Context) Outcome {
			if fetcher == nil {
				return Outcome{Err: ErrFetcherUnavailable}
			}
			structures, err := fetcher.FetchStructures(ctx, query)
			return Outcome{Structures: structures, Err: err}
		},
	}
}

// RequestSuggestions returns the fetch for new suggestions for field.
func (c *Controller) RequestSuggestions(field course.SuggestionField) (Fetch, error) {
	if !field.Valid() {
		return Fetch{}, fmt.Errorf("suggestions for %q: %w", field, ErrUnknownField)
	}
	if !c.values.SuggestionContextComplete() {
		return Fetch{}, ErrContextIncomplete
	}
	return c.requestSuggestions(field), nil
}

func (c *Controller) requestSuggestions(field course.SuggestionField) Fetch {
	st := c.suggestions[field]
	st.count++
	st.list = nil
	ctx := st.begin(c.ctx)

	query := c.values.SuggestionQuery(field)
	fetcher := c.suggestionFetcher
	return Fetch{
		Kind:  FetchSuggestions,
		Field: field,
		Token: st.count,
		ctx:   ctx,
		run: func(ctx context.Context) Outcome {
			if fetcher == nil {
				return Outcome{Err: ErrFetcherUnavailable}
			}
			list, err := fetcher.FetchSuggestions(ctx, query)
			return Outcome{Suggestions: list, Err: err}
		},
	}
}

// Apply records the outcome of a fetch. It returns false when the outcome
// belongs to a superseded request and was ignored.
func (c *Controller) Apply(o Outcome) bool {
	switch o.Kind {
	case FetchStructures:
		if o.Token != c.state.StructureRefreshCount {
			return false
		}
		c.structureFetch.finish(o.Err)
		if o.Err == nil {
			c.structures = make([]course.SuggestedStructure, len(o.Structures))
			for i, s := range o.Structures {
				c.structures[i] = s.Clone()
			}
		}
		return true
	case FetchSuggestions:
		st, ok := c.suggestions[o.Field]
		if !ok || o.Token != st.count {
			return false
		}
		st.finish(o.Err)
		if o.Err == nil {
			st.list = append([]string(nil), o.Suggestions...)
		}
		return true
	}
	return false
}

// Structures returns the state of the structure request.
func (c *Controller) Structures() StructureStatus {
	out := StructureStatus{
		Loading: c.structureFetch.loading,
		Err:     c.structureFetch.err,
	}
	for _, s := range c.structures {
		out.Structures = append(out.Structures, s.Clone())
	}
	return out
}

// Suggestions returns the state of the suggestion request for field.
func (c *Controller) Suggestions(field course.SuggestionField) SuggestionStatus {
	st, ok := c.suggestions[field]
	if !ok {
		return SuggestionStatus{}
	}
	return SuggestionStatus{
		Loading:      st.loading,
		Err:          st.err,
		Suggestions:  append([]string(nil), st.list...),
		RefreshCount: st.count,
	}
}

// ApplySuggestion writes a suggestion into its field and validates it.
func (c *Controller) ApplySuggestion(field course.SuggestionField, text string) error {
	if !field.Valid() {
		return fmt.Errorf("apply suggestion to %q: %w", field, ErrUnknownField)
	}
	if err := c.SetText(course.Field(field), text); err != nil {
		return err
	}
	c.Touch(course.Field(field))
	return nil
}

// Submit hands the validated values to the submitter. It only runs on the
// last step and re-checks the full schema first.
func (c *Controller) Submit(ctx context.Context) error {
	if !c.IsLastStep() {
		return ErrNotTerminalStep
	}
	if errs := course.ValidateAll(c.values); len(errs) > 0 {
		c.errors = errs
		return &course.ValidationError{Fields: errs}
	}
	if c.submitter == nil {
		return errors.New("no submitter configured")
	}
	if err := c.submitter.Submit(ctx, c.values.Clone()); err != nil {
		return fmt.Errorf("submit course: %w", err)
	}
	c.state.Submitted = true
	return nil
}

// Edit applies fn to the module editor and revalidates the modules field
// once it has been touched.
func (c *Controller) Edit(fn func(*Editor) error) error {
	err := fn(NewEditor(&c.values.Modules))
	c.revalidate(course.FieldModules)
	return err
}

// Touch marks a field as visited and validates it.
func (c *Controller) Touch(field course.Field) {
	c.touch(field)
}

func (c *Controller) touch(field course.Field) {
	c.touched[field] = true
	c.revalidate(field)
}

// revalidate refreshes the errors of a touched field.
func (c *Controller) revalidate(field course.Field) {
	if !c.touched[field] {
		return
	}
	c.replaceErrors([]course.Field{field}, course.ValidateFields(c.values, field))
}

// replaceErrors drops the errors of fields and stores errs in their place.
func (c *Controller) replaceErrors(fields []course.Field, errs course.FieldErrors) {
	for k := range c.errors.Filter(fields...) {
		delete(c.errors, k)
	}
	for k, v := range errs {
		c.errors[k] = v
	}
}
