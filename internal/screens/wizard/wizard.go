package wizard

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursewiz/internal/course"
	"github.com/abhisek/coursewiz/internal/llm"
	"github.com/abhisek/coursewiz/internal/logger"
	"github.com/abhisek/coursewiz/internal/router"
	"github.com/abhisek/coursewiz/internal/screen"
	"github.com/abhisek/coursewiz/internal/ui/components"
	"github.com/abhisek/coursewiz/internal/ui/layout"
	wiz "github.com/abhisek/coursewiz/internal/wizard"
)

// WizardScreen walks the user through the five course steps.
type WizardScreen struct {
	ctrl        *wiz.Controller
	onSubmitted func(course.FormValues) screen.Screen
	log         *logger.Logger

	// cursor is the focused form row, structure card or editor entry.
	cursor  int
	input   components.TextInput
	spinner spinner.Model

	// localErrs holds parse errors of number and bias rows, which never
	// reach the controller.
	localErrs map[course.Field]string
	highlight map[course.SuggestionField]int
	renaming  bool
	status    string
}

var _ screen.Screen = (*WizardScreen)(nil)
var _ screen.KeyHintProvider = (*WizardScreen)(nil)
var _ screen.StatusProvider = (*WizardScreen)(nil)

// New creates the wizard screen. onSubmitted builds the screen shown after
// a successful submit; nil quits instead.
func New(ctrl *wiz.Controller, onSubmitted func(course.FormValues) screen.Screen, log *logger.Logger) *WizardScreen {
	if log == nil {
		log = logger.Nop()
	}
	return &WizardScreen{
		ctrl:        ctrl,
		onSubmitted: onSubmitted,
		log:         log,
		spinner:     spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		localErrs:   map[course.Field]string{},
		highlight:   map[course.SuggestionField]int{},
	}
}

func (s *WizardScreen) Init() tea.Cmd {
	return tea.Batch(s.enterRow(), s.spinner.Tick)
}

func (s *WizardScreen) Title() string {
	return s.ctrl.Step().Title
}

func (s *WizardScreen) Status() string {
	v := s.ctrl.Values()
	if v.AIProvider == "" {
		return ""
	}
	return llm.ProviderLabel(v.AIProvider) + " · " + v.AIModel
}

func (s *WizardScreen) KeyHints() []layout.KeyHint {
	next := layout.KeyHint{Key: "Enter", Description: "Next"}
	if s.ctrl.IsLastStep() {
		next.Description = "Submit"
	}
	back := layout.KeyHint{Key: "Esc", Description: "Back"}

	switch s.ctrl.State().ActiveStep {
	case course.StepStructure:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Browse"},
			{Key: "Space", Description: "Select"},
			{Key: "r", Description: "Regenerate"},
			next, back,
		}
	case course.StepModules:
		if s.renaming {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Save"},
				{Key: "Esc", Description: "Cancel"},
			}
		}
		return []layout.KeyHint{
			{Key: "e", Description: "Rename"},
			{Key: "a/m/q", Description: "Add lesson/module/quiz"},
			{Key: "d", Description: "Delete"},
			{Key: "Shift+↑↓", Description: "Move"},
			next, back,
		}
	}

	hints := []layout.KeyHint{{Key: "↑↓", Description: "Field"}}
	if r, ok := s.currentRow(); ok {
		switch {
		case r.kind == rowChoice:
			hints = append(hints, layout.KeyHint{Key: "←→", Description: "Change"})
		case r.kind == rowToggle:
			hints = append(hints, layout.KeyHint{Key: "Space", Description: "Toggle"})
		case r.suggest != "":
			hints = append(hints,
				layout.KeyHint{Key: "Ctrl+G", Description: "Suggest"},
				layout.KeyHint{Key: "Ctrl+Y", Description: "Use suggestion"},
			)
		}
	}
	return append(hints, next, back)
}

func (s *WizardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchDoneMsg:
		if !s.ctrl.Apply(msg.outcome) {
			s.log.Debug("stale fetch ignored", "kind", msg.outcome.Kind.String(), "token", msg.outcome.Token)
			return s, nil
		}
		if msg.outcome.Err != nil {
			s.log.Warn("fetch failed", "kind", msg.outcome.Kind.String(), "error", msg.outcome.Err)
		}
		if msg.outcome.Kind == wiz.FetchSuggestions {
			s.highlight[msg.outcome.Field] = 0
		}
		return s, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		s.status = ""
		switch s.ctrl.State().ActiveStep {
		case course.StepStructure:
			return s, s.handleStructureKey(msg)
		case course.StepModules:
			return s, s.handleEditorKey(msg)
		default:
			return s, s.handleFormKey(msg)
		}
	}

	if s.input.Focused() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// next commits the focused row and runs the step gate. On the last step it
// submits.
func (s *WizardScreen) next() tea.Cmd {
	s.commitRow()
	if s.ctrl.IsLastStep() {
		return s.submit()
	}

	tr := s.ctrl.Next()
	if !tr.Moved {
		s.focusFirstError(tr.Errors)
		return nil
	}
	s.resetStep()
	return tea.Batch(append(fetchCmds(tr.Fetches), s.enterRow())...)
}

func (s *WizardScreen) previous() tea.Cmd {
	s.commitRow()
	tr := s.ctrl.Previous()
	if !tr.Moved {
		return nil
	}
	s.resetStep()
	return tea.Batch(append(fetchCmds(tr.Fetches), s.enterRow())...)
}

func (s *WizardScreen) submit() tea.Cmd {
	if err := s.ctrl.Submit(context.Background()); err != nil {
		s.status = err.Error()
		s.log.Warn("submit failed", "error", err)
		return nil
	}
	values := s.ctrl.Values()
	if s.onSubmitted == nil {
		return tea.Quit
	}
	next := s.onSubmitted(values)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *WizardScreen) resetStep() {
	s.cursor = 0
	s.renaming = false
	s.input.Blur()
}

// focusFirstError moves the cursor to the first row with an error.
func (s *WizardScreen) focusFirstError(errs course.FieldErrors) {
	rows := rowsFor(s.ctrl.State().ActiveStep, s.ctrl.Values())
	for i, r := range rows {
		if errs.Has(r.field) {
			s.cursor = i
			s.enterRow()
			return
		}
	}
}
