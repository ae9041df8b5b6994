package wizard

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursewiz/internal/course"
	"github.com/abhisek/coursewiz/internal/ui/components"
)

func (s *WizardScreen) currentRow() (row, bool) {
	rows := rowsFor(s.ctrl.State().ActiveStep, s.ctrl.Values())
	if len(rows) == 0 {
		return row{}, false
	}
	if s.cursor >= len(rows) {
		s.cursor = len(rows) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	return rows[s.cursor], true
}

func (s *WizardScreen) handleFormKey(msg tea.KeyPressMsg) tea.Cmd {
	rows := rowsFor(s.ctrl.State().ActiveStep, s.ctrl.Values())

	switch msg.String() {
	case "enter":
		return s.next()
	case "esc":
		return s.previous()
	case "up", "shift+tab":
		return s.moveCursor(-1, len(rows))
	case "down", "tab":
		return s.moveCursor(1, len(rows))
	}

	r, ok := s.currentRow()
	if !ok {
		return nil
	}

	if r.suggest != "" {
		switch msg.String() {
		case "ctrl+g":
			return s.requestSuggestions(r.suggest)
		case "ctrl+n":
			s.moveHighlight(r.suggest, 1)
			return nil
		case "ctrl+p":
			s.moveHighlight(r.suggest, -1)
			return nil
		case "ctrl+y":
			s.applySuggestion(r.suggest)
			return nil
		}
	}

	switch r.kind {
	case rowChoice:
		delta := 0
		switch msg.String() {
		case "right", "l", "space":
			delta = 1
		case "left", "h":
			delta = -1
		}
		if delta != 0 {
			v := s.ctrl.Values()
			next := cycle(choices(r.field, v), fieldText(v, r.field), delta)
			if err := s.ctrl.SetText(r.field, next); err != nil {
				s.status = err.Error()
			}
			s.ctrl.Touch(r.field)
		}
		return nil

	case rowToggle:
		switch msg.String() {
		case "space", "left", "right", "x":
			on := !toggleValue(s.ctrl.Values(), r.field)
			if err := s.ctrl.SetToggle(r.field, on); err != nil {
				s.status = err.Error()
			}
		}
		return nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if r.kind == rowText {
		if err := s.ctrl.SetText(r.field, s.input.Value()); err != nil {
			s.status = err.Error()
		}
	}
	return cmd
}

func (s *WizardScreen) moveCursor(delta, n int) tea.Cmd {
	if n == 0 {
		return nil
	}
	s.commitRow()
	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor >= n {
		s.cursor = n - 1
	}
	return s.enterRow()
}

// enterRow loads the focused row into the text input, or blurs the input
// for rows that are not typed into.
func (s *WizardScreen) enterRow() tea.Cmd {
	r, ok := s.currentRow()
	if !ok || !r.editable() {
		s.input.Blur()
		return nil
	}
	s.input = components.NewTextInput(r.placeholder, r.kind == rowNumber, 0)
	s.input.SetValue(fieldText(s.ctrl.Values(), r.field))
	return s.input.Focus()
}

// commitRow writes the input back to the focused row and marks it touched.
func (s *WizardScreen) commitRow() {
	r, ok := s.currentRow()
	if !ok {
		return
	}

	switch r.kind {
	case rowText:
		_ = s.ctrl.SetText(r.field, s.input.Value())
	case rowNumber:
		x, err := parseNumber(s.input.Value())
		if err != nil {
			s.localErrs[r.field] = "Enter a number."
			return
		}
		delete(s.localErrs, r.field)
		s.ctrl.SetGeneration(withNumber(s.ctrl.Values().Settings(), r.field, x))
	case rowBias:
		biases, err := parseBiases(s.input.Value())
		if err != nil {
			s.localErrs[r.field] = err.Error()
			return
		}
		delete(s.localErrs, r.field)
		s.setBiases(biases)
	}
	s.ctrl.Touch(r.field)
}

func (s *WizardScreen) setBiases(biases []course.TokenBias) {
	for len(s.ctrl.Values().LogitBias) > 0 {
		if err := s.ctrl.RemoveTokenBias(0); err != nil {
			break
		}
	}
	for _, tb := range biases {
		i := s.ctrl.AddTokenBias()
		_ = s.ctrl.UpdateTokenBias(i, tb)
	}
}

func (s *WizardScreen) requestSuggestions(field course.SuggestionField) tea.Cmd {
	f, err := s.ctrl.RequestSuggestions(field)
	if err != nil {
		s.status = err.Error()
		return nil
	}
	s.highlight[field] = 0
	return fetchCmd(f)
}

func (s *WizardScreen) moveHighlight(field course.SuggestionField, delta int) {
	n := len(s.ctrl.Suggestions(field).Suggestions)
	if n == 0 {
		return
	}
	s.highlight[field] = ((s.highlight[field]+delta)%n + n) % n
}

func (s *WizardScreen) applySuggestion(field course.SuggestionField) {
	list := s.ctrl.Suggestions(field).Suggestions
	i := s.highlight[field]
	if i < 0 || i >= len(list) {
		return
	}
	if err := s.ctrl.ApplySuggestion(field, list[i]); err != nil {
		s.status = err.Error()
		return
	}
	s.input.SetValue(list[i])
}
