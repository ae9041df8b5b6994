package wizard

import (
	tea "charm.land/bubbletea/v2"
)

func (s *WizardScreen) handleStructureKey(msg tea.KeyPressMsg) tea.Cmd {
	status := s.ctrl.Structures()
	n := len(status.Structures)

	switch msg.String() {
	case "enter":
		return s.next()
	case "esc":
		return s.previous()
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < n-1 {
			s.cursor++
		}
	case "space", "x":
		if s.cursor < n {
			if err := s.ctrl.SelectStructureByID(status.Structures[s.cursor].ID); err != nil {
				s.status = err.Error()
			}
		}
	case "r", "ctrl+g":
		s.cursor = 0
		return fetchCmd(s.ctrl.RequestStructureRegeneration())
	}
	return nil
}
