package wizard

import (
	tea "charm.land/bubbletea/v2"

	wiz "github.com/abhisek/coursewiz/internal/wizard"
)

// fetchDoneMsg carries the result of an AI request back to the event loop.
type fetchDoneMsg struct {
	outcome wiz.Outcome
}

func fetchCmd(f wiz.Fetch) tea.Cmd {
	return func() tea.Msg {
		return fetchDoneMsg{outcome: f.Run()}
	}
}

func fetchCmds(fetches []wiz.Fetch) []tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(fetches))
	for _, f := range fetches {
		cmds = append(cmds, fetchCmd(f))
	}
	return cmds
}
