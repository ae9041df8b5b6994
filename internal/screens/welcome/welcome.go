package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursewiz/internal/router"
	"github.com/abhisek/coursewiz/internal/screen"
	"github.com/abhisek/coursewiz/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	bannerAt     = 400 * time.Millisecond
	totalDur     = 1200 * time.Millisecond
)

const bookArt = `   ______ ______
 _/      Y      \_
// ~~ ~~ | ~~ ~  \\
// ~ ~ ~~| ~~~ ~~ \\
//________.|.________\\
'---------'-'--------'`

type tickMsg time.Time

// WelcomeScreen shows a short splash before the wizard. Any key skips it.
type WelcomeScreen struct {
	next         func() screen.Screen
	backend      string
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that transitions to the screen produced by
// next. backend describes where AI requests go.
func New(next func() screen.Screen, backend string) *WelcomeScreen {
	return &WelcomeScreen{next: next, backend: backend}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed += tickInterval
		if w.elapsed >= totalDur {
			w.elapsed = totalDur
			return w, w.transition()
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(bookArt),
	}

	if w.elapsed >= bannerAt {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Plan a course with AI"),
		)
		if w.backend != "" {
			sections = append(sections, theme.Hint.Render(w.backend))
		}
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
