// Package submitted shows the course outline after the wizard is submitted.
package submitted

import (
	"strings"

	"charm.land/glamour/v2"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursewiz/internal/course"
	"github.com/abhisek/coursewiz/internal/router"
	"github.com/abhisek/coursewiz/internal/screen"
	"github.com/abhisek/coursewiz/internal/ui/components"
	"github.com/abhisek/coursewiz/internal/ui/layout"
	"github.com/abhisek/coursewiz/internal/ui/theme"
)

const menuHeight = 4

// SubmittedScreen renders the submitted outline with a small menu below it.
type SubmittedScreen struct {
	values course.FormValues
	menu   components.Menu
	offset int

	// rendered caches the outline for width.
	rendered string
	width    int
}

var _ screen.Screen = (*SubmittedScreen)(nil)
var _ screen.KeyHintProvider = (*SubmittedScreen)(nil)

// New creates the screen. restart builds a fresh wizard; nil hides the
// option.
func New(values course.FormValues, restart func() screen.Screen) *SubmittedScreen {
	items := []components.MenuItem{
		{
			Label:    "Start a new course",
			Disabled: restart == nil,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.ReplaceScreenMsg{Screen: restart()}
				}
			},
		},
		{
			Label:  "Quit",
			Action: func() tea.Cmd { return tea.Quit },
		},
	}
	return &SubmittedScreen{values: values, menu: components.NewMenu(items)}
}

func (s *SubmittedScreen) Init() tea.Cmd { return nil }

func (s *SubmittedScreen) Title() string { return "Course submitted" }

func (s *SubmittedScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Select"},
	}
}

func (s *SubmittedScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "pgdown", "ctrl+d":
		s.offset += 10
		return s, nil
	case "pgup", "ctrl+u":
		s.offset -= 10
		if s.offset < 0 {
			s.offset = 0
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SubmittedScreen) View(width, height int) string {
	lines := strings.Split(s.outline(width-4), "\n")

	visible := height - menuHeight - 2
	if visible < 1 {
		visible = 1
	}
	if last := len(lines) - visible; s.offset > last {
		s.offset = last
	}
	if s.offset < 0 {
		s.offset = 0
	}
	end := s.offset + visible
	if end > len(lines) {
		end = len(lines)
	}

	body := strings.Join(lines[s.offset:end], "\n")
	banner := theme.Valid.Bold(true).Render("✓ Course submitted")

	return lipgloss.JoinVertical(lipgloss.Left,
		banner,
		body,
		"",
		s.menu.View(),
	)
}

func (s *SubmittedScreen) outline(width int) string {
	if width > 120 {
		width = 120
	}
	if width < 20 {
		width = 20
	}
	if s.rendered != "" && s.width == width {
		return s.rendered
	}
	s.width = width
	s.rendered = renderMarkdown(s.values.Markdown(), width)
	return s.rendered
}

// renderMarkdown renders md with glamour, falling back to the raw text.
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSuffix(out, "\n")
}
