package wizard

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursewiz/internal/course"
	"github.com/abhisek/coursewiz/internal/ui/components"
	"github.com/abhisek/coursewiz/internal/ui/theme"
	wiz "github.com/abhisek/coursewiz/internal/wizard"
)

const labelWidth = 20

func (s *WizardScreen) View(width, height int) string {
	step := s.ctrl.Step()
	active := s.ctrl.State().ActiveStep

	var b strings.Builder
	b.WriteString(components.NewStepProgress(active, course.StepCount, width-4).View())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(step.Title))
	b.WriteString("  ")
	b.WriteString(theme.Hint.Render(step.Subtitle))
	b.WriteString("\n\n")

	switch active {
	case course.StepStructure:
		b.WriteString(s.renderStructures(width))
	case course.StepModules:
		b.WriteString(s.renderEditor(width))
	default:
		b.WriteString(s.renderForm(width))
	}

	if s.status != "" {
		b.WriteString("\n" + theme.Invalid.Render(s.status) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(s.renderButtons())

	return lipgloss.NewStyle().Padding(0, 2).MaxHeight(height).Render(b.String())
}

func (s *WizardScreen) renderButtons() string {
	back := components.NewButton("Back", "esc", false)
	label := "Next"
	if s.ctrl.IsLastStep() {
		label = "Submit"
	}
	next := components.NewButton(label, "enter", true)
	if s.ctrl.State().ActiveStep == 0 {
		return next.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, back.View(), "  ", next.View())
}

func (s *WizardScreen) renderForm(width int) string {
	v := s.ctrl.Values()
	errs := s.ctrl.Errors()
	rows := rowsFor(s.ctrl.State().ActiveStep, v)

	var b strings.Builder
	for i, r := range rows {
		focused := i == s.cursor

		label := fmt.Sprintf("%-*s", labelWidth, r.label)
		if focused {
			label = theme.Selected.Render("▸ " + label)
		} else {
			label = theme.Unselected.Render("  " + label)
		}

		b.WriteString(label + s.renderValue(r, v, focused) + "\n")

		if msg := rowError(errs, s.localErrs, r.field); msg != "" {
			b.WriteString(strings.Repeat(" ", labelWidth+2) + theme.Invalid.Render(msg) + "\n")
		}
		if focused && r.suggest != "" {
			b.WriteString(s.renderSuggestions(r.suggest, width))
		}
	}
	return b.String()
}

func (s *WizardScreen) renderValue(r row, v course.FormValues, focused bool) string {
	switch r.kind {
	case rowToggle:
		if toggleValue(v, r.field) {
			return theme.Valid.Render("[x]")
		}
		return "[ ]"
	case rowChoice:
		value := fieldText(v, r.field)
		text := choiceLabel(r.field, v, value)
		if text == "" {
			text = theme.Hint.Render("choose")
		}
		if focused {
			return "‹ " + text + " ›"
		}
		return text
	}

	if focused {
		return s.input.View()
	}
	text := fieldText(v, r.field)
	if text == "" {
		return theme.Hint.Render(r.placeholder)
	}
	return text
}

// rowError returns the message for field, preferring local parse errors and
// falling back to the first nested path.
func rowError(errs course.FieldErrors, local map[course.Field]string, field course.Field) string {
	if msg, ok := local[field]; ok {
		return msg
	}
	if msg := errs.Get(string(field)); msg != "" {
		return msg
	}
	if paths := errs.Filter(field).Paths(); len(paths) > 0 {
		return errs[paths[0]]
	}
	return ""
}

func (s *WizardScreen) renderSuggestions(field course.SuggestionField, width int) string {
	st := s.ctrl.Suggestions(field)
	indent := strings.Repeat(" ", labelWidth+2)

	switch {
	case st.Loading:
		return indent + s.spinner.View() + theme.Hint.Render(" Generating suggestions...") + "\n"
	case st.Err != "":
		return indent + theme.Invalid.Render(st.Err) + "\n"
	case len(st.Suggestions) == 0:
		if st.RefreshCount > 0 {
			return indent + theme.Hint.Render("No suggestions. Ctrl+G to try again.") + "\n"
		}
		return ""
	}

	wrap := lipgloss.NewStyle().Width(width - labelWidth - 8)
	var b strings.Builder
	for i, text := range st.Suggestions {
		prefix, style := "  ", theme.Hint
		if i == s.highlight[field] {
			prefix, style = "› ", theme.Selected
		}
		lines := strings.Split(wrap.Render(text), "\n")
		for j, line := range lines {
			if j > 0 {
				prefix = "  "
			}
			b.WriteString(indent + style.Render(prefix+line) + "\n")
		}
	}
	return b.String()
}

func (s *WizardScreen) renderStructures(width int) string {
	st := s.ctrl.Structures()
	selected := s.ctrl.State().SelectedStructureID

	var b strings.Builder
	switch {
	case st.Loading:
		b.WriteString(s.spinner.View() + theme.Hint.Render(" Generating course structures...") + "\n")
	case st.Err != "":
		b.WriteString(theme.Invalid.Render(st.Err) + "\n")
		b.WriteString(theme.Hint.Render("Press r to try again.") + "\n")
	case len(st.Structures) == 0:
		b.WriteString(theme.Hint.Render("No structures yet. Press r to generate.") + "\n")
	}

	cardWidth := width - 8
	for i, structure := range st.Structures {
		var body strings.Builder
		mark := "○"
		if structure.ID == selected {
			mark = theme.Valid.Render("●")
		}
		body.WriteString(mark + " " + lipgloss.NewStyle().Bold(true).Render(structure.Label) + "\n")
		for j, m := range structure.Modules {
			fmt.Fprintf(&body, "  %d. %s %s\n", j+1, m.Title,
				theme.Hint.Render(fmt.Sprintf("(%d lessons, quiz: %s)", len(m.Lessons), m.QuizTitle)))
		}

		border := theme.Border
		if i == s.cursor {
			border = theme.Primary
		}
		card := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1).
			Width(cardWidth).
			Render(strings.TrimRight(body.String(), "\n"))
		b.WriteString(card + "\n")
	}

	if msg := rowError(s.ctrl.Errors(), nil, course.FieldModules); msg != "" {
		b.WriteString(theme.Invalid.Render(msg) + "\n")
	}
	return b.String()
}

func (s *WizardScreen) renderEditor(width int) string {
	v := s.ctrl.Values()
	errs := s.ctrl.Errors()
	entries := editorEntries(v.Modules)

	var b strings.Builder
	if v.StructureLabel != "" {
		b.WriteString(theme.Hint.Render("Based on "+v.StructureLabel) + "\n\n")
	}
	if len(entries) == 0 {
		b.WriteString(theme.Hint.Render("No modules. Press m to add one.") + "\n")
	}

	for i, e := range entries {
		var line, path string
		switch {
		case e.header:
			line = fmt.Sprintf("%d. %s", e.module+1, v.Modules[e.module].Title)
			path = fmt.Sprintf("modules.%d", e.module)
		case e.item.Kind == wiz.ItemQuiz:
			line = "    ◆ Quiz: " + e.item.Title
			path = fmt.Sprintf("modules.%d.quizPosition", e.module)
		default:
			line = "    • " + e.item.Title
			path = fmt.Sprintf("modules.%d.lessons.%d", e.module, e.item.Lesson)
		}

		if i == s.cursor && s.renaming {
			indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
			line = indent + s.input.View()
		}

		style := theme.Unselected
		if e.header {
			style = style.Bold(true)
		}
		if i == s.cursor {
			style = theme.Selected
			line = "▸ " + line
		} else {
			line = "  " + line
		}
		b.WriteString(style.Render(line))

		if msg := entryError(errs, path); msg != "" {
			b.WriteString("  " + theme.Invalid.Render(msg))
		}
		b.WriteString("\n")
	}

	if msg := errs.Get(string(course.FieldModules)); msg != "" {
		b.WriteString("\n" + theme.Invalid.Render(msg) + "\n")
	}
	return b.String()
}

// entryError finds the message for an editor line. Lesson and module paths
// own their nested title errors.
func entryError(errs course.FieldErrors, path string) string {
	for _, suffix := range []string{".title", ".lessons", ""} {
		if msg := errs.Get(path + suffix); msg != "" {
			return msg
		}
	}
	return ""
}
