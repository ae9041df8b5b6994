package wizard

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursewiz/internal/course"
	"github.com/abhisek/coursewiz/internal/ui/components"
	wiz "github.com/abhisek/coursewiz/internal/wizard"
)

// entry is one line of the module editor: a module header or one of its
// items.
type entry struct {
	module int
	header bool
	item   wiz.Item
}

func editorEntries(modules []course.Module) []entry {
	var out []entry
	for m, mod := range modules {
		out = append(out, entry{module: m, header: true})
		for _, it := range wiz.Items(mod) {
			out = append(out, entry{module: m, item: it})
		}
	}
	return out
}

func (s *WizardScreen) currentEntry() (entry, bool) {
	entries := editorEntries(s.ctrl.Values().Modules)
	if len(entries) == 0 {
		return entry{}, false
	}
	if s.cursor >= len(entries) {
		s.cursor = len(entries) - 1
	}
	return entries[s.cursor], true
}

func entryTitle(mods []course.Module, e entry) string {
	if e.header {
		return mods[e.module].Title
	}
	return e.item.Title
}

func (s *WizardScreen) handleEditorKey(msg tea.KeyPressMsg) tea.Cmd {
	if s.renaming {
		return s.handleRenameKey(msg)
	}

	entries := editorEntries(s.ctrl.Values().Modules)
	cur, ok := s.currentEntry()

	switch msg.String() {
	case "enter":
		return s.next()
	case "esc":
		return s.previous()
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
		return nil
	case "down", "j":
		if s.cursor < len(entries)-1 {
			s.cursor++
		}
		return nil
	case "m":
		var added int
		s.edit(func(e *wiz.Editor) error {
			added = e.AddModule()
			return nil
		})
		s.cursor = headerIndex(s.ctrl.Values().Modules, added)
		return nil
	}
	if !ok {
		return nil
	}

	switch msg.String() {
	case "e", "r":
		s.renaming = true
		s.input = components.NewTextInput("Title", false, 0)
		s.input.SetValue(entryTitle(s.ctrl.Values().Modules, cur))
		return s.input.Focus()
	case "a":
		s.edit(func(e *wiz.Editor) error { return e.AddLesson(cur.module) })
	case "q":
		s.edit(func(e *wiz.Editor) error { return e.AddQuiz(cur.module) })
	case "d", "delete":
		s.edit(func(e *wiz.Editor) error {
			switch {
			case cur.header:
				return e.DeleteModule(cur.module)
			case cur.item.Kind == wiz.ItemQuiz:
				return e.RemoveQuiz(cur.module)
			default:
				return e.DeleteLesson(cur.module, cur.item.Lesson)
			}
		})
	case "shift+up", "K":
		s.moveEntry(cur, -1)
	case "shift+down", "J":
		s.moveEntry(cur, 1)
	}
	return nil
}

func (s *WizardScreen) handleRenameKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.renaming = false
		s.input.Blur()
		return nil
	case "enter":
		s.renaming = false
		s.input.Blur()
		cur, ok := s.currentEntry()
		if !ok {
			return nil
		}
		title := s.input.Value()
		s.edit(func(e *wiz.Editor) error {
			switch {
			case cur.header:
				return e.RenameModule(cur.module, title)
			case cur.item.Kind == wiz.ItemQuiz:
				return e.RenameQuiz(cur.module, title)
			default:
				return e.RenameLesson(cur.module, cur.item.Lesson, title)
			}
		})
		return nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

// moveEntry shifts the entry under the cursor one slot and keeps the cursor
// on it. Moving a lesson across the quiz moves the quiz instead.
func (s *WizardScreen) moveEntry(cur entry, delta int) {
	mods := s.ctrl.Values().Modules

	if cur.header {
		to := cur.module + delta
		moved := false
		s.edit(func(e *wiz.Editor) error {
			moved = e.MoveModule(cur.module, to)
			return nil
		})
		if moved {
			s.cursor = headerIndex(s.ctrl.Values().Modules, to)
		}
		return
	}

	mod := mods[cur.module]
	items := wiz.Items(mod)
	pos := -1
	for i, it := range items {
		if it == cur.item {
			pos = i
			break
		}
	}
	target := pos + delta
	if pos < 0 || target < 0 || target >= len(items) {
		return
	}

	quizAt := len(mod.Lessons)
	if mod.QuizPosition != nil {
		quizAt = *mod.QuizPosition
	}
	s.edit(func(e *wiz.Editor) error {
		other := items[target]
		switch {
		case cur.item.Kind == wiz.ItemQuiz:
			return e.MoveQuiz(cur.module, quizAt+delta)
		case other.Kind == wiz.ItemQuiz:
			return e.MoveQuiz(cur.module, quizAt-delta)
		default:
			return e.MoveLesson(cur.module, cur.item.Lesson, other.Lesson)
		}
	})
	s.cursor += delta
}

func (s *WizardScreen) edit(fn func(*wiz.Editor) error) {
	if err := s.ctrl.Edit(fn); err != nil {
		s.status = err.Error()
	}
}

func headerIndex(mods []course.Module, module int) int {
	for i, e := range editorEntries(mods) {
		if e.header && e.module == module {
			return i
		}
	}
	return 0
}
