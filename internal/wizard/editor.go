package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/coursewiz/internal/course"
)

// Placeholder titles for newly inserted items.
const (
	NewModuleTitle = "New module"
	NewLessonTitle = "New lesson"
	NewQuizTitle   = "New quiz"
)

// ErrIndexOutOfRange is returned when an editor operation names a module or
// lesson that does not exist.
var ErrIndexOutOfRange = errors.New("index out of range")

// Editor edits the modules of a value set in place. It only ever touches
// the slice it was created with.
type Editor struct {
	modules *[]course.Module
}

// NewEditor returns an editor over modules.
func NewEditor(modules *[]course.Module) *Editor {
	return &Editor{modules: modules}
}

// Modules returns the edited modules.
func (e *Editor) Modules() []course.Module {
	return *e.modules
}

func (e *Editor) module(m int) (*course.Module, error) {
	mods := *e.modules
	if m < 0 || m >= len(mods) {
		return nil, fmt.Errorf("module %d: %w", m, ErrIndexOutOfRange)
	}
	return &mods[m], nil
}

// RenameModule commits the trimmed title.
func (e *Editor) RenameModule(m int, title string) error {
	mod, err := e.module(m)
	if err != nil {
		return err
	}
	mod.Title = strings.TrimSpace(title)
	return nil
}

// RenameLesson commits the trimmed title.
func (e *Editor) RenameLesson(m, l int, title string) error {
	mod, err := e.module(m)
	if err != nil {
		return err
	}
	if l < 0 || l >= len(mod.Lessons) {
		return fmt.Errorf("lesson %d: %w", l, ErrIndexOutOfRange)
	}
	mod.Lessons[l].Title = strings.TrimSpace(title)
	return nil
}

// RenameQuiz commits the trimmed title. An empty title removes the quiz.
func (e *Editor) RenameQuiz(m int, title string) error {
	mod, err := e.module(m)
	if err != nil {
		return err
	}
	mod.QuizTitle = strings.TrimSpace(title)
	clampQuiz(mod)
	return nil
}

// MoveLesson moves lesson from to index to and keeps the quiz in the same
// visual slot relative to the lessons around it.
func (e *Editor) MoveLesson(m, from, to int) error {
	mod, err := e.module(m)
	if err != nil {
		return err
	}
	n := len(mod.Lessons)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move lesson %d to %d: %w", from, to, ErrIndexOutOfRange)
	}
	if from == to {
		return nil
	}

	mod.Lessons = move(mod.Lessons, from, to)

	if mod.HasQuiz() && mod.QuizPosition != nil {
		pos := *mod.QuizPosition
		switch {
		case from == pos:
			pos = to
		case from < pos && to >= pos:
			pos--
		case from > pos && to < pos:
			pos++
		}
		mod.QuizPosition = &pos
	}
	clampQuiz(mod)
	return nil
}

// MoveModule moves a module. It is a no-op when either index is outside
// [0, count-1] or the indices are equal, and reports whether anything moved.
func (e *Editor) MoveModule(from, to int) bool {
	n := len(*e.modules)
	if from == to || from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	*e.modules = move(*e.modules, from, to)
	return true
}

// AddLesson appends a placeholder lesson. An existing quiz shifts one slot
// to the right.
func (e *Editor) AddLesson(m int) error {
	mod, err := e.module(m)
	if err != nil {
		return err
	}
	mod.Lessons = append(mod.Lessons, course.Lesson{Title: NewLessonTitle})
	if mod.HasQuiz() && mod.QuizPosition != nil {
		pos := *mod.QuizPosition + 1
		mod.QuizPosition = &pos
	}
	clampQuiz(mod)
	return nil
}

// DeleteLesson removes a lesson and re-clamps the quiz position.
func (e *Editor) DeleteLesson(m, l int) error {
	mod, err := e.module(m)
	if err != nil {
		return err
	}
	if l < 0 || l >= len(mod.Lessons) {
		return fmt.Errorf("lesson %d: %w", l, ErrIndexOutOfRange)
	}
	mod.Lessons = append(mod.Lessons[:l:l], mod.Lessons[l+1:]...)
	clampQuiz(mod)
	return nil
}

// AddQuiz adds a placeholder quiz after all lessons. No-op if the module
// already has a quiz.
func (e *Editor) AddQuiz(m int) error {
	mod, err := e.module(m)
	if err != nil {
		return err
	}
	if mod.HasQuiz() {
		return nil
	}
	pos := len(mod.Lessons)
	mod.QuizTitle = NewQuizTitle
	mod.QuizPosition = &pos
	return nil
}

// RemoveQuiz clears the quiz title and position together.
func (e *Editor) RemoveQuiz(m int) error {
	mod, err := e.module(m)
	if err != nil {
		return err
	}
	mod.QuizTitle = ""
	mod.QuizPosition = nil
	return nil
}

// MoveQuiz places the quiz before lesson pos, clamped to the lesson range.
func (e *Editor) MoveQuiz(m, pos int) error {
	mod, err := e.module(m)
	if err != nil {
		return err
	}
	if !mod.HasQuiz() {
		return nil
	}
	mod.QuizPosition = &pos
	clampQuiz(mod)
	return nil
}

// AddModule appends a placeholder module with one lesson and a quiz, and
// returns its index.
func (e *Editor) AddModule() int {
	pos := 1
	*e.modules = append(*e.modules, course.Module{
		Title:        NewModuleTitle,
		Lessons:      []course.Lesson{{Title: NewLessonTitle}},
		QuizTitle:    NewQuizTitle,
		QuizPosition: &pos,
	})
	return len(*e.modules) - 1
}

// DeleteModule removes a module.
func (e *Editor) DeleteModule(m int) error {
	if _, err := e.module(m); err != nil {
		return err
	}
	mods := *e.modules
	*e.modules = append(mods[:m:m], mods[m+1:]...)
	return nil
}

// ItemKind distinguishes entries of the merged module view.
type ItemKind int

const (
	ItemLesson ItemKind = iota
	ItemQuiz
)

// Item is one row of a module as rendered: a lesson or the quiz.
type Item struct {
	Kind ItemKind
	// Lesson is the lesson index, or -1 for the quiz.
	Lesson int
	Title  string
}

// Items returns the lessons of m in order with the quiz merged in at its
// position. It is derived on every call and never stored.
func Items(m course.Module) []Item {
	items := make([]Item, 0, len(m.Lessons)+1)
	quizAt := -1
	if m.HasQuiz() {
		quizAt = len(m.Lessons)
		if m.QuizPosition != nil {
			quizAt = clamp(*m.QuizPosition, 0, len(m.Lessons))
		}
	}
	for i, l := range m.Lessons {
		if i == quizAt {
			items = append(items, Item{Kind: ItemQuiz, Lesson: -1, Title: m.QuizTitle})
		}
		items = append(items, Item{Kind: ItemLesson, Lesson: i, Title: l.Title})
	}
	if quizAt == len(m.Lessons) {
		items = append(items, Item{Kind: ItemQuiz, Lesson: -1, Title: m.QuizTitle})
	}
	return items
}

// clampQuiz restores the quiz invariant of mod.
func clampQuiz(mod *course.Module) {
	if !mod.HasQuiz() {
		mod.QuizPosition = nil
		return
	}
	pos := len(mod.Lessons)
	if mod.QuizPosition != nil {
		pos = clamp(*mod.QuizPosition, 0, len(mod.Lessons))
	}
	mod.QuizPosition = &pos
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// move returns s with the element at from relocated to index to.
func move[T any](s []T, from, to int) []T {
	out := make([]T, 0, len(s))
	item := s[from]
	for i, v := range s {
		if i != from {
			out = append(out, v)
		}
	}
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out
}
