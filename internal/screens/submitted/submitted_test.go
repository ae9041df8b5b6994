package submitted

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/coursewiz/internal/course"
	"github.com/abhisek/coursewiz/internal/router"
	"github.com/abhisek/coursewiz/internal/screen"
)

type stubScreen struct{}

func (stubScreen) Init() tea.Cmd                           { return nil }
func (stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return stubScreen{}, nil }
func (stubScreen) View(int, int) string                    { return "" }
func (stubScreen) Title() string                           { return "stub" }

func values() course.FormValues {
	v := course.DefaultValues("openai", "gpt-4.1-nano")
	v.CourseTitle = "Numbers are fun"
	v.CourseTopic = "Arithmetic"
	v.Modules = []course.Module{{Title: "Counting", Lessons: []course.Lesson{{Title: "One to ten"}}}}
	return v
}

func TestSubmittedScreen_RendersOutline(t *testing.T) {
	s := New(values(), nil)
	view := ansi.Strip(s.View(100, 80))

	assert.Contains(t, view, "Course submitted")
	assert.Contains(t, view, "Numbers are fun")
	assert.Contains(t, view, "Counting")
	assert.Contains(t, view, "Quit")
}

func TestSubmittedScreen_RestartReplacesScreen(t *testing.T) {
	calls := 0
	s := New(values(), func() screen.Screen {
		calls++
		return stubScreen{}
	})

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.IsType(t, stubScreen{}, msg.Screen)
	assert.Equal(t, 1, calls)
}

func TestSubmittedScreen_QuitWithoutRestart(t *testing.T) {
	s := New(values(), nil)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSubmittedScreen_ScrollClamps(t *testing.T) {
	s := New(values(), nil)
	s.Update(tea.KeyPressMsg{Code: tea.KeyPgUp})
	assert.Equal(t, 0, s.offset)

	for range 20 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyPgDown})
	}
	s.View(100, 20)
	assert.Less(t, s.offset, 200)
	assert.GreaterOrEqual(t, s.offset, 0)
}
