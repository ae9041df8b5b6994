package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursewiz/internal/router"
	"github.com/abhisek/coursewiz/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "wizard" }
func (s *stubScreen) Title() string                           { return "Wizard" }

func newTestWelcome() (*WelcomeScreen, *int) {
	callCount := 0
	next := func() screen.Screen {
		callCount++
		return &stubScreen{}
	}
	return New(next, "AI: openai (in-process)"), &callCount
}

func sendTicks(w *WelcomeScreen, n int) tea.Cmd {
	var cmd tea.Cmd
	for i := 0; i < n; i++ {
		_, cmd = w.Update(tickMsg(time.Now()))
	}
	return cmd
}

func TestBannerAppearsAfterDelay(t *testing.T) {
	w, _ := newTestWelcome()

	if strings.Contains(w.View(80, 24), "Plan a course") {
		t.Error("tagline should not be visible at start")
	}

	sendTicks(w, 4)
	view := w.View(80, 24)
	if !strings.Contains(view, "Plan a course with AI") {
		t.Error("tagline should be visible after the banner delay")
	}
	if !strings.Contains(view, "in-process") {
		t.Error("backend line missing")
	}
}

func TestAutoTransition(t *testing.T) {
	w, callCount := newTestWelcome()

	cmd := sendTicks(w, 12)
	if cmd == nil {
		t.Fatal("expected a transition command at the end of the splash")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called once, got %d", *callCount)
	}
	if cmd := sendTicks(w, 3); cmd != nil {
		t.Error("ticks after the transition should stop")
	}
}

func TestKeypressSkips(t *testing.T) {
	w, callCount := newTestWelcome()
	sendTicks(w, 2)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("keypress should trigger the transition")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok || msg.Screen == nil {
		t.Fatalf("expected ReplaceScreenMsg with a screen, got %#v", msg)
	}

	_, cmd = w.Update(tea.KeyPressMsg{Code: 'b'})
	if cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called exactly once, got %d", *callCount)
	}
}

func TestTitleEmpty(t *testing.T) {
	w, _ := newTestWelcome()
	if w.Title() != "" {
		t.Errorf("expected empty title, got %q", w.Title())
	}
}
