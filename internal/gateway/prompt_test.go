package gateway

import (
	"strings"
	"testing"

	"github.com/abhisek/coursewiz/internal/course"
)

func TestBuildStructureUserMessage(t *testing.T) {
	msg := buildStructureUserMessage(CourseContext{CourseTopic: "Fractions"})

	for _, want := range []string{
		"You generate course outlines for educators.",
		"- Return exactly 3 structures named Structure 1, Structure 2, and Structure 3.",
		"- Each module must include a quiz title in quizTitle (quiz at end of module).",
		"Course topic: Fractions",
		"Language: English",
		"Audience: N/A",
		"Course title: N/A",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("structure message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildSuggestionUserMessage(t *testing.T) {
	for _, field := range course.SuggestionFields {
		msg := buildSuggestionUserMessage(field, CourseContext{})
		lines := strings.Split(msg, "\n")
		if lines[1] != fieldInstructions[field] {
			t.Errorf("%s: instruction line = %q", field, lines[1])
		}
		if last := lines[len(lines)-1]; last != "Target field: "+string(field) {
			t.Errorf("%s: last line = %q", field, last)
		}
	}
}
