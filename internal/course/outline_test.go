package course

import (
	"strings"
	"testing"
)

func TestMarkdown(t *testing.T) {
	v := DefaultValues("openai", "gpt-4.1-nano")
	v.CourseTitle = "Numbers are fun"
	v.CourseTopic = "Arithmetic | basics"
	v.StructureLabel = "Structure 2"
	pos := 1
	v.Modules = []Module{{
		Title:        "Counting",
		Lessons:      []Lesson{{Title: "To ten"}, {Title: "To twenty"}},
		QuizTitle:    "Counting quiz",
		QuizPosition: &pos,
	}}
	v.GenerateLessonText = false

	md := v.Markdown()
	for _, want := range []string{
		"# Numbers are fun\n",
		`| Topic | Arithmetic \| basics |`,
		"## Structure: Structure 2",
		"### 1. Counting\n\n- To ten\n- **Quiz:** Counting quiz\n- To twenty\n",
		"- [ ] Lesson text",
		"- [x] Module summaries",
		"`openai` / `gpt-4.1-nano`",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdown_QuizAfterLessons(t *testing.T) {
	v := DefaultValues("openai", "gpt-4.1-nano")
	v.Modules = []Module{{
		Title:     "Adding",
		Lessons:   []Lesson{{Title: "Plus one"}},
		QuizTitle: "Adding quiz",
	}}

	md := v.Markdown()
	if !strings.Contains(md, "# Untitled course") {
		t.Error("missing fallback title")
	}
	if !strings.Contains(md, "- Plus one\n- **Quiz:** Adding quiz\n") {
		t.Errorf("quiz not placed last:\n%s", md)
	}
}
