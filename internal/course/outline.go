package course

import (
	"fmt"
	"strings"
)

// Markdown renders the value set as a Markdown course outline.
func (v FormValues) Markdown() string {
	var b strings.Builder

	title := v.CourseTitle
	if title == "" {
		title = "Untitled course"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if v.CourseDescription != "" {
		fmt.Fprintf(&b, "%s\n\n", v.CourseDescription)
	}

	b.WriteString("| | |\n|---|---|\n")
	for _, row := range [][2]string{
		{"Topic", v.CourseTopic},
		{"Audience", v.Audience},
		{"Language", v.Language},
		{"Form of address", string(v.FormOfAddress)},
		{"Proficiency", string(v.LearnerProficiency)},
		{"Pace", string(v.CourseDuration)},
	} {
		fmt.Fprintf(&b, "| %s | %s |\n", row[0], escapeCell(row[1]))
	}
	b.WriteString("\n")

	if v.LearningGoal != "" {
		fmt.Fprintf(&b, "## Learning goal\n\n%s\n\n", v.LearningGoal)
	}

	heading := "## Structure"
	if v.StructureLabel != "" {
		heading += ": " + v.StructureLabel
	}
	b.WriteString(heading + "\n\n")
	for i, m := range v.Modules {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, m.Title)
		quizAt := -1
		if m.HasQuiz() {
			quizAt = len(m.Lessons)
			if m.QuizPosition != nil && *m.QuizPosition >= 0 && *m.QuizPosition <= len(m.Lessons) {
				quizAt = *m.QuizPosition
			}
		}
		for j, l := range m.Lessons {
			if j == quizAt {
				fmt.Fprintf(&b, "- **Quiz:** %s\n", m.QuizTitle)
			}
			fmt.Fprintf(&b, "- %s\n", l.Title)
		}
		if quizAt == len(m.Lessons) {
			fmt.Fprintf(&b, "- **Quiz:** %s\n", m.QuizTitle)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Content generation\n\n")
	for _, t := range []struct {
		label string
		on    bool
	}{
		{"Module summaries", v.GenerateModuleSummaries},
		{"Lesson text", v.GenerateLessonText},
		{"Knowledge checks", v.GenerateKnowledgeChecks},
		{"Final assessment", v.GenerateFinalAssessment},
		{"Images", v.IncludeImages},
	} {
		mark := " "
		if t.on {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", mark, t.label)
	}
	if v.IncludeImages && v.ImageStyle != "" {
		fmt.Fprintf(&b, "\nImage style: %s\n", v.ImageStyle)
	}

	fmt.Fprintf(&b, "\n## Generation\n\n`%s` / `%s`, temperature %.2g, top-p %.2g\n",
		v.AIProvider, v.AIModel, v.Temperature, v.TopP)

	return b.String()
}

func escapeCell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
