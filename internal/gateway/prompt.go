package gateway

import (
	"fmt"
	"strings"

	"github.com/abhisek/coursewiz/internal/course"
)

const systemPrompt = `You are a precise assistant that returns valid JSON only.`

var fieldInstructions = map[course.SuggestionField]string{
	course.SuggestLearningGoal:      "Return learner outcome statements. Start each with an action verb and keep each suggestion to one sentence.",
	course.SuggestCourseTitle:       "Return concise, marketable course titles. Keep each suggestion under 12 words.",
	course.SuggestCourseDescription: "Return short descriptions (1-2 sentences) focused on learner value and practical outcomes.",
}

func buildStructureUserMessage(c CourseContext) string {
	var b strings.Builder

	b.WriteString(`You generate course outlines for educators.
Output requirements:
- Return strict JSON only.
- Use this exact shape: {"structures":[{"label":"Structure 1","modules":[{"title":"...","lessons":[{"title":"..."}],"quizTitle":"..."}]}]}.
- Return exactly 3 structures named Structure 1, Structure 2, and Structure 3.
- Each structure must contain 3 modules.
- Each module must contain 3 concise lessons.
- Each module must include a quiz title in quizTitle (quiz at end of module).
- Keep language consistent with requested language.

`)
	b.WriteString(fmt.Sprintf("Course topic: %s\n", orNA(c.CourseTopic)))
	b.WriteString(fmt.Sprintf("Language: %s\n", orDefault(c.Language, DefaultLanguage)))
	b.WriteString(fmt.Sprintf("Audience: %s\n", orNA(c.Audience)))
	b.WriteString(fmt.Sprintf("Learning goal: %s\n", orNA(c.LearningGoal)))
	b.WriteString(fmt.Sprintf("Course title: %s", orNA(c.CourseTitle)))

	return b.String()
}

func buildSuggestionUserMessage(field course.SuggestionField, c CourseContext) string {
	var b strings.Builder

	b.WriteString("You generate high-quality course-authoring suggestions for educators.\n")
	b.WriteString(fieldInstructions[field])
	b.WriteString(`
Output requirements:
- Return strict JSON only.
- Use this exact shape: {"suggestions":["...","...","..."]}.
- Return exactly 3 unique suggestions.
- Keep language consistent with the requested language.

`)
	b.WriteString(fmt.Sprintf("Course topic: %s\n", orNA(c.CourseTopic)))
	b.WriteString(fmt.Sprintf("Language: %s\n", orDefault(c.Language, DefaultLanguage)))
	b.WriteString(fmt.Sprintf("Audience: %s\n", orNA(c.Audience)))
	b.WriteString(fmt.Sprintf("Learner proficiency: %s\n", orNA(string(c.LearnerProficiency))))
	b.WriteString(fmt.Sprintf("Course duration: %s\n", orNA(string(c.CourseDuration))))
	b.WriteString(fmt.Sprintf("Current learning goal: %s\n", orNA(c.LearningGoal)))
	b.WriteString(fmt.Sprintf("Current course title: %s\n", orNA(c.CourseTitle)))
	b.WriteString(fmt.Sprintf("Target field: %s", field))

	return b.String()
}

func orNA(s string) string {
	return orDefault(s, "N/A")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
