package course

import "testing"

func TestValidateStep_ValidValuesPassEveryStep(t *testing.T) {
	v := validValues()
	for i := range Steps {
		res := ValidateStep(v, i)
		if !res.OK {
			t.Errorf("step %d: expected ok, got %v", i, res.FieldErrors)
		}
	}
}

func TestValidateStep_Projection(t *testing.T) {
	v := validValues()
	v.CourseTopic = "short"
	v.CourseTitle = "x"

	purpose := ValidateStep(v, StepPurpose)
	if purpose.OK {
		t.Fatal("expected purpose step to fail")
	}
	if _, ok := purpose.FieldErrors["courseTitle"]; ok {
		t.Fatal("purpose step reported a context field")
	}
	if purpose.FieldErrors["courseTopic"] == "" {
		t.Fatal("expected a courseTopic message")
	}

	structure := ValidateStep(v, StepStructure)
	if !structure.OK {
		t.Fatalf("structure step should ignore other steps, got %v", structure.FieldErrors)
	}
}

func TestValidateStep_NestedModuleErrors(t *testing.T) {
	v := validValues()
	v.Modules[0].Lessons[0].Title = "x"

	for _, step := range []int{StepStructure, StepModules} {
		res := ValidateStep(v, step)
		if res.OK {
			t.Fatalf("step %d: expected failure", step)
		}
		if res.FieldErrors["modules.0.lessons.0.title"] != "Lesson title is required." {
			t.Fatalf("step %d: unexpected errors %v", step, res.FieldErrors)
		}
	}
}

func TestValidateStep_EveryViolationHasMessage(t *testing.T) {
	res := ValidateStep(FormValues{}, StepPurpose)
	if res.OK {
		t.Fatal("expected failure")
	}
	for _, f := range Steps[StepPurpose].Fields {
		if !res.FieldErrors.Has(f) {
			t.Errorf("missing error for %s", f)
		}
	}
	for path, msg := range res.FieldErrors {
		if msg == "" {
			t.Errorf("empty message for %s", path)
		}
	}
}

func TestValidateStep_OutOfRange(t *testing.T) {
	for _, step := range []int{-1, len(Steps), 99} {
		res := ValidateStep(validValues(), step)
		if res.OK {
			t.Errorf("step %d: expected failure", step)
		}
		if res.FieldErrors["step"] == "" {
			t.Errorf("step %d: expected a step error", step)
		}
	}
}

func TestTriggerStep_SkipsAddress(t *testing.T) {
	v := validValues()
	v.FormOfAddress = ""

	if errs := TriggerStep(v, StepPurpose); len(errs) != 0 {
		t.Fatalf("trigger check should not cover formOfAddress, got %v", errs)
	}
	if res := ValidateStep(v, StepPurpose); res.OK {
		t.Fatal("step schema should reject a missing form of address")
	}
}

func TestSteps_Titles(t *testing.T) {
	want := []string{
		"Define the purpose",
		"Set the context",
		"Course structure",
		"Modules and lessons",
		"Generate content",
	}
	if len(Steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(Steps))
	}
	for i, title := range want {
		if Steps[i].Title != title {
			t.Errorf("Steps[%d].Title = %q, want %q", i, Steps[i].Title, title)
		}
	}
}
