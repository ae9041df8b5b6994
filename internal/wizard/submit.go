package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/abhisek/coursewiz/internal/course"
	"github.com/abhisek/coursewiz/internal/logger"
	"github.com/abhisek/coursewiz/internal/store"
)

// StoreSubmitter persists submitted courses as JSON snapshots.
type StoreSubmitter struct {
	repo store.SubmissionRepo
	log  *logger.Logger

	mu   sync.Mutex
	last *store.Submission
}

// NewStoreSubmitter creates a submitter backed by repo.
func NewStoreSubmitter(repo store.SubmissionRepo, log *logger.Logger) *StoreSubmitter {
	if log == nil {
		log = logger.Nop()
	}
	return &StoreSubmitter{repo: repo, log: log}
}

func (s *StoreSubmitter) Submit(ctx context.Context, values course.FormValues) error {
	payload, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	lessons := 0
	for _, m := range values.Modules {
		lessons += len(m.Lessons)
	}

	sub := &store.Submission{
		CourseTitle: values.CourseTitle,
		Provider:    values.AIProvider,
		Model:       values.AIModel,
		ModuleCount: len(values.Modules),
		LessonCount: lessons,
		Payload:     payload,
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		return err
	}
	s.log.Info("course submitted", "id", sub.ID, "title", sub.CourseTitle,
		"modules", sub.ModuleCount, "lessons", sub.LessonCount)

	s.mu.Lock()
	s.last = sub
	s.mu.Unlock()
	return nil
}

// Last returns the most recent successful submission, or nil.
func (s *StoreSubmitter) Last() *store.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// DecodeSubmission restores the values stored in a submission payload.
func DecodeSubmission(sub *store.Submission) (course.FormValues, error) {
	var v course.FormValues
	if err := json.Unmarshal(sub.Payload, &v); err != nil {
		return course.FormValues{}, fmt.Errorf("decode submission %s: %w", sub.ID, err)
	}
	return v, nil
}
