package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var submissionColumns = []string{
	"id", "sequence", "created_at", "course_title", "provider", "model",
	"module_count", "lesson_count", "payload",
}

type submissionRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *submissionRepo) Save(ctx context.Context, sub *Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	sub.Sequence = seqNum

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableSubmissions).
		Columns(submissionColumns...).
		Values(
			sub.ID,
			sub.Sequence,
			sub.CreatedAt.UnixMilli(),
			sub.CourseTitle,
			sub.Provider,
			sub.Model,
			sub.ModuleCount,
			sub.LessonCount,
			string(sub.Payload),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

func (r *submissionRepo) List(ctx context.Context, opts QueryOpts) ([]Submission, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(submissionColumns...).
		From(entsql.Table(tableSubmissions)).
		OrderBy(entsql.Desc("sequence"))
	applyQueryOpts(sel, opts, "created_at")

	return r.scan(ctx, sel)
}

func (r *submissionRepo) Get(ctx context.Context, id string) (*Submission, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(submissionColumns...).
		From(entsql.Table(tableSubmissions)).
		Where(entsql.HasPrefix("id", id)).
		Limit(2)

	subs, err := r.scan(ctx, sel)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if subs[i].ID == id {
			return &subs[i], nil
		}
	}
	switch len(subs) {
	case 0:
		return nil, nil
	case 1:
		return &subs[0], nil
	default:
		return nil, fmt.Errorf("submission id prefix %q is ambiguous", id)
	}
}

func (r *submissionRepo) scan(ctx context.Context, sel *entsql.Selector) ([]Submission, error) {
	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var s Submission
		var created int64
		var payload string
		if err := rows.Scan(
			&s.ID, &s.Sequence, &created, &s.CourseTitle, &s.Provider, &s.Model,
			&s.ModuleCount, &s.LessonCount, &payload,
		); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		s.CreatedAt = time.UnixMilli(created).UTC()
		s.Payload = []byte(payload)
		out = append(out, s)
	}
	return out, rows.Err()
}
