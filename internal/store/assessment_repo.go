package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"

	"github.com/abhisek/pixengine/internal/assessment"
)

type assessmentRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *assessmentRepo) Create(ctx context.Context, a *Assessment) error {
	skillIDs, err := json.Marshal(a.SkillIDs)
	if err != nil {
		return fmt.Errorf("marshal skill ids: %w", err)
	}
	if a.State == "" {
		a.State = StateStarted
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	q, args := entsql.Dialect(dialect.SQLite).
		Insert(assessmentsTable).
		Columns("id", "user_id", "bank", "method", "target_profile", "skill_ids", "state", "created_at").
		Values(a.ID, a.UserID, a.Bank, a.Method, a.TargetProfileID, string(skillIDs), string(a.State), a.CreatedAt).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("create assessment: %w", err)
	}
	return nil
}

func (r *assessmentRepo) Get(ctx context.Context, id string) (*Assessment, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select("id", "user_id", "bank", "method", "target_profile", "skill_ids", "state", "created_at", "completed_at").
		From(entsql.Table(assessmentsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query assessment: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query assessment: %w", err)
		}
		return nil, fmt.Errorf("assessment %q: %w", id, ErrNotFound)
	}

	var (
		a         Assessment
		skillIDs  string
		state     string
		completed sql.NullTime
	)
	if err := rows.Scan(&a.ID, &a.UserID, &a.Bank, &a.Method, &a.TargetProfileID, &skillIDs, &state, &a.CreatedAt, &completed); err != nil {
		return nil, fmt.Errorf("scan assessment: %w", err)
	}
	if err := json.Unmarshal([]byte(skillIDs), &a.SkillIDs); err != nil {
		return nil, fmt.Errorf("unmarshal skill ids: %w", err)
	}
	a.State = AssessmentState(state)
	if completed.Valid {
		a.CompletedAt = completed.Time
	}
	return &a, nil
}

func (r *assessmentRepo) AppendAnswer(ctx context.Context, assessmentID string, a assessment.Answer) (int64, error) {
	return insertAnswer(ctx, r.drv, r.seq.Next, assessmentID, a)
}

func (r *assessmentRepo) RecordAnswer(ctx context.Context, assessmentID string, a assessment.Answer, kes []assessment.KnowledgeElement) (int64, error) {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	next := func(ctx context.Context) (int64, error) { return r.seq.nextIn(ctx, tx) }

	seqNum, err := insertAnswer(ctx, tx, next, assessmentID, a)
	if err == nil {
		err = insertKnowledgeElements(ctx, tx, next, assessmentID, kes)
	}
	if err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return 0, errors.Join(err, fmt.Errorf("rollback: %w", rerr))
		}
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit answer: %w", err)
	}
	return seqNum, nil
}

// sequenceFunc hands out global sequence numbers.
type sequenceFunc func(ctx context.Context) (int64, error)

func insertAnswer(ctx context.Context, conn dialect.ExecQuerier, next sequenceFunc, assessmentID string, a assessment.Answer) (int64, error) {
	seqNum, err := next(ctx)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	q, args := entsql.Dialect(dialect.SQLite).
		Insert(answersTable).
		Columns("sequence", "assessment_id", "challenge_id", "result", "created_at").
		Values(seqNum, assessmentID, a.ChallengeID, string(a.Result), time.Now().UTC()).
		Query()
	if err := conn.Exec(ctx, q, args, nil); err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			return 0, fmt.Errorf("challenge %q: %w", a.ChallengeID, ErrAnswerExists)
		}
		return 0, fmt.Errorf("save answer: %w", err)
	}
	return seqNum, nil
}

func (r *assessmentRepo) Answers(ctx context.Context, assessmentID string) ([]assessment.Answer, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select("challenge_id", "result").
		From(entsql.Table(answersTable)).
		Where(entsql.EQ("assessment_id", assessmentID)).
		OrderBy("sequence").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []assessment.Answer
	for rows.Next() {
		var (
			a      assessment.Answer
			result string
		)
		if err := rows.Scan(&a.ChallengeID, &result); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		a.Result = assessment.Result(result)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *assessmentRepo) AppendKnowledgeElements(ctx context.Context, assessmentID string, kes []assessment.KnowledgeElement) error {
	return insertKnowledgeElements(ctx, r.drv, r.seq.Next, assessmentID, kes)
}

func insertKnowledgeElements(ctx context.Context, conn dialect.ExecQuerier, next sequenceFunc, assessmentID string, kes []assessment.KnowledgeElement) error {
	if len(kes) == 0 {
		return nil
	}

	now := time.Now().UTC()
	insert := entsql.Dialect(dialect.SQLite).
		Insert(knowledgeElementsTable).
		Columns("sequence", "assessment_id", "skill_id", "status", "source", "challenge_id", "created_at")
	for _, ke := range kes {
		seqNum, err := next(ctx)
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		insert.Values(seqNum, assessmentID, ke.SkillID, string(ke.Status), string(ke.Source), ke.ChallengeID, now)
	}

	q, args := insert.Query()
	if err := conn.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("save knowledge elements: %w", err)
	}
	return nil
}

func (r *assessmentRepo) KnowledgeElements(ctx context.Context, assessmentID string) ([]assessment.KnowledgeElement, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select("skill_id", "status", "source", "challenge_id").
		From(entsql.Table(knowledgeElementsTable)).
		Where(entsql.EQ("assessment_id", assessmentID)).
		OrderBy("sequence").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query knowledge elements: %w", err)
	}
	defer rows.Close()

	var out []assessment.KnowledgeElement
	for rows.Next() {
		var (
			ke             assessment.KnowledgeElement
			status, source string
		)
		if err := rows.Scan(&ke.SkillID, &status, &source, &ke.ChallengeID); err != nil {
			return nil, fmt.Errorf("scan knowledge element: %w", err)
		}
		ke.Status = assessment.KnowledgeStatus(status)
		ke.Source = assessment.KnowledgeSource(source)
		out = append(out, ke)
	}
	return out, rows.Err()
}

func (r *assessmentRepo) Complete(ctx context.Context, assessmentID string, at time.Time) error {
	q, args := entsql.Dialect(dialect.SQLite).
		Update(assessmentsTable).
		Set("state", string(StateCompleted)).
		Set("completed_at", at.UTC()).
		Where(entsql.And(
			entsql.EQ("id", assessmentID),
			entsql.EQ("state", string(StateStarted)),
		)).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, q, args, &res); err != nil {
		return fmt.Errorf("complete assessment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := r.Get(ctx, assessmentID); err != nil {
			return err
		}
	}
	return nil
}
