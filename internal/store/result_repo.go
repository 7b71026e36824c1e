package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pixengine/internal/certification"
)

type resultRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *resultRepo) SaveCertificationResult(ctx context.Context, assessmentID string, res certification.Result) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	marks, err := json.Marshal(res.CompetencesWithMark)
	if err != nil {
		return fmt.Errorf("marshal marks: %w", err)
	}

	q, args := entsql.Dialect(dialect.SQLite).
		Insert(certificationResultsTable).
		Columns("sequence", "assessment_id", "total_score", "percentage_correct_answers", "status", "marks", "created_at").
		Values(seqNum, assessmentID, res.TotalScore, res.PercentageCorrectAnswers, string(certification.StatusOf(res)), string(marks), time.Now().UTC()).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("save certification result: %w", err)
	}
	return nil
}

func (r *resultRepo) LatestCertificationResult(ctx context.Context, assessmentID string) (*CertificationRecord, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select("sequence", "total_score", "percentage_correct_answers", "status", "marks", "created_at").
		From(entsql.Table(certificationResultsTable)).
		Where(entsql.EQ("assessment_id", assessmentID)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query certification result: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var (
		rec    CertificationRecord
		status string
		marks  string
	)
	if err := rows.Scan(&rec.Sequence, &rec.Result.TotalScore, &rec.Result.PercentageCorrectAnswers, &status, &marks, &rec.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan certification result: %w", err)
	}
	if err := json.Unmarshal([]byte(marks), &rec.Result.CompetencesWithMark); err != nil {
		return nil, fmt.Errorf("unmarshal marks: %w", err)
	}
	rec.AssessmentID = assessmentID
	rec.Status = certification.Status(status)
	return &rec, nil
}
