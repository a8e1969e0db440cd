package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// roundRepo implements RoundRepo on database/sql.
type roundRepo struct {
	db *sql.DB
}

func (r *roundRepo) Save(ctx context.Context, rec *RoundRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO rounds (id, topic, title, started_at, finished_at, reason, correct, total)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Topic, rec.Title,
		rec.StartedAt.UnixMilli(), rec.FinishedAt.UnixMilli(),
		rec.Reason, rec.Correct, rec.Total)
	if err != nil {
		return fmt.Errorf("save round: %w", err)
	}

	for _, a := range rec.Answers {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO answers (round_id, position, task_type, question, learner_answer, correct_answer, correct)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, a.Position, a.TaskType, a.Question, a.LearnerAnswer, a.CorrectAnswer, a.Correct)
		if err != nil {
			return fmt.Errorf("save answer %d: %w", a.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *roundRepo) Get(ctx context.Context, id string) (*RoundRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, topic, title, started_at, finished_at, reason, correct, total
		 FROM rounds WHERE id = ?`, id)
	rec, err := scanRound(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query round: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT position, task_type, question, learner_answer, correct_answer, correct
		 FROM answers WHERE round_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a AnswerRecord
		if err := rows.Scan(&a.Position, &a.TaskType, &a.Question, &a.LearnerAnswer, &a.CorrectAnswer, &a.Correct); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		rec.Answers = append(rec.Answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}
	return rec, nil
}

func (r *roundRepo) Recent(ctx context.Context, opts QueryOpts) ([]RoundRecord, error) {
	var (
		where []string
		args  []any
	)
	if opts.Topic != "" {
		where = append(where, "topic = ?")
		args = append(args, opts.Topic)
	}
	if !opts.From.IsZero() {
		where = append(where, "finished_at >= ?")
		args = append(args, opts.From.UnixMilli())
	}
	if !opts.To.IsZero() {
		where = append(where, "finished_at <= ?")
		args = append(args, opts.To.UnixMilli())
	}

	q := `SELECT id, topic, title, started_at, finished_at, reason, correct, total FROM rounds`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY finished_at DESC, id"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer rows.Close()

	var out []RoundRecord
	for rows.Next() {
		rec, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rounds: %w", err)
	}
	return out, nil
}

func (r *roundRepo) Prune(ctx context.Context, keep int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	// foreign_keys is per connection, so answers are removed explicitly
	// instead of relying on the cascade.
	const stale = `SELECT id FROM rounds WHERE id NOT IN (
		SELECT id FROM rounds ORDER BY finished_at DESC, id LIMIT ?)`
	if _, err := tx.ExecContext(ctx, `DELETE FROM answers WHERE round_id IN (`+stale+`)`, keep); err != nil {
		return fmt.Errorf("prune answers: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rounds WHERE id IN (`+stale+`)`, keep); err != nil {
		return fmt.Errorf("prune rounds: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRound(s scanner) (*RoundRecord, error) {
	var (
		rec               RoundRecord
		started, finished int64
	)
	err := s.Scan(&rec.ID, &rec.Topic, &rec.Title, &started, &finished, &rec.Reason, &rec.Correct, &rec.Total)
	if err != nil {
		return nil, err
	}
	rec.StartedAt = time.UnixMilli(started)
	rec.FinishedAt = time.UnixMilli(finished)
	return &rec, nil
}
