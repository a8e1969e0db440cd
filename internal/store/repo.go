package store

import (
	"context"
	"time"
)

// QueryOpts configures round queries with filtering and pagination.
type QueryOpts struct {
	Topic string    // only rounds of this topic (empty = all)
	Limit int       // max results (0 = unlimited)
	From  time.Time // finished_at >= From
	To    time.Time // finished_at <= To
}

// AnswerRecord is one graded problem of a stored round.
type AnswerRecord struct {
	Position      int
	TaskType      string
	Question      string
	LearnerAnswer string
	CorrectAnswer string
	Correct       bool
}

// RoundRecord is a finished round as stored in history.
type RoundRecord struct {
	ID         string
	Topic      string
	Title      string
	StartedAt  time.Time
	FinishedAt time.Time
	Reason     string
	Correct    int
	Total      int

	// Answers is only populated by RoundRepo.Get.
	Answers []AnswerRecord
}

// RoundRepo persists finished rounds.
type RoundRepo interface {
	// Save stores a round and its answers in one transaction.
	Save(ctx context.Context, rec *RoundRecord) error

	// Get returns a round with its answers, or nil if it does not exist.
	Get(ctx context.Context, id string) (*RoundRecord, error)

	// Recent returns rounds newest first, without answers.
	Recent(ctx context.Context, opts QueryOpts) ([]RoundRecord, error)

	// Prune deletes all but the keep most recent rounds.
	Prune(ctx context.Context, keep int) error
}
