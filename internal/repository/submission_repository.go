package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/canvasshq/canvass-backend/internal/model"
)

// SubmissionRepository handles survey submission data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// CreatePartial inserts a new partial submission when a respondent first
// answers a question. Returns the generated submission ID.
func (r *SubmissionRepository) CreatePartial(ctx context.Context, answers model.AnswerMap, metadata model.SubmissionMetadata) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`INSERT INTO submissions (status, answers, metadata)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		model.SubmissionStatusPartial, answers, metadata,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// UpdateAnswers overwrites the answer map of an existing partial submission.
func (r *SubmissionRepository) UpdateAnswers(ctx context.Context, id uuid.UUID, answers model.AnswerMap) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE submissions
		 SET answers = $1
		 WHERE id = $2 AND status = $3`,
		answers, id, model.SubmissionStatusPartial)
	return err
}

// Finalize marks a submission as completed with its final answers and duration.
func (r *SubmissionRepository) Finalize(ctx context.Context, id uuid.UUID, answers model.AnswerMap, durationSeconds int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE submissions
		 SET status = $1, answers = $2, duration_seconds = $3, completed_at = $4
		 WHERE id = $5`,
		model.SubmissionStatusCompleted, answers, durationSeconds, time.Now(), id)
	return err
}

// GetByID retrieves a single submission.
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	s := &model.Submission{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, created_at, status, answers, metadata, duration_seconds
		 FROM submissions
		 WHERE id = $1`, id,
	).Scan(&s.ID, &s.CreatedAt, &s.Status, &s.Answers, &s.Metadata, &s.DurationSeconds)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListAll retrieves every submission, oldest first. The analytics service
// aggregates over the full set, so there is no pagination here.
func (r *SubmissionRepository) ListAll(ctx context.Context) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, created_at, status, answers, metadata, duration_seconds
		 FROM submissions
		 ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []model.Submission
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Status, &s.Answers, &s.Metadata, &s.DurationSeconds); err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

// ListPage retrieves a page of submissions for the dashboard table.
func (r *SubmissionRepository) ListPage(ctx context.Context, page, perPage int) ([]model.Submission, int64, error) {
	offset := (page - 1) * perPage

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, created_at, status, answers, metadata, duration_seconds
		 FROM submissions
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var submissions []model.Submission
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Status, &s.Answers, &s.Metadata, &s.DurationSeconds); err != nil {
			return nil, 0, err
		}
		submissions = append(submissions, s)
	}
	return submissions, total, rows.Err()
}
