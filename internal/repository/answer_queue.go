package repository

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/canvasshq/canvass-backend/internal/config"
	"github.com/canvasshq/canvass-backend/internal/model"
)

// AnswerQueue buffers best-effort answer snapshots in Redis for the
// persist worker. The request path never waits on PostgreSQL for
// mid-survey answers.
type AnswerQueue struct {
	rdb *redis.Client
}

// NewAnswerQueue creates a new AnswerQueue.
func NewAnswerQueue(rdb *redis.Client) *AnswerQueue {
	return &AnswerQueue{rdb: rdb}
}

// PersistPayload is the queued snapshot of a submission's answers.
type PersistPayload struct {
	SubmissionID string          `json:"submission_id"`
	Answers      model.AnswerMap `json:"answers"`
}

// Enqueue pushes an answer snapshot onto the persist queue.
func (q *AnswerQueue) Enqueue(ctx context.Context, payload PersistPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return q.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, data).Err()
}
