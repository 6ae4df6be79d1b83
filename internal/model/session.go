package model

import (
	"time"

	"github.com/google/uuid"
)

// SurveySession is the server-side respondent flow state. It lives in
// Redis for the duration of the session; the only durable artifact is
// the submission row it points at.
type SurveySession struct {
	ID           uuid.UUID          `json:"id"`
	SubmissionID *uuid.UUID         `json:"submission_id,omitempty"`
	CurrentID    string             `json:"current_id"`
	Answers      AnswerMap          `json:"answers"`
	Metadata     SubmissionMetadata `json:"metadata"`
	StartedAt    *time.Time         `json:"started_at,omitempty"`
	Completed    bool               `json:"completed"`
	CreatedAt    time.Time          `json:"created_at"`
}

// AnswerRequest is the payload for storing an answer on the current
// question. Value may be a string, a string sequence, a number, or a
// boolean, mirroring the answer model.
type AnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	Value      any    `json:"value"`
}

// MoveRequest is the payload for reordering one ranking item.
type MoveRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	From       *int   `json:"from" binding:"required,min=0"`
	To         *int   `json:"to" binding:"required,min=0"`
}
