package model

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus enumerates submission lifecycle states.
type SubmissionStatus string

const (
	SubmissionStatusPartial   SubmissionStatus = "partial"
	SubmissionStatusCompleted SubmissionStatus = "completed"
)

// SubmissionMetadata is client-observed context captured when the
// submission row is created.
type SubmissionMetadata struct {
	Source  string `json:"source,omitempty"`
	Device  string `json:"device,omitempty"`
	Country string `json:"country,omitempty"`
	City    string `json:"city,omitempty"`
	Browser string `json:"browser,omitempty"`
	OS      string `json:"os,omitempty"`
}

// Submission is one persisted respondent record. It is created as
// partial with empty answers when the respondent leaves the welcome
// screen; answers are overwritten on every navigation step; it
// transitions to completed exactly once.
type Submission struct {
	ID              uuid.UUID          `json:"id"`
	CreatedAt       time.Time          `json:"created_at"`
	Status          SubmissionStatus   `json:"status"`
	Answers         AnswerMap          `json:"answers"`
	Metadata        SubmissionMetadata `json:"metadata"`
	DurationSeconds *int               `json:"duration_seconds,omitempty"`
}
