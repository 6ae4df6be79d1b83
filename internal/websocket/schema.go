package websocket

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	// EventSubmissionStarted fires when a respondent answers their first question.
	EventSubmissionStarted Event = "submission.started"
	// EventAnswerRecorded fires on every accepted answer.
	EventAnswerRecorded Event = "answer.recorded"
	// EventSubmissionCompleted fires when a respondent finishes the survey.
	EventSubmissionCompleted Event = "submission.completed"
	// EventPong answers a client ping.
	EventPong Event = "pong"
	// EventError reports a fault on the stream.
	EventError Event = "error"
)

// DashboardEvent is published on the Redis events channel and forwarded
// verbatim to dashboard WebSocket clients.
type DashboardEvent struct {
	Event        Event  `json:"event"`
	SubmissionID string `json:"submission_id,omitempty"`
	QuestionID   string `json:"question_id,omitempty"`
	Country      string `json:"country,omitempty"`
	Device       string `json:"device,omitempty"`
	OccurredAt   int64  `json:"occurred_at"`
}

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
