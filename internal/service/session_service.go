package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/canvasshq/canvass-backend/internal/catalog"
	"github.com/canvasshq/canvass-backend/internal/model"
	"github.com/canvasshq/canvass-backend/internal/repository"
	"github.com/canvasshq/canvass-backend/internal/survey"
	ws "github.com/canvasshq/canvass-backend/internal/websocket"
)

// Flow errors. Handlers map these to the matching response codes.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionCompleted   = errors.New("session already completed")
	ErrNotCurrentQuestion = errors.New("answer targets a non-current question")
	ErrAnswerRequired     = errors.New("a valid answer is required to continue")
	ErrInvalidEmail       = errors.New("email address is not valid")
	ErrConsentRequired    = errors.New("consent is required when leaving an email")
	ErrNotRankingQuestion = errors.New("question is not a ranking question")
	ErrInvalidRanking     = errors.New("ranking answer must order every option exactly once")
	ErrSubmissionFailed   = errors.New("submission could not be stored")
)

// SubmissionStore is the durable side of the flow: the two gated calls
// that must succeed before navigation proceeds.
type SubmissionStore interface {
	CreatePartial(ctx context.Context, answers model.AnswerMap, metadata model.SubmissionMetadata) (uuid.UUID, error)
	Finalize(ctx context.Context, id uuid.UUID, answers model.AnswerMap, durationSeconds int) error
}

// SessionStateStore persists the ephemeral session state.
type SessionStateStore interface {
	Get(ctx context.Context, id string) (*model.SurveySession, error)
	Save(ctx context.Context, sess *model.SurveySession) error
}

// AnswerEnqueuer accepts best-effort answer snapshots.
type AnswerEnqueuer interface {
	Enqueue(ctx context.Context, payload repository.PersistPayload) error
}

// EventSink receives dashboard activity events.
type EventSink interface {
	Publish(ctx context.Context, event ws.DashboardEvent) error
}

// SessionService drives a respondent through the survey: one current
// question at a time, forward gated on validity, backward always open.
type SessionService struct {
	submissions SubmissionStore
	sessions    SessionStateStore
	queue       AnswerEnqueuer
	events      EventSink
	now         func() time.Time
	log         zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	submissions SubmissionStore,
	sessions SessionStateStore,
	queue AnswerEnqueuer,
	events EventSink,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		submissions: submissions,
		sessions:    sessions,
		queue:       queue,
		events:      events,
		now:         time.Now,
		log:         log.With().Str("component", "session_service").Logger(),
	}
}

// SessionState is the client-facing snapshot of a session.
type SessionState struct {
	SessionID uuid.UUID      `json:"session_id"`
	Question  model.Question `json:"question"`
	Answer    any            `json:"answer,omitempty"`
	Progress  ProgressState  `json:"progress"`
	Completed bool           `json:"completed"`
	CanGoBack bool           `json:"can_go_back"`
}

// ProgressState reports the respondent's position over a fixed
// denominator, so the bar never jumps when branches hide questions.
type ProgressState struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Start creates a session positioned at the welcome screen.
func (s *SessionService) Start(ctx context.Context, metadata model.SubmissionMetadata) (*SessionState, error) {
	questions := catalog.Questions()

	sess := &model.SurveySession{
		ID:        uuid.New(),
		CurrentID: questions[0].ID,
		Answers:   model.AnswerMap{},
		Metadata:  metadata,
		CreatedAt: s.now(),
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return s.stateOf(ctx, sess)
}

// State returns the current snapshot of a session. Showing an unanswered
// ranking question materializes its default random permutation so the
// respondent can submit the list untouched.
func (s *SessionService) State(ctx context.Context, id string) (*SessionState, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.stateOf(ctx, sess)
}

// SetAnswer stores an answer on the current question. Only the question
// the respondent is looking at is writable.
func (s *SessionService) SetAnswer(ctx context.Context, id string, req model.AnswerRequest) (*SessionState, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Completed {
		return nil, ErrSessionCompleted
	}

	// The consent flag has no question of its own; it rides alongside
	// the email step and is only writable while that step is current.
	if req.QuestionID == catalog.ConsentAnswerKey {
		if sess.CurrentID != catalog.EmailQuestionID {
			return nil, ErrNotCurrentQuestion
		}
		consent, _ := req.Value.(bool)
		sess.Answers[catalog.ConsentAnswerKey] = consent
		if err := s.sessions.Save(ctx, sess); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		s.persistBestEffort(ctx, sess)
		return s.stateOf(ctx, sess)
	}

	if req.QuestionID != sess.CurrentID {
		return nil, ErrNotCurrentQuestion
	}

	q, ok := questionByID(sess.CurrentID)
	if !ok {
		return nil, ErrNotCurrentQuestion
	}

	value := req.Value
	if q.Type == model.QuestionTypeRanking && !survey.IsRankingAnswer(q, value) {
		return nil, ErrInvalidRanking
	}
	if q.Type == model.QuestionTypeCheckbox {
		// Checkbox answers are always sequences, even single picks.
		if seq, isSeq := model.AsStringSlice(value); isSeq {
			value = seq
		} else if str, isStr := model.AsString(value); isStr {
			value = []string{str}
		} else {
			value = []string{}
		}
	}

	sess.Answers[q.ID] = value
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.persistBestEffort(ctx, sess)
	return s.stateOf(ctx, sess)
}

// MoveRankingItem reorders one element of a ranking answer.
func (s *SessionService) MoveRankingItem(ctx context.Context, id string, req model.MoveRequest) (*SessionState, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Completed {
		return nil, ErrSessionCompleted
	}
	if req.QuestionID != sess.CurrentID {
		return nil, ErrNotCurrentQuestion
	}

	q, ok := questionByID(sess.CurrentID)
	if !ok || q.Type != model.QuestionTypeRanking {
		return nil, ErrNotRankingQuestion
	}

	current, ok := model.AsStringSlice(sess.Answers[q.ID])
	if !ok || len(current) == 0 {
		current = survey.RandomRanking(q)
	}

	sess.Answers[q.ID] = survey.Reorder(current, *req.From, *req.To)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.persistBestEffort(ctx, sess)
	return s.stateOf(ctx, sess)
}

// Advance moves the respondent one step forward. Three transition
// classes apply: leaving the welcome screen creates the partial
// submission (gated), leaving the email screen finalizes (gated), and
// every other step is a local validity check plus a best-effort persist.
func (s *SessionService) Advance(ctx context.Context, id string) (*SessionState, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Completed {
		return nil, ErrSessionCompleted
	}

	q, ok := questionByID(sess.CurrentID)
	if !ok {
		return nil, ErrNotCurrentQuestion
	}

	switch {
	case q.Type == model.QuestionTypeWelcome:
		if err := s.leaveWelcome(ctx, sess); err != nil {
			return nil, err
		}
	case q.ID == catalog.EmailQuestionID:
		if err := s.finalize(ctx, sess, q); err != nil {
			return nil, err
		}
	default:
		if !survey.IsValidAnswer(q, sess.Answers) {
			return nil, ErrAnswerRequired
		}
		s.persistBestEffort(ctx, sess)
	}

	s.stepForward(sess)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return s.stateOf(ctx, sess)
}

// Retreat moves the respondent one step back. Always allowed; the
// current answers are flushed best effort first.
func (s *SessionService) Retreat(ctx context.Context, id string) (*SessionState, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Completed {
		return nil, ErrSessionCompleted
	}

	s.persistBestEffort(ctx, sess)

	sequence := survey.VisibleSequence(catalog.Questions(), sess.Answers)
	pos := survey.IndexOf(sequence, sess.CurrentID)
	if pos > 0 {
		sess.CurrentID = sequence[pos-1].ID
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return s.stateOf(ctx, sess)
}

// leaveWelcome creates the durable partial submission and stamps the
// start time. The call is gated: on failure the respondent stays put
// and can retry.
func (s *SessionService) leaveWelcome(ctx context.Context, sess *model.SurveySession) error {
	if sess.SubmissionID != nil {
		return nil
	}

	subID, err := s.submissions.CreatePartial(ctx, sess.Answers, sess.Metadata)
	if err != nil {
		s.log.Error().Err(err).Str("session_id", sess.ID.String()).Msg("Create partial submission failed")
		return ErrSubmissionFailed
	}

	started := s.now()
	sess.SubmissionID = &subID
	sess.StartedAt = &started

	s.publish(ctx, ws.DashboardEvent{
		Event:        ws.EventSubmissionStarted,
		SubmissionID: subID.String(),
		Country:      sess.Metadata.Country,
		Device:       sess.Metadata.Device,
		OccurredAt:   started.Unix(),
	})
	return nil
}

// finalize validates the optional email step, normalizes every answer
// and writes the completed submission. Runs at most once per session.
func (s *SessionService) finalize(ctx context.Context, sess *model.SurveySession, q model.Question) error {
	email, _ := model.AsString(sess.Answers[q.ID])
	if !survey.ValidEmail(email) {
		return ErrInvalidEmail
	}
	if email != "" {
		consent, _ := sess.Answers[catalog.ConsentAnswerKey].(bool)
		if !consent {
			return ErrConsentRequired
		}
	}

	if sess.SubmissionID == nil {
		return ErrSubmissionFailed
	}

	sess.Answers = survey.NormalizeAnswers(sess.Answers)

	duration := 0
	if sess.StartedAt != nil {
		duration = int(s.now().Sub(*sess.StartedAt).Seconds())
	}

	if err := s.submissions.Finalize(ctx, *sess.SubmissionID, sess.Answers, duration); err != nil {
		s.log.Error().Err(err).Str("submission_id", sess.SubmissionID.String()).Msg("Finalize failed")
		return ErrSubmissionFailed
	}

	sess.Completed = true

	s.publish(ctx, ws.DashboardEvent{
		Event:        ws.EventSubmissionCompleted,
		SubmissionID: sess.SubmissionID.String(),
		Country:      sess.Metadata.Country,
		Device:       sess.Metadata.Device,
		OccurredAt:   s.now().Unix(),
	})
	return nil
}

// stepForward moves the cursor one position ahead in the visible
// sequence. A no-op at the end of the survey.
func (s *SessionService) stepForward(sess *model.SurveySession) {
	sequence := survey.VisibleSequence(catalog.Questions(), sess.Answers)
	pos := survey.IndexOf(sequence, sess.CurrentID)
	if pos >= 0 && pos < len(sequence)-1 {
		sess.CurrentID = sequence[pos+1].ID
	}
}

// persistBestEffort snapshots the answers onto the worker queue. Queue
// failures are logged and swallowed: navigation never blocks on them.
func (s *SessionService) persistBestEffort(ctx context.Context, sess *model.SurveySession) {
	if sess.SubmissionID == nil {
		return
	}

	payload := repository.PersistPayload{
		SubmissionID: sess.SubmissionID.String(),
		Answers:      sess.Answers.Clone(),
	}
	if err := s.queue.Enqueue(ctx, payload); err != nil {
		s.log.Warn().Err(err).Str("submission_id", payload.SubmissionID).Msg("Answer enqueue failed")
		return
	}

	s.publish(ctx, ws.DashboardEvent{
		Event:        ws.EventAnswerRecorded,
		SubmissionID: payload.SubmissionID,
		QuestionID:   sess.CurrentID,
		OccurredAt:   s.now().Unix(),
	})
}

func (s *SessionService) publish(ctx context.Context, event ws.DashboardEvent) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event", string(event.Event)).Msg("Event publish failed")
	}
}

func (s *SessionService) load(ctx context.Context, id string) (*model.SurveySession, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// stateOf assembles the client snapshot. An unanswered ranking question
// gets its default permutation materialized and persisted here.
func (s *SessionService) stateOf(ctx context.Context, sess *model.SurveySession) (*SessionState, error) {
	q, ok := questionByID(sess.CurrentID)
	if !ok {
		return nil, ErrNotCurrentQuestion
	}

	if q.Type == model.QuestionTypeRanking {
		if _, answered := model.AsStringSlice(sess.Answers[q.ID]); !answered {
			sess.Answers[q.ID] = survey.RandomRanking(q)
			if err := s.sessions.Save(ctx, sess); err != nil {
				return nil, fmt.Errorf("save session: %w", err)
			}
			s.persistBestEffort(ctx, sess)
		}
	}

	current, total := survey.Progress(catalog.Questions(), sess.CurrentID)
	sequence := survey.VisibleSequence(catalog.Questions(), sess.Answers)

	return &SessionState{
		SessionID: sess.ID,
		Question:  q,
		Answer:    sess.Answers[q.ID],
		Progress:  ProgressState{Current: current, Total: total},
		Completed: sess.Completed,
		CanGoBack: survey.IndexOf(sequence, sess.CurrentID) > 0,
	}, nil
}

func questionByID(id string) (model.Question, bool) {
	for _, q := range catalog.Questions() {
		if q.ID == id {
			return q, true
		}
	}
	return model.Question{}, false
}
