package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/canvasshq/canvass-backend/internal/catalog"
	"github.com/canvasshq/canvass-backend/internal/model"
	"github.com/canvasshq/canvass-backend/internal/repository"
	"github.com/canvasshq/canvass-backend/internal/survey"
	ws "github.com/canvasshq/canvass-backend/internal/websocket"
)

// ─── Fakes ──────────────────────────────────────────────────────────

type fakeSubmissions struct {
	createErr   error
	finalizeErr error

	created   int
	finalized int
	lastID    uuid.UUID
	answers   model.AnswerMap
	duration  int
}

func (f *fakeSubmissions) CreatePartial(_ context.Context, _ model.AnswerMap, _ model.SubmissionMetadata) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	f.created++
	f.lastID = uuid.New()
	return f.lastID, nil
}

func (f *fakeSubmissions) Finalize(_ context.Context, id uuid.UUID, answers model.AnswerMap, duration int) error {
	if f.finalizeErr != nil {
		return f.finalizeErr
	}
	f.finalized++
	f.lastID = id
	f.answers = answers
	f.duration = duration
	return nil
}

type fakeSessions struct {
	store map[string]*model.SurveySession
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{store: make(map[string]*model.SurveySession)}
}

func (f *fakeSessions) Get(_ context.Context, id string) (*model.SurveySession, error) {
	sess, ok := f.store[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	clone := *sess
	clone.Answers = sess.Answers.Clone()
	return &clone, nil
}

func (f *fakeSessions) Save(_ context.Context, sess *model.SurveySession) error {
	clone := *sess
	clone.Answers = sess.Answers.Clone()
	f.store[sess.ID.String()] = &clone
	return nil
}

type fakeQueue struct {
	payloads []repository.PersistPayload
	err      error
}

func (f *fakeQueue) Enqueue(_ context.Context, p repository.PersistPayload) error {
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, p)
	return nil
}

type fakeEvents struct {
	events []ws.DashboardEvent
}

func (f *fakeEvents) Publish(_ context.Context, e ws.DashboardEvent) error {
	f.events = append(f.events, e)
	return nil
}

type flowFixture struct {
	svc         *SessionService
	submissions *fakeSubmissions
	sessions    *fakeSessions
	queue       *fakeQueue
	events      *fakeEvents
}

func newFlowFixture() *flowFixture {
	f := &flowFixture{
		submissions: &fakeSubmissions{},
		sessions:    newFakeSessions(),
		queue:       &fakeQueue{},
		events:      &fakeEvents{},
	}
	f.svc = NewSessionService(f.submissions, f.sessions, f.queue, f.events, zerolog.Nop())
	return f
}

// answerAndAdvance sets a valid answer on the current question and moves on.
func answerAndAdvance(t *testing.T, f *flowFixture, id string, questionID string, value any) *SessionState {
	t.Helper()
	_, err := f.svc.SetAnswer(context.Background(), id, model.AnswerRequest{QuestionID: questionID, Value: value})
	require.NoError(t, err)
	state, err := f.svc.Advance(context.Background(), id)
	require.NoError(t, err)
	return state
}

// ─── Tests ──────────────────────────────────────────────────────────

func TestStartPositionsAtWelcome(t *testing.T) {
	f := newFlowFixture()

	state, err := f.svc.Start(context.Background(), model.SubmissionMetadata{Source: "direct"})
	require.NoError(t, err)
	require.Equal(t, "welcome", state.Question.ID)
	require.Equal(t, 0, state.Progress.Current)
	require.False(t, state.CanGoBack)
	require.Zero(t, f.submissions.created)
}

func TestAdvanceFromWelcomeCreatesPartialSubmission(t *testing.T) {
	f := newFlowFixture()
	start, err := f.svc.Start(context.Background(), model.SubmissionMetadata{})
	require.NoError(t, err)

	state, err := f.svc.Advance(context.Background(), start.SessionID.String())
	require.NoError(t, err)
	require.Equal(t, "age", state.Question.ID)
	require.Equal(t, 1, f.submissions.created)

	sess := f.sessions.store[start.SessionID.String()]
	require.NotNil(t, sess.SubmissionID)
	require.NotNil(t, sess.StartedAt)

	require.Len(t, f.events.events, 1)
	require.Equal(t, ws.EventSubmissionStarted, f.events.events[0].Event)
}

func TestAdvanceFromWelcomeFailureKeepsPosition(t *testing.T) {
	f := newFlowFixture()
	start, err := f.svc.Start(context.Background(), model.SubmissionMetadata{})
	require.NoError(t, err)

	f.submissions.createErr = errors.New("db down")
	_, err = f.svc.Advance(context.Background(), start.SessionID.String())
	require.ErrorIs(t, err, ErrSubmissionFailed)

	// Retry after the outage succeeds from the same position.
	f.submissions.createErr = nil
	state, err := f.svc.Advance(context.Background(), start.SessionID.String())
	require.NoError(t, err)
	require.Equal(t, "age", state.Question.ID)
}

func TestAdvanceRequiresValidAnswer(t *testing.T) {
	f := newFlowFixture()
	start, err := f.svc.Start(context.Background(), model.SubmissionMetadata{})
	require.NoError(t, err)
	id := start.SessionID.String()

	_, err = f.svc.Advance(context.Background(), id)
	require.NoError(t, err)

	// No answer on the required age question.
	_, err = f.svc.Advance(context.Background(), id)
	require.ErrorIs(t, err, ErrAnswerRequired)

	state := answerAndAdvance(t, f, id, "age", "25_34")
	require.Equal(t, "gender", state.Question.ID)
}

func TestSetAnswerRejectsNonCurrentQuestion(t *testing.T) {
	f := newFlowFixture()
	start, err := f.svc.Start(context.Background(), model.SubmissionMetadata{})
	require.NoError(t, err)

	_, err = f.svc.SetAnswer(context.Background(), start.SessionID.String(), model.AnswerRequest{
		QuestionID: "age", Value: "25_34",
	})
	require.ErrorIs(t, err, ErrNotCurrentQuestion)
}

func TestSetAnswerCoercesCheckboxToSequence(t *testing.T) {
	f := newFlowFixture()
	start, err := f.svc.Start(context.Background(), model.SubmissionMetadata{})
	require.NoError(t, err)
	id := start.SessionID.String()

	_, err = f.svc.Advance(context.Background(), id)
	require.NoError(t, err)
	answerAndAdvance(t, f, id, "age", "25_34")
	answerAndAdvance(t, f, id, "gender", "female")
	answerAndAdvance(t, f, id, "city", "Milano")

	// Single string on a checkbox question becomes a one-element slice.
	_, err = f.svc.SetAnswer(context.Background(), id, model.AnswerRequest{QuestionID: "apps", Value: "moovit"})
	require.NoError(t, err)

	sess := f.sessions.store[id]
	require.Equal(t, []string{"moovit"}, sess.Answers["apps"])
}

func TestConditionalQuestionSkippedWhenNotEligible(t *testing.T) {
	f := newFlowFixture()
	start, err := f.svc.Start(context.Background(), model.SubmissionMetadata{})
	require.NoError(t, err)
	id := start.SessionID.String()

	_, err = f.svc.Advance(context.Background(), id)
	require.NoError(t, err)
	answerAndAdvance(t, f, id, "age", "25_34")
	answerAndAdvance(t, f, id, "gender", "female")
	answerAndAdvance(t, f, id, "city", "Milano")
	answerAndAdvance(t, f, id, "apps", []string{"moovit"})

	// paid = no skips paidReason and lands on the ranking question.
	state := answerAndAdvance(t, f, id, "paid", "no")
	require.Equal(t, "frustrations", state.Question.ID)
}

func TestConditionalQuestionShownWhenEligible(t *testing.T) {
	f := newFlowFixture()
	start, err := f.svc.Start(context.Background(), model.SubmissionMetadata{})
	require.NoError(t, err)
	id := start.SessionID.String()

	_, err = f.svc.Advance(context.Background(), id)
	require.NoError(t, err)
	answerAndAdvance(t, f, id, "age", "25_34")
	answerAndAdvance(t, f, id, "gender", "female")
	answerAndAdvance(t, f, id, "city", "Milano")
	answerAndAdvance(t, f, id, "apps", []string{"moovit"})

	state := answerAndAdvance(t, f, id, "paid", "yes")
	require.Equal(t, "paidReason", state.Question.ID)
}

func TestRankingDefaultMaterializedOnFirstShow(t *testing.T) {
	f := newFlowFixture()
	start, err := f.svc.Start(context.Background(), model.SubmissionMetadata{})
	require.NoError(t, err)
	id := start.SessionID.String()

	_, err = f.svc.Advance(context.Background(), id)
	require.NoError(t, err)
	answerAndAdvance(t, f, id, "age", "25_34")
	answerAndAdvance(t, f, id, "gender", "female")
	answerAndAdvance(t, f, id, "city", "Milano")
	answerAndAdvance(t, f, id, "apps", []string{"moovit"})
	state := answerAndAdvance(t, f, id, "paid", "no")
	require.Equal(t, "frustrations", state.Question.ID)

	// The default permutation was stored, so the respondent can advance
	// without touching the list.
	seq, ok := model.AsStringSlice(state.Answer)
	require.True(t, ok)
	require.ElementsMatch(t, []string{"delays", "crowding", "info", "price"}, seq)

	next, err := f.svc.Advance(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "changeOneThing", next.Question.ID)
}

func TestMoveRankingItem(t *testing.T) {
	f := newFlowFixture()
	start, err := f.svc.Start(context.Background(), model.SubmissionMetadata{})
	require.NoError(t, err)
	id := start.SessionID.String()

	_, err = f.svc.Advance(context.Background(), id)
	require.NoError(t, err)
	answerAndAdvance(t, f, id, "age", "25_34")
	answerAndAdvance(t, f, id, "gender", "female")
	answerAndAdvance(t, f, id, "city", "Milano")
	answerAndAdvance(t, f, id, "apps", []string{"moovit"})
	state := answerAndAdvance(t, f, id, "paid", "no")

	before, ok := model.AsStringSlice(state.Answer)
	require.True(t, ok)

	from, to := 0, 3
	moved, err := f.svc.MoveRankingItem(context.Background(), id, model.MoveRequest{
		QuestionID: "frustrations", From: &from, To: &to,
	})
	require.NoError(t, err)

	after, ok := model.AsStringSlice(moved.Answer)
	require.True(t, ok)
	require.Equal(t, before[0], after[3])
	require.ElementsMatch(t, before, after)
}

func TestMoveRejectsNonRankingQuestion(t *testing.T) {
	f := newFlowFixture()
	start, err := f.svc.Start(context.Background(), model.SubmissionMetadata{})
	require.NoError(t, err)
	id := start.SessionID.String()

	_, err = f.svc.Advance(context.Background(), id)
	require.NoError(t, err)

	from, to := 0, 1
	_, err = f.svc.MoveRankingItem(context.Background(), id, model.MoveRequest{
		QuestionID: "age", From: &from, To: &to,
	})
	require.ErrorIs(t, err, ErrNotRankingQuestion)
}

func TestSetAnswerRejectsNonPermutationRanking(t *testing.T) {
	f := newFlowFixture()
	start, err := f.svc.Start(context.Background(), model.SubmissionMetadata{})
	require.NoError(t, err)
	id := start.SessionID.String()

	_, err = f.svc.Advance(context.Background(), id)
	require.NoError(t, err)
	answerAndAdvance(t, f, id, "age", "25_34")
	answerAndAdvance(t, f, id, "gender", "female")
	answerAndAdvance(t, f, id, "city", "Milano")
	answerAndAdvance(t, f, id, "apps", []string{"moovit"})
	state := answerAndAdvance(t, f, id, "paid", "no")
	require.Equal(t, "frustrations", state.Question.ID)

	for _, bad := range [][]string{
		{"delays", "delays", "delays", "delays"},
		{"delays", "crowding", "info"},
		{"delays", "crowding", "info", "bicycles"},
	} {
		_, err = f.svc.SetAnswer(context.Background(), id, model.AnswerRequest{
			QuestionID: "frustrations", Value: bad,
		})
		require.ErrorIs(t, err, ErrInvalidRanking)
	}

	// An explicit full permutation is accepted.
	_, err = f.svc.SetAnswer(context.Background(), id, model.AnswerRequest{
		QuestionID: "frustrations", Value: []string{"price", "info", "crowding", "delays"},
	})
	require.NoError(t, err)
}

func TestAdvanceRejectsCorruptRankingAnswer(t *testing.T) {
	f := newFlowFixture()
	start, err := f.svc.Start(context.Background(), model.SubmissionMetadata{})
	require.NoError(t, err)
	id := start.SessionID.String()

	_, err = f.svc.Advance(context.Background(), id)
	require.NoError(t, err)
	answerAndAdvance(t, f, id, "age", "25_34")
	answerAndAdvance(t, f, id, "gender", "female")
	answerAndAdvance(t, f, id, "city", "Milano")
	answerAndAdvance(t, f, id, "apps", []string{"moovit"})
	answerAndAdvance(t, f, id, "paid", "no")

	// A non-permutation that slipped into the stored state (stale
	// client, older write) must not make it past the validity gate.
	sess := f.sessions.store[id]
	sess.Answers["frustrations"] = []string{"delays", "delays", "delays", "delays"}

	_, err = f.svc.Advance(context.Background(), id)
	require.ErrorIs(t, err, ErrAnswerRequired)
}

func TestRetreatStepsBackAndNeverBlocks(t *testing.T) {
	f := newFlowFixture()
	start, err := f.svc.Start(context.Background(), model.SubmissionMetadata{})
	require.NoError(t, err)
	id := start.SessionID.String()

	_, err = f.svc.Advance(context.Background(), id)
	require.NoError(t, err)
	answerAndAdvance(t, f, id, "age", "25_34")

	// Queue failure must not prevent going back.
	f.queue.err = errors.New("redis down")
	state, err := f.svc.Retreat(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "age", state.Question.ID)

	// Retreating from the first answerable question stays put.
	state, err = f.svc.Retreat(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "welcome", state.Question.ID)
	state, err = f.svc.Retreat(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "welcome", state.Question.ID)
}

func completeSurveyToEmail(t *testing.T, f *flowFixture) string {
	t.Helper()
	start, err := f.svc.Start(context.Background(), model.SubmissionMetadata{})
	require.NoError(t, err)
	id := start.SessionID.String()

	_, err = f.svc.Advance(context.Background(), id)
	require.NoError(t, err)
	answerAndAdvance(t, f, id, "age", "25_34")
	answerAndAdvance(t, f, id, "gender", "female")
	answerAndAdvance(t, f, id, "city", "Milano")
	answerAndAdvance(t, f, id, "apps", []string{"moovit"})
	answerAndAdvance(t, f, id, "paid", "no")
	_, err = f.svc.Advance(context.Background(), id) // ranking default is valid
	require.NoError(t, err)
	answerAndAdvance(t, f, id, "changeOneThing", "Fewer delays")
	state := answerAndAdvance(t, f, id, "businessModel", "free_ads")
	require.Equal(t, "collectEmail", state.Question.ID)
	return id
}

func TestFinalizeWithoutEmail(t *testing.T) {
	f := newFlowFixture()
	id := completeSurveyToEmail(t, f)

	state, err := f.svc.Advance(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "thankyou", state.Question.ID)
	require.True(t, state.Completed)
	require.Equal(t, 1, f.submissions.finalized)
	require.GreaterOrEqual(t, f.submissions.duration, 0)

	last := f.events.events[len(f.events.events)-1]
	require.Equal(t, ws.EventSubmissionCompleted, last.Event)
}

func TestFinalizeRejectsMalformedEmail(t *testing.T) {
	f := newFlowFixture()
	id := completeSurveyToEmail(t, f)

	_, err := f.svc.SetAnswer(context.Background(), id, model.AnswerRequest{
		QuestionID: "collectEmail", Value: "not-an-email",
	})
	require.NoError(t, err)

	_, err = f.svc.Advance(context.Background(), id)
	require.ErrorIs(t, err, ErrInvalidEmail)
	require.Zero(t, f.submissions.finalized)
}

func TestFinalizeRequiresConsentWithEmail(t *testing.T) {
	f := newFlowFixture()
	id := completeSurveyToEmail(t, f)

	_, err := f.svc.SetAnswer(context.Background(), id, model.AnswerRequest{
		QuestionID: "collectEmail", Value: "rider@example.com",
	})
	require.NoError(t, err)

	_, err = f.svc.Advance(context.Background(), id)
	require.ErrorIs(t, err, ErrConsentRequired)

	// Ticking the consent box goes through SetAnswer like any other
	// input and unlocks finalize.
	_, err = f.svc.SetAnswer(context.Background(), id, model.AnswerRequest{
		QuestionID: catalog.ConsentAnswerKey, Value: true,
	})
	require.NoError(t, err)

	state, err := f.svc.Advance(context.Background(), id)
	require.NoError(t, err)
	require.True(t, state.Completed)
	require.Equal(t, 1, f.submissions.finalized)
}

func TestConsentWritableOnlyOnEmailStep(t *testing.T) {
	f := newFlowFixture()
	start, err := f.svc.Start(context.Background(), model.SubmissionMetadata{})
	require.NoError(t, err)
	id := start.SessionID.String()

	_, err = f.svc.SetAnswer(context.Background(), id, model.AnswerRequest{
		QuestionID: catalog.ConsentAnswerKey, Value: true,
	})
	require.ErrorIs(t, err, ErrNotCurrentQuestion)
}

func TestFinalizeNormalizesPlaceholders(t *testing.T) {
	f := newFlowFixture()
	id := completeSurveyToEmail(t, f)

	// Simulate an "other" pick whose custom text was cleared: the
	// placeholder keeps the pick alive mid-survey but must not survive
	// finalize.
	sess := f.sessions.store[id]
	sess.Answers["apps"] = []string{"moovit", model.Placeholder}

	_, err := f.svc.Advance(context.Background(), id)
	require.NoError(t, err)

	require.Equal(t, []string{"moovit", ""}, f.submissions.answers["apps"])
}

func TestFinalizeRunsAtMostOnce(t *testing.T) {
	f := newFlowFixture()
	id := completeSurveyToEmail(t, f)

	_, err := f.svc.Advance(context.Background(), id)
	require.NoError(t, err)

	_, err = f.svc.Advance(context.Background(), id)
	require.ErrorIs(t, err, ErrSessionCompleted)
	require.Equal(t, 1, f.submissions.finalized)
}

func TestFinalizeDurationIsWholeSeconds(t *testing.T) {
	f := newFlowFixture()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	id := completeSurveyToEmail(t, f)

	now = now.Add(95*time.Second + 700*time.Millisecond)
	_, err := f.svc.Advance(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 95, f.submissions.duration)
}

func TestProgressUsesFixedDenominator(t *testing.T) {
	f := newFlowFixture()
	start, err := f.svc.Start(context.Background(), model.SubmissionMetadata{})
	require.NoError(t, err)
	id := start.SessionID.String()

	_, err = f.svc.Advance(context.Background(), id)
	require.NoError(t, err)
	answerAndAdvance(t, f, id, "age", "25_34")
	answerAndAdvance(t, f, id, "gender", "female")
	answerAndAdvance(t, f, id, "city", "Milano")
	answerAndAdvance(t, f, id, "apps", []string{"moovit"})

	// Denominator includes the conditional paidReason regardless of the
	// branch taken.
	questions := catalog.Questions()
	answerable := 0
	for _, q := range questions {
		if !q.IsBookend() {
			answerable++
		}
	}

	state := answerAndAdvance(t, f, id, "paid", "no")
	require.Equal(t, answerable, state.Progress.Total)
	require.Equal(t, survey.IndexOf(questions, "frustrations")-1, state.Progress.Current)
}

func TestStateUnknownSession(t *testing.T) {
	f := newFlowFixture()
	_, err := f.svc.State(context.Background(), uuid.New().String())
	require.ErrorIs(t, err, ErrSessionNotFound)
}
