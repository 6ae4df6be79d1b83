package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/canvasshq/canvass-backend/internal/cache"
	"github.com/canvasshq/canvass-backend/internal/model"
)

type fakeReader struct {
	submissions []model.Submission
	calls       int
	err         error
}

func (f *fakeReader) ListAll(context.Context) ([]model.Submission, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.submissions, nil
}

func (f *fakeReader) ListPage(_ context.Context, page, perPage int) ([]model.Submission, int64, error) {
	return f.submissions, int64(len(f.submissions)), nil
}

func intPtr(v int) *int { return &v }

func completedSubmission(answers model.AnswerMap, duration int) model.Submission {
	return model.Submission{
		ID:              uuid.New(),
		CreatedAt:       time.Date(2026, 2, 10, 14, 30, 0, 0, time.UTC),
		Status:          model.SubmissionStatusCompleted,
		Answers:         answers,
		DurationSeconds: intPtr(duration),
	}
}

func newAnalyticsFixture(reader *fakeReader) *AnalyticsService {
	return NewAnalyticsService(reader, cache.New(time.Minute), zerolog.Nop())
}

func TestSummaryIsCached(t *testing.T) {
	reader := &fakeReader{submissions: []model.Submission{
		completedSubmission(model.AnswerMap{"age": "25_34"}, 120),
		{ID: uuid.New(), Status: model.SubmissionStatusPartial, Answers: model.AnswerMap{}},
	}}
	svc := newAnalyticsFixture(reader)

	first, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, first.TotalSubmissions)
	require.Equal(t, "50.00%", first.CompletionRate)

	_, err = svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, reader.calls)
}

func TestInvalidateForcesRecompute(t *testing.T) {
	reader := &fakeReader{}
	svc := newAnalyticsFixture(reader)

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)

	svc.Invalidate()
	_, err = svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, reader.calls)
}

func TestSummaryPropagatesStoreError(t *testing.T) {
	reader := &fakeReader{err: errors.New("db down")}
	svc := newAnalyticsFixture(reader)

	_, err := svc.Summary(context.Background())
	require.Error(t, err)
}

func TestFunnelOverCatalog(t *testing.T) {
	reader := &fakeReader{submissions: []model.Submission{
		completedSubmission(model.AnswerMap{
			"age": "25_34", "gender": "female", "city": "Milano",
			"apps": []string{"moovit"}, "paid": "no",
			"frustrations":   []string{"delays", "crowding", "info", "price"},
			"changeOneThing": "Fewer delays", "businessModel": "free_ads",
		}, 100),
		{ID: uuid.New(), Status: model.SubmissionStatusPartial, Answers: model.AnswerMap{"age": "18_24"}},
	}}
	svc := newAnalyticsFixture(reader)

	steps, err := svc.Funnel(context.Background())
	require.NoError(t, err)

	byID := make(map[string]int)
	for i, step := range steps {
		byID[step.QuestionID] = i
	}

	age := steps[byID["age"]]
	require.Equal(t, 2, age.Reached)
	require.Equal(t, 2, age.Answered)

	// Non-eligible submissions carry forward past the conditional step.
	paidReason := steps[byID["paidReason"]]
	require.Equal(t, 0, paidReason.Answered)
}

func TestTalliesCoverKeyedQuestionsOnly(t *testing.T) {
	reader := &fakeReader{submissions: []model.Submission{
		completedSubmission(model.AnswerMap{"age": "25_34", "apps": []string{"moovit", "custom app"}}, 60),
	}}
	svc := newAnalyticsFixture(reader)

	tallies, err := svc.Tallies(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(tallies))
	for _, tally := range tallies {
		ids = append(ids, tally.QuestionID)
	}
	require.Contains(t, ids, "age")
	require.Contains(t, ids, "apps")
	require.NotContains(t, ids, "city")           // list options, not keyed
	require.NotContains(t, ids, "changeOneThing") // free text
}

func TestExportCSV(t *testing.T) {
	reader := &fakeReader{submissions: []model.Submission{
		completedSubmission(model.AnswerMap{
			"age":  "25_34",
			"apps": []string{"moovit", "commute buddy"},
			"frustrations": []string{
				"crowding", "delays", "info", "price",
			},
		}, 185),
		{ID: uuid.New(), Status: model.SubmissionStatusPartial, Answers: model.AnswerMap{"age": "18_24"}},
	}}
	svc := newAnalyticsFixture(reader)

	data, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)

	text := string(data)
	require.True(t, strings.HasPrefix(text, "\xEF\xBB\xBF"))

	lines := strings.Split(strings.TrimSpace(text), "\n")
	// Header plus the single completed submission; partials are excluded.
	require.Len(t, lines, 2)

	require.Contains(t, lines[0], "How old are you?")
	require.Contains(t, lines[1], "25–34")
	require.Contains(t, lines[1], "Other (commute buddy)")
	require.Contains(t, lines[1], "1. Overcrowding; 2. Delays and cancellations")
	require.Contains(t, lines[1], "185")
}
