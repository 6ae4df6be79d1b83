package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/canvasshq/canvass-backend/internal/cache"
	"github.com/canvasshq/canvass-backend/internal/catalog"
	"github.com/canvasshq/canvass-backend/internal/model"
	"github.com/canvasshq/canvass-backend/internal/survey"
)

// Cache keys for the dashboard aggregates.
const (
	cacheKeySummary   = "analytics:summary"
	cacheKeyFunnel    = "analytics:funnel"
	cacheKeyTallies   = "analytics:tallies"
	cacheKeyBreakdown = "analytics:breakdown"
)

// SubmissionReader is the read side of the submission store used by
// analytics.
type SubmissionReader interface {
	ListAll(ctx context.Context) ([]model.Submission, error)
	ListPage(ctx context.Context, page, perPage int) ([]model.Submission, int64, error)
}

// AnalyticsService computes the dashboard aggregates over the full
// submission table. Results are cached with a short TTL so dashboard
// refreshes stay cheap; the cache is invalidated when a submission
// finalizes.
type AnalyticsService struct {
	submissions SubmissionReader
	cache       *cache.TTLCache
	log         zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(submissions SubmissionReader, c *cache.TTLCache, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		submissions: submissions,
		cache:       c,
		log:         log.With().Str("component", "analytics_service").Logger(),
	}
}

// Invalidate drops every cached aggregate. Called when new data lands.
func (s *AnalyticsService) Invalidate() {
	s.cache.InvalidateAll()
}

// Summary returns the KPI block.
func (s *AnalyticsService) Summary(ctx context.Context) (survey.Summary, error) {
	if v, ok := s.cache.Get(cacheKeySummary); ok {
		return v.(survey.Summary), nil
	}

	submissions, err := s.submissions.ListAll(ctx)
	if err != nil {
		return survey.Summary{}, fmt.Errorf("list submissions: %w", err)
	}

	summary := survey.Summarize(submissions)
	s.cache.Set(cacheKeySummary, summary)
	return summary, nil
}

// Funnel returns the per-question drop-off report.
func (s *AnalyticsService) Funnel(ctx context.Context) ([]survey.FunnelStep, error) {
	if v, ok := s.cache.Get(cacheKeyFunnel); ok {
		return v.([]survey.FunnelStep), nil
	}

	submissions, err := s.submissions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	steps := survey.ComputeFunnel(catalog.Questions(), submissions)
	s.cache.Set(cacheKeyFunnel, steps)
	return steps, nil
}

// Tallies returns the option breakdown for every keyed question.
func (s *AnalyticsService) Tallies(ctx context.Context) ([]survey.Tally, error) {
	if v, ok := s.cache.Get(cacheKeyTallies); ok {
		return v.([]survey.Tally), nil
	}

	submissions, err := s.submissions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	var tallies []survey.Tally
	for _, q := range catalog.Questions() {
		if q.Options.Kind != model.OptionsKeyed {
			continue
		}
		tallies = append(tallies, survey.TallyOptions(q, submissions))
	}
	s.cache.Set(cacheKeyTallies, tallies)
	return tallies, nil
}

// MetadataBreakdown returns the source/device/geo buckets.
func (s *AnalyticsService) MetadataBreakdown(ctx context.Context) (map[string][]survey.MetadataBucket, error) {
	if v, ok := s.cache.Get(cacheKeyBreakdown); ok {
		return v.(map[string][]survey.MetadataBucket), nil
	}

	submissions, err := s.submissions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	breakdown := survey.AggregateMetadata(submissions)
	s.cache.Set(cacheKeyBreakdown, breakdown)
	return breakdown, nil
}

// Submissions returns one page of raw submissions for the dashboard
// table. Not cached: the table is paginated and changes constantly.
func (s *AnalyticsService) Submissions(ctx context.Context, page, perPage int) ([]model.Submission, int64, error) {
	return s.submissions.ListPage(ctx, page, perPage)
}

// ExportCSV renders every completed submission as CSV. The header row
// carries the question texts; answers are rendered with their labels.
// A UTF-8 BOM is prepended so spreadsheet tools detect the encoding.
func (s *AnalyticsService) ExportCSV(ctx context.Context) ([]byte, error) {
	submissions, err := s.submissions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	questions := make([]model.Question, 0)
	for _, q := range catalog.Questions() {
		if q.Type == model.QuestionTypeWelcome || q.Type == model.QuestionTypeThankYou {
			continue
		}
		questions = append(questions, q)
	}

	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})
	w := csv.NewWriter(&buf)

	header := []string{"submitted_at", "duration_seconds"}
	for _, q := range questions {
		header = append(header, q.Text)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, sub := range submissions {
		if sub.Status != model.SubmissionStatusCompleted {
			continue
		}

		duration := ""
		if sub.DurationSeconds != nil {
			duration = fmt.Sprintf("%d", *sub.DurationSeconds)
		}

		row := []string{sub.CreatedAt.UTC().Format("2006-01-02 15:04:05"), duration}
		for _, q := range questions {
			row = append(row, survey.FormatAnswer(q, sub.Answers[q.ID]))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
