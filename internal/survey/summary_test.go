package survey

import (
	"testing"

	"github.com/canvasshq/canvass-backend/internal/model"
	"github.com/stretchr/testify/require"
)

func completed(answers model.AnswerMap, duration int) model.Submission {
	s := sub(answers)
	s.Status = model.SubmissionStatusCompleted
	if duration > 0 {
		s.DurationSeconds = &duration
	}
	return s
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	require.Equal(t, 0, s.TotalSubmissions)
	require.Equal(t, "0%", s.CompletionRate)
	require.Zero(t, s.AvgDurationSecs)
}

func TestSummarizeCompletionRate(t *testing.T) {
	subs := []model.Submission{
		sub(model.AnswerMap{}),
		sub(model.AnswerMap{}),
		completed(model.AnswerMap{}, 90),
	}
	s := Summarize(subs)
	require.Equal(t, 3, s.TotalSubmissions)
	require.Equal(t, 1, s.CompletedCount)
	require.Equal(t, "33.33%", s.CompletionRate)
	require.Equal(t, float64(90), s.AvgDurationSecs)
}

func TestSummarizeDurationIgnoresNonPositive(t *testing.T) {
	zero := 0
	subs := []model.Submission{
		completed(model.AnswerMap{}, 60),
		completed(model.AnswerMap{}, 120),
		{Status: model.SubmissionStatusCompleted, DurationSeconds: &zero},
		completed(model.AnswerMap{}, 0), // no duration recorded
	}
	s := Summarize(subs)
	require.Equal(t, float64(90), s.AvgDurationSecs)
}

func TestTallyOptionsCountsAndCustoms(t *testing.T) {
	q := model.Question{ID: "apps", Type: model.QuestionTypeCheckbox,
		Options: model.KeyedOptions(
			model.Choice{Key: "a", Label: "App A"},
			model.Choice{Key: "b", Label: "App B"},
			model.Choice{Key: "other", Label: "Other"},
		)}

	subs := []model.Submission{
		sub(model.AnswerMap{"apps": []string{"a"}}),
		sub(model.AnswerMap{"apps": []string{"a", "b"}}),
		sub(model.AnswerMap{"apps": []string{"cool app"}}),
		sub(model.AnswerMap{"apps": []string{"cool app", "a"}}),
		sub(model.AnswerMap{"apps": []string{model.Placeholder}}), // never counted
		sub(model.AnswerMap{}),
	}

	tally := TallyOptions(q, subs)
	require.Equal(t, 4, tally.Respondents)

	byKey := map[string]OptionCount{}
	for _, o := range tally.Options {
		byKey[o.Key] = o
	}
	require.Equal(t, 3, byKey["a"].Count)
	require.Equal(t, 1, byKey["b"].Count)
	// "other" credited once per submission with custom text.
	require.Equal(t, 2, byKey["other"].Count)

	require.Len(t, tally.CustomAnswers, 1)
	require.Equal(t, "cool app", tally.CustomAnswers[0].Text)
	require.Equal(t, 2, tally.CustomAnswers[0].Count)
}

func TestTallyOptionsRadioScalar(t *testing.T) {
	q := model.Question{ID: "paid", Type: model.QuestionTypeRadio,
		Options: model.KeyedOptions(
			model.Choice{Key: "yes", Label: "Yes"},
			model.Choice{Key: "no", Label: "No"},
		)}
	subs := []model.Submission{
		sub(model.AnswerMap{"paid": "yes"}),
		sub(model.AnswerMap{"paid": "yes"}),
		sub(model.AnswerMap{"paid": "no"}),
	}
	tally := TallyOptions(q, subs)
	require.Equal(t, 3, tally.Respondents)
	require.Equal(t, 2, tally.Options[0].Count)
	require.Equal(t, 1, tally.Options[1].Count)
	require.InDelta(t, 66.66, tally.Options[0].Percentage, 0.01)
}

func TestAggregateMetadata(t *testing.T) {
	withMeta := func(m model.SubmissionMetadata) model.Submission {
		s := sub(model.AnswerMap{})
		s.Metadata = m
		return s
	}
	subs := []model.Submission{
		withMeta(model.SubmissionMetadata{Device: "Mobile", Browser: "Chrome"}),
		withMeta(model.SubmissionMetadata{Device: "Mobile", Browser: "Firefox"}),
		withMeta(model.SubmissionMetadata{Device: "Desktop"}),
		withMeta(model.SubmissionMetadata{}),
	}

	agg := AggregateMetadata(subs)
	devices := agg["device"]
	require.Len(t, devices, 2)
	require.Equal(t, "Mobile", devices[0].Name)
	require.Equal(t, 2, devices[0].Count)
	require.Equal(t, float64(50), devices[0].Percentage)
	require.Equal(t, "Desktop", devices[1].Name)

	require.Len(t, agg["browser"], 2)
	require.Empty(t, agg["country"])
}

func TestFormatAnswer(t *testing.T) {
	radio := model.Question{ID: "paid", Type: model.QuestionTypeRadio,
		Options: model.KeyedOptions(
			model.Choice{Key: "yes", Label: "Yes"},
			model.Choice{Key: "other", Label: "Other"},
		)}
	require.Equal(t, "Yes", FormatAnswer(radio, "yes"))
	require.Equal(t, "Other (my reason)", FormatAnswer(radio, "my reason"))
	require.Equal(t, "Other", FormatAnswer(radio, " "))
	require.Equal(t, "", FormatAnswer(radio, nil))

	ranking := model.Question{ID: "r", Type: model.QuestionTypeRanking,
		Options: model.KeyedOptions(
			model.Choice{Key: "a", Label: "Alpha"},
			model.Choice{Key: "b", Label: "Beta"},
		)}
	require.Equal(t, "1. Beta; 2. Alpha", FormatAnswer(ranking, []string{"b", "a"}))

	free := model.Question{ID: "t", Type: model.QuestionTypeTextarea}
	require.Equal(t, "hello", FormatAnswer(free, "hello"))
	require.Equal(t, "33", FormatAnswer(free, float64(33)))
	require.Equal(t, "yes", FormatAnswer(free, true))
}
