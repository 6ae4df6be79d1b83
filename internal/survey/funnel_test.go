package survey

import (
	"fmt"
	"testing"

	"github.com/canvasshq/canvass-backend/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func sub(answers model.AnswerMap) model.Submission {
	return model.Submission{ID: uuid.New(), Status: model.SubmissionStatusPartial, Answers: answers}
}

func TestComputeFunnelEligibilityCarryForward(t *testing.T) {
	qs := testQuestions()

	// 10 submissions: 2 never answer "paid"; of the 8 who do, 6 say yes
	// and 2 say no; of the 6 eligible for "paidReason", 5 answer it.
	var subs []model.Submission
	for i := 0; i < 2; i++ {
		subs = append(subs, sub(model.AnswerMap{}))
	}
	for i := 0; i < 2; i++ {
		subs = append(subs, sub(model.AnswerMap{"paid": "no", "final": "meh"}))
	}
	for i := 0; i < 5; i++ {
		subs = append(subs, sub(model.AnswerMap{"paid": "yes", "paidReason": "a", "final": "ok"}))
	}
	subs = append(subs, sub(model.AnswerMap{"paid": "yes"}))

	steps := ComputeFunnel(qs, subs)
	require.Len(t, steps, 3) // bookends excluded

	require.Equal(t, "paid", steps[0].QuestionID)
	require.Equal(t, 10, steps[0].Reached)
	require.Equal(t, 8, steps[0].Answered)
	require.Equal(t, 2, steps[0].DropOff)

	// The 2 who never answered "paid" and the 2 who said "no" are not
	// eligible for "paidReason": reached is 6, not 8 or 10.
	require.Equal(t, "paidReason", steps[1].QuestionID)
	require.Equal(t, 6, steps[1].Reached)
	require.Equal(t, 5, steps[1].Answered)
	require.Equal(t, 1, steps[1].DropOff)

	// "no" respondents skipped "paidReason" via branching and are still
	// tracked downstream; the one silent "yes" respondent is gone.
	require.Equal(t, "final", steps[2].QuestionID)
	require.Equal(t, 7, steps[2].Reached)
	require.Equal(t, 7, steps[2].Answered)
	require.Equal(t, 0, steps[2].DropOff)
}

func TestComputeFunnelEmptyInput(t *testing.T) {
	steps := ComputeFunnel(testQuestions(), nil)
	require.Len(t, steps, 3)
	for _, s := range steps {
		require.Zero(t, s.Reached)
		require.Zero(t, s.Answered)
		require.Zero(t, s.DropOff)
	}
}

func TestHasAnswer(t *testing.T) {
	answers := model.AnswerMap{
		"blank":       "  ",
		"placeholder": model.Placeholder,
		"empty_seq":   []string{},
		"ph_seq":      []string{model.Placeholder},
		"real":        "yes",
		"seq":         []string{"a"},
		"num":         float64(3),
		"null":        nil,
	}

	for id, want := range map[string]bool{
		"blank": false, "placeholder": false, "empty_seq": false,
		"ph_seq": false, "real": true, "seq": true, "num": true,
		"null": false, "missing": false,
	} {
		require.Equal(t, want, HasAnswer(answers, id), fmt.Sprintf("key %q", id))
	}
}
