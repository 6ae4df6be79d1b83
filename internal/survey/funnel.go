package survey

import (
	"strings"

	"github.com/canvasshq/canvass-backend/internal/model"
)

// FunnelStep is one row of the drop-off report.
type FunnelStep struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Reached    int    `json:"reached"`
	Answered   int    `json:"answered"`
	DropOff    int    `json:"drop_off"`
}

// ComputeFunnel walks the answerable questions in catalog order and
// reports, per question, how many submissions were eligible to see it
// and how many answered it.
//
// Eligibility is re-evaluated per submission against its own answers,
// so `reached` means "was actually shown this question", not "was in
// the survey at all". The active cohort for the next step is the union
// of submissions that were not eligible (they skipped the question via
// branching and stay tracked downstream) and those that were eligible
// and answered; eligible-but-silent submissions are the drop-off and
// never reappear in later denominators.
func ComputeFunnel(questions []model.Question, submissions []model.Submission) []FunnelStep {
	steps := make([]FunnelStep, 0, len(questions))
	active := submissions

	for _, q := range questions {
		if q.IsBookend() {
			continue
		}

		var skipped, answered []model.Submission
		eligibleCount := 0
		for _, sub := range active {
			if q.Condition != nil && !q.Condition.Matches(sub.Answers) {
				skipped = append(skipped, sub)
				continue
			}
			eligibleCount++
			if HasAnswer(sub.Answers, q.ID) {
				answered = append(answered, sub)
			}
		}

		steps = append(steps, FunnelStep{
			QuestionID: q.ID,
			Question:   q.Text,
			Reached:    eligibleCount,
			Answered:   len(answered),
			DropOff:    eligibleCount - len(answered),
		})

		active = append(skipped, answered...)
	}
	return steps
}

// HasAnswer reports whether the answer map holds a usable value for the
// question id: present, non-nil, a non-empty sequence with at least one
// non-blank element, or a non-blank trimmed string (which also discards
// the placeholder).
func HasAnswer(answers model.AnswerMap, id string) bool {
	v, ok := answers[id]
	if !ok || v == nil {
		return false
	}
	if seq, ok := model.AsStringSlice(v); ok {
		if len(seq) == 0 {
			return false
		}
		return strings.TrimSpace(strings.Join(seq, ",")) != ""
	}
	if s, ok := model.AsString(v); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}
