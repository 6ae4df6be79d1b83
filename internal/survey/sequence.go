// Package survey implements the pure survey engine: conditional
// visibility, answer validation and normalization, and the funnel and
// summary analytics. Nothing in this package performs I/O; every
// function is safe to call on each answer change or data refresh.
package survey

import "github.com/canvasshq/canvass-backend/internal/model"

// VisibleSequence filters the catalog down to the questions whose
// condition is absent or holds for the given answers. Order is
// preserved; the input is never mutated.
func VisibleSequence(questions []model.Question, answers model.AnswerMap) []model.Question {
	visible := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if q.Condition == nil || q.Condition.Matches(answers) {
			visible = append(visible, q)
		}
	}
	return visible
}

// Progress reports the respondent's position as (current, total).
//
// total counts every answerable question in the catalog regardless of
// branching, so the denominator never shrinks when a conditional
// question disappears. current is the current question's 0-based
// position within that same set, looked up by id. Bookend screens
// report the boundary: 0 while still before the first answerable
// question, total at or after the email/thank-you steps.
func Progress(questions []model.Question, currentID string) (current, total int) {
	pos := -1
	for _, q := range questions {
		if q.IsBookend() {
			continue
		}
		if q.ID == currentID {
			pos = total
		}
		total++
	}
	if pos >= 0 {
		return pos, total
	}
	if currentID == "" || isBeforeAnswerable(questions, currentID) {
		return 0, total
	}
	return total, total
}

// isBeforeAnswerable reports whether id appears in the catalog before
// the first answerable question.
func isBeforeAnswerable(questions []model.Question, id string) bool {
	for _, q := range questions {
		if q.ID == id {
			return true
		}
		if !q.IsBookend() {
			return false
		}
	}
	return false
}

// IndexOf returns the position of a question id within a sequence,
// or -1 when absent.
func IndexOf(sequence []model.Question, id string) int {
	for i, q := range sequence {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// Reorder moves the element at from to position to, returning a new
// slice. Out-of-range indices and from == to return an equal copy.
func Reorder(list []string, from, to int) []string {
	next := make([]string, len(list))
	copy(next, list)
	if from < 0 || from >= len(next) || to < 0 || to >= len(next) || from == to {
		return next
	}
	moved := next[from]
	next = append(next[:from], next[from+1:]...)
	next = append(next[:to], append([]string{moved}, next[to:]...)...)
	return next
}
