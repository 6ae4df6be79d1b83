package survey

import (
	"math/rand"
	"regexp"
	"strings"

	"github.com/canvasshq/canvass-backend/internal/model"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s is an acceptable email answer. The email
// step is optional, so the empty string is valid.
func ValidEmail(s string) bool {
	if s == "" {
		return true
	}
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// IsValidAnswer decides whether the stored answer satisfies the
// question's required contract. Rules are evaluated in order and
// short-circuit:
//
//  1. non-required questions are always valid;
//  2. a missing or nil answer is invalid;
//  3. empty sequences and blank strings are invalid;
//  4. a list-restricted autocomplete must match one entry exactly;
//  5. a free-text "other" value (one not among the predefined keys)
//     must be non-blank after trimming;
//  6. the placeholder " " is never valid, scalar or as an element;
//  7. a ranking answer must be a permutation of the option keys.
func IsValidAnswer(q model.Question, answers model.AnswerMap) bool {
	if !q.Required {
		return true
	}
	answer, ok := answers[q.ID]
	if !ok || answer == nil {
		return false
	}

	if q.Type == model.QuestionTypeAutocomplete && q.Options.Kind == model.OptionsList {
		s, ok := model.AsString(answer)
		return ok && q.Options.Contains(s)
	}

	if q.Type == model.QuestionTypeRanking {
		return IsRankingAnswer(q, answer)
	}

	if seq, ok := model.AsStringSlice(answer); ok {
		if len(seq) == 0 {
			return false
		}
		if q.Options.HasOther() {
			for _, e := range seq {
				if !q.Options.HasKey(e) && strings.TrimSpace(e) == "" {
					return false
				}
			}
		}
		for _, e := range seq {
			if e == model.Placeholder {
				return false
			}
		}
		return true
	}

	if s, ok := model.AsString(answer); ok {
		// Covers blank custom "other" text and the placeholder alike;
		// both trim to the empty string.
		return strings.TrimSpace(s) != ""
	}

	// Numbers and booleans are present, hence valid.
	return true
}

// NormalizeAnswers rewrites every placeholder occurrence to the empty
// string, scalar or inside a sequence. Pure and idempotent; applied
// once immediately before final persistence.
func NormalizeAnswers(answers model.AnswerMap) model.AnswerMap {
	out := make(model.AnswerMap, len(answers))
	for id, v := range answers {
		if s, ok := model.AsString(v); ok {
			if s == model.Placeholder {
				out[id] = ""
			} else {
				out[id] = s
			}
			continue
		}
		if seq, ok := model.AsStringSlice(v); ok {
			next := make([]string, len(seq))
			for i, e := range seq {
				if e == model.Placeholder {
					next[i] = ""
				} else {
					next[i] = e
				}
			}
			out[id] = next
			continue
		}
		out[id] = v
	}
	return out
}

// RandomRanking returns a uniformly-random permutation of the ranking
// question's option keys. Materialized the first time an unanswered
// ranking question is shown, so an untouched list is still a valid
// permutation answer.
func RandomRanking(q model.Question) []string {
	keys := q.Options.Keys()
	perm := make([]string, len(keys))
	copy(perm, keys)
	rand.Shuffle(len(perm), func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})
	return perm
}

// IsRankingAnswer reports whether the stored answer is a valid
// permutation of the question's option keys: same length, every element
// a known key, no duplicates.
func IsRankingAnswer(q model.Question, answer any) bool {
	seq, ok := model.AsStringSlice(answer)
	if !ok {
		return false
	}
	keys := q.Options.Keys()
	if len(seq) != len(keys) {
		return false
	}
	seen := make(map[string]bool, len(seq))
	for _, e := range seq {
		if !q.Options.HasKey(e) || seen[e] {
			return false
		}
		seen[e] = true
	}
	return true
}
