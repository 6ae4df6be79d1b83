package survey

import (
	"fmt"
	"sort"
	"strings"

	"github.com/canvasshq/canvass-backend/internal/model"
)

// Summary holds the dashboard KPI numbers.
type Summary struct {
	TotalSubmissions int     `json:"total_submissions"`
	CompletedCount   int     `json:"completed_count"`
	CompletionRate   string  `json:"completion_rate"`
	AvgDurationSecs  float64 `json:"avg_duration_seconds"`
}

// Summarize computes the KPI block over any mix of partial and
// completed submissions. The completion rate is "0%" for an empty set
// and percent-formatted to two decimals otherwise. Average duration
// considers completed submissions with a recorded positive duration.
func Summarize(submissions []model.Submission) Summary {
	s := Summary{
		TotalSubmissions: len(submissions),
		CompletionRate:   "0%",
	}

	var durationSum, durationCount int
	for _, sub := range submissions {
		if sub.Status != model.SubmissionStatusCompleted {
			continue
		}
		s.CompletedCount++
		if sub.DurationSeconds != nil && *sub.DurationSeconds > 0 {
			durationSum += *sub.DurationSeconds
			durationCount++
		}
	}

	if s.TotalSubmissions > 0 {
		rate := float64(s.CompletedCount) / float64(s.TotalSubmissions) * 100
		s.CompletionRate = fmt.Sprintf("%.2f%%", rate)
	}
	if durationCount > 0 {
		s.AvgDurationSecs = float64(durationSum) / float64(durationCount)
	}
	return s
}

// OptionCount is one bar of a per-question tally.
type OptionCount struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CustomAnswer is one distinct free-text "other" value with its
// occurrence count.
type CustomAnswer struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// Tally is the per-question response breakdown for keyed questions.
type Tally struct {
	QuestionID      string         `json:"question_id"`
	Respondents     int            `json:"respondents"`
	TotalSelections int            `json:"total_selections"`
	Options         []OptionCount  `json:"options"`
	CustomAnswers   []CustomAnswer `json:"custom_answers,omitempty"`
}

// TallyOptions counts, per predefined option key, the submissions whose
// answer set contains that key. Free-text "other" values (not matching
// any key and not blank or the placeholder) are tracked per distinct
// trimmed text, and the "other" key itself is credited once per
// submission that contributed at least one custom value. Percentages
// are relative to the number of respondents who answered the question.
func TallyOptions(q model.Question, submissions []model.Submission) Tally {
	tally := Tally{QuestionID: q.ID}
	if q.Options.Kind != model.OptionsKeyed {
		return tally
	}

	counts := make(map[string]int, len(q.Options.Choices))
	custom := make(map[string]int)

	for _, sub := range submissions {
		if !HasAnswer(sub.Answers, q.ID) {
			continue
		}
		tally.Respondents++

		values, ok := model.AsStringSlice(sub.Answers[q.ID])
		if !ok {
			if s, isStr := model.AsString(sub.Answers[q.ID]); isStr {
				values = []string{s}
			} else {
				continue
			}
		}

		hasCustom := false
		for _, v := range values {
			trimmed := strings.TrimSpace(v)
			if trimmed == "" {
				continue // blank or placeholder, not a selection
			}
			tally.TotalSelections++
			if q.Options.HasKey(v) {
				counts[v]++
				continue
			}
			custom[trimmed]++
			hasCustom = true
		}
		if hasCustom && q.Options.HasOther() {
			counts[model.OtherKey]++
		}
	}

	denom := tally.Respondents
	if denom == 0 {
		denom = 1
	}
	for _, c := range q.Options.Choices {
		tally.Options = append(tally.Options, OptionCount{
			Key:        c.Key,
			Label:      c.Label,
			Count:      counts[c.Key],
			Percentage: float64(counts[c.Key]) / float64(denom) * 100,
		})
	}
	for text, count := range custom {
		tally.CustomAnswers = append(tally.CustomAnswers, CustomAnswer{Text: text, Count: count})
	}
	sort.Slice(tally.CustomAnswers, func(i, j int) bool {
		if tally.CustomAnswers[i].Count != tally.CustomAnswers[j].Count {
			return tally.CustomAnswers[i].Count > tally.CustomAnswers[j].Count
		}
		return tally.CustomAnswers[i].Text < tally.CustomAnswers[j].Text
	})
	return tally
}

// MetadataBucket is one value of a metadata breakdown.
type MetadataBucket struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// AggregateMetadata buckets submissions by each captured metadata field
// (source, device, country, city, browser, os). Buckets are sorted by
// descending count; percentages are over the full submission set.
func AggregateMetadata(submissions []model.Submission) map[string][]MetadataBucket {
	totals := map[string]map[string]int{
		"source": {}, "device": {}, "country": {},
		"city": {}, "browser": {}, "os": {},
	}
	for _, sub := range submissions {
		m := sub.Metadata
		for field, value := range map[string]string{
			"source": m.Source, "device": m.Device, "country": m.Country,
			"city": m.City, "browser": m.Browser, "os": m.OS,
		} {
			if value != "" {
				totals[field][value]++
			}
		}
	}

	denom := len(submissions)
	if denom == 0 {
		denom = 1
	}
	out := make(map[string][]MetadataBucket, len(totals))
	for field, values := range totals {
		buckets := make([]MetadataBucket, 0, len(values))
		for name, count := range values {
			buckets = append(buckets, MetadataBucket{
				Name:       name,
				Count:      count,
				Percentage: float64(count) / float64(denom) * 100,
			})
		}
		sort.Slice(buckets, func(i, j int) bool {
			if buckets[i].Count != buckets[j].Count {
				return buckets[i].Count > buckets[j].Count
			}
			return buckets[i].Name < buckets[j].Name
		})
		out[field] = buckets
	}
	return out
}

// FormatAnswer renders an answer for the submissions table and CSV
// export: choice keys become labels, custom "other" values render as
// `Other (text)`, ranking answers are numbered in order.
func FormatAnswer(q model.Question, answer any) string {
	if answer == nil {
		return ""
	}

	if q.Options.Kind == model.OptionsKeyed {
		otherLabel, _ := q.Options.Label(model.OtherKey)
		if otherLabel == "" {
			otherLabel = "Other"
		}
		single := func(v string) string {
			if label, ok := q.Options.Label(v); ok {
				return label
			}
			if strings.TrimSpace(v) == "" {
				return otherLabel
			}
			return fmt.Sprintf("%s (%s)", otherLabel, v)
		}

		if seq, ok := model.AsStringSlice(answer); ok {
			if q.Type == model.QuestionTypeRanking {
				parts := make([]string, len(seq))
				for i, key := range seq {
					label, ok := q.Options.Label(key)
					if !ok {
						label = key
					}
					parts[i] = fmt.Sprintf("%d. %s", i+1, label)
				}
				return strings.Join(parts, "; ")
			}
			parts := make([]string, 0, len(seq))
			for _, v := range seq {
				parts = append(parts, single(v))
			}
			return strings.Join(parts, ", ")
		}
		if s, ok := model.AsString(answer); ok {
			return single(s)
		}
	}

	if seq, ok := model.AsStringSlice(answer); ok {
		return strings.Join(seq, ", ")
	}
	switch v := answer.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		if v {
			return "yes"
		}
		return "no"
	}
	return fmt.Sprintf("%v", answer)
}
