package model

// Placeholder is the reserved single-space answer value meaning "the
// free-text 'other' field is selected but not yet filled". It is never a
// valid final answer and is rewritten to "" before final persistence.
const Placeholder = " "

// AnswerMap maps question id → answer. An answer is a string, []string,
// float64 (JSON numbers), bool, or nil. One entry per question the
// respondent has reached.
type AnswerMap map[string]any

// Clone returns a shallow copy of the map with slice answers copied,
// so callers can mutate the result without aliasing the original.
func (a AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(a))
	for k, v := range a {
		if s, ok := AsStringSlice(v); ok {
			dup := make([]string, len(s))
			copy(dup, s)
			out[k] = dup
			continue
		}
		out[k] = v
	}
	return out
}

// AsString extracts a string answer.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsStringSlice extracts a sequence answer. JSON decoding yields []any,
// so both representations are accepted.
func AsStringSlice(v any) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		return s, true
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	}
	return nil, false
}
