package model

// ConditionOp enumerates the supported predicate operators.
type ConditionOp string

const (
	OpEq  ConditionOp = "eq"
	OpNeq ConditionOp = "neq"
)

// Condition is a declarative display predicate over the answer map:
// show the question iff answers[Field] <op> Value. It is pure and
// side-effect free, so the funnel analyzer can re-evaluate it against
// many submissions.
type Condition struct {
	Field string      `json:"field"`
	Op    ConditionOp `json:"op"`
	Value string      `json:"value"`
}

// Matches evaluates the predicate against an answer map. Only string
// answers compare equal to Value; a missing or non-string answer is
// never eq and always neq.
func (c Condition) Matches(answers AnswerMap) bool {
	got, _ := AsString(answers[c.Field])
	switch c.Op {
	case OpEq:
		return got == c.Value
	case OpNeq:
		return got != c.Value
	}
	return false
}

// Eq builds an equality condition.
func Eq(field, value string) *Condition {
	return &Condition{Field: field, Op: OpEq, Value: value}
}
