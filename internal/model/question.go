package model

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	QuestionTypeWelcome      QuestionType = "WELCOME"
	QuestionTypeNumber       QuestionType = "NUMBER"
	QuestionTypeRadio        QuestionType = "RADIO"
	QuestionTypeText         QuestionType = "TEXT"
	QuestionTypeCheckbox     QuestionType = "CHECKBOX"
	QuestionTypeRanking      QuestionType = "RANKING"
	QuestionTypeTextarea     QuestionType = "TEXTAREA"
	QuestionTypeEmail        QuestionType = "EMAIL"
	QuestionTypeThankYou     QuestionType = "THANK_YOU"
	QuestionTypeAutocomplete QuestionType = "AUTOCOMPLETE"
)

// Question is a single static questionnaire entry. The full ordered list
// is fixed for the lifetime of a survey session.
type Question struct {
	ID       string       `json:"id"`
	Type     QuestionType `json:"type"`
	Text     string       `json:"text"`
	Intro    string       `json:"intro,omitempty"`
	Options  Options      `json:"options,omitempty"`
	Required bool         `json:"required"`
	// Condition, when non-nil, decides whether the question is shown at
	// all given the answers collected so far.
	Condition *Condition `json:"condition,omitempty"`
}

// IsBookend reports whether the question is one of the non-answerable
// framing screens (welcome, email capture, thank-you). Bookends never
// count toward progress or funnel steps.
func (q Question) IsBookend() bool {
	switch q.Type {
	case QuestionTypeWelcome, QuestionTypeThankYou, QuestionTypeEmail:
		return true
	}
	return false
}

// OptionsKind tags the two shapes a question's options can take.
type OptionsKind int

const (
	// OptionsNone means the question carries no options (free text, number).
	OptionsNone OptionsKind = iota
	// OptionsList is an ordered suggestion list (autocomplete datasets).
	OptionsList
	// OptionsKeyed is an ordered key → display-label mapping
	// (radio, checkbox, ranking).
	OptionsKeyed
)

// Choice is one keyed option. Insertion order is display order.
type Choice struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Options is a tagged variant: either a plain ordered list of strings or
// an ordered sequence of key/label choices.
type Options struct {
	Kind    OptionsKind `json:"kind"`
	List    []string    `json:"list,omitempty"`
	Choices []Choice    `json:"choices,omitempty"`
}

// ListOptions builds free-form suggestion options.
func ListOptions(values []string) Options {
	return Options{Kind: OptionsList, List: values}
}

// KeyedOptions builds keyed choices preserving the given order.
func KeyedOptions(choices ...Choice) Options {
	return Options{Kind: OptionsKeyed, Choices: choices}
}

// Keys returns the option keys in display order. Nil for non-keyed options.
func (o Options) Keys() []string {
	if o.Kind != OptionsKeyed {
		return nil
	}
	keys := make([]string, len(o.Choices))
	for i, c := range o.Choices {
		keys[i] = c.Key
	}
	return keys
}

// HasKey reports whether key is one of the predefined choice keys.
func (o Options) HasKey(key string) bool {
	for _, c := range o.Choices {
		if c.Key == key {
			return true
		}
	}
	return false
}

// Label resolves a choice key to its display label.
func (o Options) Label(key string) (string, bool) {
	for _, c := range o.Choices {
		if c.Key == key {
			return c.Label, true
		}
	}
	return "", false
}

// Contains reports whether value is part of a suggestion list.
func (o Options) Contains(value string) bool {
	for _, v := range o.List {
		if v == value {
			return true
		}
	}
	return false
}

// OtherKey is the reserved choice key marking a free-text "other" option.
const OtherKey = "other"

// HasOther reports whether the question exposes a free-text "other" choice.
func (o Options) HasOther() bool {
	return o.HasKey(OtherKey)
}
