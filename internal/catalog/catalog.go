// Package catalog holds the static question catalog served to
// respondents. Questions are immutable for the lifetime of a session;
// text and labels arrive already localized, the engine never translates.
package catalog

import "github.com/canvasshq/canvass-backend/internal/model"

// Questions returns the ordered question list. A fresh slice is built on
// every call so callers can never mutate the catalog.
func Questions() []model.Question {
	return []model.Question{
		{
			ID:    "welcome",
			Type:  model.QuestionTypeWelcome,
			Text:  "Help us build a better commute",
			Intro: "Ten quick questions about how you move around your city. It takes about three minutes.",
		},
		{
			ID:       "age",
			Type:     model.QuestionTypeRadio,
			Text:     "How old are you?",
			Required: true,
			Options: model.KeyedOptions(
				model.Choice{Key: "under_18", Label: "Under 18"},
				model.Choice{Key: "18_24", Label: "18–24"},
				model.Choice{Key: "25_34", Label: "25–34"},
				model.Choice{Key: "35_44", Label: "35–44"},
				model.Choice{Key: "45_plus", Label: "45 or older"},
			),
		},
		{
			ID:       "gender",
			Type:     model.QuestionTypeRadio,
			Text:     "How do you identify?",
			Required: true,
			Options: model.KeyedOptions(
				model.Choice{Key: "female", Label: "Female"},
				model.Choice{Key: "male", Label: "Male"},
				model.Choice{Key: "nonbinary", Label: "Non-binary"},
				model.Choice{Key: "prefer_not", Label: "Prefer not to say"},
			),
		},
		{
			ID:       "city",
			Type:     model.QuestionTypeAutocomplete,
			Text:     "Which city do you live in?",
			Required: true,
			Options:  model.ListOptions(Cities),
		},
		{
			ID:       "apps",
			Type:     model.QuestionTypeCheckbox,
			Text:     "Which mobility apps do you use today?",
			Required: true,
			Options: model.KeyedOptions(
				model.Choice{Key: "citymapper", Label: "Citymapper"},
				model.Choice{Key: "moovit", Label: "Moovit"},
				model.Choice{Key: "gmaps", Label: "Google Maps"},
				model.Choice{Key: "operator_app", Label: "My transit operator's app"},
				model.Choice{Key: "none", Label: "None"},
				model.Choice{Key: model.OtherKey, Label: "Other"},
			),
		},
		{
			ID:       "paid",
			Type:     model.QuestionTypeRadio,
			Text:     "Have you ever paid for a premium mobility app?",
			Required: true,
			Options: model.KeyedOptions(
				model.Choice{Key: "yes", Label: "Yes"},
				model.Choice{Key: "no", Label: "No"},
			),
		},
		{
			ID:        "paidReason",
			Type:      model.QuestionTypeRadio,
			Intro:     "You said you paid for a premium app.",
			Text:      "What convinced you to pay?",
			Required:  true,
			Condition: model.Eq("paid", "yes"),
			Options: model.KeyedOptions(
				model.Choice{Key: "offline", Label: "Offline maps"},
				model.Choice{Key: "no_ads", Label: "No advertising"},
				model.Choice{Key: "realtime", Label: "Better real-time data"},
				model.Choice{Key: model.OtherKey, Label: "Other"},
			),
		},
		{
			ID:       "frustrations",
			Type:     model.QuestionTypeRanking,
			Intro:    "Drag to order, most annoying first.",
			Text:     "Rank your biggest commuting frustrations",
			Required: true,
			Options: model.KeyedOptions(
				model.Choice{Key: "delays", Label: "Delays and cancellations"},
				model.Choice{Key: "crowding", Label: "Overcrowding"},
				model.Choice{Key: "info", Label: "Unreliable information"},
				model.Choice{Key: "price", Label: "Ticket prices"},
			),
		},
		{
			ID:       "changeOneThing",
			Type:     model.QuestionTypeTextarea,
			Text:     "If you could change one thing about your commute, what would it be?",
			Required: true,
		},
		{
			ID:       "businessModel",
			Type:     model.QuestionTypeRadio,
			Text:     "Which pricing model would you prefer?",
			Required: true,
			Options: model.KeyedOptions(
				model.Choice{Key: "free_ads", Label: "Free with ads"},
				model.Choice{Key: "subscription", Label: "Monthly subscription"},
				model.Choice{Key: "one_time", Label: "One-time purchase"},
			),
		},
		{
			ID:    "collectEmail",
			Type:  model.QuestionTypeEmail,
			Text:  "Want to hear about the results?",
			Intro: "Leave your email and we will send you the findings. Optional.",
		},
		{
			ID:    "thankyou",
			Type:  model.QuestionTypeThankYou,
			Text:  "Thank you!",
			Intro: "Your answers have been recorded.",
		},
	}
}

// ConsentAnswerKey is the answer-map key carrying the email consent flag.
const ConsentAnswerKey = "emailConsent"

// EmailQuestionID is the id of the email capture step.
const EmailQuestionID = "collectEmail"
