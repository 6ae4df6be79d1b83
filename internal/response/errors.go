package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrOperatorAccessOnly ErrCode = "OPERATOR_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Survey flow ───────────────────────────────────────────────────
	ErrSessionNotFound    ErrCode = "SESSION_NOT_FOUND"
	ErrSessionCompleted   ErrCode = "SESSION_COMPLETED"
	ErrNotCurrentQuestion ErrCode = "NOT_CURRENT_QUESTION"
	ErrAnswerRequired     ErrCode = "ANSWER_REQUIRED"
	ErrInvalidEmail       ErrCode = "INVALID_EMAIL"
	ErrConsentRequired    ErrCode = "CONSENT_REQUIRED"
	ErrNotRankingQuestion ErrCode = "NOT_RANKING_QUESTION"
	ErrInvalidRanking     ErrCode = "INVALID_RANKING"
	ErrSubmissionFailed   ErrCode = "SUBMISSION_FAILED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrOperatorAccessOnly:
		return "This resource is restricted to operators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid id format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Survey flow ───────────────────────────────────────────────────
	case ErrSessionNotFound:
		return "The survey session does not exist or has expired."
	case ErrSessionCompleted:
		return "This survey session has already been submitted."
	case ErrNotCurrentQuestion:
		return "Only the current question can be answered."
	case ErrAnswerRequired:
		return "An answer is required before continuing."
	case ErrInvalidEmail:
		return "The email address does not look valid."
	case ErrConsentRequired:
		return "Consent is required when leaving an email address."
	case ErrNotRankingQuestion:
		return "Reordering applies to ranking questions only."
	case ErrInvalidRanking:
		return "A ranking must order every option exactly once."
	case ErrSubmissionFailed:
		return "We could not save your answers. Please try again."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
