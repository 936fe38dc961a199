package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTicketNotActive    ErrCode = "TICKET_NOT_ACTIVE"
	ErrSessionRevoked     ErrCode = "SESSION_REVOKED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden           ErrCode = "FORBIDDEN"
	ErrCandidateAccessOnly ErrCode = "CANDIDATE_ACCESS_ONLY"
	ErrStaffAccessOnly     ErrCode = "STAFF_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Attempt lifecycle ─────────────────────────────────────────────
	ErrInvalidState   ErrCode = "INVALID_STATE"
	ErrAlreadyScored  ErrCode = "ALREADY_SCORED"
	ErrAttemptExists  ErrCode = "ATTEMPT_EXISTS"
	ErrItemNotFound   ErrCode = "ITEM_NOT_FOUND"
	ErrTimerNotFound  ErrCode = "TIMER_NOT_FOUND"
	ErrOptionMismatch ErrCode = "OPTION_MISMATCH"

	// ─── Exam authoring ────────────────────────────────────────────────
	ErrExamNotPublished ErrCode = "EXAM_NOT_PUBLISHED"
	ErrExamNotDraft     ErrCode = "EXAM_NOT_DRAFT"
	ErrExamEmpty        ErrCode = "EXAM_EMPTY"
	ErrExamInvalid      ErrCode = "EXAM_INVALID"

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
		return "Invalid ticket code, PIN or password."
	case ErrTicketNotActive:
		return "This ticket has already been used or voided."
	case ErrSessionRevoked:
		return "Your exam session has been revoked. Contact a proctor to resume."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrCandidateAccessOnly:
		return "This resource is restricted to exam candidates."
	case ErrStaffAccessOnly:
		return "This resource is restricted to staff users."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Attempt lifecycle ─────────────────────────────────────────────
	case ErrInvalidState:
		return "The attempt is not in a valid state for this operation."
	case ErrAlreadyScored:
		return "This attempt has already been scored."
	case ErrAttemptExists:
		return "An attempt already exists for this ticket."
	case ErrItemNotFound:
		return "The attempt item does not belong to this attempt."
	case ErrTimerNotFound:
		return "No timer exists for this module, or the attempt is not in progress."
	case ErrOptionMismatch:
		return "The selected option does not belong to this question."

	// ─── Exam authoring ────────────────────────────────────────────────
	case ErrExamNotPublished:
		return "This exam version is not published."
	case ErrExamNotDraft:
		return "This exam version is not in DRAFT status."
	case ErrExamEmpty:
		return "This exam version has no modules or questions."
	case ErrExamInvalid:
		return "This exam version fails publish validation."

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
