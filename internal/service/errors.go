package service

import "errors"

// SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// Sentinel errors shared across services. Handlers map these onto typed
// response codes with errors.Is.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTicketNotActive    = errors.New("ticket is not active")
	ErrAttemptNotFound    = errors.New("attempt not found")
	ErrAttemptExists      = errors.New("attempt already exists for this ticket")
	ErrInvalidState       = errors.New("attempt is not in a valid state for this operation")
	ErrAlreadyScored      = errors.New("attempt is already scored")
	ErrItemNotFound       = errors.New("attempt item not found for this attempt")
	ErrTimerNotFound      = errors.New("module timer not found")
	ErrOptionMismatch     = errors.New("selected option does not belong to the question")
	ErrExamNotFound       = errors.New("exam version not found")
	ErrExamNotPublished   = errors.New("exam version is not published")
	ErrExamInvalid        = errors.New("exam version fails publish validation")
	ErrExamNotDraft       = errors.New("exam version is not in draft")
	ErrExamEmpty          = errors.New("exam version has no modules or questions")
	ErrSessionRevoked     = errors.New("attempt session has been revoked")
)
