package services

import "errors"

// Errors shared across services and the HTTP error mapping.
var (
	ErrValidationFailed = errors.New("validation failed")

	// ErrForbiddenOperation covers every "who are you to do that" case:
	// verifying someone else's match, deleting someone else's photo.
	ErrForbiddenOperation = errors.New("operation not allowed for the current session")

	// ErrIdentityRequired is returned when an operation needs a player name
	// and the session never picked one.
	ErrIdentityRequired = errors.New("session has no player identity")

	// ErrConfirmationRequired marks a soft block: the save is legal but
	// suspicious, and the client must retry with confirm=true to proceed.
	ErrConfirmationRequired = errors.New("confirmation required")

	ErrInvalidPasscode = errors.New("invalid admin passcode")
	ErrInvalidToken    = errors.New("invalid or expired session token")
)
