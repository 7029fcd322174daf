package interview

import "errors"

var (
	// ErrSessionNotFound is returned for an unknown or cleaned-up token.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionCompleted is returned when a completed session is asked to do more work.
	ErrSessionCompleted = errors.New("interview has already been completed")

	// ErrInvalidCategory is returned for a session_type outside general/technical/behavioral.
	ErrInvalidCategory = errors.New("invalid session type")

	// ErrHistoryLimit is returned when the conversation reached its turn cap.
	ErrHistoryLimit = errors.New("conversation limit reached")

	// ErrStoreClosed is returned by a store that has been shut down.
	ErrStoreClosed = errors.New("session store closed")
)
