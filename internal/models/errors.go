package models

import "errors"

// Domain-level sentinel errors. Handlers map them to status codes.
var (
	// ErrNotFound indicates that the requested record does not exist or is not owned by the caller
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists indicates a unique email or username collision
	ErrAlreadyExists = errors.New("record already exists")

	// ErrInvalidInput indicates a request that failed validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates missing or invalid credentials
	ErrUnauthorized = errors.New("could not validate credentials")

	// ErrInactiveUser indicates that the account has been disabled
	ErrInactiveUser = errors.New("inactive user")

	// ErrUnsupportedFileType indicates an upload outside the allowed extensions
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrAlreadyAnswered indicates a second answer to the same interview question
	ErrAlreadyAnswered = errors.New("question already answered")

	// ErrSessionCompleted indicates a turn-based interview that no longer accepts answers
	ErrSessionCompleted = errors.New("interview session already completed")
)
