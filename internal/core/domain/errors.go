package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrPipelineBusy indicates a submission is already running.
	ErrPipelineBusy = errors.New("submission in progress")

	// ErrInvalidTransition indicates a pipeline stage change that is not allowed.
	ErrInvalidTransition = errors.New("invalid pipeline transition")

	// ErrEncodeFailed indicates the payload could not be read or encoded.
	ErrEncodeFailed = errors.New("encoding failed")

	// Authentication Errors.

	// ErrAuthRequired indicates no usable session is available.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the stored token has passed its expiry.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrAuthInvalid indicates the credentials were rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// Remote Errors.

	// ErrRemoteUnavailable indicates a remote service could not be reached.
	ErrRemoteUnavailable = errors.New("remote service unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
