package domain

import "errors"

var (
	// ErrInternalServerError is the fallback for unclassified failures
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound means the target item vanished between intent and execution
	ErrNotFound = errors.New("your requested item is not found")
	// ErrConflict means the item already exists
	ErrConflict = errors.New("your item already exist")
	// ErrBadParamInput is malformed input, caught before any store call
	ErrBadParamInput = errors.New("given param is not valid")
	// ErrForbidden means the store rejected an authorization-sensitive write
	ErrForbidden = errors.New("you are not allowed to do this")
	// ErrStoreUnavailable is a transient backend failure, retryable by
	// re-issuing the same command
	ErrStoreUnavailable = errors.New("store is temporarily unavailable")
)
