package apperrors

import "errors"

var (
	// ErrValidation covers missing or empty required input. The caller
	// fixes the request; no retry.
	ErrValidation = errors.New("validation failed")

	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomFull is terminal for the request and user-visible.
	ErrRoomFull = errors.New("room is full")
)
