package domain

import "errors"

var (
	// ErrInvalidPosition is returned when a target position is outside the live range.
	ErrInvalidPosition = errors.New("invalid position")
	// ErrQuestionNotFound indicates the referenced question does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAnswerCountMismatch is returned when a submission does not answer every question.
	ErrAnswerCountMismatch = errors.New("answer count does not match question count")
	// ErrEmptySubmission is returned when a submission carries no answers at all.
	ErrEmptySubmission = errors.New("empty submission")
	// ErrValidation wraps every payload validation failure.
	ErrValidation = errors.New("validation failed")
	// ErrStorageFailure wraps errors coming from the backing store.
	ErrStorageFailure = errors.New("storage failure")
	// ErrUnauthorized is returned by the admin gateway for bad credentials or tokens.
	ErrUnauthorized = errors.New("unauthorized")
)
