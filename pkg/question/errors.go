package question

import "errors"

var (
	// ErrDuplicateSlug is returned when a second question reuses a slug.
	ErrDuplicateSlug = errors.New("question: duplicate slug")
	// ErrEmptySlug is returned when a question has no slug.
	ErrEmptySlug = errors.New("question: slug is required")
	// ErrUnknownQuestion is returned when a slug is not registered.
	ErrUnknownQuestion = errors.New("question: unknown question")
)
