package question

import "errors"

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrCategoryNotFound = errors.New("category not found")
	// ErrPageNotFound means the requested page of a listing holds no questions.
	ErrPageNotFound = errors.New("page not found")
	ErrInvalidPage  = errors.New("page must be a positive integer")
	// ErrMissingField marks a well-formed request lacking a required value.
	ErrMissingField = errors.New("required field missing")
	// ErrQuestionRejected means the store refused to persist a question.
	ErrQuestionRejected = errors.New("question rejected by store")
)
