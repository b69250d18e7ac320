package domain

import "errors"

// Repository-level errors, translated to HTTP errors by the usecases.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("resource already exists")
)
