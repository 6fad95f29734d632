package models

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateContent   = errors.New("duplicate content hash")
	ErrInvalidPayload     = errors.New("invalid raw payload")
	ErrMissingCredentials = errors.New("missing source credentials")
	// ErrAlreadyProcessed - сырое событие уже нормализовано или отклонено другим запуском
	ErrAlreadyProcessed = errors.New("raw event already processed")
)
