package domain

import "errors"

var (
	ErrRequestNotFound         = errors.New("extraction request not found")
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already exists")
	ErrRequestNotPending       = errors.New("extraction request is not pending")
	ErrInvalidInput            = errors.New("invalid input")
)
