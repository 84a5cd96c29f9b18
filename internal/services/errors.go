package services

import (
	"errors"
	"fmt"

	"adlaan-backend/internal/repository"
)

var (
	ErrNotFound            = repository.ErrNotFound
	ErrNoTargets           = fmt.Errorf("%w: no documents matched the classification request", ErrNotFound)
	ErrInvalidTransition   = repository.ErrInvalidTransition
	ErrInvalidKind         = errors.New("invalid task kind")
	ErrInvalidDocumentType = errors.New("invalid document type")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrIdempotencyConflict = errors.New("idempotency key already used for a different kind of task")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)
