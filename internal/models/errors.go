package models

import (
	"errors"
	"fmt"
)

// Store-level errors shared by every repository implementation.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidID    = errors.New("invalid id")
)

// InvalidIDError reports an identifier the store cannot interpret.
type InvalidIDError struct {
	ID string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid id %q", e.ID)
}

func (e *InvalidIDError) Is(target error) bool {
	return target == ErrInvalidID
}
