package net

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped) by Network operations.
var (
	ErrShapeMismatch        = errors.New("shape mismatch")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

func checkLen(name string, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s has length %d, want %d", ErrShapeMismatch, name, got, want)
	}
	return nil
}
