package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates a lookup matched no object.
	ErrNotFound = errors.New("object not found")
	// ErrUnimplemented marks relationship derivations that are not supported.
	ErrUnimplemented = errors.New("not implemented")
	// ErrCycleDetected indicates a use chain that refers back to itself.
	ErrCycleDetected = errors.New("inheritance cycle detected")
)

// NotFoundError carries the search key of a failed lookup.
type NotFoundError struct {
	Type  ObjectType
	Key   string
	Value string
}

func (e *NotFoundError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("no object with %s=%s found", e.Key, e.Value)
	}
	return fmt.Sprintf("no %s with %s=%s found", e.Type, e.Key, e.Value)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// CycleError lists the use chain that closed on itself.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("inheritance cycle detected: %s", strings.Join(e.Chain, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
