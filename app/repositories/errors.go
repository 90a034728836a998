package repositories

import "errors"

var (
	// ErrNotFound is returned when the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint is violated
	// (registration with an already-used email).
	ErrDuplicate = errors.New("duplicate record")

	// ErrAlreadyDecided is returned by the strict approval mode when the
	// donation has already reached a terminal status.
	ErrAlreadyDecided = errors.New("donation already decided")
)
