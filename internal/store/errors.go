package store

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert or update would violate a
	// uniqueness constraint (user email, category name).
	ErrDuplicate = errors.New("duplicate")

	// ErrCategoryInUse is returned when deleting a category that content
	// still references.
	ErrCategoryInUse = errors.New("category in use")

	// ErrInvalidCategory is returned when content references a category
	// that does not exist.
	ErrInvalidCategory = errors.New("invalid category")
)
