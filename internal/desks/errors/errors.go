package errors

import "errors"

var (
	ErrNotFound = errors.New("desk not found")

	ErrInvalidID = errors.New("invalid desk ID format")
)
