package record

import "errors"

var (
	// ErrUnknownField is returned when a record has no field of the requested name.
	ErrUnknownField = errors.New("unknown field")

	// ErrTypeMismatch is returned when two values cannot be compared.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrDuplicateField is returned when a field map names a field twice.
	ErrDuplicateField = errors.New("duplicate field name")

	// ErrInvalidRange is returned for negative or inverted byte ranges.
	ErrInvalidRange = errors.New("invalid byte range")
)
