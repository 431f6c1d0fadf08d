package engine

import "errors"

var (
	// ErrParse reports a field that could not be converted, e.g. a
	// non-numeric year.
	ErrParse = errors.New("parse error")
	// ErrMissingField reports a tuple too short for the layout's offsets.
	ErrMissingField = errors.New("field index out of range")
	// ErrUnknownDimension reports a grouping key records do not expose.
	ErrUnknownDimension = errors.New("unknown dimension")
	// ErrUnknownQuery reports a Query.Kind Execute does not handle.
	ErrUnknownQuery = errors.New("unknown query")
	// ErrInvalidQuery reports a Query missing a required parameter.
	ErrInvalidQuery = errors.New("invalid query")
)
