package dump

import "errors"

var (
	// ErrNoDump is returned when the directory lacks one of the dump tables.
	ErrNoDump = errors.New("not a crates.io dump")
	// ErrMissingColumn is returned when a table header lacks a required column.
	ErrMissingColumn = errors.New("missing column")
)
