package catalog

import "errors"

var (
	// ErrInvalidProcedure is returned for a nameless or negatively-priced
	// price-list entry.
	ErrInvalidProcedure = errors.New("procedure needs a name and a non-negative price")

	// ErrProcedureNotFound is returned for an unknown procedure id.
	ErrProcedureNotFound = errors.New("procedure not found")
)
