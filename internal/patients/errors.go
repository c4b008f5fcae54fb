package patients

import "errors"

var (
	// ErrNotFound is returned for an unknown patient id.
	ErrNotFound = errors.New("patient not found")

	// ErrInvalidPatient is returned when the intake record is missing its
	// required identity fields.
	ErrInvalidPatient = errors.New("first and last name are required")

	// ErrHasDependents is returned when deleting a patient that still owns
	// treatments, payments, appointments, odontogram records or sessions.
	// Dependent records must go first; orphaned clinical history is worse
	// than a blocked delete.
	ErrHasDependents = errors.New("patient has dependent records")
)
