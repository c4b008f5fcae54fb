package scheduling

import "errors"

var (
	// ErrInvalidSchedule is returned when an appointment is requested at a
	// date-time in the past, beyond the clock-skew tolerance.
	ErrInvalidSchedule = errors.New("appointment date is in the past")

	// ErrAppointmentNotFound is returned for an unknown appointment id.
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrPatientNotFound is returned when booking or attending for a patient
	// that does not exist.
	ErrPatientNotFound = errors.New("patient not found")
)
