package clinic

import "errors"

var (
	// ErrReminderNotFound is returned for an unknown reminder id.
	ErrReminderNotFound = errors.New("reminder not found")

	// ErrInvalidReminder is returned for a reminder with no text.
	ErrInvalidReminder = errors.New("reminder text is required")

	// ErrInvalidSettings is returned for a negative financial goal or an
	// opening window that does not fit in a day.
	ErrInvalidSettings = errors.New("invalid clinic settings")
)
