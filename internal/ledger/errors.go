package ledger

import "errors"

var (
	// ErrInvalidAmount is returned when a cost or payment amount is negative.
	ErrInvalidAmount = errors.New("amount must not be negative")

	// ErrPatientNotFound is returned when a record operation references a
	// patient that does not exist.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrPaymentNotFound is returned when a cancellation references an
	// unknown payment.
	ErrPaymentNotFound = errors.New("payment not found")
)
