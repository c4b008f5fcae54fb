package odontogram

import "errors"

var (
	// ErrInvalidTooth is returned for a tooth number outside the FDI ranges.
	ErrInvalidTooth = errors.New("invalid tooth number")

	// ErrInvalidFace is returned for an unknown tooth face.
	ErrInvalidFace = errors.New("invalid tooth face")

	// ErrInvalidTool is returned for an unknown condition tool.
	ErrInvalidTool = errors.New("invalid tool")

	// ErrPatientNotFound is returned when saving a record for a patient that
	// does not exist.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrConflictingEntries flags a detail list where a whole-tooth entry
	// coexists with face entries for the same tooth, or a (tooth, face) pair
	// appears twice. Edits applied through ApplyEdit can never produce this.
	ErrConflictingEntries = errors.New("conflicting odontogram entries")
)
