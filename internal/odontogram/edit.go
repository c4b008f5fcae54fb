package odontogram

import (
	"fmt"

	"github.com/ataboada/clinica-core/internal/model"
)

// Tool is what the clinician paints with: a tooth condition or the eraser.
type Tool string

// ToolEraser removes findings instead of adding them.
const ToolEraser Tool = "eraser"

// Condition returns the tool as a condition. Only meaningful for non-eraser
// tools.
func (t Tool) Condition() model.ToothCondition {
	return model.ToothCondition(t)
}

// Valid reports whether the tool is the eraser or a known condition.
func (t Tool) Valid() bool {
	return t == ToolEraser || t.Condition().Valid()
}

// ApplyEdit applies one tool stroke to a detail list and returns the new
// list; the input is never mutated. The rules keep whole-tooth and
// face-level findings mutually exclusive:
//
//   - a whole-tooth condition (missing, bridge, implant) purges every other
//     entry for the tooth and leaves a single whole-face entry;
//   - the eraser on the whole face clears the tooth; on a specific face it
//     clears that face plus any whole-face entry, since the tooth is no
//     longer in a uniform state;
//   - a per-face condition replaces the entry at that face and purges any
//     whole-face entry.
func ApplyEdit(details []model.OdontogramDetail, toothNumber int, face model.ToothFace, tool Tool) ([]model.OdontogramDetail, error) {
	if !model.ValidToothNumber(toothNumber) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTooth, toothNumber)
	}
	if !face.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFace, face)
	}
	if !tool.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTool, tool)
	}

	if tool != ToolEraser && tool.Condition().IsWholeTooth() {
		out := removeWhere(details, func(d model.OdontogramDetail) bool {
			return d.ToothNumber == toothNumber
		})
		return append(out, model.OdontogramDetail{
			ToothNumber: toothNumber,
			Face:        model.FaceWhole,
			Condition:   tool.Condition(),
		}), nil
	}

	if tool == ToolEraser {
		if face == model.FaceWhole {
			return removeWhere(details, func(d model.OdontogramDetail) bool {
				return d.ToothNumber == toothNumber
			}), nil
		}
		return removeWhere(details, func(d model.OdontogramDetail) bool {
			return d.ToothNumber == toothNumber && (d.Face == face || d.Face == model.FaceWhole)
		}), nil
	}

	out := removeWhere(details, func(d model.OdontogramDetail) bool {
		return d.ToothNumber == toothNumber && (d.Face == face || d.Face == model.FaceWhole)
	})
	return append(out, model.OdontogramDetail{
		ToothNumber: toothNumber,
		Face:        face,
		Condition:   tool.Condition(),
	}), nil
}

// NeedsConfirmation reports whether applying tool at (toothNumber, face)
// must be confirmed by the clinician first. Confirmation is required when a
// persisted finding from before the session covers the target face, either
// directly or through a whole-tooth entry, and the stroke would actually
// change the current state; repainting the identical condition needs none.
// The eraser never asks.
func NeedsConfirmation(saved, current []model.OdontogramDetail, toothNumber int, face model.ToothFace, tool Tool) bool {
	if tool == ToolEraser {
		return false
	}

	var covered bool
	for _, d := range saved {
		if d.ToothNumber != toothNumber {
			continue
		}
		if d.Face == model.FaceWhole || d.Face == face {
			covered = true
			break
		}
	}
	if !covered {
		return false
	}

	for _, d := range current {
		if d.ToothNumber == toothNumber && d.Face == face && d.Condition == tool.Condition() {
			return false
		}
	}
	return true
}

// Validate asserts the mutual-exclusion invariant over a detail list.
func Validate(details []model.OdontogramDetail) error {
	type key struct {
		tooth int
		face  model.ToothFace
	}
	seen := make(map[key]bool, len(details))
	whole := make(map[int]bool)
	faces := make(map[int]bool)

	for _, d := range details {
		if !model.ValidToothNumber(d.ToothNumber) {
			return fmt.Errorf("%w: %d", ErrInvalidTooth, d.ToothNumber)
		}
		if !d.Face.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidFace, d.Face)
		}
		if !d.Condition.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidTool, d.Condition)
		}
		k := key{d.ToothNumber, d.Face}
		if seen[k] {
			return fmt.Errorf("%w: duplicate entry for tooth %d face %s", ErrConflictingEntries, d.ToothNumber, d.Face)
		}
		seen[k] = true
		if d.Face == model.FaceWhole {
			whole[d.ToothNumber] = true
		} else {
			faces[d.ToothNumber] = true
		}
	}
	for tooth := range whole {
		if faces[tooth] {
			return fmt.Errorf("%w: tooth %d has both whole and face entries", ErrConflictingEntries, tooth)
		}
	}
	return nil
}

func removeWhere(details []model.OdontogramDetail, match func(model.OdontogramDetail) bool) []model.OdontogramDetail {
	out := make([]model.OdontogramDetail, 0, len(details))
	for _, d := range details {
		if !match(d) {
			out = append(out, d)
		}
	}
	return out
}
