package model

import "time"

// ToothCondition is a clinical finding for a tooth or tooth face.
type ToothCondition string

const (
	ToothHealthy         ToothCondition = "healthy"
	ToothCaries          ToothCondition = "caries"
	ToothRestorationGood ToothCondition = "restoration_good"
	ToothRootCanal       ToothCondition = "root_canal"
	ToothVeneer          ToothCondition = "veneer"
	ToothWhitening       ToothCondition = "whitening"
	ToothSealant         ToothCondition = "sealant"
	ToothMissing         ToothCondition = "missing"
	ToothBridge          ToothCondition = "bridge"
	ToothImplant         ToothCondition = "implant"
)

// IsWholeTooth reports whether the condition can only apply to the entire
// tooth. Whole-tooth conditions are mutually exclusive with any face-level
// finding on the same tooth.
func (c ToothCondition) IsWholeTooth() bool {
	return c == ToothMissing || c == ToothBridge || c == ToothImplant
}

// Valid reports whether c is a known condition.
func (c ToothCondition) Valid() bool {
	switch c {
	case ToothHealthy, ToothCaries, ToothRestorationGood, ToothRootCanal,
		ToothVeneer, ToothWhitening, ToothSealant, ToothMissing, ToothBridge,
		ToothImplant:
		return true
	}
	return false
}

// ToothFace identifies which surface of a tooth a finding applies to.
type ToothFace string

const (
	FaceWhole  ToothFace = "whole"
	FaceTop    ToothFace = "top"
	FaceBottom ToothFace = "bottom"
	FaceLeft   ToothFace = "left"
	FaceRight  ToothFace = "right"
	FaceCenter ToothFace = "center"
)

// Valid reports whether f is a known face.
func (f ToothFace) Valid() bool {
	switch f {
	case FaceWhole, FaceTop, FaceBottom, FaceLeft, FaceRight, FaceCenter:
		return true
	}
	return false
}

// ValidToothNumber reports whether n is a valid FDI two-digit tooth number:
// 11-18/21-28/31-38/41-48 for permanent teeth, 51-55/61-65/71-75/81-85 for
// deciduous teeth.
func ValidToothNumber(n int) bool {
	quadrant := n / 10
	position := n % 10
	switch {
	case quadrant >= 1 && quadrant <= 4:
		return position >= 1 && position <= 8
	case quadrant >= 5 && quadrant <= 8:
		return position >= 1 && position <= 5
	}
	return false
}

// OdontogramDetail is a single finding on the tooth map. For any tooth there
// is at most one entry per face, and a whole-face entry excludes every other
// entry for that tooth.
type OdontogramDetail struct {
	ToothNumber int            `json:"toothNumber"`
	Face        ToothFace      `json:"face"`
	Condition   ToothCondition `json:"condition"`
	Notes       string         `json:"notes,omitempty"`
}

// OdontogramRecord is the live tooth-condition map for one patient. Exactly
// one live record exists per patient; saves overwrite it wholesale.
type OdontogramRecord struct {
	ID        string             `json:"id"`
	PatientID string             `json:"patientId"`
	UpdatedAt time.Time          `json:"updatedAt"`
	Details   []OdontogramDetail `json:"details"`
}
