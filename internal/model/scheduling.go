package model

import "time"

// AppointmentType classifies what the time slot was booked for.
type AppointmentType string

const (
	AppointmentConsultation AppointmentType = "Consulta"
	AppointmentTreatment    AppointmentType = "Tratamiento"
	AppointmentReview       AppointmentType = "Revisión"
	AppointmentEmergency    AppointmentType = "Emergencia"
)

// AppointmentStatus is the appointment state machine. Pending transitions to
// Completed or Cancelled; both are terminal. Cancelled appointments are kept
// as tombstones so the agenda can still render them.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "Pendiente"
	AppointmentCompleted AppointmentStatus = "Completada"
	AppointmentCancelled AppointmentStatus = "Cancelada"
)

// Appointment is a scheduled time slot for a patient.
type Appointment struct {
	ID               string            `json:"id"`
	PatientID        string            `json:"patientId"`
	PatientName      string            `json:"patientName"`
	Date             time.Time         `json:"date"`
	Type             AppointmentType   `json:"type"`
	Status           AppointmentStatus `json:"status"`
	Notes            string            `json:"notes,omitempty"`
	Price            float64           `json:"price,omitempty"`
	IsPaid           bool              `json:"isPaid,omitempty"`
	RelatedPaymentID string            `json:"relatedPaymentId,omitempty"`
}

// PrescriptionItem is one medication line on a session's prescription.
type PrescriptionItem struct {
	ID         string `json:"id"`
	Medication string `json:"medication"`
	Dosage     string `json:"dosage"`
	Frequency  string `json:"frequency"`
	Duration   string `json:"duration"`
	Notes      string `json:"notes,omitempty"`
}

// DiagnosticSession is an immutable record of one clinical encounter. The
// odontogram snapshot is a deep copy taken at save time and is decoupled from
// later edits to the live record.
type DiagnosticSession struct {
	ID                 string             `json:"id"`
	PatientID          string             `json:"patientId"`
	DoctorID           string             `json:"doctorId"`
	DoctorName         string             `json:"doctorName"`
	Date               time.Time          `json:"date"`
	CIE10Code          string             `json:"cie10Code,omitempty"`
	CIE10Name          string             `json:"cie10Name,omitempty"`
	EvolutionNotes     string             `json:"evolutionNotes"`
	Prescription       []PrescriptionItem `json:"prescription"`
	OdontogramSnapshot []OdontogramDetail `json:"odontogramSnapshot"`
	NextVisitPlan      []string           `json:"nextVisitPlan,omitempty"`
}
