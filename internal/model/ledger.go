package model

import "time"

// TreatmentStatus tracks the progress of a billable clinical act.
// Wire values match the clinic's historical records.
type TreatmentStatus string

const (
	TreatmentPlanned    TreatmentStatus = "Planificado"
	TreatmentInProgress TreatmentStatus = "En Proceso"
	TreatmentCompleted  TreatmentStatus = "Completado"
)

// Treatment is a billable clinical act. Treatments are append-only: once
// recorded they are never mutated.
type Treatment struct {
	ID          string          `json:"id"`
	PatientID   string          `json:"patientId"`
	PatientName string          `json:"patientName"` // denormalized for display
	Procedure   string          `json:"procedure"`
	Description string          `json:"description"`
	Diagnosis   string          `json:"diagnosis,omitempty"`
	Cost        float64         `json:"cost"`
	Status      TreatmentStatus `json:"status"`
	Date        time.Time       `json:"date"`
}

// PaymentMethod is how money was received.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "Efectivo"
	PaymentQR       PaymentMethod = "QR"
	PaymentCard     PaymentMethod = "Tarjeta"
	PaymentTransfer PaymentMethod = "Transferencia"
)

// PaymentStatus is the lifecycle state of a payment. Cancellation is a
// one-way flip; cancelled payments stay on the ledger as an audit trail.
type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Payment is a money-received event.
type Payment struct {
	ID               string        `json:"id"`
	PatientID        string        `json:"patientId"`
	PatientName      string        `json:"patientName"`
	Amount           float64       `json:"amount"`
	Date             time.Time     `json:"date"`
	Method           PaymentMethod `json:"method"`
	Notes            string        `json:"notes,omitempty"`
	RelatedProcedure string        `json:"relatedProcedure,omitempty"`
	Status           PaymentStatus `json:"status"`
}

// Balance is the derived financial position of one patient. It is never
// stored; Debt may be negative when the patient has overpaid.
type Balance struct {
	TotalCost float64 `json:"totalCost"`
	TotalPaid float64 `json:"totalPaid"`
	Debt      float64 `json:"debt"`
}

// Debtor pairs a patient with their outstanding debt.
type Debtor struct {
	Patient Patient `json:"patient"`
	Debt    float64 `json:"debt"`
}
