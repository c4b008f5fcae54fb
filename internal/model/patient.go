package model

import "time"

// Medication is one entry of a patient's current medication list.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
}

// Patient holds the demographic and clinical-intake record for one person.
// ID and CreatedAt are set once at creation and never change afterwards.
type Patient struct {
	ID                 string       `json:"id"`
	FirstName          string       `json:"firstName"`
	LastName           string       `json:"lastName"`
	DNI                string       `json:"dni"`
	Email              string       `json:"email,omitempty"`
	Phone              string       `json:"phone,omitempty"`
	Allergies          string       `json:"allergies"`
	GeneralDescription string       `json:"generalDescription"`
	MedicalHistory     []string     `json:"medicalHistory"`
	CurrentMedications []Medication `json:"currentMedications,omitempty"`
	Age                string       `json:"age,omitempty"`
	BirthDate          string       `json:"birthDate,omitempty"`
	Weight             string       `json:"weight,omitempty"`
	Height             string       `json:"height,omitempty"`
	Gender             string       `json:"gender,omitempty"`
	CivilStatus        string       `json:"civilStatus,omitempty"`
	Occupation         string       `json:"occupation,omitempty"`
	CreatedAt          time.Time    `json:"createdAt"`
}

// FullName returns the display name used for denormalized record fields.
func (p Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
