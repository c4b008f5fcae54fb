package model

import "time"

// ProcedureItem is one entry of the clinic's price list.
type ProcedureItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// DiagnosticCode is one CIE-10 code/name pair.
type DiagnosticCode struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Reminder is a staff to-do note shown on the dashboard.
type Reminder struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   string    `json:"createdBy"`
	CreatedByID string    `json:"createdById"`
}

// ClinicSchedule is the clinic's daily opening window in whole hours.
type ClinicSchedule struct {
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
}

// DashboardStats is the summary block on the main dashboard.
type DashboardStats struct {
	TotalIncome         float64 `json:"totalIncome"`
	TotalPatients       int     `json:"totalPatients"`
	AppointmentsToday   int     `json:"appointmentsToday"`
	PendingAppointments int     `json:"pendingAppointments"`
}

// Holiday is one fixed-date national holiday shown on the agenda.
type Holiday struct {
	Date string `json:"date"` // YYYY-MM-DD
	Name string `json:"name"`
}
