package model

// Snapshot is the entire persisted state graph. The storage collaborator
// loads it once at startup and saves it whole after every mutation.
type Snapshot struct {
	Patients           []Patient           `json:"patients"`
	Treatments         []Treatment         `json:"treatments"`
	Payments           []Payment           `json:"payments"`
	Appointments       []Appointment       `json:"appointments"`
	OdontogramRecords  []OdontogramRecord  `json:"odontogramRecords"`
	DiagnosticSessions []DiagnosticSession `json:"diagnosticSessions"`
	Procedures         []ProcedureItem     `json:"procedures"`
	Reminders          []Reminder          `json:"reminders"`
	FinancialGoal      float64             `json:"financialGoal"`
	Schedule           ClinicSchedule      `json:"schedule"`
}

// Empty reports whether the snapshot carries no records at all, which is the
// signal to seed the factory dataset.
func (s *Snapshot) Empty() bool {
	return len(s.Patients) == 0 && len(s.Treatments) == 0 &&
		len(s.Payments) == 0 && len(s.Appointments) == 0 &&
		len(s.OdontogramRecords) == 0 && len(s.DiagnosticSessions) == 0 &&
		len(s.Procedures) == 0 && len(s.Reminders) == 0
}

// CloneDetails deep-copies a detail list. Session snapshots rely on this so
// later edits to the live odontogram never reach saved history.
func CloneDetails(details []OdontogramDetail) []OdontogramDetail {
	if details == nil {
		return nil
	}
	out := make([]OdontogramDetail, len(details))
	copy(out, details)
	return out
}

// Clone deep-copies the snapshot so callers can hand it to storage without
// racing later in-memory mutations.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		FinancialGoal: s.FinancialGoal,
		Schedule:      s.Schedule,
	}
	out.Patients = make([]Patient, len(s.Patients))
	copy(out.Patients, s.Patients)
	for i, p := range out.Patients {
		if p.MedicalHistory != nil {
			h := make([]string, len(p.MedicalHistory))
			copy(h, p.MedicalHistory)
			out.Patients[i].MedicalHistory = h
		}
		if p.CurrentMedications != nil {
			m := make([]Medication, len(p.CurrentMedications))
			copy(m, p.CurrentMedications)
			out.Patients[i].CurrentMedications = m
		}
	}
	out.Treatments = make([]Treatment, len(s.Treatments))
	copy(out.Treatments, s.Treatments)
	out.Payments = make([]Payment, len(s.Payments))
	copy(out.Payments, s.Payments)
	out.Appointments = make([]Appointment, len(s.Appointments))
	copy(out.Appointments, s.Appointments)
	out.OdontogramRecords = make([]OdontogramRecord, len(s.OdontogramRecords))
	copy(out.OdontogramRecords, s.OdontogramRecords)
	for i, r := range out.OdontogramRecords {
		out.OdontogramRecords[i].Details = CloneDetails(r.Details)
	}
	out.DiagnosticSessions = make([]DiagnosticSession, len(s.DiagnosticSessions))
	copy(out.DiagnosticSessions, s.DiagnosticSessions)
	for i, ds := range out.DiagnosticSessions {
		if ds.Prescription != nil {
			rx := make([]PrescriptionItem, len(ds.Prescription))
			copy(rx, ds.Prescription)
			out.DiagnosticSessions[i].Prescription = rx
		}
		out.DiagnosticSessions[i].OdontogramSnapshot = CloneDetails(ds.OdontogramSnapshot)
		if ds.NextVisitPlan != nil {
			plan := make([]string, len(ds.NextVisitPlan))
			copy(plan, ds.NextVisitPlan)
			out.DiagnosticSessions[i].NextVisitPlan = plan
		}
	}
	out.Procedures = make([]ProcedureItem, len(s.Procedures))
	copy(out.Procedures, s.Procedures)
	out.Reminders = make([]Reminder, len(s.Reminders))
	copy(out.Reminders, s.Reminders)
	return out
}
