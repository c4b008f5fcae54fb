package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ataboada/clinica-core/internal/model"
	"github.com/ataboada/clinica-core/pkg/logging"
)

// Store owns the in-memory state graph and its durability. Every engine
// reads through View/typed getters and mutates through Update, which
// persists the whole graph before reporting success.
//
// The clinic runs a single logical actor; the mutex only guards against the
// HTTP server's per-request goroutines.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	logger  *logging.Logger
	tracer  trace.Tracer
	factory func() *model.Snapshot
	data    *model.Snapshot
}

// Open loads the snapshot from storage. When the loaded snapshot is empty
// and a factory is provided, the factory dataset is seeded and persisted.
func Open(ctx context.Context, storage Storage, factory func() *model.Snapshot, logger *logging.Logger) (*Store, error) {
	if storage == nil {
		panic("store: storage required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	snap, err := storage.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: load: %w", err)
	}
	s := &Store{
		storage: storage,
		logger:  logger,
		tracer:  otel.Tracer("clinica.internal.store"),
		factory: factory,
		data:    snap,
	}
	if snap.Empty() && factory != nil {
		s.data = factory()
		if err := storage.SaveAll(ctx, s.data.Clone()); err != nil {
			return nil, fmt.Errorf("store: seed: %w", err)
		}
		logger.Info("seeded factory dataset",
			"patients", len(s.data.Patients),
			"procedures", len(s.data.Procedures),
		)
	}
	return s, nil
}

// View runs fn with read access to the snapshot. fn must not retain or
// mutate anything it is handed.
func (s *Store) View(fn func(d *model.Snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// Update applies fn to a copy of the snapshot, persists it, and swaps it in.
// If fn returns an error, or persistence fails, no state changes.
func (s *Store) Update(ctx context.Context, fn func(d *model.Snapshot) error) error {
	ctx, span := s.tracer.Start(ctx, "store.update")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.data.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.storage.SaveAll(ctx, next.Clone()); err != nil {
		span.RecordError(err)
		return fmt.Errorf("store: save: %w", err)
	}
	s.data = next
	return nil
}

// ResetToFactory wipes all collections and reseeds the demo dataset.
func (s *Store) ResetToFactory(ctx context.Context) error {
	if s.factory == nil {
		return fmt.Errorf("store: no factory dataset configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.factory()
	if err := s.storage.SaveAll(ctx, next.Clone()); err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	s.data = next
	s.logger.Info("store reset to factory dataset")
	return nil
}

// --- typed read helpers ---

// Patients returns all patients.
func (s *Store) Patients() []model.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Patient, len(s.data.Patients))
	copy(out, s.data.Patients)
	return out
}

// PatientByID looks up one patient.
func (s *Store) PatientByID(id string) (model.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.data.Patients {
		if p.ID == id {
			return p, true
		}
	}
	return model.Patient{}, false
}

// HasDependents reports whether any treatment, payment, appointment,
// odontogram record or diagnostic session references the patient.
func (s *Store) HasDependents(patientID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.data.Treatments {
		if t.PatientID == patientID {
			return true
		}
	}
	for _, p := range s.data.Payments {
		if p.PatientID == patientID {
			return true
		}
	}
	for _, a := range s.data.Appointments {
		if a.PatientID == patientID {
			return true
		}
	}
	for _, o := range s.data.OdontogramRecords {
		if o.PatientID == patientID {
			return true
		}
	}
	for _, ds := range s.data.DiagnosticSessions {
		if ds.PatientID == patientID {
			return true
		}
	}
	return false
}

// Treatments returns all treatments.
func (s *Store) Treatments() []model.Treatment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Treatment, len(s.data.Treatments))
	copy(out, s.data.Treatments)
	return out
}

// TreatmentsByPatient returns the patient's treatments, newest first.
func (s *Store) TreatmentsByPatient(patientID string) []model.Treatment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Treatment
	for _, t := range s.data.Treatments {
		if t.PatientID == patientID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// Payments returns all payments, including cancelled ones.
func (s *Store) Payments() []model.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Payment, len(s.data.Payments))
	copy(out, s.data.Payments)
	return out
}

// PaymentsByPatient returns the patient's payments, newest first.
func (s *Store) PaymentsByPatient(patientID string) []model.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Payment
	for _, p := range s.data.Payments {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// PaymentByID looks up one payment.
func (s *Store) PaymentByID(id string) (model.Payment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.data.Payments {
		if p.ID == id {
			return p, true
		}
	}
	return model.Payment{}, false
}

// Appointments returns all appointments, tombstoned cancellations included.
func (s *Store) Appointments() []model.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Appointment, len(s.data.Appointments))
	copy(out, s.data.Appointments)
	return out
}

// AppointmentByID looks up one appointment.
func (s *Store) AppointmentByID(id string) (model.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.data.Appointments {
		if a.ID == id {
			return a, true
		}
	}
	return model.Appointment{}, false
}

// Odontogram returns the live record for the patient, if any.
func (s *Store) Odontogram(patientID string) (model.OdontogramRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.data.OdontogramRecords {
		if o.PatientID == patientID {
			rec := o
			rec.Details = model.CloneDetails(o.Details)
			return rec, true
		}
	}
	return model.OdontogramRecord{}, false
}

// SessionsByPatient returns the patient's diagnostic sessions, newest first.
func (s *Store) SessionsByPatient(patientID string) []model.DiagnosticSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.DiagnosticSession
	for _, ds := range s.data.DiagnosticSessions {
		if ds.PatientID == patientID {
			c := ds
			c.OdontogramSnapshot = model.CloneDetails(ds.OdontogramSnapshot)
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// Procedures returns the price list.
func (s *Store) Procedures() []model.ProcedureItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ProcedureItem, len(s.data.Procedures))
	copy(out, s.data.Procedures)
	return out
}

// Reminders returns all dashboard reminders.
func (s *Store) Reminders() []model.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Reminder, len(s.data.Reminders))
	copy(out, s.data.Reminders)
	return out
}

// FinancialGoal returns the configured monthly income goal.
func (s *Store) FinancialGoal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.FinancialGoal
}

// Schedule returns the clinic's opening hours.
func (s *Store) Schedule() model.ClinicSchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Schedule
}
