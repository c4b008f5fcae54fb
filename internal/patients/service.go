package patients

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ataboada/clinica-core/internal/clock"
	"github.com/ataboada/clinica-core/internal/model"
	"github.com/ataboada/clinica-core/internal/store"
	"github.com/ataboada/clinica-core/pkg/logging"
)

var patientsTracer = otel.Tracer("clinica.internal.patients")

// Service is CRUD plus search over the patient roster.
type Service struct {
	store  *store.Store
	now    clock.Clock
	logger *logging.Logger
}

// NewService constructs a patients service.
func NewService(st *store.Store, now clock.Clock, logger *logging.Logger) *Service {
	if st == nil {
		panic("patients: store required")
	}
	if now == nil {
		now = clock.System
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: st, now: now, logger: logger}
}

// IntakeRequest carries the mutable fields of a patient record.
type IntakeRequest struct {
	FirstName          string             `json:"firstName"`
	LastName           string             `json:"lastName"`
	DNI                string             `json:"dni"`
	Email              string             `json:"email,omitempty"`
	Phone              string             `json:"phone,omitempty"`
	Allergies          string             `json:"allergies"`
	GeneralDescription string             `json:"generalDescription"`
	MedicalHistory     []string           `json:"medicalHistory"`
	CurrentMedications []model.Medication `json:"currentMedications,omitempty"`
	Age                string             `json:"age,omitempty"`
	BirthDate          string             `json:"birthDate,omitempty"`
	Weight             string             `json:"weight,omitempty"`
	Height             string             `json:"height,omitempty"`
	Gender             string             `json:"gender,omitempty"`
	CivilStatus        string             `json:"civilStatus,omitempty"`
	Occupation         string             `json:"occupation,omitempty"`
}

func (r IntakeRequest) valid() bool {
	return strings.TrimSpace(r.FirstName) != "" && strings.TrimSpace(r.LastName) != ""
}

func (r IntakeRequest) apply(p *model.Patient) {
	p.FirstName = r.FirstName
	p.LastName = r.LastName
	p.DNI = r.DNI
	p.Email = r.Email
	p.Phone = r.Phone
	p.Allergies = r.Allergies
	p.GeneralDescription = r.GeneralDescription
	p.MedicalHistory = append([]string(nil), r.MedicalHistory...)
	p.CurrentMedications = append([]model.Medication(nil), r.CurrentMedications...)
	p.Age = r.Age
	p.BirthDate = r.BirthDate
	p.Weight = r.Weight
	p.Height = r.Height
	p.Gender = r.Gender
	p.CivilStatus = r.CivilStatus
	p.Occupation = r.Occupation
}

// Create registers a new patient with a fresh id and creation timestamp.
// Allergies default to the "Ninguna" sentinel when left empty.
func (s *Service) Create(ctx context.Context, req IntakeRequest) (*model.Patient, error) {
	ctx, span := patientsTracer.Start(ctx, "patients.create")
	defer span.End()

	if !req.valid() {
		return nil, ErrInvalidPatient
	}
	patient := model.Patient{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
	}
	req.apply(&patient)
	if strings.TrimSpace(patient.Allergies) == "" {
		patient.Allergies = "Ninguna"
	}

	err := s.store.Update(ctx, func(d *model.Snapshot) error {
		d.Patients = append(d.Patients, patient)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("patient created", "patient_id", patient.ID, "name", patient.FullName())
	return &patient, nil
}

// Update overwrites the patient's intake fields. ID and CreatedAt are
// immutable; historical records keep the denormalized name they were written
// with.
func (s *Service) Update(ctx context.Context, patientID string, req IntakeRequest) (*model.Patient, error) {
	ctx, span := patientsTracer.Start(ctx, "patients.update")
	defer span.End()
	span.SetAttributes(attribute.String("clinica.patient_id", patientID))

	if !req.valid() {
		return nil, ErrInvalidPatient
	}
	var updated model.Patient
	err := s.store.Update(ctx, func(d *model.Snapshot) error {
		for i := range d.Patients {
			if d.Patients[i].ID == patientID {
				req.apply(&d.Patients[i])
				updated = d.Patients[i]
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("patient updated", "patient_id", patientID)
	return &updated, nil
}

// Delete removes a patient from the roster. Deletion is refused while any
// treatment, payment, appointment, odontogram record or session still
// references the patient.
func (s *Service) Delete(ctx context.Context, patientID string) error {
	ctx, span := patientsTracer.Start(ctx, "patients.delete")
	defer span.End()
	span.SetAttributes(attribute.String("clinica.patient_id", patientID))

	if _, ok := s.store.PatientByID(patientID); !ok {
		return ErrNotFound
	}
	if s.store.HasDependents(patientID) {
		return ErrHasDependents
	}

	err := s.store.Update(ctx, func(d *model.Snapshot) error {
		for i := range d.Patients {
			if d.Patients[i].ID == patientID {
				d.Patients = append(d.Patients[:i], d.Patients[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	s.logger.Info("patient deleted", "patient_id", patientID)
	return nil
}

// Get returns one patient.
func (s *Service) Get(patientID string) (*model.Patient, error) {
	p, ok := s.store.PatientByID(patientID)
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// List returns the full roster ordered by last name, then first name.
func (s *Service) List() []model.Patient {
	out := s.store.Patients()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out
}

// Search filters the roster by a case-insensitive substring match over the
// full name or DNI. An empty query returns the full roster.
func (s *Service) Search(query string) []model.Patient {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.List()
	}
	var out []model.Patient
	for _, p := range s.List() {
		if strings.Contains(strings.ToLower(p.FullName()), q) || strings.Contains(strings.ToLower(p.DNI), q) {
			out = append(out, p)
		}
	}
	return out
}
