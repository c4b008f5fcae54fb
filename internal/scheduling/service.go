package scheduling

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ataboada/clinica-core/internal/clock"
	"github.com/ataboada/clinica-core/internal/ledger"
	"github.com/ataboada/clinica-core/internal/model"
	"github.com/ataboada/clinica-core/internal/observability/metrics"
	"github.com/ataboada/clinica-core/internal/odontogram"
	"github.com/ataboada/clinica-core/internal/store"
	"github.com/ataboada/clinica-core/pkg/logging"
)

var schedulingTracer = otel.Tracer("clinica.internal.scheduling")

// DefaultPastTolerance absorbs clock skew between the booking client and the
// clinic clock.
const DefaultPastTolerance = 60 * time.Second

// Service orchestrates the appointment state machine and the diagnostic
// session flow, tying the ledger and odontogram engines together.
type Service struct {
	store      *store.Store
	ledger     *ledger.Service
	odontogram *odontogram.Service
	now        clock.Clock
	logger     *logging.Logger
	metrics    *metrics.ClinicMetrics
	tolerance  time.Duration
}

// NewService constructs a scheduling service. tolerance <= 0 falls back to
// DefaultPastTolerance.
func NewService(st *store.Store, lg *ledger.Service, od *odontogram.Service, now clock.Clock, logger *logging.Logger, m *metrics.ClinicMetrics, tolerance time.Duration) *Service {
	if st == nil || lg == nil || od == nil {
		panic("scheduling: store, ledger and odontogram services required")
	}
	if now == nil {
		now = clock.System
	}
	if logger == nil {
		logger = logging.Default()
	}
	if tolerance <= 0 {
		tolerance = DefaultPastTolerance
	}
	return &Service{
		store:      st,
		ledger:     lg,
		odontogram: od,
		now:        now,
		logger:     logger,
		metrics:    m,
		tolerance:  tolerance,
	}
}

// BookRequest carries the fields of a new appointment.
type BookRequest struct {
	Date          time.Time             `json:"date"`
	Type          model.AppointmentType `json:"type,omitempty"`
	Procedure     string                `json:"procedure,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	Price         float64               `json:"price,omitempty"`
	Deposit       float64               `json:"deposit,omitempty"`
	DepositMethod model.PaymentMethod   `json:"depositMethod,omitempty"`
}

// BookAppointment creates a Pending appointment. Dates further than the
// tolerance in the past are rejected. When the request carries a deposit it
// is recorded on the ledger as an advance payment linked to the procedure,
// and the appointment is flagged paid when the deposit covers the agreed
// price.
func (s *Service) BookAppointment(ctx context.Context, patientID string, req BookRequest) (*model.Appointment, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.book_appointment")
	defer span.End()
	span.SetAttributes(attribute.String("clinica.patient_id", patientID))

	if req.Price < 0 || req.Deposit < 0 {
		return nil, ledger.ErrInvalidAmount
	}
	patient, ok := s.store.PatientByID(patientID)
	if !ok {
		return nil, ErrPatientNotFound
	}
	if req.Date.Before(s.now().Add(-s.tolerance)) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSchedule, req.Date.Format(time.RFC3339))
	}

	apptType := req.Type
	if apptType == "" {
		apptType = inferType(req.Procedure)
	}

	appt := model.Appointment{
		ID:          uuid.NewString(),
		PatientID:   patient.ID,
		PatientName: patient.FullName(),
		Date:        req.Date,
		Type:        apptType,
		Status:      model.AppointmentPending,
		Notes:       req.Notes,
		Price:       req.Price,
	}

	if req.Deposit > 0 {
		payment, err := s.ledger.RecordPayment(ctx, patient.ID, ledger.PaymentRequest{
			Amount:           req.Deposit,
			Method:           req.DepositMethod,
			RelatedProcedure: req.Procedure,
			Notes:            "Adelanto cita: " + req.Procedure,
		})
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		appt.RelatedPaymentID = payment.ID
		appt.IsPaid = req.Price > 0 && req.Deposit >= req.Price
	}

	err := s.store.Update(ctx, func(d *model.Snapshot) error {
		d.Appointments = append(d.Appointments, appt)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.metrics.ObserveAppointmentBooked(string(appt.Type))
	s.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"patient_id", patient.ID,
		"date", appt.Date,
		"type", appt.Type,
		"deposit", req.Deposit,
	)
	return &appt, nil
}

// inferType maps a procedure name to the appointment type the agenda colors
// by. Unrecognized procedures book as a consultation.
func inferType(procedure string) model.AppointmentType {
	p := strings.ToLower(procedure)
	switch {
	case strings.Contains(p, "tratamiento"), strings.Contains(p, "endodoncia"), strings.Contains(p, "cirug"):
		return model.AppointmentTreatment
	case strings.Contains(p, "revis"), strings.Contains(p, "control"):
		return model.AppointmentReview
	default:
		return model.AppointmentConsultation
	}
}

// CancelAppointment moves a Pending appointment to Cancelled. Cancelling a
// Completed or already-Cancelled appointment is a silent no-op; the row is
// kept as a tombstone so the agenda can render it struck through.
func (s *Service) CancelAppointment(ctx context.Context, appointmentID string) error {
	return s.transition(ctx, appointmentID, model.AppointmentCancelled)
}

// CompleteAppointment moves a Pending appointment to Completed. Completing a
// non-Pending appointment is a silent no-op.
func (s *Service) CompleteAppointment(ctx context.Context, appointmentID string) error {
	return s.transition(ctx, appointmentID, model.AppointmentCompleted)
}

func (s *Service) transition(ctx context.Context, appointmentID string, to model.AppointmentStatus) error {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.transition")
	defer span.End()
	span.SetAttributes(
		attribute.String("clinica.appointment_id", appointmentID),
		attribute.String("clinica.target_status", string(to)),
	)

	appt, ok := s.store.AppointmentByID(appointmentID)
	if !ok {
		return ErrAppointmentNotFound
	}
	if appt.Status != model.AppointmentPending {
		return nil
	}

	err := s.store.Update(ctx, func(d *model.Snapshot) error {
		for i := range d.Appointments {
			if d.Appointments[i].ID == appointmentID {
				d.Appointments[i].Status = to
				break
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	s.metrics.ObserveAppointmentTransition(string(to))
	s.logger.Info("appointment transitioned",
		"appointment_id", appointmentID,
		"patient_id", appt.PatientID,
		"status", to,
	)
	return nil
}

// AttendPatient is the chair-side checkout path: one treatment plus an
// optional payment recorded in a single unit, then the originating
// appointment, if any, moves to Completed.
func (s *Service) AttendPatient(ctx context.Context, patientID string, treatReq ledger.TreatmentRequest, payReq ledger.PaymentRequest, appointmentID string) (*model.Treatment, *model.Payment, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.attend_patient")
	defer span.End()
	span.SetAttributes(attribute.String("clinica.patient_id", patientID))

	if appointmentID != "" {
		if _, ok := s.store.AppointmentByID(appointmentID); !ok {
			return nil, nil, ErrAppointmentNotFound
		}
	}

	treatment, payment, err := s.ledger.RecordIntegralVisit(ctx, patientID, treatReq, payReq)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}
	if appointmentID != "" {
		if err := s.CompleteAppointment(ctx, appointmentID); err != nil {
			span.RecordError(err)
			return nil, nil, err
		}
	}
	return treatment, payment, nil
}

// SessionDraft is the in-progress clinical encounter the UI accumulates
// before saving. Nothing here is persisted until SaveSession.
type SessionDraft struct {
	CIE10Code      string                   `json:"cie10Code,omitempty"`
	CIE10Name      string                   `json:"cie10Name,omitempty"`
	EvolutionNotes string                   `json:"evolutionNotes,omitempty"`
	Prescription   []model.PrescriptionItem `json:"prescription,omitempty"`
	NextVisitPlan  []string                 `json:"nextVisitPlan,omitempty"`
	Odontogram     []model.OdontogramDetail `json:"odontogram,omitempty"`
	AppointmentID  string                   `json:"appointmentId,omitempty"`
}

// HasUnsavedWork reports whether the draft carries clinical content the
// clinician would lose by leaving without saving.
func (d SessionDraft) HasUnsavedWork() bool {
	return strings.TrimSpace(d.EvolutionNotes) != "" ||
		d.CIE10Code != "" ||
		len(d.Prescription) > 0 ||
		len(d.NextVisitPlan) > 0
}

// LacksDiagnosis reports whether the draft has neither a diagnostic code nor
// evolution notes. A warn-don't-block signal; saving still proceeds with
// placeholder values.
func (d SessionDraft) LacksDiagnosis() bool {
	return d.CIE10Code == "" && strings.TrimSpace(d.EvolutionNotes) == ""
}

// Placeholder diagnosis used when the clinician saves without picking a code.
const (
	placeholderCode = "---"
	placeholderName = "Sin diagnóstico especificado"
)

// SaveSession persists a clinical encounter in three steps whose order is
// load-bearing: the odontogram buffer becomes the live record first, then an
// immutable session is appended carrying a deep copy of the same details, and
// last the originating appointment, if any, moves to Completed. The live
// odontogram is never newer than the latest session snapshot claims.
func (s *Service) SaveSession(ctx context.Context, patientID, doctorID, doctorName string, draft SessionDraft) (*model.DiagnosticSession, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.save_session")
	defer span.End()
	span.SetAttributes(attribute.String("clinica.patient_id", patientID))

	if _, err := s.odontogram.SaveSnapshot(ctx, patientID, draft.Odontogram); err != nil {
		span.RecordError(err)
		return nil, err
	}

	code, name := draft.CIE10Code, draft.CIE10Name
	if code == "" {
		code, name = placeholderCode, placeholderName
	}
	session := model.DiagnosticSession{
		ID:                 uuid.NewString(),
		PatientID:          patientID,
		DoctorID:           doctorID,
		DoctorName:         doctorName,
		Date:               s.now(),
		CIE10Code:          code,
		CIE10Name:          name,
		EvolutionNotes:     draft.EvolutionNotes,
		Prescription:       append([]model.PrescriptionItem(nil), draft.Prescription...),
		OdontogramSnapshot: model.CloneDetails(draft.Odontogram),
		NextVisitPlan:      append([]string(nil), draft.NextVisitPlan...),
	}
	err := s.store.Update(ctx, func(d *model.Snapshot) error {
		d.DiagnosticSessions = append(d.DiagnosticSessions, session)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if draft.AppointmentID != "" {
		if err := s.CompleteAppointment(ctx, draft.AppointmentID); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	s.metrics.ObserveSessionSaved()
	s.logger.Info("diagnostic session saved",
		"session_id", session.ID,
		"patient_id", patientID,
		"cie10", session.CIE10Code,
		"findings", len(session.OdontogramSnapshot),
	)
	return &session, nil
}

// SessionsByPatient returns the patient's session history, newest first.
func (s *Service) SessionsByPatient(patientID string) []model.DiagnosticSession {
	return s.store.SessionsByPatient(patientID)
}

// AppointmentsForDay returns every appointment falling on the given calendar
// day in day's location, tombstoned cancellations included, ordered by time.
func (s *Service) AppointmentsForDay(day time.Time) []model.Appointment {
	y, m, d := day.Date()
	var out []model.Appointment
	for _, a := range s.store.Appointments() {
		ay, am, ad := a.Date.In(day.Location()).Date()
		if ay == y && am == m && ad == d {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// UpcomingAppointments returns the next Pending appointments from now on,
// soonest first, capped at limit when limit > 0.
func (s *Service) UpcomingAppointments(limit int) []model.Appointment {
	now := s.now()
	var out []model.Appointment
	for _, a := range s.store.Appointments() {
		if a.Status == model.AppointmentPending && !a.Date.Before(now) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
