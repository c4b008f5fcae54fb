package ledger

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ataboada/clinica-core/internal/clock"
	"github.com/ataboada/clinica-core/internal/model"
	"github.com/ataboada/clinica-core/internal/observability/metrics"
	"github.com/ataboada/clinica-core/internal/store"
	"github.com/ataboada/clinica-core/pkg/logging"
)

var ledgerTracer = otel.Tracer("clinica.internal.ledger")

// Service is the single source of truth for how much a patient owes and why.
// Treatments and payments are append-only ledgers; the balance is always
// derived, never stored.
type Service struct {
	store   *store.Store
	now     clock.Clock
	logger  *logging.Logger
	metrics *metrics.ClinicMetrics
}

// NewService constructs a ledger service.
func NewService(st *store.Store, now clock.Clock, logger *logging.Logger, m *metrics.ClinicMetrics) *Service {
	if st == nil {
		panic("ledger: store required")
	}
	if now == nil {
		now = clock.System
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: st, now: now, logger: logger, metrics: m}
}

// TreatmentRequest carries the fields of a new treatment.
type TreatmentRequest struct {
	Procedure   string                `json:"procedure"`
	Description string                `json:"description"`
	Diagnosis   string                `json:"diagnosis,omitempty"`
	Cost        float64               `json:"cost"`
	Status      model.TreatmentStatus `json:"status,omitempty"`
}

// PaymentRequest carries the fields of a new payment.
type PaymentRequest struct {
	Amount           float64             `json:"amount"`
	Method           model.PaymentMethod `json:"method"`
	RelatedProcedure string              `json:"relatedProcedure,omitempty"`
	Notes            string              `json:"notes,omitempty"`
}

// RecordTreatment appends a new treatment for the patient.
func (s *Service) RecordTreatment(ctx context.Context, patientID string, req TreatmentRequest) (*model.Treatment, error) {
	ctx, span := ledgerTracer.Start(ctx, "ledger.record_treatment")
	defer span.End()
	span.SetAttributes(attribute.String("clinica.patient_id", patientID))

	if req.Cost < 0 {
		return nil, ErrInvalidAmount
	}
	patient, ok := s.store.PatientByID(patientID)
	if !ok {
		return nil, ErrPatientNotFound
	}

	status := req.Status
	if status == "" {
		status = model.TreatmentCompleted
	}
	treatment := model.Treatment{
		ID:          uuid.NewString(),
		PatientID:   patient.ID,
		PatientName: patient.FullName(),
		Procedure:   req.Procedure,
		Description: req.Description,
		Diagnosis:   req.Diagnosis,
		Cost:        req.Cost,
		Status:      status,
		Date:        s.now(),
	}
	err := s.store.Update(ctx, func(d *model.Snapshot) error {
		d.Treatments = append(d.Treatments, treatment)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.metrics.ObserveTreatment(treatment.Procedure)
	s.logger.Info("treatment recorded",
		"treatment_id", treatment.ID,
		"patient_id", patient.ID,
		"procedure", treatment.Procedure,
		"cost", treatment.Cost,
	)
	return &treatment, nil
}

// RecordPayment appends a new completed payment for the patient. A zero
// amount is permitted but discouraged; negative amounts are rejected.
func (s *Service) RecordPayment(ctx context.Context, patientID string, req PaymentRequest) (*model.Payment, error) {
	ctx, span := ledgerTracer.Start(ctx, "ledger.record_payment")
	defer span.End()
	span.SetAttributes(attribute.String("clinica.patient_id", patientID))

	if req.Amount < 0 {
		return nil, ErrInvalidAmount
	}
	patient, ok := s.store.PatientByID(patientID)
	if !ok {
		return nil, ErrPatientNotFound
	}

	payment := s.buildPayment(patient, req)
	err := s.store.Update(ctx, func(d *model.Snapshot) error {
		d.Payments = append(d.Payments, payment)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.metrics.ObservePayment(string(payment.Method))
	s.logger.Info("payment recorded",
		"payment_id", payment.ID,
		"patient_id", patient.ID,
		"amount", payment.Amount,
		"method", payment.Method,
	)
	return &payment, nil
}

func (s *Service) buildPayment(patient model.Patient, req PaymentRequest) model.Payment {
	return model.Payment{
		ID:               uuid.NewString(),
		PatientID:        patient.ID,
		PatientName:      patient.FullName(),
		Amount:           req.Amount,
		Date:             s.now(),
		Method:           req.Method,
		Notes:            req.Notes,
		RelatedProcedure: req.RelatedProcedure,
		Status:           model.PaymentCompleted,
	}
}

// CancelPayment flips the payment to cancelled. Cancelling an already
// cancelled payment is a no-op. The payment row itself is never deleted; the
// patient's derived debt grows back on the next read.
func (s *Service) CancelPayment(ctx context.Context, paymentID string) error {
	ctx, span := ledgerTracer.Start(ctx, "ledger.cancel_payment")
	defer span.End()
	span.SetAttributes(attribute.String("clinica.payment_id", paymentID))

	payment, ok := s.store.PaymentByID(paymentID)
	if !ok {
		return ErrPaymentNotFound
	}
	if payment.Status == model.PaymentCancelled {
		return nil
	}

	err := s.store.Update(ctx, func(d *model.Snapshot) error {
		for i := range d.Payments {
			if d.Payments[i].ID == paymentID {
				d.Payments[i].Status = model.PaymentCancelled
				break
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	s.metrics.ObservePaymentCancelled()
	s.logger.Info("payment cancelled", "payment_id", paymentID, "patient_id", payment.PatientID)
	return nil
}

// Balance derives the patient's financial position from the two append-only
// ledgers. Unknown patients degrade to a zero balance; debt is unfloored, so
// overpayment shows as a negative value.
func (s *Service) Balance(patientID string) model.Balance {
	var b model.Balance
	for _, t := range s.store.TreatmentsByPatient(patientID) {
		b.TotalCost += t.Cost
	}
	for _, p := range s.store.PaymentsByPatient(patientID) {
		if p.Status != model.PaymentCancelled {
			b.TotalPaid += p.Amount
		}
	}
	b.Debt = b.TotalCost - b.TotalPaid
	return b
}

// Debtors returns every patient with outstanding debt.
func (s *Service) Debtors() []model.Debtor {
	var out []model.Debtor
	for _, p := range s.store.Patients() {
		if b := s.Balance(p.ID); b.Debt > 0 {
			out = append(out, model.Debtor{Patient: p, Debt: b.Debt})
		}
	}
	return out
}

// RecordIntegralVisit appends one treatment and, when the payment amount is
// positive, one payment linked to the treatment's procedure. Both land in a
// single store update so a payment can never exist without its treatment.
func (s *Service) RecordIntegralVisit(ctx context.Context, patientID string, treatReq TreatmentRequest, payReq PaymentRequest) (*model.Treatment, *model.Payment, error) {
	ctx, span := ledgerTracer.Start(ctx, "ledger.record_integral_visit")
	defer span.End()
	span.SetAttributes(attribute.String("clinica.patient_id", patientID))

	if treatReq.Cost < 0 || payReq.Amount < 0 {
		return nil, nil, ErrInvalidAmount
	}
	patient, ok := s.store.PatientByID(patientID)
	if !ok {
		return nil, nil, ErrPatientNotFound
	}

	status := treatReq.Status
	if status == "" {
		status = model.TreatmentCompleted
	}
	treatment := model.Treatment{
		ID:          uuid.NewString(),
		PatientID:   patient.ID,
		PatientName: patient.FullName(),
		Procedure:   treatReq.Procedure,
		Description: treatReq.Description,
		Diagnosis:   treatReq.Diagnosis,
		Cost:        treatReq.Cost,
		Status:      status,
		Date:        s.now(),
	}

	var payment *model.Payment
	if payReq.Amount > 0 {
		p := s.buildPayment(patient, PaymentRequest{
			Amount:           payReq.Amount,
			Method:           payReq.Method,
			RelatedProcedure: treatment.Procedure,
			Notes:            "Pago en atención integral",
		})
		payment = &p
	}

	err := s.store.Update(ctx, func(d *model.Snapshot) error {
		d.Treatments = append(d.Treatments, treatment)
		if payment != nil {
			d.Payments = append(d.Payments, *payment)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	s.metrics.ObserveTreatment(treatment.Procedure)
	if payment != nil {
		s.metrics.ObservePayment(string(payment.Method))
	}
	s.logger.Info("integral visit recorded",
		"treatment_id", treatment.ID,
		"patient_id", patient.ID,
		"cost", treatment.Cost,
		"collected", payReq.Amount,
	)
	return &treatment, payment, nil
}

// TreatmentsByPatient returns the patient's treatment history, newest first.
func (s *Service) TreatmentsByPatient(patientID string) []model.Treatment {
	return s.store.TreatmentsByPatient(patientID)
}

// PaymentsByPatient returns the patient's payments, newest first, cancelled
// ones included for the audit trail.
func (s *Service) PaymentsByPatient(patientID string) []model.Payment {
	return s.store.PaymentsByPatient(patientID)
}

// TotalIncome sums every non-cancelled payment on the books.
func (s *Service) TotalIncome() float64 {
	var total float64
	for _, p := range s.store.Payments() {
		if p.Status != model.PaymentCancelled {
			total += p.Amount
		}
	}
	return total
}
