package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ataboada/clinica-core/internal/clock"
	"github.com/ataboada/clinica-core/internal/model"
	"github.com/ataboada/clinica-core/internal/store"
	"github.com/ataboada/clinica-core/pkg/logging"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(context.Background(), store.NewMemoryStorage(), nil, logging.Default())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	now := clock.Fixed(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	svc := NewService(st, now, logging.Default(), nil)

	if err := st.Update(context.Background(), func(d *model.Snapshot) error {
		d.Patients = append(d.Patients, model.Patient{
			ID: "100", FirstName: "Juan", LastName: "Pérez",
		})
		return nil
	}); err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	return svc, st
}

func TestRecordTreatment_NegativeCostRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RecordTreatment(context.Background(), "100", TreatmentRequest{
		Procedure: "Endodoncia", Cost: -10,
	})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if len(svc.TreatmentsByPatient("100")) != 0 {
		t.Error("rejected treatment must not be persisted")
	}
}

func TestRecordTreatment_UnknownPatient(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RecordTreatment(context.Background(), "ghost", TreatmentRequest{
		Procedure: "Limpieza Dental", Cost: 250,
	})
	if !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestRecordPayment_ZeroAmountAllowed(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.RecordPayment(context.Background(), "100", PaymentRequest{
		Amount: 0, Method: model.PaymentCash,
	})
	if err != nil {
		t.Fatalf("zero payment: %v", err)
	}
	if p.Status != model.PaymentCompleted {
		t.Errorf("expected completed status, got %s", p.Status)
	}
}

func TestBalance_DerivedFromLedgers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.RecordTreatment(ctx, "100", TreatmentRequest{Procedure: "Endodoncia", Cost: 800}); err != nil {
		t.Fatalf("treatment: %v", err)
	}
	if _, err := svc.RecordTreatment(ctx, "100", TreatmentRequest{Procedure: "Limpieza Dental", Cost: 250}); err != nil {
		t.Fatalf("treatment: %v", err)
	}
	if _, err := svc.RecordPayment(ctx, "100", PaymentRequest{Amount: 300, Method: model.PaymentCash}); err != nil {
		t.Fatalf("payment: %v", err)
	}

	b := svc.Balance("100")
	if b.TotalCost != 1050 || b.TotalPaid != 300 || b.Debt != 750 {
		t.Errorf("unexpected balance: %+v", b)
	}
}

func TestBalance_UnknownPatientIsZero(t *testing.T) {
	svc, _ := newTestService(t)

	b := svc.Balance("ghost")
	if b.TotalCost != 0 || b.TotalPaid != 0 || b.Debt != 0 {
		t.Errorf("expected zero balance, got %+v", b)
	}
}

func TestBalance_OverpaymentGoesNegative(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.RecordTreatment(ctx, "100", TreatmentRequest{Procedure: "Consulta General", Cost: 100}); err != nil {
		t.Fatalf("treatment: %v", err)
	}
	if _, err := svc.RecordPayment(ctx, "100", PaymentRequest{Amount: 150, Method: model.PaymentQR}); err != nil {
		t.Fatalf("payment: %v", err)
	}

	if b := svc.Balance("100"); b.Debt != -50 {
		t.Errorf("expected unfloored debt -50, got %v", b.Debt)
	}
}

func TestCancelPayment_RestoresDebtAndIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.RecordTreatment(ctx, "100", TreatmentRequest{Procedure: "Consulta General", Cost: 100}); err != nil {
		t.Fatalf("treatment: %v", err)
	}
	if _, err := svc.RecordPayment(ctx, "100", PaymentRequest{Amount: 40, Method: model.PaymentCash}); err != nil {
		t.Fatalf("payment: %v", err)
	}
	p, err := svc.RecordPayment(ctx, "100", PaymentRequest{Amount: 60, Method: model.PaymentQR})
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if b := svc.Balance("100"); b.Debt != 0 {
		t.Fatalf("expected cleared debt, got %v", b.Debt)
	}

	if err := svc.CancelPayment(ctx, p.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if b := svc.Balance("100"); b.Debt != 60 {
		t.Errorf("expected debt restored to 60, got %v", b.Debt)
	}

	// Second cancel is a silent no-op leaving state unchanged.
	if err := svc.CancelPayment(ctx, p.ID); err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if b := svc.Balance("100"); b.Debt != 60 {
		t.Errorf("debt changed on idempotent cancel: %v", b.Debt)
	}

	// Cancelled payment stays on the ledger for the audit trail.
	payments := svc.PaymentsByPatient("100")
	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(payments))
	}
}

func TestCancelPayment_UnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	if err := svc.CancelPayment(context.Background(), "ghost"); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestRecordIntegralVisit_FullEncounter(t *testing.T) {
	svc, _ := newTestService(t)

	treatment, payment, err := svc.RecordIntegralVisit(context.Background(), "100",
		TreatmentRequest{Procedure: "Consulta General", Cost: 100},
		PaymentRequest{Amount: 40, Method: model.PaymentCash},
	)
	if err != nil {
		t.Fatalf("integral visit: %v", err)
	}
	if treatment.Cost != 100 {
		t.Errorf("unexpected treatment cost %v", treatment.Cost)
	}
	if payment == nil || payment.Amount != 40 || payment.Status != model.PaymentCompleted {
		t.Errorf("unexpected payment: %+v", payment)
	}
	if payment.RelatedProcedure != "Consulta General" {
		t.Errorf("payment must link the treatment procedure, got %q", payment.RelatedProcedure)
	}

	b := svc.Balance("100")
	if b.TotalCost != 100 || b.TotalPaid != 40 || b.Debt != 60 {
		t.Errorf("unexpected balance: %+v", b)
	}
}

func TestRecordIntegralVisit_ZeroPaymentSkipsPaymentRow(t *testing.T) {
	svc, _ := newTestService(t)

	_, payment, err := svc.RecordIntegralVisit(context.Background(), "100",
		TreatmentRequest{Procedure: "Valoración Estética", Cost: 0},
		PaymentRequest{Amount: 0, Method: model.PaymentCash},
	)
	if err != nil {
		t.Fatalf("integral visit: %v", err)
	}
	if payment != nil {
		t.Errorf("zero amount must not create a payment, got %+v", payment)
	}
	if len(svc.PaymentsByPatient("100")) != 0 {
		t.Error("no payment row expected")
	}
}

func TestRecordIntegralVisit_NegativeAmountLeavesNoPartialState(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.RecordIntegralVisit(context.Background(), "100",
		TreatmentRequest{Procedure: "Endodoncia", Cost: 800},
		PaymentRequest{Amount: -5, Method: model.PaymentCash},
	)
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if len(svc.TreatmentsByPatient("100")) != 0 {
		t.Error("rejected visit must not append the treatment either")
	}
}

func TestDebtors(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	if err := st.Update(ctx, func(d *model.Snapshot) error {
		d.Patients = append(d.Patients, model.Patient{ID: "101", FirstName: "María", LastName: "González"})
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.RecordTreatment(ctx, "100", TreatmentRequest{Procedure: "Endodoncia", Cost: 800}); err != nil {
		t.Fatalf("treatment: %v", err)
	}
	if _, err := svc.RecordTreatment(ctx, "101", TreatmentRequest{Procedure: "Consulta General", Cost: 100}); err != nil {
		t.Fatalf("treatment: %v", err)
	}
	if _, err := svc.RecordPayment(ctx, "101", PaymentRequest{Amount: 100, Method: model.PaymentCash}); err != nil {
		t.Fatalf("payment: %v", err)
	}

	debtors := svc.Debtors()
	if len(debtors) != 1 || debtors[0].Patient.ID != "100" || debtors[0].Debt != 800 {
		t.Errorf("unexpected debtors: %+v", debtors)
	}
}

func TestTotalIncome_ExcludesCancelled(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.RecordPayment(ctx, "100", PaymentRequest{Amount: 100, Method: model.PaymentCash}); err != nil {
		t.Fatalf("payment: %v", err)
	}
	p, err := svc.RecordPayment(ctx, "100", PaymentRequest{Amount: 50, Method: model.PaymentQR})
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if err := svc.CancelPayment(ctx, p.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if got := svc.TotalIncome(); got != 100 {
		t.Errorf("expected income 100, got %v", got)
	}
}
