package clinic

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

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(context.Background(), store.NewMemoryStorage(), nil, logging.Default())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return NewService(st, clock.Fixed(testNow), logging.Default(), time.UTC), st
}

func TestStats(t *testing.T) {
	svc, st := newTestService(t)

	if err := st.Update(context.Background(), func(d *model.Snapshot) error {
		d.Patients = append(d.Patients,
			model.Patient{ID: "100", FirstName: "Juan", LastName: "Pérez"},
			model.Patient{ID: "101", FirstName: "María", LastName: "González"},
		)
		d.Payments = append(d.Payments,
			model.Payment{ID: "p1", PatientID: "100", Amount: 300, Status: model.PaymentCompleted},
			model.Payment{ID: "p2", PatientID: "100", Amount: 500, Status: model.PaymentCancelled},
		)
		d.Appointments = append(d.Appointments,
			model.Appointment{ID: "a1", PatientID: "100", Date: testNow.Add(2 * time.Hour), Status: model.AppointmentPending},
			model.Appointment{ID: "a2", PatientID: "101", Date: testNow.Add(-3 * time.Hour), Status: model.AppointmentCompleted},
			model.Appointment{ID: "a3", PatientID: "101", Date: testNow.Add(time.Hour), Status: model.AppointmentCancelled},
			model.Appointment{ID: "a4", PatientID: "100", Date: testNow.Add(48 * time.Hour), Status: model.AppointmentPending},
		)
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	stats := svc.Stats()
	if stats.TotalIncome != 300 {
		t.Errorf("cancelled payments must not count, got income %v", stats.TotalIncome)
	}
	if stats.TotalPatients != 2 {
		t.Errorf("expected 2 patients, got %d", stats.TotalPatients)
	}
	// a1 and a2 fall on today; the cancelled a3 does not count.
	if stats.AppointmentsToday != 2 {
		t.Errorf("expected 2 appointments today, got %d", stats.AppointmentsToday)
	}
	if stats.PendingAppointments != 2 {
		t.Errorf("expected 2 pending, got %d", stats.PendingAppointments)
	}
}

func TestRecentTreatedPatients(t *testing.T) {
	svc, st := newTestService(t)

	if err := st.Update(context.Background(), func(d *model.Snapshot) error {
		d.Patients = append(d.Patients,
			model.Patient{ID: "100", FirstName: "Juan", LastName: "Pérez"},
			model.Patient{ID: "101", FirstName: "María", LastName: "González"},
		)
		d.Treatments = append(d.Treatments,
			model.Treatment{ID: "t1", PatientID: "100", Procedure: "Limpieza Dental", Date: testNow.Add(-48 * time.Hour)},
			model.Treatment{ID: "t2", PatientID: "100", Procedure: "Endodoncia", Date: testNow.Add(-2 * time.Hour)},
			model.Treatment{ID: "t3", PatientID: "101", Procedure: "Consulta General", Date: testNow.Add(-24 * time.Hour)},
			model.Treatment{ID: "t4", PatientID: "ghost", Procedure: "Extracción", Date: testNow},
		)
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	recent := svc.RecentTreatedPatients(0)
	if len(recent) != 2 {
		t.Fatalf("expected one entry per known patient, got %d", len(recent))
	}
	if recent[0].Patient.ID != "100" || recent[0].LastTreatment.ID != "t2" {
		t.Errorf("expected the latest treatment per patient first, got %+v", recent[0])
	}
	if recent[1].Patient.ID != "101" {
		t.Errorf("unexpected second entry: %+v", recent[1])
	}

	if limited := svc.RecentTreatedPatients(1); len(limited) != 1 || limited[0].Patient.ID != "100" {
		t.Errorf("limit must keep the most recent, got %+v", limited)
	}
}

func TestReminders_Lifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reminder, err := svc.AddReminder(ctx, "Pedir composite A2", "Dra. Rojas", "d1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if reminder.Completed {
		t.Error("new reminders start open")
	}

	if err := svc.ToggleReminder(ctx, reminder.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := svc.Reminders(); !got[0].Completed {
		t.Error("toggle must flip completed")
	}
	if err := svc.ToggleReminder(ctx, reminder.ID); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if got := svc.Reminders(); got[0].Completed {
		t.Error("second toggle must flip back")
	}

	if err := svc.DeleteReminder(ctx, reminder.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := svc.Reminders(); len(got) != 0 {
		t.Errorf("expected empty list, got %+v", got)
	}

	if _, err := svc.AddReminder(ctx, "   ", "Dra. Rojas", "d1"); !errors.Is(err, ErrInvalidReminder) {
		t.Errorf("blank text: expected ErrInvalidReminder, got %v", err)
	}
	if err := svc.ToggleReminder(ctx, "ghost"); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("expected ErrReminderNotFound, got %v", err)
	}
	if err := svc.DeleteReminder(ctx, "ghost"); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("expected ErrReminderNotFound, got %v", err)
	}
}

func TestSettings(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SetFinancialGoal(ctx, 25000); err != nil {
		t.Fatalf("set goal: %v", err)
	}
	if got := svc.FinancialGoal(); got != 25000 {
		t.Errorf("expected goal 25000, got %v", got)
	}
	if err := svc.SetFinancialGoal(ctx, -1); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("negative goal: expected ErrInvalidSettings, got %v", err)
	}

	if err := svc.SetSchedule(ctx, model.ClinicSchedule{StartHour: 9, EndHour: 19}); err != nil {
		t.Fatalf("set schedule: %v", err)
	}
	if got := svc.Schedule(); got.StartHour != 9 || got.EndHour != 19 {
		t.Errorf("unexpected schedule: %+v", got)
	}
	if err := svc.SetSchedule(ctx, model.ClinicSchedule{StartHour: 18, EndHour: 8}); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("inverted window: expected ErrInvalidSettings, got %v", err)
	}
}
