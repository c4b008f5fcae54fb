package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ataboada/clinica-core/internal/clock"
	"github.com/ataboada/clinica-core/internal/model"
	"github.com/ataboada/clinica-core/pkg/logging"
)

var seedCfg = SeedConfig{FinancialGoal: 20000, ScheduleStartHour: 8, ScheduleEndHour: 18}

func testClock() clock.Clock {
	return clock.Fixed(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
}

func TestOpen_SeedsEmptyStorage(t *testing.T) {
	storage := NewMemoryStorage()
	s, err := Open(context.Background(), storage, Factory(testClock(), seedCfg), logging.Default())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if len(s.Patients()) == 0 {
		t.Error("expected seeded patients")
	}
	if len(s.Procedures()) != 9 {
		t.Errorf("expected 9 seeded procedures, got %d", len(s.Procedures()))
	}
	if s.FinancialGoal() != 20000 {
		t.Errorf("expected seeded goal 20000, got %v", s.FinancialGoal())
	}

	// Seed must already be durable: reopening the same storage without a
	// factory sees the data.
	s2, err := Open(context.Background(), storage, nil, logging.Default())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if len(s2.Patients()) != len(s.Patients()) {
		t.Error("seeded snapshot was not persisted")
	}
}

func TestUpdate_FailedFnLeavesStateUntouched(t *testing.T) {
	s, err := Open(context.Background(), NewMemoryStorage(), nil, logging.Default())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	boom := errors.New("boom")
	err = s.Update(context.Background(), func(d *model.Snapshot) error {
		d.Patients = append(d.Patients, model.Patient{ID: "x"})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if len(s.Patients()) != 0 {
		t.Error("failed update must not mutate state")
	}
}

type failingStorage struct{ Storage }

func (f failingStorage) SaveAll(ctx context.Context, snap *model.Snapshot) error {
	return errors.New("disk full")
}

func TestUpdate_PersistFailureLeavesStateUntouched(t *testing.T) {
	s, err := Open(context.Background(), failingStorage{NewMemoryStorage()}, nil, logging.Default())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	err = s.Update(context.Background(), func(d *model.Snapshot) error {
		d.Patients = append(d.Patients, model.Patient{ID: "x"})
		return nil
	})
	if err == nil {
		t.Fatal("expected persist error")
	}
	if len(s.Patients()) != 0 {
		t.Error("failed persist must not mutate state")
	}
}

func TestResetToFactory(t *testing.T) {
	s, err := Open(context.Background(), NewMemoryStorage(), Factory(testClock(), seedCfg), logging.Default())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := s.Update(context.Background(), func(d *model.Snapshot) error {
		d.Patients = append(d.Patients, model.Patient{ID: "extra", FirstName: "X", LastName: "Y"})
		return nil
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := s.ResetToFactory(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, ok := s.PatientByID("extra"); ok {
		t.Error("reset must drop non-factory records")
	}
	if len(s.Patients()) == 0 {
		t.Error("reset must reseed the demo roster")
	}
}

func TestFileStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "clinica.json")
	storage := NewFileStorage(path)

	snap := &model.Snapshot{
		Patients: []model.Patient{{ID: "1", FirstName: "Juan", LastName: "Pérez", CreatedAt: time.Now().UTC()}},
		Payments: []model.Payment{{ID: "p1", PatientID: "1", Amount: 50, Status: model.PaymentCompleted}},
		Schedule: model.ClinicSchedule{StartHour: 8, EndHour: 18},
	}
	if err := storage.SaveAll(context.Background(), snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := storage.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Patients) != 1 || got.Patients[0].FirstName != "Juan" {
		t.Errorf("unexpected patients after round trip: %+v", got.Patients)
	}
	if len(got.Payments) != 1 || got.Payments[0].Amount != 50 {
		t.Errorf("unexpected payments after round trip: %+v", got.Payments)
	}
}

func TestFileStorage_MissingFileIsEmpty(t *testing.T) {
	storage := NewFileStorage(filepath.Join(t.TempDir(), "absent.json"))
	snap, err := storage.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !snap.Empty() {
		t.Error("missing file must load as empty snapshot")
	}
}

func TestHasDependents(t *testing.T) {
	s, err := Open(context.Background(), NewMemoryStorage(), nil, logging.Default())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Update(context.Background(), func(d *model.Snapshot) error {
		d.Patients = append(d.Patients, model.Patient{ID: "1"}, model.Patient{ID: "2"})
		d.Treatments = append(d.Treatments, model.Treatment{ID: "t1", PatientID: "1"})
		return nil
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if !s.HasDependents("1") {
		t.Error("patient 1 has a treatment")
	}
	if s.HasDependents("2") {
		t.Error("patient 2 has no dependents")
	}
}
