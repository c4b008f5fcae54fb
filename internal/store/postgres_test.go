package store

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/ataboada/clinica-core/internal/model"
)

func TestPostgresStorage_LoadAll(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM patients").WillReturnRows(
		pgxmock.NewRows([]string{
			"id", "first_name", "last_name", "dni", "email", "phone",
			"allergies", "general_description", "medical_history",
			"current_medications", "age", "birth_date", "weight", "height",
			"gender", "civil_status", "occupation", "created_at",
		}).AddRow("100", "Juan", "Pérez", "1000000 LP", "", "", "Ninguna",
			"", []byte(`["Diabetes"]`), []byte(`[]`), "25", "", "", "",
			"Masculino", "", "", created),
	)
	mock.ExpectQuery("SELECT (.+) FROM treatments").WillReturnRows(
		pgxmock.NewRows([]string{
			"id", "patient_id", "patient_name", "procedure_name",
			"description", "diagnosis", "cost", "status", "date",
		}).AddRow("t1", "100", "Juan Pérez", "Endodoncia", "", "", 800.0,
			string(model.TreatmentCompleted), created),
	)
	mock.ExpectQuery("SELECT (.+) FROM payments").WillReturnRows(
		pgxmock.NewRows([]string{
			"id", "patient_id", "patient_name", "amount", "date", "method",
			"notes", "related_procedure", "status",
		}),
	)
	mock.ExpectQuery("SELECT (.+) FROM appointments").WillReturnRows(
		pgxmock.NewRows([]string{
			"id", "patient_id", "patient_name", "date", "type", "status",
			"notes", "price", "is_paid", "related_payment_id",
		}),
	)
	mock.ExpectQuery("SELECT (.+) FROM odontogram_records").WillReturnRows(
		pgxmock.NewRows([]string{"id", "patient_id", "updated_at", "details"}).
			AddRow("od1", "100", created,
				[]byte(`[{"toothNumber":18,"face":"whole","condition":"missing"}]`)),
	)
	mock.ExpectQuery("SELECT (.+) FROM diagnostic_sessions").WillReturnRows(
		pgxmock.NewRows([]string{
			"id", "patient_id", "doctor_id", "doctor_name", "date",
			"cie10_code", "cie10_name", "evolution_notes", "prescription",
			"odontogram_snapshot", "next_visit_plan",
		}),
	)
	mock.ExpectQuery("SELECT (.+) FROM procedures").WillReturnRows(
		pgxmock.NewRows([]string{"id", "name", "price"}).
			AddRow("1", "Consulta General", 100.0),
	)
	mock.ExpectQuery("SELECT (.+) FROM reminders").WillReturnRows(
		pgxmock.NewRows([]string{
			"id", "text", "completed", "created_at", "created_by", "created_by_id",
		}),
	)
	mock.ExpectQuery("SELECT (.+) FROM clinic_settings").WillReturnRows(
		pgxmock.NewRows([]string{"financial_goal", "schedule_start_hour", "schedule_end_hour"}).
			AddRow(20000.0, 8, 18),
	)

	storage := NewPostgresStorageWithDB(mock)
	snap, err := storage.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(snap.Patients) != 1 || snap.Patients[0].MedicalHistory[0] != "Diabetes" {
		t.Errorf("unexpected patients: %+v", snap.Patients)
	}
	if len(snap.Treatments) != 1 || snap.Treatments[0].Cost != 800 {
		t.Errorf("unexpected treatments: %+v", snap.Treatments)
	}
	if len(snap.OdontogramRecords) != 1 ||
		snap.OdontogramRecords[0].Details[0].Condition != model.ToothMissing {
		t.Errorf("unexpected odontograms: %+v", snap.OdontogramRecords)
	}
	if snap.FinancialGoal != 20000 || snap.Schedule.EndHour != 18 {
		t.Errorf("unexpected settings: %v %+v", snap.FinancialGoal, snap.Schedule)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresStorage_SaveAll(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	for _, table := range []string{
		"patients", "treatments", "payments", "appointments",
		"odontogram_records", "diagnostic_sessions", "procedures", "reminders",
	} {
		mock.ExpectExec("DELETE FROM " + table).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
	}
	mock.ExpectExec("INSERT INTO procedures").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO clinic_settings").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	storage := NewPostgresStorageWithDB(mock)
	snap := &model.Snapshot{
		Procedures:    []model.ProcedureItem{{ID: "1", Name: "Consulta General", Price: 100}},
		FinancialGoal: 20000,
		Schedule:      model.ClinicSchedule{StartHour: 8, EndHour: 18},
	}
	if err := storage.SaveAll(context.Background(), snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
