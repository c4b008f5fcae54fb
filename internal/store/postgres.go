package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ataboada/clinica-core/internal/model"
)

// pgDB is the subset of pgxpool.Pool the storage needs. It exists so tests
// can inject pgxmock.
type pgDB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStorage persists the state graph in Postgres. SaveAll replaces the
// whole graph in one transaction, matching the collaborator contract of
// persisting everything on every write.
type PostgresStorage struct {
	db pgDB
}

// NewPostgresStorage creates a storage backed by a pgx pool.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	if pool == nil {
		panic("store: pgx pool required")
	}
	return &PostgresStorage{db: pool}
}

// NewPostgresStorageWithDB allows injecting a mock database for testing.
func NewPostgresStorageWithDB(db pgDB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// LoadAll reads every collection.
func (s *PostgresStorage) LoadAll(ctx context.Context) (*model.Snapshot, error) {
	snap := &model.Snapshot{}

	if err := s.loadPatients(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadTreatments(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadPayments(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadAppointments(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadOdontograms(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadSessions(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadProcedures(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadReminders(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadSettings(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *PostgresStorage) loadPatients(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.Query(ctx, `
		SELECT id, first_name, last_name, dni, email, phone, allergies,
		       general_description, medical_history, current_medications,
		       age, birth_date, weight, height, gender, civil_status,
		       occupation, created_at
		FROM patients ORDER BY created_at
	`)
	if err != nil {
		return fmt.Errorf("store: load patients: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p model.Patient
		var history, meds []byte
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DNI, &p.Email,
			&p.Phone, &p.Allergies, &p.GeneralDescription, &history, &meds,
			&p.Age, &p.BirthDate, &p.Weight, &p.Height, &p.Gender,
			&p.CivilStatus, &p.Occupation, &p.CreatedAt); err != nil {
			return fmt.Errorf("store: scan patient: %w", err)
		}
		if len(history) > 0 {
			if err := json.Unmarshal(history, &p.MedicalHistory); err != nil {
				return fmt.Errorf("store: decode medical history: %w", err)
			}
		}
		if len(meds) > 0 {
			if err := json.Unmarshal(meds, &p.CurrentMedications); err != nil {
				return fmt.Errorf("store: decode medications: %w", err)
			}
		}
		snap.Patients = append(snap.Patients, p)
	}
	return rows.Err()
}

func (s *PostgresStorage) loadTreatments(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.Query(ctx, `
		SELECT id, patient_id, patient_name, procedure_name, description,
		       diagnosis, cost, status, date
		FROM treatments ORDER BY date
	`)
	if err != nil {
		return fmt.Errorf("store: load treatments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t model.Treatment
		if err := rows.Scan(&t.ID, &t.PatientID, &t.PatientName, &t.Procedure,
			&t.Description, &t.Diagnosis, &t.Cost, &t.Status, &t.Date); err != nil {
			return fmt.Errorf("store: scan treatment: %w", err)
		}
		snap.Treatments = append(snap.Treatments, t)
	}
	return rows.Err()
}

func (s *PostgresStorage) loadPayments(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.Query(ctx, `
		SELECT id, patient_id, patient_name, amount, date, method, notes,
		       related_procedure, status
		FROM payments ORDER BY date
	`)
	if err != nil {
		return fmt.Errorf("store: load payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.PatientID, &p.PatientName, &p.Amount,
			&p.Date, &p.Method, &p.Notes, &p.RelatedProcedure, &p.Status); err != nil {
			return fmt.Errorf("store: scan payment: %w", err)
		}
		snap.Payments = append(snap.Payments, p)
	}
	return rows.Err()
}

func (s *PostgresStorage) loadAppointments(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.Query(ctx, `
		SELECT id, patient_id, patient_name, date, type, status, notes,
		       price, is_paid, related_payment_id
		FROM appointments ORDER BY date
	`)
	if err != nil {
		return fmt.Errorf("store: load appointments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.PatientName, &a.Date,
			&a.Type, &a.Status, &a.Notes, &a.Price, &a.IsPaid,
			&a.RelatedPaymentID); err != nil {
			return fmt.Errorf("store: scan appointment: %w", err)
		}
		snap.Appointments = append(snap.Appointments, a)
	}
	return rows.Err()
}

func (s *PostgresStorage) loadOdontograms(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.Query(ctx, `
		SELECT id, patient_id, updated_at, details
		FROM odontogram_records ORDER BY updated_at
	`)
	if err != nil {
		return fmt.Errorf("store: load odontograms: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rec model.OdontogramRecord
		var details []byte
		if err := rows.Scan(&rec.ID, &rec.PatientID, &rec.UpdatedAt, &details); err != nil {
			return fmt.Errorf("store: scan odontogram: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &rec.Details); err != nil {
				return fmt.Errorf("store: decode odontogram details: %w", err)
			}
		}
		snap.OdontogramRecords = append(snap.OdontogramRecords, rec)
	}
	return rows.Err()
}

func (s *PostgresStorage) loadSessions(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.Query(ctx, `
		SELECT id, patient_id, doctor_id, doctor_name, date, cie10_code,
		       cie10_name, evolution_notes, prescription, odontogram_snapshot,
		       next_visit_plan
		FROM diagnostic_sessions ORDER BY date
	`)
	if err != nil {
		return fmt.Errorf("store: load sessions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ds model.DiagnosticSession
		var rx, odo, plan []byte
		if err := rows.Scan(&ds.ID, &ds.PatientID, &ds.DoctorID, &ds.DoctorName,
			&ds.Date, &ds.CIE10Code, &ds.CIE10Name, &ds.EvolutionNotes,
			&rx, &odo, &plan); err != nil {
			return fmt.Errorf("store: scan session: %w", err)
		}
		if len(rx) > 0 {
			if err := json.Unmarshal(rx, &ds.Prescription); err != nil {
				return fmt.Errorf("store: decode prescription: %w", err)
			}
		}
		if len(odo) > 0 {
			if err := json.Unmarshal(odo, &ds.OdontogramSnapshot); err != nil {
				return fmt.Errorf("store: decode session snapshot: %w", err)
			}
		}
		if len(plan) > 0 {
			if err := json.Unmarshal(plan, &ds.NextVisitPlan); err != nil {
				return fmt.Errorf("store: decode next visit plan: %w", err)
			}
		}
		snap.DiagnosticSessions = append(snap.DiagnosticSessions, ds)
	}
	return rows.Err()
}

func (s *PostgresStorage) loadProcedures(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.Query(ctx, `SELECT id, name, price FROM procedures ORDER BY id`)
	if err != nil {
		return fmt.Errorf("store: load procedures: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p model.ProcedureItem
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return fmt.Errorf("store: scan procedure: %w", err)
		}
		snap.Procedures = append(snap.Procedures, p)
	}
	return rows.Err()
}

func (s *PostgresStorage) loadReminders(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.Query(ctx, `
		SELECT id, text, completed, created_at, created_by, created_by_id
		FROM reminders ORDER BY created_at
	`)
	if err != nil {
		return fmt.Errorf("store: load reminders: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r model.Reminder
		if err := rows.Scan(&r.ID, &r.Text, &r.Completed, &r.CreatedAt,
			&r.CreatedBy, &r.CreatedByID); err != nil {
			return fmt.Errorf("store: scan reminder: %w", err)
		}
		snap.Reminders = append(snap.Reminders, r)
	}
	return rows.Err()
}

func (s *PostgresStorage) loadSettings(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.Query(ctx, `
		SELECT financial_goal, schedule_start_hour, schedule_end_hour
		FROM clinic_settings WHERE id = 1
	`)
	if err != nil {
		return fmt.Errorf("store: load settings: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&snap.FinancialGoal, &snap.Schedule.StartHour,
			&snap.Schedule.EndHour); err != nil {
			return fmt.Errorf("store: scan settings: %w", err)
		}
	}
	return rows.Err()
}

// SaveAll replaces the persisted graph with snap inside one transaction.
func (s *PostgresStorage) SaveAll(ctx context.Context, snap *model.Snapshot) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{
		"patients", "treatments", "payments", "appointments",
		"odontogram_records", "diagnostic_sessions", "procedures", "reminders",
	} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("store: clear %s: %w", table, err)
		}
	}

	for _, p := range snap.Patients {
		history, err := json.Marshal(p.MedicalHistory)
		if err != nil {
			return fmt.Errorf("store: encode medical history: %w", err)
		}
		meds, err := json.Marshal(p.CurrentMedications)
		if err != nil {
			return fmt.Errorf("store: encode medications: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO patients (id, first_name, last_name, dni, email, phone,
			    allergies, general_description, medical_history,
			    current_medications, age, birth_date, weight, height, gender,
			    civil_status, occupation, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		`, p.ID, p.FirstName, p.LastName, p.DNI, p.Email, p.Phone, p.Allergies,
			p.GeneralDescription, history, meds, p.Age, p.BirthDate, p.Weight,
			p.Height, p.Gender, p.CivilStatus, p.Occupation, p.CreatedAt); err != nil {
			return fmt.Errorf("store: insert patient: %w", err)
		}
	}

	for _, t := range snap.Treatments {
		if _, err := tx.Exec(ctx, `
			INSERT INTO treatments (id, patient_id, patient_name, procedure_name,
			    description, diagnosis, cost, status, date)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`, t.ID, t.PatientID, t.PatientName, t.Procedure, t.Description,
			t.Diagnosis, t.Cost, t.Status, t.Date); err != nil {
			return fmt.Errorf("store: insert treatment: %w", err)
		}
	}

	for _, p := range snap.Payments {
		if _, err := tx.Exec(ctx, `
			INSERT INTO payments (id, patient_id, patient_name, amount, date,
			    method, notes, related_procedure, status)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`, p.ID, p.PatientID, p.PatientName, p.Amount, p.Date, p.Method,
			p.Notes, p.RelatedProcedure, p.Status); err != nil {
			return fmt.Errorf("store: insert payment: %w", err)
		}
	}

	for _, a := range snap.Appointments {
		if _, err := tx.Exec(ctx, `
			INSERT INTO appointments (id, patient_id, patient_name, date, type,
			    status, notes, price, is_paid, related_payment_id)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`, a.ID, a.PatientID, a.PatientName, a.Date, a.Type, a.Status, a.Notes,
			a.Price, a.IsPaid, a.RelatedPaymentID); err != nil {
			return fmt.Errorf("store: insert appointment: %w", err)
		}
	}

	for _, rec := range snap.OdontogramRecords {
		details, err := json.Marshal(rec.Details)
		if err != nil {
			return fmt.Errorf("store: encode odontogram details: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO odontogram_records (id, patient_id, updated_at, details)
			VALUES ($1,$2,$3,$4)
		`, rec.ID, rec.PatientID, rec.UpdatedAt, details); err != nil {
			return fmt.Errorf("store: insert odontogram: %w", err)
		}
	}

	for _, ds := range snap.DiagnosticSessions {
		rx, err := json.Marshal(ds.Prescription)
		if err != nil {
			return fmt.Errorf("store: encode prescription: %w", err)
		}
		odo, err := json.Marshal(ds.OdontogramSnapshot)
		if err != nil {
			return fmt.Errorf("store: encode session snapshot: %w", err)
		}
		plan, err := json.Marshal(ds.NextVisitPlan)
		if err != nil {
			return fmt.Errorf("store: encode next visit plan: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO diagnostic_sessions (id, patient_id, doctor_id,
			    doctor_name, date, cie10_code, cie10_name, evolution_notes,
			    prescription, odontogram_snapshot, next_visit_plan)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`, ds.ID, ds.PatientID, ds.DoctorID, ds.DoctorName, ds.Date,
			ds.CIE10Code, ds.CIE10Name, ds.EvolutionNotes, rx, odo, plan); err != nil {
			return fmt.Errorf("store: insert session: %w", err)
		}
	}

	for _, p := range snap.Procedures {
		if _, err := tx.Exec(ctx, `
			INSERT INTO procedures (id, name, price) VALUES ($1,$2,$3)
		`, p.ID, p.Name, p.Price); err != nil {
			return fmt.Errorf("store: insert procedure: %w", err)
		}
	}

	for _, r := range snap.Reminders {
		if _, err := tx.Exec(ctx, `
			INSERT INTO reminders (id, text, completed, created_at, created_by,
			    created_by_id)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, r.ID, r.Text, r.Completed, r.CreatedAt, r.CreatedBy, r.CreatedByID); err != nil {
			return fmt.Errorf("store: insert reminder: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO clinic_settings (id, financial_goal, schedule_start_hour,
		    schedule_end_hour)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
		    financial_goal = EXCLUDED.financial_goal,
		    schedule_start_hour = EXCLUDED.schedule_start_hour,
		    schedule_end_hour = EXCLUDED.schedule_end_hour
	`, snap.FinancialGoal, snap.Schedule.StartHour, snap.Schedule.EndHour); err != nil {
		return fmt.Errorf("store: upsert settings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}
