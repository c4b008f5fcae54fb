package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ataboada/clinica-core/internal/clock"
	"github.com/ataboada/clinica-core/internal/model"
)

// SeedConfig tunes the factory dataset.
type SeedConfig struct {
	FinancialGoal     float64
	ScheduleStartHour int
	ScheduleEndHour   int
}

// Factory builds the demo dataset loaded into an empty store. It mirrors the
// clinic's historical demo data: a price list, a roster of patients with
// treatments, partial payments and appointments, seeded odontograms and one
// diagnostic session.
func Factory(now clock.Clock, cfg SeedConfig) func() *model.Snapshot {
	return func() *model.Snapshot {
		snap := &model.Snapshot{
			FinancialGoal: cfg.FinancialGoal,
			Schedule: model.ClinicSchedule{
				StartHour: cfg.ScheduleStartHour,
				EndHour:   cfg.ScheduleEndHour,
			},
		}

		snap.Procedures = []model.ProcedureItem{
			{ID: "1", Name: "Consulta General", Price: 100},
			{ID: "2", Name: "Dolor Agudo (Emergencia)", Price: 150},
			{ID: "3", Name: "Limpieza Dental", Price: 250},
			{ID: "4", Name: "Resina Simple", Price: 300},
			{ID: "5", Name: "Endodoncia", Price: 800},
			{ID: "6", Name: "Extracción Simple", Price: 200},
			{ID: "7", Name: "Blanqueamiento", Price: 1200},
			{ID: "8", Name: "Ortodoncia Mensual", Price: 350},
			{ID: "9", Name: "Valoración Estética", Price: 0},
		}

		names := [][2]string{
			{"Juan", "Pérez"}, {"María", "González"}, {"Carlos", "Rodríguez"},
			{"Ana", "López"}, {"Pedro", "Martínez"}, {"Laura", "Sánchez"},
			{"Diego", "Fernández"}, {"Sofía", "Ramírez"}, {"Miguel", "Torres"},
			{"Lucía", "Vargas"}, {"Andrés", "Castro"}, {"Elena", "Romero"},
			{"Gabriel", "Suárez"}, {"Valentina", "Mendoza"},
		}

		ts := now()
		for i, name := range names {
			id := fmt.Sprintf("%d", 100+i)
			createdAt := ts.Add(-time.Duration(i+1) * 100 * time.Hour)
			fullName := name[0] + " " + name[1]

			allergies := "Ninguna"
			if i%3 == 0 {
				allergies = "Penicilina"
			}
			var history []string
			if i%4 == 0 {
				history = []string{"Diabetes"}
			}
			gender := "Masculino"
			if i%2 != 0 {
				gender = "Femenino"
			}

			snap.Patients = append(snap.Patients, model.Patient{
				ID:                 id,
				FirstName:          name[0],
				LastName:           name[1],
				DNI:                fmt.Sprintf("%d LP", 1000000+i),
				Phone:              fmt.Sprintf("700%d", 10000+i),
				Email:              fmt.Sprintf("paciente%d@email.com", i),
				Age:                fmt.Sprintf("%d", 20+i),
				Gender:             gender,
				GeneralDescription: "Paciente registrado para control general.",
				Allergies:          allergies,
				MedicalHistory:     history,
				CreatedAt:          createdAt,
			})

			cost := float64((i + 1) * 150)
			paid := cost
			if i%2 == 0 {
				paid = cost / 2
			}

			snap.Treatments = append(snap.Treatments, model.Treatment{
				ID:          "t-" + id,
				PatientID:   id,
				PatientName: fullName,
				Procedure:   snap.Procedures[i%len(snap.Procedures)].Name,
				Description: "Tratamiento realizado satisfactoriamente.",
				Cost:        cost,
				Status:      model.TreatmentCompleted,
				Date:        createdAt.Add(24 * time.Hour),
			})

			if paid > 0 {
				method := model.PaymentCash
				if i%3 == 0 {
					method = model.PaymentQR
				}
				snap.Payments = append(snap.Payments, model.Payment{
					ID:          "p-" + id,
					PatientID:   id,
					PatientName: fullName,
					Amount:      paid,
					Date:        createdAt.Add(25 * time.Hour),
					Method:      method,
					Status:      model.PaymentCompleted,
					Notes:       "Pago a cuenta",
				})
			}

			// First half of the roster gets past completed appointments, the
			// rest upcoming pending ones.
			apptDate := ts
			status := model.AppointmentPending
			if i < 7 {
				apptDate = apptDate.AddDate(0, 0, -(i + 1))
				status = model.AppointmentCompleted
			} else {
				apptDate = apptDate.AddDate(0, 0, i-6)
			}
			apptDate = time.Date(apptDate.Year(), apptDate.Month(), apptDate.Day(), 9+(i%8), 0, 0, 0, apptDate.Location())

			apptType := model.AppointmentConsultation
			if i%2 == 0 {
				apptType = model.AppointmentTreatment
			}
			snap.Appointments = append(snap.Appointments, model.Appointment{
				ID:          "a-" + id,
				PatientID:   id,
				PatientName: fullName,
				Date:        apptDate,
				Type:        apptType,
				Status:      status,
				Notes:       snap.Procedures[i%len(snap.Procedures)].Name,
			})
		}

		snap.OdontogramRecords = append(snap.OdontogramRecords, model.OdontogramRecord{
			ID:        "od-seed-1",
			PatientID: "100",
			UpdatedAt: ts,
			Details: []model.OdontogramDetail{
				{ToothNumber: 18, Face: model.FaceWhole, Condition: model.ToothMissing, Notes: "Extracción indicada"},
				{ToothNumber: 16, Face: model.FaceCenter, Condition: model.ToothCaries, Notes: "Caries oclusal profunda"},
				{ToothNumber: 16, Face: model.FaceLeft, Condition: model.ToothCaries},
				{ToothNumber: 21, Face: model.FaceWhole, Condition: model.ToothRestorationGood, Notes: "Corona porcelana"},
				{ToothNumber: 46, Face: model.FaceWhole, Condition: model.ToothBridge, Notes: "Pilar puente"},
				{ToothNumber: 45, Face: model.FaceWhole, Condition: model.ToothMissing, Notes: "Póntico"},
				{ToothNumber: 44, Face: model.FaceWhole, Condition: model.ToothBridge, Notes: "Pilar puente"},
			},
		})
		snap.OdontogramRecords = append(snap.OdontogramRecords, model.OdontogramRecord{
			ID:        "od-seed-101",
			PatientID: "101",
			UpdatedAt: ts.Add(-20 * 24 * time.Hour),
			Details: []model.OdontogramDetail{
				{ToothNumber: 16, Face: model.FaceCenter, Condition: model.ToothSealant, Notes: "Sellante preventivo"},
				{ToothNumber: 26, Face: model.FaceCenter, Condition: model.ToothSealant, Notes: "Sellante preventivo"},
				{ToothNumber: 36, Face: model.FaceCenter, Condition: model.ToothCaries, Notes: "Incipiente"},
				{ToothNumber: 46, Face: model.FaceCenter, Condition: model.ToothSealant, Notes: "Sellante preventivo"},
			},
		})

		snap.DiagnosticSessions = append(snap.DiagnosticSessions, model.DiagnosticSession{
			ID:             "ds-seed-1",
			PatientID:      "100",
			DoctorID:       "1",
			DoctorName:     "Dr. Taboada",
			Date:           ts.Add(-5 * 24 * time.Hour),
			CIE10Code:      "K02.1",
			CIE10Name:      "Caries de la dentina",
			EvolutionNotes: "Paciente acude por molestia a los cambios térmicos en pieza 16. Se observa caries profunda. Se indica endodoncia.",
			Prescription: []model.PrescriptionItem{
				{ID: uuid.NewString(), Medication: "Ibuprofeno", Dosage: "400mg", Frequency: "8 horas", Duration: "3 días"},
			},
		})

		snap.Reminders = []model.Reminder{
			{ID: "r1", Text: "Comprar insumos de endodoncia", CreatedAt: ts, CreatedBy: "Dr. Taboada", CreatedByID: "1"},
			{ID: "r2", Text: "Llamar al técnico dental", Completed: true, CreatedAt: ts, CreatedBy: "Secretaria", CreatedByID: "2"},
			{ID: "r3", Text: "Revisar agenda de la próxima semana", CreatedAt: ts, CreatedBy: "Dr. Taboada", CreatedByID: "1"},
		}

		return snap
	}
}
