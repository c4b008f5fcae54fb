package clinic

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/ataboada/clinica-core/internal/clock"
	"github.com/ataboada/clinica-core/internal/model"
	"github.com/ataboada/clinica-core/internal/store"
	"github.com/ataboada/clinica-core/pkg/logging"
)

var clinicTracer = otel.Tracer("clinica.internal.clinic")

// Service backs the dashboard: headline stats, staff reminders and the two
// clinic-wide settings (income goal and opening hours).
type Service struct {
	store  *store.Store
	now    clock.Clock
	logger *logging.Logger
	tz     *time.Location
}

// NewService constructs a clinic service. "Today" is computed in tz.
func NewService(st *store.Store, now clock.Clock, logger *logging.Logger, tz *time.Location) *Service {
	if st == nil {
		panic("clinic: store required")
	}
	if now == nil {
		now = clock.System
	}
	if logger == nil {
		logger = logging.Default()
	}
	if tz == nil {
		tz = time.UTC
	}
	return &Service{store: st, now: now, logger: logger, tz: tz}
}

// Stats computes the dashboard headline block: lifetime income from
// non-cancelled payments, roster size, today's non-cancelled appointments in
// the clinic timezone and the pending backlog.
func (s *Service) Stats() model.DashboardStats {
	var stats model.DashboardStats
	for _, p := range s.store.Payments() {
		if p.Status != model.PaymentCancelled {
			stats.TotalIncome += p.Amount
		}
	}
	stats.TotalPatients = len(s.store.Patients())

	today := s.now().In(s.tz)
	y, m, d := today.Date()
	for _, a := range s.store.Appointments() {
		if a.Status == model.AppointmentPending {
			stats.PendingAppointments++
		}
		if a.Status == model.AppointmentCancelled {
			continue
		}
		ay, am, ad := a.Date.In(s.tz).Date()
		if ay == y && am == m && ad == d {
			stats.AppointmentsToday++
		}
	}
	return stats
}

// RecentTreatedPatient pairs a patient with their most recent treatment.
type RecentTreatedPatient struct {
	Patient       model.Patient   `json:"patient"`
	LastTreatment model.Treatment `json:"lastTreatment"`
}

// RecentTreatedPatients returns the patients treated most recently, one entry
// per patient, newest first, capped at limit when limit > 0.
func (s *Service) RecentTreatedPatients(limit int) []RecentTreatedPatient {
	latest := make(map[string]model.Treatment)
	for _, t := range s.store.Treatments() {
		if prev, ok := latest[t.PatientID]; !ok || t.Date.After(prev.Date) {
			latest[t.PatientID] = t
		}
	}

	var out []RecentTreatedPatient
	for patientID, treatment := range latest {
		patient, ok := s.store.PatientByID(patientID)
		if !ok {
			continue
		}
		out = append(out, RecentTreatedPatient{Patient: patient, LastTreatment: treatment})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastTreatment.Date.After(out[j].LastTreatment.Date)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Reminders returns the staff to-do list, newest first.
func (s *Service) Reminders() []model.Reminder {
	out := s.store.Reminders()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// AddReminder appends a staff reminder.
func (s *Service) AddReminder(ctx context.Context, text, createdBy, createdByID string) (*model.Reminder, error) {
	ctx, span := clinicTracer.Start(ctx, "clinic.add_reminder")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidReminder
	}
	reminder := model.Reminder{
		ID:          uuid.NewString(),
		Text:        text,
		CreatedAt:   s.now(),
		CreatedBy:   createdBy,
		CreatedByID: createdByID,
	}
	err := s.store.Update(ctx, func(d *model.Snapshot) error {
		d.Reminders = append(d.Reminders, reminder)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("reminder added", "reminder_id", reminder.ID, "created_by", createdBy)
	return &reminder, nil
}

// ToggleReminder flips a reminder's completed flag.
func (s *Service) ToggleReminder(ctx context.Context, id string) error {
	ctx, span := clinicTracer.Start(ctx, "clinic.toggle_reminder")
	defer span.End()

	return s.store.Update(ctx, func(d *model.Snapshot) error {
		for i := range d.Reminders {
			if d.Reminders[i].ID == id {
				d.Reminders[i].Completed = !d.Reminders[i].Completed
				return nil
			}
		}
		return ErrReminderNotFound
	})
}

// DeleteReminder removes a reminder outright.
func (s *Service) DeleteReminder(ctx context.Context, id string) error {
	ctx, span := clinicTracer.Start(ctx, "clinic.delete_reminder")
	defer span.End()

	return s.store.Update(ctx, func(d *model.Snapshot) error {
		for i := range d.Reminders {
			if d.Reminders[i].ID == id {
				d.Reminders = append(d.Reminders[:i], d.Reminders[i+1:]...)
				return nil
			}
		}
		return ErrReminderNotFound
	})
}

// FinancialGoal returns the configured monthly income goal.
func (s *Service) FinancialGoal() float64 {
	return s.store.FinancialGoal()
}

// SetFinancialGoal updates the monthly income goal.
func (s *Service) SetFinancialGoal(ctx context.Context, goal float64) error {
	if goal < 0 {
		return ErrInvalidSettings
	}
	err := s.store.Update(ctx, func(d *model.Snapshot) error {
		d.FinancialGoal = goal
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("financial goal updated", "goal", goal)
	return nil
}

// Schedule returns the clinic's opening hours.
func (s *Service) Schedule() model.ClinicSchedule {
	return s.store.Schedule()
}

// SetSchedule updates the opening hours. The window must be whole hours
// within one day with the start strictly before the end.
func (s *Service) SetSchedule(ctx context.Context, schedule model.ClinicSchedule) error {
	if schedule.StartHour < 0 || schedule.EndHour > 24 || schedule.StartHour >= schedule.EndHour {
		return ErrInvalidSettings
	}
	err := s.store.Update(ctx, func(d *model.Snapshot) error {
		d.Schedule = schedule
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("clinic schedule updated", "start_hour", schedule.StartHour, "end_hour", schedule.EndHour)
	return nil
}
