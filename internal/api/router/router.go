package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ataboada/clinica-core/internal/catalog"
	"github.com/ataboada/clinica-core/internal/clinic"
	httpmiddleware "github.com/ataboada/clinica-core/internal/http/middleware"
	"github.com/ataboada/clinica-core/internal/ledger"
	"github.com/ataboada/clinica-core/internal/odontogram"
	"github.com/ataboada/clinica-core/internal/patients"
	"github.com/ataboada/clinica-core/internal/scheduling"
	"github.com/ataboada/clinica-core/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Patients           *patients.Handler
	Ledger             *ledger.Handler
	Odontogram         *odontogram.Handler
	Scheduling         *scheduling.Handler
	Catalog            *catalog.Handler
	Clinic             *clinic.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// ResetToFactory wipes the store back to the demo dataset. Wired only in
	// non-production environments.
	ResetToFactory http.HandlerFunc

	// RateLimit, in requests/sec per IP, with 2x burst. Zero disables it.
	RateLimit float64
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.RateLimit > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimit, int(cfg.RateLimit*2)))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/patients", func(r chi.Router) {
		r.Get("/", cfg.Patients.List)
		r.Post("/", cfg.Patients.Create)
		r.Route("/{patientID}", func(r chi.Router) {
			r.Get("/", cfg.Patients.Get)
			r.Put("/", cfg.Patients.Update)
			r.Delete("/", cfg.Patients.Delete)

			r.Get("/treatments", cfg.Ledger.ListTreatments)
			r.Post("/treatments", cfg.Ledger.RecordTreatment)
			r.Get("/payments", cfg.Ledger.ListPayments)
			r.Post("/payments", cfg.Ledger.RecordPayment)
			r.Get("/balance", cfg.Ledger.GetBalance)
			r.Post("/integral-visit", cfg.Ledger.RecordIntegralVisit)

			r.Get("/odontogram", cfg.Odontogram.GetCurrent)
			r.Post("/odontogram", cfg.Odontogram.Save)
			r.Post("/odontogram/edit", cfg.Odontogram.ApplyEdit)

			r.Post("/appointments", cfg.Scheduling.BookAppointment)
			r.Post("/attend", cfg.Scheduling.AttendPatient)
			r.Get("/sessions", cfg.Scheduling.ListSessions)
			r.Post("/sessions", cfg.Scheduling.SaveSession)
		})
	})

	r.Post("/payments/{paymentID}/cancel", cfg.Ledger.CancelPayment)
	r.Get("/debtors", cfg.Ledger.ListDebtors)

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", cfg.Scheduling.Agenda)
		r.Get("/upcoming", cfg.Scheduling.Upcoming)
		r.Post("/{appointmentID}/cancel", cfg.Scheduling.CancelAppointment)
		r.Post("/{appointmentID}/complete", cfg.Scheduling.CompleteAppointment)
	})
	r.Get("/holidays", cfg.Scheduling.ListHolidays)

	r.Route("/procedures", func(r chi.Router) {
		r.Get("/", cfg.Catalog.ListProcedures)
		r.Post("/", cfg.Catalog.AddProcedure)
		r.Delete("/{procedureID}", cfg.Catalog.RemoveProcedure)
	})
	r.Get("/cie10", cfg.Catalog.SearchCIE10)

	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/stats", cfg.Clinic.GetStats)
		r.Get("/recent-patients", cfg.Clinic.RecentPatients)
	})
	r.Route("/reminders", func(r chi.Router) {
		r.Get("/", cfg.Clinic.ListReminders)
		r.Post("/", cfg.Clinic.AddReminder)
		r.Post("/{reminderID}/toggle", cfg.Clinic.ToggleReminder)
		r.Delete("/{reminderID}", cfg.Clinic.DeleteReminder)
	})
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", cfg.Clinic.GetSettings)
		r.Put("/financial-goal", cfg.Clinic.SetFinancialGoal)
		r.Put("/schedule", cfg.Clinic.SetSchedule)
	})

	if cfg.ResetToFactory != nil {
		r.Post("/admin/reset", cfg.ResetToFactory)
	}

	return r
}
