package scheduling

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ataboada/clinica-core/internal/ledger"
	"github.com/ataboada/clinica-core/internal/odontogram"
	"github.com/ataboada/clinica-core/pkg/logging"
)

// Handler exposes the agenda and session flows over HTTP.
type Handler struct {
	svc    *Service
	logger *logging.Logger
	tz     *time.Location
}

// NewHandler creates a new scheduling handler. Day queries are interpreted in
// tz, the clinic's timezone.
func NewHandler(svc *Service, logger *logging.Logger, tz *time.Location) *Handler {
	if tz == nil {
		tz = time.UTC
	}
	return &Handler{svc: svc, logger: logger, tz: tz}
}

// BookAppointment handles POST /patients/{patientID}/appointments.
func (h *Handler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.BookAppointment(r.Context(), patientID, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

// Agenda handles GET /appointments?date=YYYY-MM-DD. Without a date it returns
// today's agenda in the clinic timezone.
func (h *Handler) Agenda(w http.ResponseWriter, r *http.Request) {
	day := h.svc.now().In(h.tz)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.tz)
		if err != nil {
			http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		day = parsed
	}
	writeJSON(w, http.StatusOK, h.svc.AppointmentsForDay(day))
}

// Upcoming handles GET /appointments/upcoming?limit=N.
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, h.svc.UpcomingAppointments(limit))
}

// CancelAppointment handles POST /appointments/{appointmentID}/cancel.
func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CancelAppointment(r.Context(), chi.URLParam(r, "appointmentID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompleteAppointment handles POST /appointments/{appointmentID}/complete.
func (h *Handler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CompleteAppointment(r.Context(), chi.URLParam(r, "appointmentID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AttendRequest is the body of POST /patients/{patientID}/attend.
type AttendRequest struct {
	Treatment     ledger.TreatmentRequest `json:"treatment"`
	Payment       ledger.PaymentRequest   `json:"payment"`
	AppointmentID string                  `json:"appointmentId,omitempty"`
}

// AttendResponse carries both records created by a chair-side checkout.
type AttendResponse struct {
	Treatment any `json:"treatment"`
	Payment   any `json:"payment,omitempty"`
}

// AttendPatient handles POST /patients/{patientID}/attend.
func (h *Handler) AttendPatient(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	var req AttendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	treatment, payment, err := h.svc.AttendPatient(r.Context(), patientID, req.Treatment, req.Payment, req.AppointmentID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := AttendResponse{Treatment: treatment}
	if payment != nil {
		resp.Payment = payment
	}
	writeJSON(w, http.StatusCreated, resp)
}

// SaveSessionRequest is the body of POST /patients/{patientID}/sessions.
type SaveSessionRequest struct {
	DoctorID   string       `json:"doctorId"`
	DoctorName string       `json:"doctorName"`
	Draft      SessionDraft `json:"draft"`
}

// SaveSession handles POST /patients/{patientID}/sessions.
func (h *Handler) SaveSession(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	var req SaveSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.svc.SaveSession(r.Context(), patientID, req.DoctorID, req.DoctorName, req.Draft)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// ListSessions handles GET /patients/{patientID}/sessions.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.SessionsByPatient(chi.URLParam(r, "patientID")))
}

// ListHolidays handles GET /holidays?year=YYYY. Without a year it returns the
// current year's table.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := h.svc.now().In(h.tz).Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1900 || n > 2200 {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}
		year = n
	}
	writeJSON(w, http.StatusOK, Holidays(year))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidSchedule),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, odontogram.ErrConflictingEntries),
		errors.Is(err, odontogram.ErrInvalidTooth),
		errors.Is(err, odontogram.ErrInvalidFace),
		errors.Is(err, odontogram.ErrInvalidTool):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrPatientNotFound),
		errors.Is(err, ErrAppointmentNotFound),
		errors.Is(err, ledger.ErrPatientNotFound),
		errors.Is(err, odontogram.ErrPatientNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Error("scheduling request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
