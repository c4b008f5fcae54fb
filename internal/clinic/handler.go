package clinic

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ataboada/clinica-core/internal/model"
	"github.com/ataboada/clinica-core/pkg/logging"
)

// Handler exposes the dashboard, reminders and settings over HTTP.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates a new clinic handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// GetStats handles GET /dashboard/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats())
}

// RecentPatients handles GET /dashboard/recent-patients?limit=N.
func (h *Handler) RecentPatients(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	recent := h.svc.RecentTreatedPatients(limit)
	if recent == nil {
		recent = []RecentTreatedPatient{}
	}
	writeJSON(w, http.StatusOK, recent)
}

// ListReminders handles GET /reminders.
func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Reminders())
}

// AddReminderRequest is the body of POST /reminders.
type AddReminderRequest struct {
	Text        string `json:"text"`
	CreatedBy   string `json:"createdBy"`
	CreatedByID string `json:"createdById"`
}

// AddReminder handles POST /reminders.
func (h *Handler) AddReminder(w http.ResponseWriter, r *http.Request) {
	var req AddReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	reminder, err := h.svc.AddReminder(r.Context(), req.Text, req.CreatedBy, req.CreatedByID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reminder)
}

// ToggleReminder handles POST /reminders/{reminderID}/toggle.
func (h *Handler) ToggleReminder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ToggleReminder(r.Context(), chi.URLParam(r, "reminderID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteReminder handles DELETE /reminders/{reminderID}.
func (h *Handler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteReminder(r.Context(), chi.URLParam(r, "reminderID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SettingsResponse is the body of GET /settings.
type SettingsResponse struct {
	FinancialGoal float64              `json:"financialGoal"`
	Schedule      model.ClinicSchedule `json:"schedule"`
}

// GetSettings handles GET /settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SettingsResponse{
		FinancialGoal: h.svc.FinancialGoal(),
		Schedule:      h.svc.Schedule(),
	})
}

// SetGoalRequest is the body of PUT /settings/financial-goal.
type SetGoalRequest struct {
	Goal float64 `json:"goal"`
}

// SetFinancialGoal handles PUT /settings/financial-goal.
func (h *Handler) SetFinancialGoal(w http.ResponseWriter, r *http.Request) {
	var req SetGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.svc.SetFinancialGoal(r.Context(), req.Goal); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetSchedule handles PUT /settings/schedule.
func (h *Handler) SetSchedule(w http.ResponseWriter, r *http.Request) {
	var req model.ClinicSchedule
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.svc.SetSchedule(r.Context(), req); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidReminder), errors.Is(err, ErrInvalidSettings):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrReminderNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Error("clinic request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
