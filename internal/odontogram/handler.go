package odontogram

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ataboada/clinica-core/internal/model"
	"github.com/ataboada/clinica-core/pkg/logging"
)

// Handler exposes the odontogram over HTTP. Edits are stateless: the client
// sends its edit buffer along with the stroke and gets the new buffer back,
// or a requires-confirmation verdict it must re-submit confirmed.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates a new odontogram handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// GetCurrent handles GET /patients/{patientID}/odontogram.
func (h *Handler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	details := h.svc.Current(chi.URLParam(r, "patientID"))
	if details == nil {
		details = []model.OdontogramDetail{}
	}
	writeJSON(w, http.StatusOK, details)
}

// EditRequest is one tool stroke against a client-held edit buffer.
type EditRequest struct {
	Details     []model.OdontogramDetail `json:"details"`
	ToothNumber int                      `json:"toothNumber"`
	Face        model.ToothFace          `json:"face"`
	Tool        Tool                     `json:"tool"`
	Confirmed   bool                     `json:"confirmed"`
}

// EditResponse returns the new buffer, or asks for confirmation first.
type EditResponse struct {
	RequiresConfirmation bool                     `json:"requiresConfirmation"`
	Details              []model.OdontogramDetail `json:"details,omitempty"`
}

// ApplyEdit handles POST /patients/{patientID}/odontogram/edit.
func (h *Handler) ApplyEdit(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if !req.Confirmed {
		saved := h.svc.Current(patientID)
		if NeedsConfirmation(saved, req.Details, req.ToothNumber, req.Face, req.Tool) {
			writeJSON(w, http.StatusOK, EditResponse{RequiresConfirmation: true})
			return
		}
	}

	details, err := ApplyEdit(req.Details, req.ToothNumber, req.Face, req.Tool)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if details == nil {
		details = []model.OdontogramDetail{}
	}
	writeJSON(w, http.StatusOK, EditResponse{Details: details})
}

// SaveRequest is the body of POST /patients/{patientID}/odontogram.
type SaveRequest struct {
	Details []model.OdontogramDetail `json:"details"`
}

// Save handles POST /patients/{patientID}/odontogram.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rec, err := h.svc.SaveSnapshot(r.Context(), patientID, req.Details)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidTooth), errors.Is(err, ErrInvalidFace),
		errors.Is(err, ErrInvalidTool), errors.Is(err, ErrConflictingEntries):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrPatientNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Error("odontogram request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
