package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ataboada/clinica-core/pkg/logging"
)

// Handler exposes the price list and the CIE-10 lookup over HTTP.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates a new catalog handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// ListProcedures handles GET /procedures.
func (h *Handler) ListProcedures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Procedures())
}

// AddProcedureRequest is the body of POST /procedures.
type AddProcedureRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// AddProcedure handles POST /procedures.
func (h *Handler) AddProcedure(w http.ResponseWriter, r *http.Request) {
	var req AddProcedureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.svc.AddProcedure(r.Context(), req.Name, req.Price)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// RemoveProcedure handles DELETE /procedures/{procedureID}.
func (h *Handler) RemoveProcedure(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveProcedure(r.Context(), chi.URLParam(r, "procedureID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchCIE10 handles GET /cie10?q=.
func (h *Handler) SearchCIE10(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SearchDiagnosticCodes(r.URL.Query().Get("q")))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidProcedure):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrProcedureNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Error("catalog request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
