package ledger

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ataboada/clinica-core/pkg/logging"
)

// Handler exposes the ledger over HTTP.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates a new ledger handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RecordTreatment handles POST /patients/{patientID}/treatments.
func (h *Handler) RecordTreatment(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	var req TreatmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	treatment, err := h.svc.RecordTreatment(r.Context(), patientID, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, treatment)
}

// ListTreatments handles GET /patients/{patientID}/treatments.
func (h *Handler) ListTreatments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.TreatmentsByPatient(chi.URLParam(r, "patientID")))
}

// RecordPayment handles POST /patients/{patientID}/payments.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	payment, err := h.svc.RecordPayment(r.Context(), patientID, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

// ListPayments handles GET /patients/{patientID}/payments.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.PaymentsByPatient(chi.URLParam(r, "patientID")))
}

// CancelPayment handles POST /payments/{paymentID}/cancel.
func (h *Handler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentID")
	if err := h.svc.CancelPayment(r.Context(), paymentID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBalance handles GET /patients/{patientID}/balance.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Balance(chi.URLParam(r, "patientID")))
}

// ListDebtors handles GET /debtors.
func (h *Handler) ListDebtors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Debtors())
}

// IntegralVisitRequest is the body of POST /patients/{patientID}/integral-visit.
type IntegralVisitRequest struct {
	Treatment TreatmentRequest `json:"treatment"`
	Payment   PaymentRequest   `json:"payment"`
}

// IntegralVisitResponse carries both records created by an integral visit.
type IntegralVisitResponse struct {
	Treatment any `json:"treatment"`
	Payment   any `json:"payment,omitempty"`
}

// RecordIntegralVisit handles POST /patients/{patientID}/integral-visit.
func (h *Handler) RecordIntegralVisit(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	var req IntegralVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	treatment, payment, err := h.svc.RecordIntegralVisit(r.Context(), patientID, req.Treatment, req.Payment)
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := IntegralVisitResponse{Treatment: treatment}
	if payment != nil {
		resp.Payment = payment
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrPatientNotFound), errors.Is(err, ErrPaymentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Error("ledger request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
