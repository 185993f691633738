package requests

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"clinic-data-exchange/internal/middleware"
	"clinic-data-exchange/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

// caps puede ser nil: sin resolver configurado no hay gating por plan.
func RegisterRoutes(r chi.Router, svc *Service, caps capabilities.CapabilitiesResolver) {
	r.Post("/accounts/{accountID}/requests", submitRequestHandler(svc, caps))
	r.Get("/accounts/{accountID}/requests", listRequestsHandler(svc))
	r.Get("/accounts/{accountID}/requests/{requestID}", getRequestHandler(svc))
}

func ownAccount(w http.ResponseWriter, r *http.Request) string {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.ClinicID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return ""
	}

	accountID := chi.URLParam(r, "accountID")
	if claims.ClinicID != accountID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return ""
	}
	return accountID
}

type submitRequestRequest struct {
	PatientName       string `json:"patient_name"`
	PatientDOB        string `json:"patient_dob"`
	TargetClinicName  string `json:"target_clinic"`
	CandidateRecordID string `json:"candidate_record_id"`
}

type requestResponse struct {
	ID               string    `json:"id"`
	TargetClinicName string    `json:"target_clinic"`
	PatientName      string    `json:"patient_name"`
	PatientDOB       string    `json:"patient_dob"`
	RequestDate      string    `json:"request_date"`
	Status           Status    `json:"status"`
	ResponseRecordID *string   `json:"response_record_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// submitRequestHandler godoc
// @Summary  Envía una solicitud de datos de paciente a otra clínica (debita 1 crédito)
// @Tags     requests
// @Accept   json
// @Produce  json
// @Success  201 {object} requestResponse
// @Router   /accounts/{accountID}/requests [post]
func submitRequestHandler(svc *Service, caps capabilities.CapabilitiesResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := ownAccount(w, r)
		if accountID == "" {
			return
		}

		if caps != nil {
			ok, err := caps.HasFeature(r.Context(), capabilities.CapabilityCheck{
				ClinicID: accountID,
				Feature:  capabilities.FeaturePatientRequests,
			})
			if err != nil || !ok {
				http.Error(w, "plan does not include patient requests", http.StatusForbidden)
				return
			}
		}

		var req submitRequestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		created, err := svc.Submit(r.Context(), accountID, SubmitInput{
			PatientName:       req.PatientName,
			PatientDOB:        req.PatientDOB,
			TargetClinicName:  req.TargetClinicName,
			CandidateRecordID: req.CandidateRecordID,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrInsufficientCredits:
				http.Error(w, err.Error(), http.StatusPaymentRequired)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toRequestResponse(created))
	}
}

func listRequestsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := ownAccount(w, r)
		if accountID == "" {
			return
		}

		items, err := svc.ListByAccount(r.Context(), accountID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]requestResponse, 0, len(items))
		for _, req := range items {
			out = append(out, toRequestResponse(req))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := ownAccount(w, r)
		if accountID == "" {
			return
		}

		req, err := svc.GetByID(r.Context(), chi.URLParam(r, "requestID"))
		if err != nil || req.AccountID != accountID {
			http.Error(w, "request not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toRequestResponse(req))
	}
}

func toRequestResponse(req PatientRequest) requestResponse {
	return requestResponse{
		ID:               req.ID,
		TargetClinicName: req.TargetClinicName,
		PatientName:      req.PatientName,
		PatientDOB:       req.PatientDOB,
		RequestDate:      req.RequestDate,
		Status:           req.Status,
		ResponseRecordID: req.ResponseRecordID,
		CreatedAt:        req.CreatedAt,
		UpdatedAt:        req.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en handlers de distintos módulos
// para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
