package records

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"clinic-data-exchange/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// UnlockChecker evita importar el paquete accounts (rompe ciclos).
type UnlockChecker interface {
	HasUnlocked(ctx context.Context, accountID, recordID string) (bool, error)
}

func RegisterRoutes(r chi.Router, svc *Service, unlocks UnlockChecker) {
	r.Route("/records", func(rr chi.Router) {
		rr.Get("/", listRecordsHandler(svc))
		rr.Get("/{recordID}", getRecordHandler(svc, unlocks))
		rr.Post("/{recordID}/rating", rateRecordHandler(svc))
	})
}

// recordSummary es lo que ve cualquier clínica sin pagar el unlock.
type recordSummary struct {
	ID                string    `json:"id"`
	SharedByClinic    string    `json:"shared_by_clinic"`
	SharedAt          time.Time `json:"shared_at"`
	Diagnosis         string    `json:"diagnosis"`
	DiagnosisCategory string    `json:"diagnosis_category"`
	ICD10             string    `json:"icd10"`
	Status            string    `json:"status"`
	PrivacyLevel      string    `json:"privacy_level"`
	DisclosureTiming  string    `json:"disclosure_timing"`
	Tier              string    `json:"tier"`
	DistanceKm        float64   `json:"distance_km"`
	Locked            bool      `json:"locked"`
}

type recordDetail struct {
	recordSummary

	PatientName string `json:"patient_name"`
	DateOfBirth string `json:"date_of_birth"`

	SubjectiveComplaint string `json:"subjective_complaint"`
	ObjectiveFindings   string `json:"objective_findings"`
	PROMScores          string `json:"prom_scores"`
	TreatmentPlan       string `json:"treatment_plan"`
	Outcome             string `json:"outcome"`

	Sessions      int `json:"sessions"`
	DurationWeeks int `json:"duration_weeks"`
}

// listRecordsHandler godoc
// @Summary  Lista el catálogo de registros publicados (solo resumen)
// @Tags     records
// @Produce  json
// @Success  200 {array} recordSummary
// @Router   /records [get]
func listRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]recordSummary, 0, len(items))
		for _, rec := range items {
			out = append(out, toSummary(rec, true))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getRecordHandler devuelve el detalle completo solo si la clínica pagó el
// unlock; si no, el mismo resumen del listado con locked=true.
func getRecordHandler(svc *Service, unlocks UnlockChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordID := chi.URLParam(r, "recordID")

		rec, err := svc.GetByID(r.Context(), recordID)
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "record not found", http.StatusNotFound)
			}
			return
		}

		unlocked := false
		if claims, ok := middleware.GetClaims(r.Context()); ok && strings.TrimSpace(claims.ClinicID) != "" && unlocks != nil {
			unlocked, _ = unlocks.HasUnlocked(r.Context(), claims.ClinicID, rec.ID)
		}

		if !unlocked {
			writeJSON(w, http.StatusOK, toSummary(rec, true))
			return
		}
		writeJSON(w, http.StatusOK, toDetail(rec))
	}
}

type rateRequest struct {
	Rating int `json:"rating"`
}

func rateRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := svc.Rate(r.Context(), chi.URLParam(r, "recordID"), req.Rating); err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "record not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	}
}

func toSummary(rec SharedRecord, locked bool) recordSummary {
	return recordSummary{
		ID:                rec.ID,
		SharedByClinic:    rec.SharedByClinic,
		SharedAt:          rec.SharedAt,
		Diagnosis:         rec.Diagnosis,
		DiagnosisCategory: rec.DiagnosisCategory,
		ICD10:             rec.ICD10,
		Status:            string(rec.Status),
		PrivacyLevel:      string(rec.PrivacyLevel),
		DisclosureTiming:  string(rec.DisclosureTiming),
		Tier:              string(rec.Tier),
		DistanceKm:        rec.DistanceKm,
		Locked:            locked,
	}
}

func toDetail(rec SharedRecord) recordDetail {
	return recordDetail{
		recordSummary:       toSummary(rec, false),
		PatientName:         rec.PatientName,
		DateOfBirth:         rec.DateOfBirth,
		SubjectiveComplaint: rec.SubjectiveComplaint,
		ObjectiveFindings:   rec.ObjectiveFindings,
		PROMScores:          rec.PROMScores,
		TreatmentPlan:       rec.TreatmentPlan,
		Outcome:             rec.Outcome,
		Sessions:            rec.Sessions,
		DurationWeeks:       rec.DurationWeeks,
	}
}

// writeJSON está duplicado a propósito en handlers de distintos módulos
// para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
