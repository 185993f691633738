package accounts

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"clinic-data-exchange/internal/domain/scoring"
	"clinic-data-exchange/internal/middleware"
	"clinic-data-exchange/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

// Rutas con paths explícitos (sin subrouter montado) para que el módulo
// requests pueda registrar /accounts/{accountID}/requests sin colisionar.
func RegisterRoutes(r chi.Router, svc *Service, m *metrics.Metrics) {
	r.Post("/accounts", createAccountHandler(svc))

	r.Get("/accounts/{accountID}", getAccountHandler(svc))
	r.Post("/accounts/{accountID}/opt-in", optInHandler(svc))
	r.Post("/accounts/{accountID}/opt-out", optOutHandler(svc))
	r.Get("/accounts/{accountID}/transactions", listTransactionsHandler(svc))
	r.Patch("/accounts/{accountID}/preferences", updatePreferencesHandler(svc))
	r.Post("/accounts/{accountID}/shares", shareRecordHandler(svc, m))
	r.Post("/accounts/{accountID}/unlocks", unlockRecordHandler(svc, m))
}

// ownAccount exige claims presentes y que coincidan con {accountID}.
// Devuelve "" si ya respondió el error.
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

type accountResponse struct {
	ID                 string             `json:"id"`
	ClinicName         string             `json:"clinic_name"`
	Credits            float64            `json:"credits"`
	IsParticipating    bool               `json:"is_participating"`
	TotalContributions int                `json:"total_contributions"`
	TotalRetrievals    int                `json:"total_retrievals"`
	MonthlyShares      int                `json:"monthly_shares"`
	UnlockedRecordIDs  []string           `json:"unlocked_record_ids"`
	Badges             []Badge            `json:"badges"`
	Preferences        SharingPreferences `json:"preferences"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

type createAccountRequest struct {
	ClinicName string `json:"clinic_name"`
}

func createAccountHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{ClinicName: req.ClinicName})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrAlreadyExists:
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toAccountResponse(a))
	}
}

// getAccountHandler godoc
// @Summary  Estado de la cuenta: balance, badges, contadores, participación
// @Tags     accounts
// @Produce  json
// @Success  200 {object} accountResponse
// @Router   /accounts/{accountID} [get]
func getAccountHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := ownAccount(w, r)
		if accountID == "" {
			return
		}

		a, err := svc.GetByID(r.Context(), accountID)
		if err != nil {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toAccountResponse(a))
	}
}

func optInHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := ownAccount(w, r)
		if accountID == "" {
			return
		}

		a, err := svc.OptIn(r.Context(), accountID)
		if err != nil {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toAccountResponse(a))
	}
}

func optOutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := ownAccount(w, r)
		if accountID == "" {
			return
		}

		a, err := svc.OptOut(r.Context(), accountID)
		if err != nil {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toAccountResponse(a))
	}
}

type transactionResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	CreditsChange float64   `json:"credits_change"`
	QualityScore  *int      `json:"quality_score,omitempty"`
	Details       string    `json:"details"`
}

func listTransactionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := ownAccount(w, r)
		if accountID == "" {
			return
		}

		items, err := svc.ListTransactions(r.Context(), accountID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]transactionResponse, 0, len(items))
		for _, tx := range items {
			out = append(out, transactionResponse{
				ID:            tx.ID,
				Type:          string(tx.Type),
				Timestamp:     tx.Timestamp,
				CreditsChange: tx.CreditsChange,
				QualityScore:  tx.QualityScore,
				Details:       tx.Details,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func updatePreferencesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := ownAccount(w, r)
		if accountID == "" {
			return
		}

		var patch PreferencesPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.UpdatePreferences(r.Context(), accountID, patch)
		if err != nil {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toAccountResponse(a))
	}
}

type shareRecordRequest struct {
	RecordID   string             `json:"record_id"`
	Attributes scoring.Attributes `json:"attributes"`
	Timing     string             `json:"timing"`
}

type shareRecordResponse struct {
	QualityScore  int             `json:"quality_score"`
	CreditsEarned float64         `json:"credits_earned"`
	Tier          string          `json:"tier"`
	Account       accountResponse `json:"account"`
}

// shareRecordHandler godoc
// @Summary  Contribuye un registro y emite créditos según score de calidad
// @Tags     accounts
// @Accept   json
// @Produce  json
// @Success  200 {object} shareRecordResponse
// @Router   /accounts/{accountID}/shares [post]
func shareRecordHandler(svc *Service, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := ownAccount(w, r)
		if accountID == "" {
			return
		}

		var req shareRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Share(r.Context(), accountID, ShareInput{
			RecordID:   req.RecordID,
			Attributes: req.Attributes,
			Timing:     req.Timing,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "account not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		m.ObserveContribution(res.CreditsEarned)

		writeJSON(w, http.StatusOK, shareRecordResponse{
			QualityScore:  res.QualityScore,
			CreditsEarned: res.CreditsEarned,
			Tier:          string(res.Tier),
			Account:       toAccountResponse(res.Account),
		})
	}
}

type unlockRecordRequest struct {
	RecordID string `json:"record_id"`
}

type unlockRecordResponse struct {
	Charged bool            `json:"charged"`
	Account accountResponse `json:"account"`
}

func unlockRecordHandler(svc *Service, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := ownAccount(w, r)
		if accountID == "" {
			return
		}

		var req unlockRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Unlock(r.Context(), accountID, req.RecordID)
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "account not found", http.StatusNotFound)
			case ErrInsufficientCredits:
				http.Error(w, err.Error(), http.StatusPaymentRequired)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		if res.Charged {
			m.ObserveUnlock()
		}

		writeJSON(w, http.StatusOK, unlockRecordResponse{
			Charged: res.Charged,
			Account: toAccountResponse(res.Account),
		})
	}
}

func toAccountResponse(a Account) accountResponse {
	return accountResponse{
		ID:                 a.ID,
		ClinicName:         a.ClinicName,
		Credits:            a.Credits,
		IsParticipating:    a.IsParticipating,
		TotalContributions: a.TotalContributions,
		TotalRetrievals:    a.TotalRetrievals,
		MonthlyShares:      a.MonthlyShares,
		UnlockedRecordIDs:  a.UnlockedRecordIDs,
		Badges:             a.Badges,
		Preferences:        a.Preferences,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en handlers de distintos módulos
// para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
