package scoring

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router) {
	r.Post("/scoring/preview", previewHandler())
}

type previewRequest struct {
	Attributes Attributes `json:"attributes"`
}

type previewResponse struct {
	Score      int     `json:"score"`
	Multiplier float64 `json:"multiplier"`
	Tier       Tier    `json:"tier"`
}

// previewHandler calcula score/multiplicador sin tocar estado: lo usa el
// formulario de contribución para mostrar lo que ganaría la clínica.
func previewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req previewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		score := CalculateQualityScore(req.Attributes)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(previewResponse{
			Score:      score,
			Multiplier: Multiplier(score),
			Tier:       TierFor(score),
		})
	}
}
