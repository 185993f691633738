package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// manualScheduler captura el callback de resolución para dispararlo a mano.
type manualScheduler struct {
	fns []func()
}

func (s *manualScheduler) AfterFunc(_ time.Duration, fn func()) {
	s.fns = append(s.fns, fn)
}

func (s *manualScheduler) fire(t *testing.T) {
	t.Helper()
	if len(s.fns) == 0 {
		t.Fatal("no resolution scheduled")
	}
	for _, fn := range s.fns {
		fn()
	}
	s.fns = nil
}

func newTestRouter(t *testing.T) (http.Handler, *manualScheduler) {
	t.Helper()
	t.Setenv("DB_DSN", "")

	sched := &manualScheduler{}
	r := NewRouter(Options{
		Scheduler:     sched,
		ApprovalDelay: 4 * time.Second,
	})
	return r, sched
}

func doJSON(t *testing.T, h http.Handler, method, path, clinicID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if clinicID != "" {
		req.Header.Set("X-Debug-Clinic-ID", clinicID)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

type accountBody struct {
	ID                 string   `json:"id"`
	Credits            float64  `json:"credits"`
	IsParticipating    bool     `json:"is_participating"`
	TotalContributions int      `json:"total_contributions"`
	TotalRetrievals    int      `json:"total_retrievals"`
	UnlockedRecordIDs  []string `json:"unlocked_record_ids"`
	Badges             []string `json:"badges"`
}

func createAccount(t *testing.T, h http.Handler) accountBody {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/accounts", "", map[string]string{"clinic_name": "City Physio"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create account: status %d: %s", w.Code, w.Body.String())
	}
	var a accountBody
	decode(t, w, &a)
	return a
}

func allAttributesBody() map[string]bool {
	return map[string]bool{
		"diagnosis":     true,
		"subjective":    true,
		"objective":     true,
		"proms":         true,
		"treatment":     true,
		"sessions":      true,
		"patientStatus": true,
	}
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t)

	w := doJSON(t, h, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: status %d", w.Code)
	}
}

func TestScoringPreview(t *testing.T) {
	h, _ := newTestRouter(t)

	w := doJSON(t, h, http.MethodPost, "/scoring/preview", "", map[string]any{
		"attributes": allAttributesBody(),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("preview: status %d: %s", w.Code, w.Body.String())
	}

	var out struct {
		Score      int     `json:"score"`
		Multiplier float64 `json:"multiplier"`
		Tier       string  `json:"tier"`
	}
	decode(t, w, &out)

	if out.Score != 100 || out.Multiplier != 1.0 || out.Tier != "complete" {
		t.Fatalf("unexpected preview: %+v", out)
	}
}

func TestAccountAuthGuards(t *testing.T) {
	h, _ := newTestRouter(t)
	a := createAccount(t, h)

	if w := doJSON(t, h, http.MethodGet, "/accounts/"+a.ID, "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %d", w.Code)
	}
	if w := doJSON(t, h, http.MethodGet, "/accounts/"+a.ID, "someone-else", nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for another clinic, got %d", w.Code)
	}
	if w := doJSON(t, h, http.MethodGet, "/accounts/"+a.ID, a.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for own account, got %d", w.Code)
	}
}

func TestShareAndUnlockFlow(t *testing.T) {
	h, _ := newTestRouter(t)
	a := createAccount(t, h)

	// Contribución completa: 1.0 crédito, badge y participación.
	w := doJSON(t, h, http.MethodPost, "/accounts/"+a.ID+"/shares", a.ID, map[string]any{
		"record_id":  "own-rec-1",
		"attributes": allAttributesBody(),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("share: status %d: %s", w.Code, w.Body.String())
	}
	var share struct {
		QualityScore  int         `json:"quality_score"`
		CreditsEarned float64     `json:"credits_earned"`
		Account       accountBody `json:"account"`
	}
	decode(t, w, &share)
	if share.QualityScore != 100 || share.CreditsEarned != 1.0 {
		t.Fatalf("unexpected share result: %+v", share)
	}
	if !share.Account.IsParticipating || share.Account.Credits != 1.0 {
		t.Fatalf("account not updated by share: %+v", share.Account)
	}

	// Catálogo seed visible, bloqueado.
	w = doJSON(t, h, http.MethodGet, "/records", a.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list records: status %d", w.Code)
	}
	var list []map[string]any
	decode(t, w, &list)
	if len(list) != 3 {
		t.Fatalf("expected 3 seeded records, got %d", len(list))
	}

	// Detalle sin pagar: solo resumen.
	w = doJSON(t, h, http.MethodGet, "/records/rec-001", a.ID, nil)
	var locked map[string]any
	decode(t, w, &locked)
	if locked["locked"] != true {
		t.Fatalf("expected locked record, got %v", locked)
	}
	if _, ok := locked["patient_name"]; ok {
		t.Fatal("locked record must not expose patient data")
	}

	// Unlock: cobra 1.0.
	w = doJSON(t, h, http.MethodPost, "/accounts/"+a.ID+"/unlocks", a.ID, map[string]string{"record_id": "rec-001"})
	if w.Code != http.StatusOK {
		t.Fatalf("unlock: status %d: %s", w.Code, w.Body.String())
	}
	var unlock struct {
		Charged bool        `json:"charged"`
		Account accountBody `json:"account"`
	}
	decode(t, w, &unlock)
	if !unlock.Charged || unlock.Account.Credits != 0 {
		t.Fatalf("unexpected unlock: %+v", unlock)
	}

	// Detalle pagado: datos completos.
	w = doJSON(t, h, http.MethodGet, "/records/rec-001", a.ID, nil)
	var detail map[string]any
	decode(t, w, &detail)
	if detail["locked"] != false || detail["patient_name"] != "Jane Doe" {
		t.Fatalf("expected full detail after unlock, got %v", detail)
	}

	// Repetir unlock: sin cargo.
	w = doJSON(t, h, http.MethodPost, "/accounts/"+a.ID+"/unlocks", a.ID, map[string]string{"record_id": "rec-001"})
	decode(t, w, &unlock)
	if unlock.Charged {
		t.Fatal("repeat unlock must not charge")
	}

	// Sin balance: otro unlock da 402.
	w = doJSON(t, h, http.MethodPost, "/accounts/"+a.ID+"/unlocks", a.ID, map[string]string{"record_id": "rec-002"})
	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", w.Code)
	}
}

func TestRequestWorkflow(t *testing.T) {
	h, sched := newTestRouter(t)
	a := createAccount(t, h)

	// Ganar el crédito que cuesta la solicitud.
	w := doJSON(t, h, http.MethodPost, "/accounts/"+a.ID+"/shares", a.ID, map[string]any{
		"record_id":  "own-rec-1",
		"attributes": allAttributesBody(),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("share: status %d", w.Code)
	}

	w = doJSON(t, h, http.MethodPost, "/accounts/"+a.ID+"/requests", a.ID, map[string]string{
		"patient_name":  "John Smith",
		"patient_dob":   "1975-06-14",
		"target_clinic": "Eastside Sports Clinic",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("submit request: status %d: %s", w.Code, w.Body.String())
	}
	var req struct {
		ID               string  `json:"id"`
		Status           string  `json:"status"`
		ResponseRecordID *string `json:"response_record_id"`
	}
	decode(t, w, &req)
	if req.Status != "pending" {
		t.Fatalf("expected pending, got %s", req.Status)
	}

	// El envío debitó el crédito.
	var acct accountBody
	w = doJSON(t, h, http.MethodGet, "/accounts/"+a.ID, a.ID, nil)
	decode(t, w, &acct)
	if acct.Credits != 0 {
		t.Fatalf("request must debit 1.0, balance %v", acct.Credits)
	}

	// Resolución diferida: match por nombre => rec-002.
	sched.fire(t)

	w = doJSON(t, h, http.MethodGet, "/accounts/"+a.ID+"/requests/"+req.ID, a.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get request: status %d", w.Code)
	}
	decode(t, w, &req)
	if req.Status != "approved" {
		t.Fatalf("expected approved, got %s", req.Status)
	}
	if req.ResponseRecordID == nil || *req.ResponseRecordID != "rec-002" {
		t.Fatalf("expected rec-002, got %v", req.ResponseRecordID)
	}

	// La aprobación otorga el unlock sin cargo extra.
	w = doJSON(t, h, http.MethodGet, "/records/rec-002", a.ID, nil)
	var detail map[string]any
	decode(t, w, &detail)
	if detail["locked"] != false {
		t.Fatalf("approved request must unlock the record, got %v", detail)
	}

	// Sin balance, una segunda solicitud da 402 y no queda registrada.
	w = doJSON(t, h, http.MethodPost, "/accounts/"+a.ID+"/requests", a.ID, map[string]string{
		"patient_name":  "Jane Doe",
		"patient_dob":   "1980-01-01",
		"target_clinic": "Harbour Physio Group",
	})
	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", w.Code)
	}

	w = doJSON(t, h, http.MethodGet, "/accounts/"+a.ID+"/requests", a.ID, nil)
	var all []json.RawMessage
	decode(t, w, &all)
	if len(all) != 1 {
		t.Fatalf("failed submit must leave no trace, got %d requests", len(all))
	}
}

func TestOptOutClearsBalance(t *testing.T) {
	h, _ := newTestRouter(t)
	a := createAccount(t, h)

	w := doJSON(t, h, http.MethodPost, "/accounts/"+a.ID+"/shares", a.ID, map[string]any{
		"record_id":  "own-rec-1",
		"attributes": allAttributesBody(),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("share: status %d", w.Code)
	}

	w = doJSON(t, h, http.MethodPost, "/accounts/"+a.ID+"/opt-out", a.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("opt-out: status %d", w.Code)
	}
	var out accountBody
	decode(t, w, &out)
	if out.Credits != 0 || out.IsParticipating {
		t.Fatalf("opt-out must forfeit credits and participation: %+v", out)
	}
	if out.TotalContributions != 1 {
		t.Fatalf("history must survive opt-out: %+v", out)
	}
}
