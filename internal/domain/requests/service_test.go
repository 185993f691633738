package requests

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-data-exchange/internal/domain/accounts"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]PatientRequest
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]PatientRequest{}}
}

func (r *testRepo) Create(ctx context.Context, req PatientRequest) error {
	if req.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[req.ID] = req
	return nil
}

func (r *testRepo) Update(ctx context.Context, req PatientRequest) error {
	if _, ok := r.byID[req.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[req.ID] = req
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (PatientRequest, error) {
	req, ok := r.byID[id]
	if !ok {
		return PatientRequest{}, errRepoNotFound
	}
	return req, nil
}

func (r *testRepo) ListByAccount(ctx context.Context, accountID string) ([]PatientRequest, error) {
	out := make([]PatientRequest, 0)
	for _, req := range r.byID {
		if req.AccountID == accountID {
			out = append(out, req)
		}
	}
	return out, nil
}

// -------------------------
// Fakes: ledger, catalog, scheduler
// -------------------------

type testLedger struct {
	balance float64

	debits  []string
	credits []string
	grants  []string
}

func (l *testLedger) Debit(ctx context.Context, accountID string, amount float64, meta accounts.TxMeta) (accounts.Account, error) {
	if l.balance < amount {
		return accounts.Account{}, accounts.ErrInsufficientCredits
	}
	l.balance -= amount
	l.debits = append(l.debits, meta.Details)
	return accounts.Account{ID: accountID, Credits: l.balance}, nil
}

func (l *testLedger) Credit(ctx context.Context, accountID string, amount float64, meta accounts.TxMeta) (accounts.Account, error) {
	l.balance += amount
	l.credits = append(l.credits, meta.Details)
	return accounts.Account{ID: accountID, Credits: l.balance}, nil
}

func (l *testLedger) GrantUnlock(ctx context.Context, accountID, recordID string) error {
	l.grants = append(l.grants, recordID)
	return nil
}

type testCatalog struct {
	ids    []string
	byName map[string]string
}

func (c *testCatalog) Exists(ctx context.Context, recordID string) (bool, error) {
	for _, id := range c.ids {
		if id == recordID {
			return true, nil
		}
	}
	return false, nil
}

func (c *testCatalog) FindIDByPatientName(ctx context.Context, patientName string) (string, error) {
	if id, ok := c.byName[patientName]; ok {
		return id, nil
	}
	return "", errors.New("no match")
}

func (c *testCatalog) FirstID(ctx context.Context) (string, error) {
	if len(c.ids) == 0 {
		return "", errors.New("empty catalog")
	}
	return c.ids[0], nil
}

// manualScheduler captura el callback para dispararlo a mano en el test.
type manualScheduler struct {
	delay time.Duration
	fn    func()
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) {
	s.delay = d
	s.fn = fn
}

func (s *manualScheduler) fire(t *testing.T) {
	t.Helper()
	if s.fn == nil {
		t.Fatal("no resolution scheduled")
	}
	s.fn()
}

// -------------------------
// Helpers
// -------------------------

func seededCatalog() *testCatalog {
	return &testCatalog{
		ids: []string{"rec-001", "rec-002", "rec-003"},
		byName: map[string]string{
			"John Smith": "rec-002",
		},
	}
}

func newTestService(repo Repository, ledger Ledger, catalog RecordCatalog, sched Scheduler) *Service {
	svc := NewService(repo, ledger, catalog, sched, 4*time.Second, nil, nil)
	fixed := time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return svc
}

func validInput() SubmitInput {
	return SubmitInput{
		PatientName:      "Jane Doe",
		PatientDOB:       "1980-01-01",
		TargetClinicName: "Harbour Physio Group",
	}
}

// -------------------------
// Tests
// -------------------------

func TestSubmitDebitsAndCreatesPending(t *testing.T) {
	repo := newTestRepo()
	ledger := &testLedger{balance: 2.0}
	sched := &manualScheduler{}
	svc := newTestService(repo, ledger, seededCatalog(), sched)

	req, err := svc.Submit(context.Background(), "c1", validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if req.Status != StatusPending {
		t.Fatalf("expected pending, got %s", req.Status)
	}
	if req.RequestDate != "2025-12-01" {
		t.Fatalf("unexpected request date: %s", req.RequestDate)
	}
	if ledger.balance != 1.0 {
		t.Fatalf("expected balance 1.0 after debit, got %v", ledger.balance)
	}
	if len(ledger.debits) != 1 {
		t.Fatalf("expected 1 debit, got %d", len(ledger.debits))
	}
	if sched.delay != 4*time.Second {
		t.Fatalf("resolution must use the configured delay, got %v", sched.delay)
	}

	stored, err := repo.GetByID(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("request not persisted: %v", err)
	}
	if stored.Status != StatusPending {
		t.Fatalf("stored request not pending: %s", stored.Status)
	}
}

func TestSubmitInsufficientCreditsLeavesNoTrace(t *testing.T) {
	repo := newTestRepo()
	ledger := &testLedger{balance: 0.5}
	sched := &manualScheduler{}
	svc := newTestService(repo, ledger, seededCatalog(), sched)

	_, err := svc.Submit(context.Background(), "c1", validInput())
	if err != ErrInsufficientCredits {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}

	if len(repo.byID) != 0 {
		t.Fatal("failed submit must not persist a request")
	}
	if ledger.balance != 0.5 {
		t.Fatalf("failed submit must not touch the balance, got %v", ledger.balance)
	}
	if sched.fn != nil {
		t.Fatal("failed submit must not schedule resolution")
	}
}

func TestSubmitValidation(t *testing.T) {
	svc := newTestService(newTestRepo(), &testLedger{balance: 5}, seededCatalog(), &manualScheduler{})

	cases := []SubmitInput{
		{PatientDOB: "1980-01-01", TargetClinicName: "x"},
		{PatientName: "Jane", TargetClinicName: "x"},
		{PatientName: "Jane", PatientDOB: "1980-01-01"},
	}
	for i, in := range cases {
		if _, err := svc.Submit(context.Background(), "c1", in); err != ErrInvalidInput {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestResolvePrefersCandidateRecord(t *testing.T) {
	repo := newTestRepo()
	ledger := &testLedger{balance: 2.0}
	sched := &manualScheduler{}
	svc := newTestService(repo, ledger, seededCatalog(), sched)

	in := validInput()
	in.CandidateRecordID = "rec-003"
	req, err := svc.Submit(context.Background(), "c1", in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	sched.fire(t)

	resolved, _ := repo.GetByID(context.Background(), req.ID)
	if resolved.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", resolved.Status)
	}
	if resolved.ResponseRecordID == nil || *resolved.ResponseRecordID != "rec-003" {
		t.Fatalf("expected candidate rec-003, got %v", resolved.ResponseRecordID)
	}
	if len(ledger.grants) != 1 || ledger.grants[0] != "rec-003" {
		t.Fatalf("approval must grant the unlock without charge, got %v", ledger.grants)
	}
	if ledger.balance != 1.0 {
		t.Fatalf("approval must not refund, got balance %v", ledger.balance)
	}
}

func TestResolveFallsBackToNameMatch(t *testing.T) {
	repo := newTestRepo()
	ledger := &testLedger{balance: 2.0}
	sched := &manualScheduler{}
	svc := newTestService(repo, ledger, seededCatalog(), sched)

	in := validInput()
	in.PatientName = "John Smith"
	in.CandidateRecordID = "rec-999" // no existe, se ignora
	req, err := svc.Submit(context.Background(), "c1", in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	sched.fire(t)

	resolved, _ := repo.GetByID(context.Background(), req.ID)
	if resolved.ResponseRecordID == nil || *resolved.ResponseRecordID != "rec-002" {
		t.Fatalf("expected name match rec-002, got %v", resolved.ResponseRecordID)
	}
}

func TestResolveFallsBackToFirstRecord(t *testing.T) {
	repo := newTestRepo()
	ledger := &testLedger{balance: 2.0}
	sched := &manualScheduler{}
	svc := newTestService(repo, ledger, seededCatalog(), sched)

	in := validInput()
	in.PatientName = "Nobody Known"
	req, err := svc.Submit(context.Background(), "c1", in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	sched.fire(t)

	resolved, _ := repo.GetByID(context.Background(), req.ID)
	if resolved.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", resolved.Status)
	}
	if resolved.ResponseRecordID == nil || *resolved.ResponseRecordID != "rec-001" {
		t.Fatalf("expected first record fallback, got %v", resolved.ResponseRecordID)
	}
}

func TestResolveEmptyCatalogRejectsAndRefunds(t *testing.T) {
	repo := newTestRepo()
	ledger := &testLedger{balance: 1.0}
	sched := &manualScheduler{}
	empty := &testCatalog{byName: map[string]string{}}
	svc := newTestService(repo, ledger, empty, sched)

	req, err := svc.Submit(context.Background(), "c1", validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ledger.balance != 0 {
		t.Fatalf("submit must debit, got %v", ledger.balance)
	}

	sched.fire(t)

	resolved, _ := repo.GetByID(context.Background(), req.ID)
	if resolved.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", resolved.Status)
	}
	if resolved.ResponseRecordID != nil {
		t.Fatal("rejected request must not carry a response record")
	}
	if ledger.balance != 1.0 {
		t.Fatalf("rejection must refund the request cost, got %v", ledger.balance)
	}
	if len(ledger.grants) != 0 {
		t.Fatal("rejection must not grant unlocks")
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	repo := newTestRepo()
	ledger := &testLedger{balance: 2.0}
	sched := &manualScheduler{}
	svc := newTestService(repo, ledger, seededCatalog(), sched)

	req, err := svc.Submit(context.Background(), "c1", validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	sched.fire(t)
	balanceAfter := ledger.balance
	grantsAfter := len(ledger.grants)

	// Segunda resolución (entrega at-least-once): no-op.
	again, err := svc.Resolve(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if again.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", again.Status)
	}
	if ledger.balance != balanceAfter || len(ledger.grants) != grantsAfter {
		t.Fatal("repeat resolve mutated the ledger")
	}
}

func TestGetByIDUnknown(t *testing.T) {
	svc := newTestService(newTestRepo(), &testLedger{}, seededCatalog(), &manualScheduler{})

	if _, err := svc.GetByID(context.Background(), "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
