package accounts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"clinic-data-exchange/internal/domain/scoring"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrInsufficientCredits = errors.New("insufficient credits")
)

// UnlockCost es el precio fijo por desbloquear un registro, independiente de
// la calidad o el contenido.
const UnlockCost = 1.0

type Service struct {
	repo Repository
	now  func() time.Time

	// Un mutex por cuenta: cada operación de mutación es read-check-write
	// atómica sobre el balance + log. No hay locking cross-cuenta.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Service) lockFor(accountID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[accountID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[accountID] = l
	}
	return l
}

// round2 fija el balance a 2 decimales en cada mutación.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

type CreateInput struct {
	ID         string // opcional; vacío => uuid
	ClinicName string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Account, error) {
	name := strings.TrimSpace(in.ClinicName)
	if name == "" {
		return Account{}, ErrInvalidInput
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}

	now := s.now()
	a := Account{
		ID:                id,
		ClinicName:        name,
		Credits:           0,
		IsParticipating:   false,
		UnlockedRecordIDs: []string{},
		Badges:            []Badge{},
		Preferences:       defaultPreferences(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Account{}, ErrInvalidInput
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Account{}, ErrNotFound
	}
	return a, nil
}

func (s *Service) ListTransactions(ctx context.Context, accountID string) ([]Transaction, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListTransactions(ctx, accountID)
}

// newTransaction arma la entrada del log. QualityScore solo viaja en
// contribuciones (invariante del modelo).
func (s *Service) newTransaction(accountID string, change float64, meta TxMeta) Transaction {
	score := meta.QualityScore
	if meta.Type != TxContribution {
		score = nil
	}
	return Transaction{
		ID:            uuid.NewString(),
		AccountID:     accountID,
		Type:          meta.Type,
		Timestamp:     s.now(),
		CreditsChange: change,
		QualityScore:  score,
		Details:       meta.Details,
	}
}

// Credit acredita amount (>= 0) y agrega la transacción en la misma unidad.
func (s *Service) Credit(ctx context.Context, accountID string, amount float64, meta TxMeta) (Account, error) {
	if amount < 0 {
		return Account{}, ErrInvalidInput
	}

	l := s.lockFor(accountID)
	l.Lock()
	defer l.Unlock()

	a, err := s.GetByID(ctx, accountID)
	if err != nil {
		return Account{}, err
	}

	tx := s.newTransaction(a.ID, amount, meta)
	a.Credits = round2(a.Credits + amount)
	a.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, a, tx); err != nil {
		return Account{}, err
	}
	return a, nil
}

// Debit descuenta amount solo si el balance alcanza; si no, falla sin mutar
// nada (nunca clampa a 0).
func (s *Service) Debit(ctx context.Context, accountID string, amount float64, meta TxMeta) (Account, error) {
	if amount < 0 {
		return Account{}, ErrInvalidInput
	}

	l := s.lockFor(accountID)
	l.Lock()
	defer l.Unlock()

	return s.debitLocked(ctx, accountID, amount, meta)
}

func (s *Service) debitLocked(ctx context.Context, accountID string, amount float64, meta TxMeta) (Account, error) {
	a, err := s.GetByID(ctx, accountID)
	if err != nil {
		return Account{}, err
	}

	if a.Credits < amount {
		return Account{}, ErrInsufficientCredits
	}

	tx := s.newTransaction(a.ID, -amount, meta)
	a.Credits = round2(a.Credits - amount)
	a.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, a, tx); err != nil {
		return Account{}, err
	}
	return a, nil
}

// Forfeit pone el balance en 0 sin transacción de reembolso: al salir de la
// red los créditos simplemente se pierden (regla de negocio documentada).
func (s *Service) Forfeit(ctx context.Context, accountID string) (Account, error) {
	l := s.lockFor(accountID)
	l.Lock()
	defer l.Unlock()

	a, err := s.GetByID(ctx, accountID)
	if err != nil {
		return Account{}, err
	}

	a.Credits = 0
	a.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

// OptIn marca la participación. No regala créditos.
func (s *Service) OptIn(ctx context.Context, accountID string) (Account, error) {
	l := s.lockFor(accountID)
	l.Lock()
	defer l.Unlock()

	a, err := s.GetByID(ctx, accountID)
	if err != nil {
		return Account{}, err
	}

	// Idempotente
	if a.IsParticipating {
		return a, nil
	}

	a.IsParticipating = true
	a.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

// OptOut saca a la clínica de la red: forfeit total de créditos y se quitan
// todos los badges salvo founding_member. El historial, los contadores y los
// registros ya desbloqueados quedan intactos (son registro de auditoría/uso).
func (s *Service) OptOut(ctx context.Context, accountID string) (Account, error) {
	l := s.lockFor(accountID)
	l.Lock()
	defer l.Unlock()

	a, err := s.GetByID(ctx, accountID)
	if err != nil {
		return Account{}, err
	}

	a.IsParticipating = false
	a.Credits = 0

	kept := make([]Badge, 0, 1)
	if hasBadge(a.Badges, BadgeFoundingMember) {
		kept = append(kept, BadgeFoundingMember)
	}
	a.Badges = kept
	a.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

type ShareInput struct {
	RecordID   string
	Attributes scoring.Attributes

	// Timing viaja con la contribución pero no afecta la emisión de créditos;
	// lo aplica el catálogo al publicar, no el ledger.
	Timing string
}

type ShareResult struct {
	Account       Account
	QualityScore  int
	CreditsEarned float64
	Tier          scoring.Tier
}

// Share es el flujo de contribución: score -> multiplicador -> crédito,
// contadores, badges y participación, todo en una unidad. Nunca falla por
// balance: el multiplicador tiene piso 0.3.
func (s *Service) Share(ctx context.Context, accountID string, in ShareInput) (ShareResult, error) {
	recordID := strings.TrimSpace(in.RecordID)
	if recordID == "" {
		return ShareResult{}, ErrInvalidInput
	}

	score := scoring.CalculateQualityScore(in.Attributes)
	earned := scoring.Multiplier(score)

	l := s.lockFor(accountID)
	l.Lock()
	defer l.Unlock()

	a, err := s.GetByID(ctx, accountID)
	if err != nil {
		return ShareResult{}, err
	}

	tx := s.newTransaction(a.ID, earned, TxMeta{
		Type:         TxContribution,
		QualityScore: &score,
		Details:      fmt.Sprintf("Shared record %s", recordID),
	})

	a.Credits = round2(a.Credits + earned)
	a.TotalContributions++
	a.MonthlyShares++
	a.Badges = DeriveBadges(a.TotalContributions, a.MonthlyShares, a.Badges)
	// Compartir siempre implica participar, aunque nunca haya opt-in explícito.
	a.IsParticipating = true
	a.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, a, tx); err != nil {
		return ShareResult{}, err
	}

	return ShareResult{
		Account:       a,
		QualityScore:  score,
		CreditsEarned: earned,
		Tier:          scoring.TierFor(score),
	}, nil
}

type UnlockResult struct {
	Account Account

	// Charged=false cuando el registro ya estaba desbloqueado (no-op exitoso).
	Charged bool
}

// Unlock cobra UnlockCost una sola vez por registro. Repetir el unlock de un
// registro ya pagado es éxito sin cargo.
func (s *Service) Unlock(ctx context.Context, accountID, recordID string) (UnlockResult, error) {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return UnlockResult{}, ErrInvalidInput
	}

	l := s.lockFor(accountID)
	l.Lock()
	defer l.Unlock()

	a, err := s.GetByID(ctx, accountID)
	if err != nil {
		return UnlockResult{}, err
	}

	// Idempotente: ya pagado => no se vuelve a cobrar.
	if a.HasUnlockedRecord(recordID) {
		return UnlockResult{Account: a, Charged: false}, nil
	}

	if a.Credits < UnlockCost {
		return UnlockResult{}, ErrInsufficientCredits
	}

	tx := s.newTransaction(a.ID, -UnlockCost, TxMeta{
		Type:    TxRetrieval,
		Details: fmt.Sprintf("Unlocked record %s", recordID),
	})

	a.Credits = round2(a.Credits - UnlockCost)
	a.TotalRetrievals++
	a.UnlockedRecordIDs = append(a.UnlockedRecordIDs, recordID)
	a.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, a, tx); err != nil {
		return UnlockResult{}, err
	}
	return UnlockResult{Account: a, Charged: true}, nil
}

// GrantUnlock agrega el registro al set sin cobrar: lo usa la resolución de
// solicitudes, donde el pago ya ocurrió al enviar. Idempotente.
func (s *Service) GrantUnlock(ctx context.Context, accountID, recordID string) error {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return ErrInvalidInput
	}

	l := s.lockFor(accountID)
	l.Lock()
	defer l.Unlock()

	a, err := s.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if a.HasUnlockedRecord(recordID) {
		return nil
	}

	a.UnlockedRecordIDs = append(a.UnlockedRecordIDs, recordID)
	a.UpdatedAt = s.now()

	return s.repo.Save(ctx, a)
}

// HasUnlocked implementa records.UnlockChecker.
func (s *Service) HasUnlocked(ctx context.Context, accountID, recordID string) (bool, error) {
	a, err := s.GetByID(ctx, accountID)
	if err != nil {
		return false, err
	}
	return a.HasUnlockedRecord(recordID), nil
}

// UpdatePreferences aplica un patch parcial (campo nil => sin cambios).
func (s *Service) UpdatePreferences(ctx context.Context, accountID string, patch PreferencesPatch) (Account, error) {
	l := s.lockFor(accountID)
	l.Lock()
	defer l.Unlock()

	a, err := s.GetByID(ctx, accountID)
	if err != nil {
		return Account{}, err
	}

	if patch.Attributes != nil {
		a.Preferences.Attributes = *patch.Attributes
	}
	if patch.AnonymizeName != nil {
		a.Preferences.AnonymizeName = *patch.AnonymizeName
	}
	a.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}
