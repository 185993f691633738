package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinic-data-exchange/internal/domain/accounts"
	"clinic-data-exchange/internal/platform/logger"
	"clinic-data-exchange/internal/platform/metrics"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
)

// RequestCost es lo que se debita al enviar, independiente del resultado.
const RequestCost = 1.0

// Ledger es lo mínimo que el workflow necesita de accounts.
type Ledger interface {
	Debit(ctx context.Context, accountID string, amount float64, meta accounts.TxMeta) (accounts.Account, error)
	Credit(ctx context.Context, accountID string, amount float64, meta accounts.TxMeta) (accounts.Account, error)
	GrantUnlock(ctx context.Context, accountID, recordID string) error
}

// RecordCatalog evita importar el paquete records (rompe ciclos).
type RecordCatalog interface {
	Exists(ctx context.Context, recordID string) (bool, error)
	FindIDByPatientName(ctx context.Context, patientName string) (string, error)
	FirstID(ctx context.Context) (string, error)
}

type Service struct {
	repo    Repository
	ledger  Ledger
	catalog RecordCatalog

	sched Scheduler
	delay time.Duration

	log     logger.Logger
	metrics *metrics.Metrics

	now func() time.Time
}

// NewService arma el workflow. delay simula la latencia de aprobación del
// par. log y m pueden ser nil.
func NewService(repo Repository, ledger Ledger, catalog RecordCatalog, sched Scheduler, delay time.Duration, log logger.Logger, m *metrics.Metrics) *Service {
	if sched == nil {
		sched = TimerScheduler{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		ledger:  ledger,
		catalog: catalog,
		sched:   sched,
		delay:   delay,
		log:     log,
		metrics: m,
		now:     time.Now,
	}
}

type SubmitInput struct {
	PatientName       string
	PatientDOB        string
	TargetClinicName  string
	CandidateRecordID string
}

// Submit debita primero y recién ahí crea la solicitud: con balance
// insuficiente no queda ningún rastro. La resolución se agenda y corre fuera
// del camino síncrono.
func (s *Service) Submit(ctx context.Context, accountID string, in SubmitInput) (PatientRequest, error) {
	name := strings.TrimSpace(in.PatientName)
	dob := strings.TrimSpace(in.PatientDOB)
	clinic := strings.TrimSpace(in.TargetClinicName)

	if name == "" || dob == "" || clinic == "" {
		return PatientRequest{}, ErrInvalidInput
	}

	_, err := s.ledger.Debit(ctx, accountID, RequestCost, accounts.TxMeta{
		Type:    accounts.TxRequest,
		Details: fmt.Sprintf("Requested record for %s from %s", name, clinic),
	})
	if err != nil {
		if errors.Is(err, accounts.ErrInsufficientCredits) {
			return PatientRequest{}, ErrInsufficientCredits
		}
		return PatientRequest{}, err
	}

	now := s.now()
	req := PatientRequest{
		ID:                uuid.NewString(),
		AccountID:         accountID,
		TargetClinicName:  clinic,
		PatientName:       name,
		PatientDOB:        dob,
		RequestDate:       now.Format("2006-01-02"),
		CandidateRecordID: strings.TrimSpace(in.CandidateRecordID),
		Status:            StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return PatientRequest{}, err
	}

	s.metrics.ObserveRequestSubmitted()

	requestID := req.ID
	s.sched.AfterFunc(s.delay, func() {
		// Corre fuera del request HTTP: contexto propio.
		if _, err := s.Resolve(context.Background(), requestID); err != nil {
			s.log.Error("request resolution failed", map[string]any{
				"request_id": requestID,
				"err":        err.Error(),
			})
		}
	})

	return req, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (PatientRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return PatientRequest{}, ErrInvalidInput
	}
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PatientRequest{}, ErrNotFound
	}
	return req, nil
}

func (s *Service) ListByAccount(ctx context.Context, accountID string) ([]PatientRequest, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByAccount(ctx, accountID)
}

// Resolve ejecuta la resolución diferida. Idempotente: si la solicitud ya
// salió de pending (entrega at-least-once del scheduler), es un no-op.
//
// Orden de resolución del registro respuesta:
//  1. candidate id, si existe en el catálogo
//  2. match por nombre de paciente
//  3. primer registro del set de red (fallback determinístico)
//
// Solo con el catálogo vacío no hay forma de aprobar: la solicitud se
// rechaza y se reembolsa el crédito del envío.
func (s *Service) Resolve(ctx context.Context, requestID string) (PatientRequest, error) {
	req, err := s.GetByID(ctx, requestID)
	if err != nil {
		return PatientRequest{}, err
	}

	// Idempotente
	if req.Status != StatusPending {
		return req, nil
	}

	responseID := s.resolveResponseID(ctx, req)
	now := s.now()

	if responseID == "" {
		_, err := s.ledger.Credit(ctx, req.AccountID, RequestCost, accounts.TxMeta{
			Type:    accounts.TxRequest,
			Details: fmt.Sprintf("Refund for rejected request %s", req.ID),
		})
		if err != nil {
			return PatientRequest{}, err
		}

		req.Status = StatusRejected
		req.UpdatedAt = now
		if err := s.repo.Update(ctx, req); err != nil {
			return PatientRequest{}, err
		}

		s.metrics.ObserveRequestResolved(string(StatusRejected))
		s.log.Warn("request rejected: empty network catalog", map[string]any{
			"request_id": req.ID,
		})
		return req, nil
	}

	// El pago ya ocurrió al enviar: el unlock se otorga sin cargo.
	if err := s.ledger.GrantUnlock(ctx, req.AccountID, responseID); err != nil {
		return PatientRequest{}, err
	}

	req.Status = StatusApproved
	req.ResponseRecordID = &responseID
	req.UpdatedAt = now

	if err := s.repo.Update(ctx, req); err != nil {
		return PatientRequest{}, err
	}

	s.metrics.ObserveRequestResolved(string(StatusApproved))
	s.log.Info("request approved", map[string]any{
		"request_id": req.ID,
		"record_id":  responseID,
	})
	return req, nil
}

func (s *Service) resolveResponseID(ctx context.Context, req PatientRequest) string {
	if req.CandidateRecordID != "" {
		if ok, _ := s.catalog.Exists(ctx, req.CandidateRecordID); ok {
			return req.CandidateRecordID
		}
	}

	if id, err := s.catalog.FindIDByPatientName(ctx, req.PatientName); err == nil && id != "" {
		return id
	}

	if id, err := s.catalog.FirstID(ctx); err == nil && id != "" {
		return id
	}

	return ""
}
