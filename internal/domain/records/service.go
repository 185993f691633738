package records

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id string) (SharedRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return SharedRecord{}, ErrInvalidInput
	}
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return SharedRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context) ([]SharedRecord, error) {
	return s.repo.List(ctx)
}

// Exists permite a otros módulos chequear referencias sin importar este
// paquete completo (ver requests.RecordCatalog).
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, nil
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return false, nil
	}
	return true, nil
}

// FindIDByPatientName devuelve el id del registro que matchea por nombre.
func (s *Service) FindIDByPatientName(ctx context.Context, patientName string) (string, error) {
	patientName = strings.TrimSpace(patientName)
	if patientName == "" {
		return "", ErrNotFound
	}
	rec, err := s.repo.FindByPatientName(ctx, patientName)
	if err != nil {
		return "", ErrNotFound
	}
	return rec.ID, nil
}

// FirstID devuelve el primer registro del set de red (fallback determinístico).
func (s *Service) FirstID(ctx context.Context) (string, error) {
	rec, err := s.repo.First(ctx)
	if err != nil {
		return "", ErrNotFound
	}
	return rec.ID, nil
}

// Rate valida y descarta: el rating todavía no se persiste.
func (s *Service) Rate(ctx context.Context, id string, rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidInput
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return nil
}
