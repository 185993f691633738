package requests

import "context"

type Repository interface {
	Create(ctx context.Context, req PatientRequest) error
	Update(ctx context.Context, req PatientRequest) error
	GetByID(ctx context.Context, id string) (PatientRequest, error)

	// ListByAccount devuelve las solicitudes most-recent-first.
	ListByAccount(ctx context.Context, accountID string) ([]PatientRequest, error)
}
