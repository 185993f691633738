package records

import "context"

// Repository es el catálogo de registros publicados a la red.
// El motor lo trata como dependencia de solo lectura; Create existe para
// seeds y para el adapter postgres.
type Repository interface {
	Create(ctx context.Context, rec SharedRecord) error
	GetByID(ctx context.Context, id string) (SharedRecord, error)
	List(ctx context.Context) ([]SharedRecord, error)
	FindByPatientName(ctx context.Context, patientName string) (SharedRecord, error)
	First(ctx context.Context) (SharedRecord, error)
}
