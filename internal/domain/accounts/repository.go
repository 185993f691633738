package accounts

import "context"

// Repository persiste cuentas y su historial de transacciones.
// Save escribe la cuenta y agrega las transacciones nuevas como una sola
// unidad (sección crítica in-memory, sql.Tx en postgres): el balance y el
// log nunca divergen.
type Repository interface {
	Create(ctx context.Context, a Account) error
	GetByID(ctx context.Context, id string) (Account, error)
	Save(ctx context.Context, a Account, appended ...Transaction) error

	// ListTransactions devuelve el historial most-recent-first.
	ListTransactions(ctx context.Context, accountID string) ([]Transaction, error)
}
