package accounts

import "time"

// Account es el estado de una clínica en el marketplace.
// Los contadores son monotónicos; MonthlyShares no se resetea por calendario.
type Account struct {
	ID         string
	ClinicName string

	// Credits siempre se redondea a 2 decimales en cada mutación para no
	// acumular drift de punto flotante. Nunca negativo.
	Credits float64

	IsParticipating bool

	TotalContributions int
	TotalRetrievals    int
	MonthlyShares      int

	// Ids de registros de red que esta cuenta pagó por ver. La membresía es
	// permanente una vez otorgada.
	UnlockedRecordIDs []string

	Badges []Badge

	Preferences SharingPreferences

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasUnlockedRecord chequea membresía en el set de desbloqueados.
func (a Account) HasUnlockedRecord(recordID string) bool {
	for _, id := range a.UnlockedRecordIDs {
		if id == recordID {
			return true
		}
	}
	return false
}
