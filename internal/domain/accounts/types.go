package accounts

import (
	"time"

	"clinic-data-exchange/internal/domain/scoring"
)

// TransactionType clasifica los movimientos del ledger.
type TransactionType string

const (
	TxContribution TransactionType = "contribution"
	TxRetrieval    TransactionType = "retrieval"
	TxRequest      TransactionType = "request"
)

// Transaction es una entrada inmutable del historial: se crea una vez y nunca
// se edita ni borra. El historial se lista most-recent-first.
type Transaction struct {
	ID        string
	AccountID string

	Type      TransactionType
	Timestamp time.Time

	// CreditsChange con signo: positivo acredita, negativo debita.
	CreditsChange float64

	// QualityScore presente si y solo si Type == contribution.
	QualityScore *int

	Details string
}

// TxMeta acompaña cada operación de ledger.
type TxMeta struct {
	Type         TransactionType
	QualityScore *int
	Details      string
}

// SharingPreferences controla qué atributos comparte la clínica por defecto.
type SharingPreferences struct {
	Attributes    scoring.Attributes `json:"attributes"`
	AnonymizeName bool               `json:"anonymize_name"`
}

// PreferencesPatch es un update parcial: nil => campo sin tocar.
type PreferencesPatch struct {
	Attributes    *scoring.Attributes `json:"attributes"`
	AnonymizeName *bool               `json:"anonymize_name"`
}

func defaultPreferences() SharingPreferences {
	return SharingPreferences{
		Attributes: scoring.Attributes{
			Diagnosis:               true,
			SubjectiveHistory:       true,
			ObjectiveHistory:        true,
			PatientReportedOutcomes: true,
			Treatment:               true,
			TotalSessions:           true,
			PatientCaseType:         true,
		},
		AnonymizeName: true,
	}
}
