package requests

import "time"

// Status del ciclo de vida de una solicitud: Pending -> Approved | Rejected.
// La transición ocurre a lo sumo una vez.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// PatientRequest es una solicitud punto a punto de datos de un paciente a
// otra clínica. Se crea al enviar (ya debitada) y la muta una sola vez el
// paso de resolución.
type PatientRequest struct {
	ID        string
	AccountID string

	TargetClinicName string
	PatientName      string
	PatientDOB       string // YYYY-MM-DD
	RequestDate      string // YYYY-MM-DD, derivado del clock al enviar

	// CandidateRecordID es la pista opcional del caller; la resolución la
	// valida contra el catálogo antes de usarla.
	CandidateRecordID string

	Status Status

	// ResponseRecordID solo se setea cuando Status == approved.
	ResponseRecordID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
