package records

import "time"

// PrivacyLevel define cuánto del registro se expone a la red.
type PrivacyLevel string

const (
	PrivacyFull    PrivacyLevel = "full"
	PrivacySummary PrivacyLevel = "summary"
	PrivacyCustom  PrivacyLevel = "custom"
)

// DisclosureTiming define cuándo queda visible el detalle clínico.
type DisclosureTiming string

const (
	DisclosureImmediate DisclosureTiming = "immediate"
	DisclosureDelayed30 DisclosureTiming = "delayed_30_days"
)

// RecordStatus refleja el estado del tratamiento del caso.
type RecordStatus string

const (
	StatusCompleted  RecordStatus = "completed"
	StatusOngoing    RecordStatus = "ongoing"
	StatusDischarged RecordStatus = "discharged"
)

// ClinicTier es el nivel de la clínica que publica (viene del registro de red).
type ClinicTier string

const (
	TierBronze ClinicTier = "bronze"
	TierSilver ClinicTier = "silver"
	TierGold   ClinicTier = "gold"
)

// SharedRecord es un registro clínico des-identificado publicado a la red.
// Inmutable una vez publicado (el rating es un stub, ver handler).
type SharedRecord struct {
	ID string

	SharedByClinic string
	SharedAt       time.Time

	PatientName string // anonimizado según preferencias de la clínica origen
	DateOfBirth string // YYYY-MM-DD

	Diagnosis         string
	DiagnosisCategory string
	ICD10             string
	Status            RecordStatus

	PrivacyLevel     PrivacyLevel
	DisclosureTiming DisclosureTiming

	Tier       ClinicTier
	DistanceKm float64

	// Secciones clínicas (visibles solo con el registro desbloqueado).
	SubjectiveComplaint string
	ObjectiveFindings   string
	PROMScores          string
	TreatmentPlan       string
	Outcome             string

	Sessions      int
	DurationWeeks int
}
