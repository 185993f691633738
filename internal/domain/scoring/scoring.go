package scoring

// Attributes describe qué secciones clínicas se comparten en una contribución.
// Campo ausente en el JSON => false (zero value), así evitamos typos de keys.
type Attributes struct {
	Diagnosis               bool `json:"diagnosis"`
	SubjectiveHistory       bool `json:"subjective"`
	ObjectiveHistory        bool `json:"objective"`
	PatientReportedOutcomes bool `json:"proms"`
	Treatment               bool `json:"treatment"`
	TotalSessions           bool `json:"sessions"`
	PatientCaseType         bool `json:"patientStatus"`
}

// Pesos fijos por atributo. Suman exactamente 100.
const (
	weightDiagnosis         = 10
	weightSubjectiveHistory = 15
	weightObjectiveHistory  = 20
	weightPROMs             = 15
	weightTreatment         = 20
	weightTotalSessions     = 5
	weightPatientCaseType   = 15
)

// Tier etiqueta el nivel de completitud de una contribución.
type Tier string

const (
	TierComplete Tier = "complete"
	TierGood     Tier = "good"
	TierPartial  Tier = "partial"
	TierMinimal  Tier = "minimal"
)

// CalculateQualityScore devuelve el score de calidad [0,100] de una
// contribución según los atributos divulgados.
func CalculateQualityScore(attrs Attributes) int {
	score := 0

	if attrs.Diagnosis {
		score += weightDiagnosis
	}
	if attrs.SubjectiveHistory {
		score += weightSubjectiveHistory
	}
	if attrs.ObjectiveHistory {
		score += weightObjectiveHistory
	}
	if attrs.PatientReportedOutcomes {
		score += weightPROMs
	}
	if attrs.Treatment {
		score += weightTreatment
	}
	if attrs.TotalSessions {
		score += weightTotalSessions
	}
	if attrs.PatientCaseType {
		score += weightPatientCaseType
	}

	// Los pesos suman exactamente 100; el score nunca supera ese techo.
	if score > 100 {
		score = 100
	}
	return score
}

// Multiplier mapea score -> créditos emitidos por contribución.
// Límites inferiores inclusivos.
func Multiplier(score int) float64 {
	switch {
	case score >= 90:
		return 1.0
	case score >= 60:
		return 0.7
	case score >= 30:
		return 0.4
	default:
		return 0.3
	}
}

// TierFor devuelve la etiqueta del tramo al que cae el score.
func TierFor(score int) Tier {
	switch {
	case score >= 90:
		return TierComplete
	case score >= 60:
		return TierGood
	case score >= 30:
		return TierPartial
	default:
		return TierMinimal
	}
}
