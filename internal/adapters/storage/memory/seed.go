package memory

import (
	"context"
	"time"

	"clinic-data-exchange/internal/domain/records"
)

// SeedNetworkRecords publica el catálogo mock de la red (modo dev).
// El orden importa: el primer registro es el fallback determinístico de la
// resolución de solicitudes.
func SeedNetworkRecords(ctx context.Context, repo records.Repository) error {
	sharedAt := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)

	seed := []records.SharedRecord{
		{
			ID:                  "rec-001",
			SharedByClinic:      "Harbour Physio Group",
			SharedAt:            sharedAt,
			PatientName:         "Jane Doe",
			DateOfBirth:         "1980-01-01",
			Diagnosis:           "Rotator cuff tendinopathy",
			DiagnosisCategory:   "Shoulder",
			ICD10:               "M75.10",
			Status:              records.StatusCompleted,
			PrivacyLevel:        records.PrivacyFull,
			DisclosureTiming:    records.DisclosureImmediate,
			Tier:                records.TierGold,
			DistanceKm:          3.2,
			SubjectiveComplaint: "Gradual onset right shoulder pain, worse overhead",
			ObjectiveFindings:   "Painful arc 70-120, weak ER at 0 abd",
			PROMScores:          "SPADI 54 -> 12",
			TreatmentPlan:       "Progressive cuff loading, 8 weeks",
			Outcome:             "Returned to overhead sport",
			Sessions:            9,
			DurationWeeks:       8,
		},
		{
			ID:                  "rec-002",
			SharedByClinic:      "Eastside Sports Clinic",
			SharedAt:            sharedAt.Add(26 * time.Hour),
			PatientName:         "John Smith",
			DateOfBirth:         "1975-06-14",
			Diagnosis:           "Chronic low back pain",
			DiagnosisCategory:   "Lumbar",
			ICD10:               "M54.5",
			Status:              records.StatusOngoing,
			PrivacyLevel:        records.PrivacySummary,
			DisclosureTiming:    records.DisclosureDelayed30,
			Tier:                records.TierSilver,
			DistanceKm:          11.8,
			SubjectiveComplaint: "Recurrent LBP, flares with prolonged sitting",
			ObjectiveFindings:   "Reduced lumbar flexion, negative neuro screen",
			PROMScores:          "ODI 38 -> 22",
			TreatmentPlan:       "Graded activity + education",
			Outcome:             "Improving, ongoing",
			Sessions:            6,
			DurationWeeks:       10,
		},
		{
			ID:                  "rec-003",
			SharedByClinic:      "Northgate Rehab",
			SharedAt:            sharedAt.Add(49 * time.Hour),
			PatientName:         "Maria Garcia",
			DateOfBirth:         "1992-03-22",
			Diagnosis:           "Achilles tendinopathy",
			DiagnosisCategory:   "Ankle",
			ICD10:               "M76.60",
			Status:              records.StatusDischarged,
			PrivacyLevel:        records.PrivacyCustom,
			DisclosureTiming:    records.DisclosureImmediate,
			Tier:                records.TierBronze,
			DistanceKm:          7.5,
			SubjectiveComplaint: "Morning stiffness and pain with running",
			ObjectiveFindings:   "Mid-portion tenderness, reduced heel raise capacity",
			PROMScores:          "VISA-A 41 -> 86",
			TreatmentPlan:       "Heavy slow resistance protocol",
			Outcome:             "Return to 10k running",
			Sessions:            12,
			DurationWeeks:       14,
		},
	}

	for _, rec := range seed {
		if err := repo.Create(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
