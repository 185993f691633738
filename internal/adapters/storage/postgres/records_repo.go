package postgres

import (
	"context"
	"database/sql"
	"strings"

	"clinic-data-exchange/internal/domain/records"
)

type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

const recordColumns = `
	id, shared_by_clinic, shared_at,
	patient_name, date_of_birth,
	diagnosis, diagnosis_category, icd10, status,
	privacy_level, disclosure_timing, tier, distance_km,
	subjective_complaint, objective_findings, prom_scores,
	treatment_plan, outcome, sessions, duration_weeks
`

func (r *RecordsRepo) Create(ctx context.Context, rec records.SharedRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shared_records (`+recordColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`,
		rec.ID,
		rec.SharedByClinic,
		rec.SharedAt,
		rec.PatientName,
		rec.DateOfBirth,
		rec.Diagnosis,
		rec.DiagnosisCategory,
		rec.ICD10,
		string(rec.Status),
		string(rec.PrivacyLevel),
		string(rec.DisclosureTiming),
		string(rec.Tier),
		rec.DistanceKm,
		rec.SubjectiveComplaint,
		rec.ObjectiveFindings,
		rec.PROMScores,
		rec.TreatmentPlan,
		rec.Outcome,
		rec.Sessions,
		rec.DurationWeeks,
	)
	return err
}

func (r *RecordsRepo) GetByID(ctx context.Context, id string) (records.SharedRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return records.SharedRecord{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM shared_records
		WHERE id = $1
	`, id)
	return scanRecord(row)
}

func (r *RecordsRepo) List(ctx context.Context) ([]records.SharedRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM shared_records
		ORDER BY shared_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]records.SharedRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *RecordsRepo) FindByPatientName(ctx context.Context, patientName string) (records.SharedRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM shared_records
		WHERE patient_name = $1
		ORDER BY shared_at ASC, id ASC
		LIMIT 1
	`, patientName)
	return scanRecord(row)
}

// First define "primer registro de la red" igual que List: el publicado más
// antiguo. Es el fallback determinístico de la resolución.
func (r *RecordsRepo) First(ctx context.Context) (records.SharedRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM shared_records
		ORDER BY shared_at ASC, id ASC
		LIMIT 1
	`)
	return scanRecord(row)
}

func scanRecord(row rowScanner) (records.SharedRecord, error) {
	var rec records.SharedRecord
	var status, privacy, timing, tier string

	if err := row.Scan(
		&rec.ID,
		&rec.SharedByClinic,
		&rec.SharedAt,
		&rec.PatientName,
		&rec.DateOfBirth,
		&rec.Diagnosis,
		&rec.DiagnosisCategory,
		&rec.ICD10,
		&status,
		&privacy,
		&timing,
		&tier,
		&rec.DistanceKm,
		&rec.SubjectiveComplaint,
		&rec.ObjectiveFindings,
		&rec.PROMScores,
		&rec.TreatmentPlan,
		&rec.Outcome,
		&rec.Sessions,
		&rec.DurationWeeks,
	); err != nil {
		if err == sql.ErrNoRows {
			return records.SharedRecord{}, ErrNotFound
		}
		return records.SharedRecord{}, err
	}

	rec.Status = records.RecordStatus(status)
	rec.PrivacyLevel = records.PrivacyLevel(privacy)
	rec.DisclosureTiming = records.DisclosureTiming(timing)
	rec.Tier = records.ClinicTier(tier)
	return rec, nil
}
