package postgres

import (
	"context"
	"database/sql"
	"strings"

	"clinic-data-exchange/internal/domain/requests"
)

type RequestsRepo struct {
	db *sql.DB
}

func NewRequestsRepo(db *sql.DB) *RequestsRepo {
	return &RequestsRepo{db: db}
}

func (r *RequestsRepo) Create(ctx context.Context, req requests.PatientRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patient_requests (
			id, account_id, target_clinic_name,
			patient_name, patient_dob, request_date,
			candidate_record_id, status, response_record_id,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		req.ID,
		req.AccountID,
		req.TargetClinicName,
		req.PatientName,
		req.PatientDOB,
		req.RequestDate,
		req.CandidateRecordID,
		string(req.Status),
		toNullString(req.ResponseRecordID),
		req.CreatedAt,
		req.UpdatedAt,
	)
	return err
}

func (r *RequestsRepo) Update(ctx context.Context, req requests.PatientRequest) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE patient_requests
		SET
			status = $2,
			response_record_id = $3,
			updated_at = $4
		WHERE id = $1
	`,
		req.ID,
		string(req.Status),
		toNullString(req.ResponseRecordID),
		req.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RequestsRepo) GetByID(ctx context.Context, id string) (requests.PatientRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return requests.PatientRequest{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, account_id, target_clinic_name,
			patient_name, patient_dob, request_date,
			candidate_record_id, status, response_record_id,
			created_at, updated_at
		FROM patient_requests
		WHERE id = $1
	`, id)

	return scanRequest(row)
}

func (r *RequestsRepo) ListByAccount(ctx context.Context, accountID string) ([]requests.PatientRequest, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, account_id, target_clinic_name,
			patient_name, patient_dob, request_date,
			candidate_record_id, status, response_record_id,
			created_at, updated_at
		FROM patient_requests
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]requests.PatientRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func scanRequest(row rowScanner) (requests.PatientRequest, error) {
	var req requests.PatientRequest
	var status string
	var responseID sql.NullString

	if err := row.Scan(
		&req.ID,
		&req.AccountID,
		&req.TargetClinicName,
		&req.PatientName,
		&req.PatientDOB,
		&req.RequestDate,
		&req.CandidateRecordID,
		&status,
		&responseID,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return requests.PatientRequest{}, ErrNotFound
		}
		return requests.PatientRequest{}, err
	}

	req.Status = requests.Status(status)
	if responseID.Valid {
		v := responseID.String
		req.ResponseRecordID = &v
	}
	return req, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
