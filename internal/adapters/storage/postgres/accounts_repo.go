package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"clinic-data-exchange/internal/domain/accounts"
)

type AccountsRepo struct {
	db *sql.DB
}

func NewAccountsRepo(db *sql.DB) *AccountsRepo {
	return &AccountsRepo{db: db}
}

func (r *AccountsRepo) Create(ctx context.Context, a accounts.Account) error {
	unlocked, badges, prefs, err := encodeAccountJSON(a)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO accounts (
			id, clinic_name, credits, is_participating,
			total_contributions, total_retrievals, monthly_shares,
			unlocked_record_ids, badges, preferences,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		a.ID,
		a.ClinicName,
		a.Credits,
		a.IsParticipating,
		a.TotalContributions,
		a.TotalRetrievals,
		a.MonthlyShares,
		unlocked,
		badges,
		prefs,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *AccountsRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return accounts.Account{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, clinic_name, credits, is_participating,
			total_contributions, total_retrievals, monthly_shares,
			unlocked_record_ids, badges, preferences,
			created_at, updated_at
		FROM accounts
		WHERE id = $1
	`, id)

	return scanAccount(row)
}

// Save actualiza la cuenta y agrega transacciones nuevas en una sola sql.Tx:
// el balance y el log nunca divergen.
func (r *AccountsRepo) Save(ctx context.Context, a accounts.Account, appended ...accounts.Transaction) error {
	unlocked, badges, prefs, err := encodeAccountJSON(a)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET
			clinic_name = $2,
			credits = $3,
			is_participating = $4,
			total_contributions = $5,
			total_retrievals = $6,
			monthly_shares = $7,
			unlocked_record_ids = $8,
			badges = $9,
			preferences = $10,
			updated_at = $11
		WHERE id = $1
	`,
		a.ID,
		a.ClinicName,
		a.Credits,
		a.IsParticipating,
		a.TotalContributions,
		a.TotalRetrievals,
		a.MonthlyShares,
		unlocked,
		badges,
		prefs,
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}

	for _, t := range appended {
		var score sql.NullInt32
		if t.QualityScore != nil {
			score = sql.NullInt32{Int32: int32(*t.QualityScore), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (
				id, account_id, type, ts, credits_change, quality_score, details
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
			t.ID,
			t.AccountID,
			string(t.Type),
			t.Timestamp,
			t.CreditsChange,
			score,
			t.Details,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *AccountsRepo) ListTransactions(ctx context.Context, accountID string) ([]accounts.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, type, ts, credits_change, quality_score, details
		FROM transactions
		WHERE account_id = $1
		ORDER BY ts DESC, id DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]accounts.Transaction, 0)
	for rows.Next() {
		var t accounts.Transaction
		var txType string
		var score sql.NullInt32

		if err := rows.Scan(
			&t.ID,
			&t.AccountID,
			&txType,
			&t.Timestamp,
			&t.CreditsChange,
			&score,
			&t.Details,
		); err != nil {
			return nil, err
		}

		t.Type = accounts.TransactionType(txType)
		if score.Valid {
			v := int(score.Int32)
			t.QualityScore = &v
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (accounts.Account, error) {
	var a accounts.Account
	var unlocked, badges, prefs []byte

	if err := row.Scan(
		&a.ID,
		&a.ClinicName,
		&a.Credits,
		&a.IsParticipating,
		&a.TotalContributions,
		&a.TotalRetrievals,
		&a.MonthlyShares,
		&unlocked,
		&badges,
		&prefs,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return accounts.Account{}, ErrNotFound
		}
		return accounts.Account{}, err
	}

	if err := json.Unmarshal(unlocked, &a.UnlockedRecordIDs); err != nil {
		return accounts.Account{}, fmt.Errorf("decode unlocked_record_ids: %w", err)
	}
	if err := json.Unmarshal(badges, &a.Badges); err != nil {
		return accounts.Account{}, fmt.Errorf("decode badges: %w", err)
	}
	if err := json.Unmarshal(prefs, &a.Preferences); err != nil {
		return accounts.Account{}, fmt.Errorf("decode preferences: %w", err)
	}
	return a, nil
}

// Los sets/preferencias van como jsonb: simple y sin mapear arrays nativos.
func encodeAccountJSON(a accounts.Account) (unlocked, badges, prefs []byte, err error) {
	if a.UnlockedRecordIDs == nil {
		a.UnlockedRecordIDs = []string{}
	}
	if a.Badges == nil {
		a.Badges = []accounts.Badge{}
	}

	if unlocked, err = json.Marshal(a.UnlockedRecordIDs); err != nil {
		return nil, nil, nil, err
	}
	if badges, err = json.Marshal(a.Badges); err != nil {
		return nil, nil, nil, err
	}
	if prefs, err = json.Marshal(a.Preferences); err != nil {
		return nil, nil, nil, err
	}
	return unlocked, badges, prefs, nil
}
