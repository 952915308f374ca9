package store

import (
	"context"
	"database/sql"
	"fmt"
)

// AccountRepo handles the accounts table.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{db: db} }

// Insert adds a newly observed account with deleted=0.
func (r *AccountRepo) Insert(ctx context.Context, a AccountRow) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO accounts(id, display_name, account_type, ownership_type, balance, created_at, deleted)
	VALUES(?, ?, ?, ?, ?, ?, 0);
	`, a.ID, a.DisplayName, a.AccountType, a.OwnershipType, a.Balance, formatTime(a.CreatedAt))
	return err
}

// UpdateRemoteVisible refreshes the fields that track the remote listing
// while an account is still visible there. Identifier, account type,
// ownership type and created timestamp are immutable after insert.
func (r *AccountRepo) UpdateRemoteVisible(ctx context.Context, id, displayName string, balance int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET display_name = ?, balance = ? WHERE id = ?`,
		displayName, balance, id)
	return err
}

// MarkDeleted soft-deletes an account that disappeared from the remote
// listing. The balance is zeroed; display fields keep their last-known
// values.
func (r *AccountRepo) MarkDeleted(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET deleted = 1, balance = 0 WHERE id = ?`, id)
	return err
}

// Reactivate clears the deleted flag for an account that reappeared remotely
// and restores its current name and balance.
func (r *AccountRepo) Reactivate(ctx context.Context, id, displayName string, balance int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET deleted = 0, display_name = ?, balance = ? WHERE id = ?`,
		displayName, balance, id)
	return err
}

// ListAll returns every stored account, soft-deleted ones included.
func (r *AccountRepo) ListAll(ctx context.Context) ([]AccountRow, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, display_name, account_type, ownership_type, balance, created_at, deleted
	FROM accounts ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AccountRow
	for rows.Next() {
		var a AccountRow
		var created string
		var deleted int
		if err := rows.Scan(&a.ID, &a.DisplayName, &a.AccountType, &a.OwnershipType, &a.Balance, &created, &deleted); err != nil {
			return nil, err
		}
		a.CreatedAt, err = parseTime(created)
		if err != nil {
			return nil, fmt.Errorf("account %s: bad created_at: %w", a.ID, err)
		}
		a.Deleted = deleted != 0
		out = append(out, a)
	}
	return out, rows.Err()
}

// Get returns one account by id.
func (r *AccountRepo) Get(ctx context.Context, id string) (*AccountRow, error) {
	var a AccountRow
	var created string
	var deleted int
	err := r.db.QueryRowContext(ctx, `
	SELECT id, display_name, account_type, ownership_type, balance, created_at, deleted
	FROM accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.DisplayName, &a.AccountType, &a.OwnershipType, &a.Balance, &created, &deleted)
	if err != nil {
		return nil, err
	}
	a.CreatedAt, err = parseTime(created)
	if err != nil {
		return nil, fmt.Errorf("account %s: bad created_at: %w", a.ID, err)
	}
	a.Deleted = deleted != 0
	return &a, nil
}

// Count returns the number of account rows, deleted ones included.
func (r *AccountRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n)
	return n, err
}
