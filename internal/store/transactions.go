package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// TransactionRepo handles the transactions table.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

const transactionColumns = `id, status, raw_text, description, message, is_categorizable,
	held, held_amount, round_up_amount, boost_proportion, cashback_desc, cashback_amount,
	amount, foreign_currency, foreign_amount, card_purchase_method, card_number_suffix,
	settled_at, created_at, account_id, transfer_account_id, category, parent_category`

// BulkInsert writes a batch of previously unseen transactions in one database
// transaction. The bulk-new channel guarantees the ids are fresh, so this is
// a plain insert with no existence check.
func (r *TransactionRepo) BulkInsert(ctx context.Context, rows []TransactionRow) error {
	if len(rows) == 0 {
		return nil
	}
	return WithTx(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions(`+transactionColumns+`)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, t := range rows {
			_, err := stmt.ExecContext(ctx,
				t.ID, t.Status, t.RawText, t.Description, t.Message, t.IsCategorizable,
				t.Held, t.HeldAmount, t.RoundUpAmount, t.BoostProportion, t.CashbackDesc, t.CashbackAmount,
				t.Amount, t.ForeignCurrency, t.ForeignAmount, t.CardPurchaseMethod, t.CardNumberSuffix,
				formatTimePtr(t.SettledAt), formatTime(t.CreatedAt), t.AccountID, t.TransferAccountID,
				t.Category, t.ParentCategory)
			if err != nil {
				return fmt.Errorf("insert transaction %s: %w", t.ID, err)
			}
		}
		return nil
	})
}

// UpdateMutable applies the mutable-field subset for one transaction. Every
// other column is left untouched.
func (r *TransactionRepo) UpdateMutable(ctx context.Context, m TransactionMutation) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE transactions
	SET status = ?, settled_at = ?, category = ?, parent_category = ?, cashback_desc = ?, cashback_amount = ?
	WHERE id = ?`,
		m.Status, formatTimePtr(m.SettledAt), m.Category, m.ParentCategory,
		m.CashbackDesc, m.CashbackAmount, m.ID)
	return err
}

// MaxCreatedAt returns the latest created_at across all transactions with its
// original UTC offset intact, or nil when the table is empty. Ordering uses
// datetime() so rows carrying different offsets compare on the timeline, not
// as strings.
func (r *TransactionRepo) MaxCreatedAt(ctx context.Context) (*time.Time, error) {
	var created string
	err := r.db.QueryRowContext(ctx, `
	SELECT created_at FROM transactions ORDER BY datetime(created_at) DESC LIMIT 1`).
		Scan(&created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t, err := parseTime(created)
	if err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", created, err)
	}
	return &t, nil
}

// ListUnresolvedBefore returns the ids of transactions that are not yet in a
// terminal state (unsettled, or still uncategorized) and were created
// strictly before cursor. These are exactly the rows the bulk-new channel can
// no longer reach.
func (r *TransactionRepo) ListUnresolvedBefore(ctx context.Context, cursor time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id FROM transactions
	WHERE (status != 'SETTLED' OR category IS NULL)
	  AND datetime(created_at) < datetime(?)
	ORDER BY datetime(created_at)`, formatTime(cursor))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Get returns one transaction by id.
func (r *TransactionRepo) Get(ctx context.Context, id string) (*TransactionRow, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TransactionFilters narrows List results. Zero values mean "no filter".
type TransactionFilters struct {
	Since     time.Time
	Until     time.Time
	Status    string
	Category  string
	AccountID string
}

// List returns transactions matching the filters, newest first.
func (r *TransactionRepo) List(ctx context.Context, f TransactionFilters) ([]TransactionRow, error) {
	var where []string
	var args []any

	if !f.Since.IsZero() {
		where = append(where, "datetime(created_at) >= datetime(?)")
		args = append(args, formatTime(f.Since))
	}
	if !f.Until.IsZero() {
		where = append(where, "datetime(created_at) < datetime(?)")
		args = append(args, formatTime(f.Until))
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Category != "" {
		where = append(where, "(category = ? OR parent_category = ?)")
		args = append(args, f.Category, f.Category)
	}
	if f.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, f.AccountID)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY datetime(created_at) DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRow
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListAll returns every transaction, oldest first. Used by the CSV export.
func (r *TransactionRepo) ListAll(ctx context.Context) ([]TransactionRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY datetime(created_at)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRow
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTransaction(row scannable) (TransactionRow, error) {
	var t TransactionRow
	var settled sql.NullString
	var created string
	err := row.Scan(
		&t.ID, &t.Status, &t.RawText, &t.Description, &t.Message, &t.IsCategorizable,
		&t.Held, &t.HeldAmount, &t.RoundUpAmount, &t.BoostProportion, &t.CashbackDesc, &t.CashbackAmount,
		&t.Amount, &t.ForeignCurrency, &t.ForeignAmount, &t.CardPurchaseMethod, &t.CardNumberSuffix,
		&settled, &created, &t.AccountID, &t.TransferAccountID, &t.Category, &t.ParentCategory)
	if err != nil {
		return t, err
	}
	if settled.Valid {
		st, err := parseTime(settled.String)
		if err != nil {
			return t, fmt.Errorf("transaction %s: bad settled_at: %w", t.ID, err)
		}
		t.SettledAt = &st
	}
	t.CreatedAt, err = parseTime(created)
	if err != nil {
		return t, fmt.Errorf("transaction %s: bad created_at: %w", t.ID, err)
	}
	return t, nil
}
