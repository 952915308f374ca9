// Package export dumps the synced tables to CSV files, optionally uploading
// them to a GCS bucket for consumption outside the dashboard.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/finwatch/uptrack/internal/store"
)

// WriteAccountsCSV writes every account row to dir/accounts.csv and returns
// the file path.
func WriteAccountsCSV(ctx context.Context, repo *store.AccountRepo, dir string) (string, error) {
	rows, err := repo.ListAll(ctx)
	if err != nil {
		return "", fmt.Errorf("list accounts: %w", err)
	}

	records := [][]string{{"id", "display_name", "account_type", "ownership_type", "balance", "created_at", "deleted"}}
	for _, a := range rows {
		records = append(records, []string{
			a.ID, a.DisplayName, a.AccountType, a.OwnershipType,
			strconv.FormatInt(a.Balance, 10),
			a.CreatedAt.Format(time.RFC3339),
			strconv.FormatBool(a.Deleted),
		})
	}
	return writeCSV(dir, "accounts.csv", records)
}

// WriteTransactionsCSV writes every transaction row to dir/transactions.csv
// and returns the file path. Absent optional components render as empty
// cells, distinguishable from explicit zeros.
func WriteTransactionsCSV(ctx context.Context, repo *store.TransactionRepo, dir string) (string, error) {
	rows, err := repo.ListAll(ctx)
	if err != nil {
		return "", fmt.Errorf("list transactions: %w", err)
	}

	records := [][]string{{
		"id", "status", "raw_text", "description", "message", "is_categorizable",
		"held", "held_amount", "round_up_amount", "boost_proportion", "cashback_desc",
		"cashback_amount", "amount", "foreign_currency", "foreign_amount",
		"card_purchase_method", "card_number_suffix", "settled_at", "created_at",
		"account_id", "transfer_account_id", "category", "parent_category",
	}}
	for _, t := range rows {
		records = append(records, []string{
			t.ID, t.Status, strValue(t.RawText), t.Description, strValue(t.Message),
			strconv.FormatBool(t.IsCategorizable),
			strconv.FormatBool(t.Held), intValue(t.HeldAmount), intValue(t.RoundUpAmount),
			intValue(t.BoostProportion), strValue(t.CashbackDesc), intValue(t.CashbackAmount),
			strconv.FormatInt(t.Amount, 10), strValue(t.ForeignCurrency), intValue(t.ForeignAmount),
			strValue(t.CardPurchaseMethod), strValue(t.CardNumberSuffix),
			timeValue(t.SettledAt), t.CreatedAt.Format(time.RFC3339),
			t.AccountID, strValue(t.TransferAccountID), strValue(t.Category), strValue(t.ParentCategory),
		})
	}
	return writeCSV(dir, "transactions.csv", records)
}

func writeCSV(dir, name string, records [][]string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intValue(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func timeValue(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
