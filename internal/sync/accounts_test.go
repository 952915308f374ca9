package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finwatch/uptrack/internal/store"
	"github.com/finwatch/uptrack/internal/upbank"
)

func accountRow(id, name string, balance int64, deleted bool) store.AccountRow {
	return store.AccountRow{
		ID:            id,
		DisplayName:   name,
		AccountType:   "TRANSACTIONAL",
		OwnershipType: "INDIVIDUAL",
		Balance:       balance,
		CreatedAt:     time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		Deleted:       deleted,
	}
}

func TestSyncAccountsInsertAndUpdate(t *testing.T) {
	bank := &mockBank{accounts: []upbank.AccountResource{
		accountResource("acc-1", "Spending", 5000, "2022-01-01T00:00:00Z"),
		accountResource("acc-2", "Savings", 90000, "2022-02-01T00:00:00Z"),
	}}
	accounts := newMockAccountStore(accountRow("acc-1", "Old Name", 100, false))
	eng := New(bank, accounts, newMockTransactionStore())

	stats, err := eng.syncAccounts(context.Background())
	if err != nil {
		t.Fatalf("syncAccounts: %v", err)
	}
	if stats.Inserted != 1 || stats.Updated != 1 || stats.Deleted != 0 || stats.Reactivated != 0 {
		t.Errorf("stats = %+v", stats)
	}
	got := accounts.rows["acc-1"]
	if got.DisplayName != "Spending" || got.Balance != 5000 {
		t.Errorf("acc-1 not refreshed: %+v", got)
	}
	if _, ok := accounts.rows["acc-2"]; !ok {
		t.Error("acc-2 not inserted")
	}
}

func TestSyncAccountsSoftDeletesMissing(t *testing.T) {
	bank := &mockBank{accounts: []upbank.AccountResource{
		accountResource("acc-1", "Spending", 5000, "2022-01-01T00:00:00Z"),
	}}
	accounts := newMockAccountStore(
		accountRow("acc-1", "Spending", 5000, false),
		accountRow("acc-2", "Closed Saver", 1234, false),
	)
	eng := New(bank, accounts, newMockTransactionStore())

	stats, err := eng.syncAccounts(context.Background())
	if err != nil {
		t.Fatalf("syncAccounts: %v", err)
	}
	if stats.Deleted != 1 {
		t.Errorf("Deleted = %d, want 1", stats.Deleted)
	}
	got := accounts.rows["acc-2"]
	if !got.Deleted {
		t.Error("acc-2 should be soft-deleted")
	}
	if got.Balance != 0 {
		t.Errorf("soft-deleted balance = %d, want 0", got.Balance)
	}
	if got.DisplayName != "Closed Saver" {
		t.Error("soft delete must keep the historical display name")
	}
}

func TestSyncAccountsReactivates(t *testing.T) {
	bank := &mockBank{accounts: []upbank.AccountResource{
		accountResource("acc-2", "Saver Again", 777, "2022-02-01T00:00:00Z"),
	}}
	accounts := newMockAccountStore(accountRow("acc-2", "Closed Saver", 0, true))
	eng := New(bank, accounts, newMockTransactionStore())

	stats, err := eng.syncAccounts(context.Background())
	if err != nil {
		t.Fatalf("syncAccounts: %v", err)
	}
	if stats.Reactivated != 1 || stats.Updated != 0 || stats.Inserted != 0 {
		t.Errorf("stats = %+v", stats)
	}
	got := accounts.rows["acc-2"]
	if got.Deleted {
		t.Error("acc-2 should be active again")
	}
	if got.DisplayName != "Saver Again" || got.Balance != 777 {
		t.Errorf("reactivated row = %+v", got)
	}
}

// A second pass over the same snapshot must leave the store in the same
// state with no inserts, deletions, or reactivations.
func TestSyncAccountsIdempotent(t *testing.T) {
	bank := &mockBank{accounts: []upbank.AccountResource{
		accountResource("acc-1", "Spending", 5000, "2022-01-01T00:00:00Z"),
	}}
	accounts := newMockAccountStore(accountRow("acc-2", "Gone", 500, false))
	eng := New(bank, accounts, newMockTransactionStore())

	if _, err := eng.syncAccounts(context.Background()); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	first := make(map[string]store.AccountRow, len(accounts.rows))
	for id, r := range accounts.rows {
		first[id] = r
	}

	stats, err := eng.syncAccounts(context.Background())
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if stats.Inserted != 0 || stats.Deleted != 0 || stats.Reactivated != 0 {
		t.Errorf("second pass changed membership: %+v", stats)
	}
	for id, r := range accounts.rows {
		if first[id] != r {
			t.Errorf("row %s drifted between passes: %+v vs %+v", id, first[id], r)
		}
	}
}

// A malformed record aborts the phase before any write happens.
func TestSyncAccountsMappingErrorWritesNothing(t *testing.T) {
	good := accountResource("acc-1", "Spending", 5000, "2022-01-01T00:00:00Z")
	bad := accountResource("acc-2", "Broken", 100, "2022-02-01T00:00:00Z")
	bad.Attributes.DisplayName = nil
	bank := &mockBank{accounts: []upbank.AccountResource{good, bad}}
	accounts := newMockAccountStore()
	eng := New(bank, accounts, newMockTransactionStore())

	_, err := eng.syncAccounts(context.Background())
	var merr *MappingError
	if !errors.As(err, &merr) {
		t.Fatalf("err = %v, want MappingError", err)
	}
	if accounts.inserts != 0 {
		t.Errorf("inserts = %d, want 0", accounts.inserts)
	}
}

func TestSyncAccountsStoreFailureIsReconciliationError(t *testing.T) {
	bank := &mockBank{accounts: []upbank.AccountResource{
		accountResource("acc-1", "Spending", 5000, "2022-01-01T00:00:00Z"),
	}}
	accounts := newMockAccountStore()
	accounts.failOn = "Insert"
	eng := New(bank, accounts, newMockTransactionStore())

	_, err := eng.syncAccounts(context.Background())
	var rerr *ReconciliationError
	if !errors.As(err, &rerr) {
		t.Fatalf("err = %v, want ReconciliationError", err)
	}
	if rerr.Phase != "accounts" {
		t.Errorf("Phase = %q", rerr.Phase)
	}
}
