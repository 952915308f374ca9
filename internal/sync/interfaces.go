package sync

import (
	"context"
	"time"

	"github.com/finwatch/uptrack/internal/store"
	"github.com/finwatch/uptrack/internal/upbank"
)

// BankService is the slice of the Up API the sync engine consumes. The
// interface exists so tests can substitute a scripted bank.
type BankService interface {
	// ListAccounts returns the complete current account listing, all pages.
	ListAccounts(ctx context.Context) ([]upbank.AccountResource, error)

	// ListTransactionsSince returns every transaction created at or after
	// since, all pages. The server-side filter is inclusive.
	ListTransactionsSince(ctx context.Context, since time.Time) ([]upbank.TransactionResource, error)

	// GetTransaction fetches one transaction by identifier.
	GetTransaction(ctx context.Context, id string) (*upbank.TransactionResource, error)
}

// AccountStore is the account persistence surface the reconciliation needs.
type AccountStore interface {
	ListAll(ctx context.Context) ([]store.AccountRow, error)
	Insert(ctx context.Context, a store.AccountRow) error
	UpdateRemoteVisible(ctx context.Context, id, displayName string, balance int64) error
	MarkDeleted(ctx context.Context, id string) error
	Reactivate(ctx context.Context, id, displayName string, balance int64) error
}

// TransactionStore is the transaction persistence surface the two sync
// channels need.
type TransactionStore interface {
	BulkInsert(ctx context.Context, rows []store.TransactionRow) error
	UpdateMutable(ctx context.Context, m store.TransactionMutation) error
	MaxCreatedAt(ctx context.Context) (*time.Time, error)
	ListUnresolvedBefore(ctx context.Context, cursor time.Time) ([]string, error)
}
