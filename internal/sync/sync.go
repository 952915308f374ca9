// Package sync implements the reconciliation engine that keeps the local
// store aligned with the remote bank: a full-listing upsert for accounts and
// a two-channel (bulk-new plus targeted-recheck) protocol for transactions.
package sync

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/finwatch/uptrack/internal/logger"
)

// Engine drives one sync cycle. It holds no state between cycles; everything
// is re-derived from the store each run.
type Engine struct {
	bank         BankService
	accounts     AccountStore
	transactions TransactionStore
}

// New creates an Engine over the given collaborators.
func New(bank BankService, accounts AccountStore, transactions TransactionStore) *Engine {
	return &Engine{
		bank:         bank,
		accounts:     accounts,
		transactions: transactions,
	}
}

// SyncResult reports one cycle. A phase skipped because its remote fetch or
// mapping failed records its error here; the cycle itself still completes.
type SyncResult struct {
	RunID             string           `json:"run_id"`
	Accounts          AccountStats     `json:"accounts"`
	AccountsError     error            `json:"-"`
	Transactions      TransactionStats `json:"transactions"`
	TransactionsError error            `json:"-"`
}

// Failed reports whether any phase was skipped.
func (r SyncResult) Failed() bool {
	return r.AccountsError != nil || r.TransactionsError != nil
}

// MarshalJSON renders phase errors as strings so API clients polling a sync
// run can see a degraded cycle, not just its counts.
func (r SyncResult) MarshalJSON() ([]byte, error) {
	out := struct {
		RunID             string           `json:"run_id"`
		Accounts          AccountStats     `json:"accounts"`
		AccountsError     string           `json:"accounts_error,omitempty"`
		Transactions      TransactionStats `json:"transactions"`
		TransactionsError string           `json:"transactions_error,omitempty"`
	}{
		RunID:        r.RunID,
		Accounts:     r.Accounts,
		Transactions: r.Transactions,
	}
	if r.AccountsError != nil {
		out.AccountsError = r.AccountsError.Error()
	}
	if r.TransactionsError != nil {
		out.TransactionsError = r.TransactionsError.Error()
	}
	return json.Marshal(out)
}

// Sync runs one full cycle: accounts first (transactions reference them),
// then the two transaction channels. A FetchError or MappingError in one
// phase skips only that phase; a store write failure is terminal and is
// returned, with earlier committed phases left in place.
func (e *Engine) Sync(ctx context.Context) (SyncResult, error) {
	result := SyncResult{RunID: uuid.NewString()}

	log := logger.FromContext(ctx).With().Str("run_id", result.RunID).Logger()
	ctx = logger.WithContext(ctx, log)

	log.Info().Msg("Starting sync cycle")

	stats, err := e.syncAccounts(ctx)
	result.Accounts = stats
	if err != nil {
		var rerr *ReconciliationError
		if errors.As(err, &rerr) {
			return result, err
		}
		result.AccountsError = err
		log.Warn().Err(err).Msg("Accounts did not sync this cycle")
	} else {
		logAccountStats(log, stats)
	}

	txStats, err := e.syncTransactions(ctx)
	result.Transactions = txStats
	if err != nil {
		var rerr *ReconciliationError
		if errors.As(err, &rerr) {
			return result, err
		}
		result.TransactionsError = err
		log.Warn().Err(err).Msg("Transactions did not sync this cycle")
	} else {
		logTransactionStats(log, txStats)
	}

	log.Info().Msg("Sync cycle finished")
	return result, nil
}

func logAccountStats(log zerolog.Logger, s AccountStats) {
	log.Info().
		Int("inserted", s.Inserted).
		Int("updated", s.Updated).
		Int("deleted", s.Deleted).
		Int("reactivated", s.Reactivated).
		Msg("Accounts reconciled")
}

func logTransactionStats(log zerolog.Logger, s TransactionStats) {
	log.Info().
		Int("inserted", s.Inserted).
		Int("rechecked", s.Rechecked).
		Int("updated", s.Updated).
		Msg("Transactions synced")
}
