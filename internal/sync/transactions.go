package sync

import (
	"context"

	"github.com/finwatch/uptrack/internal/logger"
	"github.com/finwatch/uptrack/internal/store"
)

// TransactionStats counts the row changes one transaction sync applied.
type TransactionStats struct {
	Inserted  int `json:"inserted"`
	Rechecked int `json:"rechecked"`
	Updated   int `json:"updated"`
}

// syncTransactions runs the two sync channels in order. The bulk-new channel
// inserts everything created at or after the cursor; by construction those
// ids are previously unseen, so no existence checks happen. The
// targeted-recheck channel then re-fetches each stored pre-cursor
// transaction still unsettled or uncategorized and applies only its mutable
// fields. The cursor bounds both, so no id goes through both channels in one
// cycle.
func (e *Engine) syncTransactions(ctx context.Context) (TransactionStats, error) {
	log := logger.FromContext(ctx)
	var stats TransactionStats

	cursor, err := ComputeCursor(ctx, e.transactions)
	if err != nil {
		return stats, &ReconciliationError{Phase: "transactions", Err: err}
	}
	log.Debug().Time("cursor", cursor).Msg("Computed transaction cursor")

	resources, err := e.bank.ListTransactionsSince(ctx, cursor)
	if err != nil {
		return stats, err
	}

	rows := make([]store.TransactionRow, 0, len(resources))
	for _, res := range resources {
		row, err := mapTransaction(res)
		if err != nil {
			return stats, err
		}
		rows = append(rows, row)
	}
	if err := e.transactions.BulkInsert(ctx, rows); err != nil {
		return stats, &ReconciliationError{Phase: "transactions", Err: err}
	}
	stats.Inserted = len(rows)

	unresolved, err := e.transactions.ListUnresolvedBefore(ctx, cursor)
	if err != nil {
		return stats, &ReconciliationError{Phase: "transactions", Err: err}
	}

	for _, id := range unresolved {
		res, err := e.bank.GetTransaction(ctx, id)
		if err != nil {
			return stats, err
		}
		stats.Rechecked++

		mutation, err := mapMutation(*res)
		if err != nil {
			return stats, err
		}
		if err := e.transactions.UpdateMutable(ctx, mutation); err != nil {
			return stats, &ReconciliationError{Phase: "transactions", Err: err}
		}
		stats.Updated++
	}

	return stats, nil
}
