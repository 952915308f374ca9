package sync

import (
	"context"

	"github.com/finwatch/uptrack/internal/logger"
	"github.com/finwatch/uptrack/internal/store"
)

// AccountStats counts the row changes one account reconciliation applied.
type AccountStats struct {
	Inserted    int `json:"inserted"`
	Updated     int `json:"updated"`
	Deleted     int `json:"deleted"`
	Reactivated int `json:"reactivated"`
}

// syncAccounts reconciles the full remote account listing against local
// state. The remote listing is authoritative: known accounts are refreshed,
// unknown ones inserted, and anything known locally but absent remotely is
// soft-deleted with its balance zeroed. A previously deleted account that
// reappears is reactivated. Running twice with the same snapshot is a no-op
// the second time.
func (e *Engine) syncAccounts(ctx context.Context) (AccountStats, error) {
	log := logger.FromContext(ctx)
	var stats AccountStats

	resources, err := e.bank.ListAccounts(ctx)
	if err != nil {
		return stats, err
	}

	// Map everything before writing anything, so a malformed record aborts
	// the phase without touching the store.
	mapped := make([]store.AccountRow, 0, len(resources))
	for _, res := range resources {
		row, err := mapAccount(res)
		if err != nil {
			return stats, err
		}
		mapped = append(mapped, row)
	}

	local, err := e.accounts.ListAll(ctx)
	if err != nil {
		return stats, &ReconciliationError{Phase: "accounts", Err: err}
	}
	known := make(map[string]store.AccountRow, len(local))
	remaining := make(map[string]bool, len(local))
	for _, a := range local {
		known[a.ID] = a
		remaining[a.ID] = true
	}

	for _, row := range mapped {
		existing, ok := known[row.ID]
		if !ok {
			if err := e.accounts.Insert(ctx, row); err != nil {
				return stats, &ReconciliationError{Phase: "accounts", Err: err}
			}
			stats.Inserted++
			continue
		}
		delete(remaining, row.ID)

		if existing.Deleted {
			if err := e.accounts.Reactivate(ctx, row.ID, row.DisplayName, row.Balance); err != nil {
				return stats, &ReconciliationError{Phase: "accounts", Err: err}
			}
			stats.Reactivated++
			log.Info().Str("account_id", row.ID).Msg("Reactivated account present in remote listing again")
			continue
		}
		if err := e.accounts.UpdateRemoteVisible(ctx, row.ID, row.DisplayName, row.Balance); err != nil {
			return stats, &ReconciliationError{Phase: "accounts", Err: err}
		}
		stats.Updated++
	}

	// Whatever is left was not in this cycle's listing. Already-deleted rows
	// stay untouched so repeated cycles don't churn them.
	for id := range remaining {
		if known[id].Deleted {
			continue
		}
		if err := e.accounts.MarkDeleted(ctx, id); err != nil {
			return stats, &ReconciliationError{Phase: "accounts", Err: err}
		}
		stats.Deleted++
		log.Info().Str("account_id", id).Msg("Account absent from remote listing, soft-deleted")
	}

	return stats, nil
}
