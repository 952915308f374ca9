package sync

import (
	"context"
	"fmt"
	"time"
)

// initialCursor is the since value for a first-ever sync: far enough back
// that the bulk channel performs a full import.
var initialCursor = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// ComputeCursor returns the lower bound for the bulk-new transaction fetch:
// one second past the latest stored created timestamp. The pad exists
// because the remote since filter is inclusive; without it the boundary
// transaction would come back as "new" and break the channel's insert-only
// guarantee. The same value bounds the targeted-recheck selection, so the
// two channels partition the id space.
func ComputeCursor(ctx context.Context, txs TransactionStore) (time.Time, error) {
	max, err := txs.MaxCreatedAt(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("compute cursor: %w", err)
	}
	if max == nil {
		return initialCursor, nil
	}
	return max.Add(time.Second), nil
}
