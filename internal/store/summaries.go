package store

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"
)

// SummaryRow is one aggregate line for the dashboard charts.
type SummaryRow struct {
	Label string `json:"label"`
	Total int64  `json:"total"` // minor units
}

// IncomeByDescription sums settled positive amounts grouped by description
// within [start, end]. Interest payments are not categorizable on the remote
// side, so every interest row is collapsed into a single "Interest" line.
func (r *TransactionRepo) IncomeByDescription(ctx context.Context, start, end time.Time) ([]SummaryRow, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT SUM(amount) AS total, description, is_categorizable
	FROM transactions
	WHERE amount > 0
	  AND status = 'SETTLED'
	  AND (is_categorizable = 1 OR description LIKE '%interest%')
	  AND datetime(settled_at) BETWEEN datetime(?) AND datetime(?)
	GROUP BY description
	ORDER BY SUM(amount) DESC`, formatTime(start), formatTime(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SummaryRow
	var interest int64
	var sawInterest bool
	for rows.Next() {
		var row SummaryRow
		var categorizable bool
		if err := rows.Scan(&row.Total, &row.Label, &categorizable); err != nil {
			return nil, err
		}
		if !categorizable && strings.Contains(strings.ToLower(row.Label), "interest") {
			interest += row.Total
			sawInterest = true
			continue
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if sawInterest {
		out = append(out, SummaryRow{Label: "Interest", Total: interest})
	}
	sortByTotalDesc(out)
	return out, nil
}

// SpendingByParentCategory sums settled categorizable debits grouped by
// parent category within [start, end]. Totals are returned positive.
func (r *TransactionRepo) SpendingByParentCategory(ctx context.Context, start, end time.Time) ([]SummaryRow, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT SUM(-amount) AS total, COALESCE(parent_category, 'uncategorized') AS label
	FROM transactions
	WHERE amount < 0
	  AND status = 'SETTLED'
	  AND is_categorizable = 1
	  AND datetime(settled_at) BETWEEN datetime(?) AND datetime(?)
	GROUP BY label
	ORDER BY total DESC`, formatTime(start), formatTime(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var row SummaryRow
		if err := rows.Scan(&row.Total, &row.Label); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SettledRange returns the earliest and latest settled timestamps in the
// store, or nils when nothing has settled yet. The dashboard uses it to clamp
// user-supplied date ranges.
func (r *TransactionRepo) SettledRange(ctx context.Context) (*time.Time, *time.Time, error) {
	var minS, maxS sql.NullString
	err := r.db.QueryRowContext(ctx, `
	SELECT MIN(datetime(settled_at)), MAX(datetime(settled_at))
	FROM transactions WHERE settled_at IS NOT NULL`).Scan(&minS, &maxS)
	if err != nil {
		return nil, nil, err
	}
	if !minS.Valid || !maxS.Valid {
		return nil, nil, nil
	}
	lo, err := time.Parse("2006-01-02 15:04:05", minS.String)
	if err != nil {
		return nil, nil, err
	}
	hi, err := time.Parse("2006-01-02 15:04:05", maxS.String)
	if err != nil {
		return nil, nil, err
	}
	lo, hi = lo.UTC(), hi.UTC()
	return &lo, &hi, nil
}

func sortByTotalDesc(rows []SummaryRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Total > rows[j].Total })
}
