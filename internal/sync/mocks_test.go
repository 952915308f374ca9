package sync

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/finwatch/uptrack/internal/store"
	"github.com/finwatch/uptrack/internal/upbank"
)

// mockBank is a scripted BankService.
type mockBank struct {
	accounts     []upbank.AccountResource
	accountsErr  error
	since        []upbank.TransactionResource
	sinceErr     error
	byID         map[string]upbank.TransactionResource
	gotSince     time.Time
	fetchedByID  []string
	listAccCalls int
}

func (m *mockBank) ListAccounts(ctx context.Context) ([]upbank.AccountResource, error) {
	m.listAccCalls++
	if m.accountsErr != nil {
		return nil, m.accountsErr
	}
	return m.accounts, nil
}

func (m *mockBank) ListTransactionsSince(ctx context.Context, since time.Time) ([]upbank.TransactionResource, error) {
	m.gotSince = since
	if m.sinceErr != nil {
		return nil, m.sinceErr
	}
	return m.since, nil
}

func (m *mockBank) GetTransaction(ctx context.Context, id string) (*upbank.TransactionResource, error) {
	m.fetchedByID = append(m.fetchedByID, id)
	res, ok := m.byID[id]
	if !ok {
		return nil, &upbank.FetchError{URL: "transactions/" + id, StatusCode: 404}
	}
	return &res, nil
}

// mockAccountStore keeps account rows in memory.
type mockAccountStore struct {
	rows    map[string]store.AccountRow
	failOn  string // method name to fail on, for write-error tests
	inserts int
}

func newMockAccountStore(rows ...store.AccountRow) *mockAccountStore {
	m := &mockAccountStore{rows: make(map[string]store.AccountRow)}
	for _, r := range rows {
		m.rows[r.ID] = r
	}
	return m
}

func (m *mockAccountStore) fail(method string) error {
	if m.failOn == method {
		return fmt.Errorf("forced %s failure", method)
	}
	return nil
}

func (m *mockAccountStore) ListAll(ctx context.Context) ([]store.AccountRow, error) {
	if err := m.fail("ListAll"); err != nil {
		return nil, err
	}
	out := make([]store.AccountRow, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockAccountStore) Insert(ctx context.Context, a store.AccountRow) error {
	if err := m.fail("Insert"); err != nil {
		return err
	}
	if _, ok := m.rows[a.ID]; ok {
		return fmt.Errorf("duplicate account %s", a.ID)
	}
	a.Deleted = false
	m.rows[a.ID] = a
	m.inserts++
	return nil
}

func (m *mockAccountStore) UpdateRemoteVisible(ctx context.Context, id, displayName string, balance int64) error {
	if err := m.fail("UpdateRemoteVisible"); err != nil {
		return err
	}
	r := m.rows[id]
	r.DisplayName = displayName
	r.Balance = balance
	m.rows[id] = r
	return nil
}

func (m *mockAccountStore) MarkDeleted(ctx context.Context, id string) error {
	if err := m.fail("MarkDeleted"); err != nil {
		return err
	}
	r := m.rows[id]
	r.Deleted = true
	r.Balance = 0
	m.rows[id] = r
	return nil
}

func (m *mockAccountStore) Reactivate(ctx context.Context, id, displayName string, balance int64) error {
	if err := m.fail("Reactivate"); err != nil {
		return err
	}
	r := m.rows[id]
	r.Deleted = false
	r.DisplayName = displayName
	r.Balance = balance
	m.rows[id] = r
	return nil
}

// mockTransactionStore keeps transaction rows in memory.
type mockTransactionStore struct {
	rows       map[string]store.TransactionRow
	mutations  []store.TransactionMutation
	inserted   []string
	failOn     string
	maxCreated *time.Time // overrides computed max when set
}

func newMockTransactionStore(rows ...store.TransactionRow) *mockTransactionStore {
	m := &mockTransactionStore{rows: make(map[string]store.TransactionRow)}
	for _, r := range rows {
		m.rows[r.ID] = r
	}
	return m
}

func (m *mockTransactionStore) fail(method string) error {
	if m.failOn == method {
		return fmt.Errorf("forced %s failure", method)
	}
	return nil
}

func (m *mockTransactionStore) BulkInsert(ctx context.Context, rows []store.TransactionRow) error {
	if err := m.fail("BulkInsert"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, ok := m.rows[r.ID]; ok {
			return fmt.Errorf("duplicate transaction %s", r.ID)
		}
		m.rows[r.ID] = r
		m.inserted = append(m.inserted, r.ID)
	}
	return nil
}

func (m *mockTransactionStore) UpdateMutable(ctx context.Context, mut store.TransactionMutation) error {
	if err := m.fail("UpdateMutable"); err != nil {
		return err
	}
	r, ok := m.rows[mut.ID]
	if !ok {
		return fmt.Errorf("no transaction %s", mut.ID)
	}
	r.Status = mut.Status
	r.SettledAt = mut.SettledAt
	r.Category = mut.Category
	r.ParentCategory = mut.ParentCategory
	r.CashbackDesc = mut.CashbackDesc
	r.CashbackAmount = mut.CashbackAmount
	m.rows[mut.ID] = r
	m.mutations = append(m.mutations, mut)
	return nil
}

func (m *mockTransactionStore) MaxCreatedAt(ctx context.Context) (*time.Time, error) {
	if err := m.fail("MaxCreatedAt"); err != nil {
		return nil, err
	}
	if m.maxCreated != nil {
		return m.maxCreated, nil
	}
	var max *time.Time
	for _, r := range m.rows {
		t := r.CreatedAt
		if max == nil || t.After(*max) {
			max = &t
		}
	}
	return max, nil
}

func (m *mockTransactionStore) ListUnresolvedBefore(ctx context.Context, cursor time.Time) ([]string, error) {
	if err := m.fail("ListUnresolvedBefore"); err != nil {
		return nil, err
	}
	var ids []string
	for _, r := range m.rows {
		if (r.Status != "SETTLED" || r.Category == nil) && r.CreatedAt.Before(cursor) {
			ids = append(ids, r.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ---- resource builders ----

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func money(base int64) *upbank.Money {
	return &upbank.Money{CurrencyCode: "AUD", Value: fmt.Sprintf("%.2f", float64(base)/100), ValueInBaseUnits: base}
}

func accountResource(id, name string, balance int64, created string) upbank.AccountResource {
	return upbank.AccountResource{
		Type: "accounts",
		ID:   id,
		Attributes: upbank.AccountAttributes{
			DisplayName:   strPtr(name),
			AccountType:   strPtr("TRANSACTIONAL"),
			OwnershipType: strPtr("INDIVIDUAL"),
			Balance:       money(balance),
			CreatedAt:     strPtr(created),
		},
	}
}

func transactionResource(id, status string, amount int64, created string) upbank.TransactionResource {
	return upbank.TransactionResource{
		Type: "transactions",
		ID:   id,
		Attributes: upbank.TransactionAttributes{
			Status:          strPtr(status),
			Description:     strPtr("Test merchant"),
			IsCategorizable: boolPtr(true),
			Amount:          money(amount),
			CreatedAt:       strPtr(created),
		},
		Relationships: upbank.TransactionRelationships{
			Account: &upbank.Relationship{Data: &upbank.RelationshipData{Type: "accounts", ID: "acc-1"}},
		},
	}
}
