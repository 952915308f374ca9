package store

import "time"

// AccountRow is the persisted shape of one bank account. Deleted is local
// only: accounts that vanish from the remote listing are soft-deleted, never
// removed, so historical transactions keep a valid reference.
type AccountRow struct {
	ID            string
	DisplayName   string
	AccountType   string
	OwnershipType string
	Balance       int64 // minor currency units
	CreatedAt     time.Time
	Deleted       bool
}

// TransactionRow is the persisted shape of one transaction. Optional
// components (hold, round-up, cashback, foreign amount, card purchase) are
// pointers so "no such component" stays distinguishable from a zero-valued
// one. Amounts are signed minor units; negative is a debit.
type TransactionRow struct {
	ID                 string
	Status             string
	RawText            *string
	Description        string
	Message            *string
	IsCategorizable    bool
	Held               bool
	HeldAmount         *int64
	RoundUpAmount      *int64
	BoostProportion    *int64
	CashbackDesc       *string
	CashbackAmount     *int64
	Amount             int64
	ForeignCurrency    *string
	ForeignAmount      *int64
	CardPurchaseMethod *string
	CardNumberSuffix   *string
	SettledAt          *time.Time
	CreatedAt          time.Time
	AccountID          string
	TransferAccountID  *string
	Category           *string
	ParentCategory     *string
}

// TransactionMutation carries the only transaction fields that may change
// after initial insertion. The targeted-recheck channel applies these without
// touching anything else on the row.
type TransactionMutation struct {
	ID             string
	Status         string
	SettledAt      *time.Time
	Category       *string
	ParentCategory *string
	CashbackDesc   *string
	CashbackAmount *int64
}
