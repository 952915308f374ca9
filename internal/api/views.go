package api

import (
	"time"

	"github.com/finwatch/uptrack/internal/store"
)

// accountView is the JSON shape of one account.
type accountView struct {
	ID            string    `json:"id"`
	DisplayName   string    `json:"display_name"`
	AccountType   string    `json:"account_type"`
	OwnershipType string    `json:"ownership_type"`
	Balance       int64     `json:"balance"`
	CreatedAt     time.Time `json:"created_at"`
	Deleted       bool      `json:"deleted"`
}

func newAccountView(a store.AccountRow) accountView {
	return accountView{
		ID:            a.ID,
		DisplayName:   a.DisplayName,
		AccountType:   a.AccountType,
		OwnershipType: a.OwnershipType,
		Balance:       a.Balance,
		CreatedAt:     a.CreatedAt,
		Deleted:       a.Deleted,
	}
}

// transactionView is the JSON shape of one transaction. Optional components
// serialize as null when absent, never as zero.
type transactionView struct {
	ID                 string     `json:"id"`
	Status             string     `json:"status"`
	RawText            *string    `json:"raw_text"`
	Description        string     `json:"description"`
	Message            *string    `json:"message"`
	IsCategorizable    bool       `json:"is_categorizable"`
	Held               bool       `json:"held"`
	HeldAmount         *int64     `json:"held_amount"`
	RoundUpAmount      *int64     `json:"round_up_amount"`
	BoostProportion    *int64     `json:"boost_proportion"`
	CashbackDesc       *string    `json:"cashback_desc"`
	CashbackAmount     *int64     `json:"cashback_amount"`
	Amount             int64      `json:"amount"`
	ForeignCurrency    *string    `json:"foreign_currency"`
	ForeignAmount      *int64     `json:"foreign_amount"`
	CardPurchaseMethod *string    `json:"card_purchase_method"`
	CardNumberSuffix   *string    `json:"card_number_suffix"`
	SettledAt          *time.Time `json:"settled_at"`
	CreatedAt          time.Time  `json:"created_at"`
	AccountID          string     `json:"account_id"`
	TransferAccountID  *string    `json:"transfer_account_id"`
	Category           *string    `json:"category"`
	ParentCategory     *string    `json:"parent_category"`
}

func newTransactionView(t store.TransactionRow) transactionView {
	return transactionView{
		ID:                 t.ID,
		Status:             t.Status,
		RawText:            t.RawText,
		Description:        t.Description,
		Message:            t.Message,
		IsCategorizable:    t.IsCategorizable,
		Held:               t.Held,
		HeldAmount:         t.HeldAmount,
		RoundUpAmount:      t.RoundUpAmount,
		BoostProportion:    t.BoostProportion,
		CashbackDesc:       t.CashbackDesc,
		CashbackAmount:     t.CashbackAmount,
		Amount:             t.Amount,
		ForeignCurrency:    t.ForeignCurrency,
		ForeignAmount:      t.ForeignAmount,
		CardPurchaseMethod: t.CardPurchaseMethod,
		CardNumberSuffix:   t.CardNumberSuffix,
		SettledAt:          t.SettledAt,
		CreatedAt:          t.CreatedAt,
		AccountID:          t.AccountID,
		TransferAccountID:  t.TransferAccountID,
		Category:           t.Category,
		ParentCategory:     t.ParentCategory,
	}
}
