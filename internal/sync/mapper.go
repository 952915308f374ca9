package sync

import (
	"fmt"
	"time"

	"github.com/finwatch/uptrack/internal/store"
	"github.com/finwatch/uptrack/internal/upbank"
)

// mapAccount converts one remote account resource into its row shape.
// Required attributes missing from the payload surface as a MappingError;
// nothing is defaulted.
func mapAccount(res upbank.AccountResource) (store.AccountRow, error) {
	attrs := res.Attributes
	switch {
	case attrs.DisplayName == nil:
		return store.AccountRow{}, &MappingError{Entity: "account", ID: res.ID, Field: "displayName"}
	case attrs.AccountType == nil:
		return store.AccountRow{}, &MappingError{Entity: "account", ID: res.ID, Field: "accountType"}
	case attrs.OwnershipType == nil:
		return store.AccountRow{}, &MappingError{Entity: "account", ID: res.ID, Field: "ownershipType"}
	case attrs.Balance == nil:
		return store.AccountRow{}, &MappingError{Entity: "account", ID: res.ID, Field: "balance"}
	case attrs.CreatedAt == nil:
		return store.AccountRow{}, &MappingError{Entity: "account", ID: res.ID, Field: "createdAt"}
	}

	created, err := parseRemoteTime(*attrs.CreatedAt)
	if err != nil {
		return store.AccountRow{}, fmt.Errorf("map account %s: %w", res.ID, err)
	}

	return store.AccountRow{
		ID:            res.ID,
		DisplayName:   cleanDisplayName(*attrs.DisplayName),
		AccountType:   *attrs.AccountType,
		OwnershipType: *attrs.OwnershipType,
		Balance:       attrs.Balance.ValueInBaseUnits,
		CreatedAt:     created,
	}, nil
}

// mapTransaction converts one remote transaction resource into its row
// shape. Optional sub-objects are tested for presence before any nested
// field is read; the flag and its sub-amounts always travel together.
func mapTransaction(res upbank.TransactionResource) (store.TransactionRow, error) {
	attrs := res.Attributes
	switch {
	case attrs.Status == nil:
		return store.TransactionRow{}, &MappingError{Entity: "transaction", ID: res.ID, Field: "status"}
	case attrs.Description == nil:
		return store.TransactionRow{}, &MappingError{Entity: "transaction", ID: res.ID, Field: "description"}
	case attrs.IsCategorizable == nil:
		return store.TransactionRow{}, &MappingError{Entity: "transaction", ID: res.ID, Field: "isCategorizable"}
	case attrs.Amount == nil:
		return store.TransactionRow{}, &MappingError{Entity: "transaction", ID: res.ID, Field: "amount"}
	case attrs.CreatedAt == nil:
		return store.TransactionRow{}, &MappingError{Entity: "transaction", ID: res.ID, Field: "createdAt"}
	}
	account := relationshipID(res.Relationships.Account)
	if account == nil {
		return store.TransactionRow{}, &MappingError{Entity: "transaction", ID: res.ID, Field: "relationships.account"}
	}

	created, err := parseRemoteTime(*attrs.CreatedAt)
	if err != nil {
		return store.TransactionRow{}, fmt.Errorf("map transaction %s: %w", res.ID, err)
	}

	row := store.TransactionRow{
		ID:                res.ID,
		Status:            *attrs.Status,
		RawText:           attrs.RawText,
		Description:       *attrs.Description,
		Message:           attrs.Message,
		IsCategorizable:   *attrs.IsCategorizable,
		Amount:            attrs.Amount.ValueInBaseUnits,
		CreatedAt:         created,
		AccountID:         *account,
		TransferAccountID: relationshipID(res.Relationships.TransferAccount),
		Category:          relationshipID(res.Relationships.Category),
		ParentCategory:    relationshipID(res.Relationships.ParentCategory),
	}

	if attrs.SettledAt != nil {
		settled, err := parseRemoteTime(*attrs.SettledAt)
		if err != nil {
			return store.TransactionRow{}, fmt.Errorf("map transaction %s: %w", res.ID, err)
		}
		row.SettledAt = &settled
	}

	if hold := attrs.HoldInfo; hold != nil {
		row.Held = true
		row.HeldAmount = ptrInt64(hold.Amount.ValueInBaseUnits)
	}
	if ru := attrs.RoundUp; ru != nil {
		row.RoundUpAmount = ptrInt64(ru.Amount.ValueInBaseUnits)
		if ru.BoostPortion != nil {
			row.BoostProportion = ptrInt64(ru.BoostPortion.ValueInBaseUnits)
		}
	}
	if cb := attrs.Cashback; cb != nil {
		desc := cb.Description
		row.CashbackDesc = &desc
		row.CashbackAmount = ptrInt64(cb.Amount.ValueInBaseUnits)
	}
	if fa := attrs.ForeignAmount; fa != nil {
		currency := fa.CurrencyCode
		row.ForeignCurrency = &currency
		row.ForeignAmount = ptrInt64(fa.ValueInBaseUnits)
	}
	if cpm := attrs.CardPurchaseMethod; cpm != nil {
		method := cpm.Method
		row.CardPurchaseMethod = &method
		row.CardNumberSuffix = cpm.CardNumberSuffix
	}

	return row, nil
}

// mapMutation extracts the mutable-field subset from a re-fetched
// transaction for the targeted-recheck channel.
func mapMutation(res upbank.TransactionResource) (store.TransactionMutation, error) {
	attrs := res.Attributes
	if attrs.Status == nil {
		return store.TransactionMutation{}, &MappingError{Entity: "transaction", ID: res.ID, Field: "status"}
	}

	m := store.TransactionMutation{
		ID:             res.ID,
		Status:         *attrs.Status,
		Category:       relationshipID(res.Relationships.Category),
		ParentCategory: relationshipID(res.Relationships.ParentCategory),
	}
	if attrs.SettledAt != nil {
		settled, err := parseRemoteTime(*attrs.SettledAt)
		if err != nil {
			return store.TransactionMutation{}, fmt.Errorf("map transaction %s: %w", res.ID, err)
		}
		m.SettledAt = &settled
	}
	if cb := attrs.Cashback; cb != nil {
		desc := cb.Description
		m.CashbackDesc = &desc
		m.CashbackAmount = ptrInt64(cb.Amount.ValueInBaseUnits)
	}
	return m, nil
}

func relationshipID(rel *upbank.Relationship) *string {
	if rel == nil || rel.Data == nil {
		return nil
	}
	id := rel.Data.ID
	return &id
}

func parseRemoteTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t, nil
}

func ptrInt64(v int64) *int64 { return &v }
