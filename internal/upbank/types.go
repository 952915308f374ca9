package upbank

// Wire representations of Up API resources. Fields the API documents as
// required are still decoded through pointers so the mapper can tell a
// missing field apart from a zero value; optional sub-objects stay nil when
// the API sends null, keeping presence and payload together.

// Money is the API's money object. Value is the decimal string form; the
// integer base-unit form is what the rest of the system uses.
type Money struct {
	CurrencyCode     string `json:"currencyCode"`
	Value            string `json:"value"`
	ValueInBaseUnits int64  `json:"valueInBaseUnits"`
}

// AccountAttributes holds the attributes object of an account resource.
type AccountAttributes struct {
	DisplayName   *string `json:"displayName"`
	AccountType   *string `json:"accountType"`
	OwnershipType *string `json:"ownershipType"`
	Balance       *Money  `json:"balance"`
	CreatedAt     *string `json:"createdAt"`
}

// AccountResource is one account as returned by the accounts listing.
type AccountResource struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Attributes AccountAttributes `json:"attributes"`
}

// HoldInfo is present only while a transaction is held.
type HoldInfo struct {
	Amount        Money  `json:"amount"`
	ForeignAmount *Money `json:"foreignAmount"`
}

// RoundUp is present only when a round-up was applied.
type RoundUp struct {
	Amount       Money  `json:"amount"`
	BoostPortion *Money `json:"boostPortion"`
}

// Cashback is present only when a cashback was paid.
type Cashback struct {
	Description string `json:"description"`
	Amount      Money  `json:"amount"`
}

// CardPurchaseMethod is present only for card purchases.
type CardPurchaseMethod struct {
	Method           string  `json:"method"`
	CardNumberSuffix *string `json:"cardNumberSuffix"`
}

// TransactionAttributes holds the attributes object of a transaction resource.
type TransactionAttributes struct {
	Status             *string             `json:"status"`
	RawText            *string             `json:"rawText"`
	Description        *string             `json:"description"`
	Message            *string             `json:"message"`
	IsCategorizable    *bool               `json:"isCategorizable"`
	HoldInfo           *HoldInfo           `json:"holdInfo"`
	RoundUp            *RoundUp            `json:"roundUp"`
	Cashback           *Cashback           `json:"cashback"`
	Amount             *Money              `json:"amount"`
	ForeignAmount      *Money              `json:"foreignAmount"`
	CardPurchaseMethod *CardPurchaseMethod `json:"cardPurchaseMethod"`
	SettledAt          *string             `json:"settledAt"`
	CreatedAt          *string             `json:"createdAt"`
}

// RelationshipData identifies the resource a relationship points at.
type RelationshipData struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship wraps a to-one relationship whose data may be null.
type Relationship struct {
	Data *RelationshipData `json:"data"`
}

// TransactionRelationships holds the relationships object of a transaction.
type TransactionRelationships struct {
	Account         *Relationship `json:"account"`
	TransferAccount *Relationship `json:"transferAccount"`
	Category        *Relationship `json:"category"`
	ParentCategory  *Relationship `json:"parentCategory"`
}

// TransactionResource is one transaction as returned by the API.
type TransactionResource struct {
	Type          string                   `json:"type"`
	ID            string                   `json:"id"`
	Attributes    TransactionAttributes    `json:"attributes"`
	Relationships TransactionRelationships `json:"relationships"`
}

// pageLinks is the links object of a paginated response. A nil Next means
// the server has no further page.
type pageLinks struct {
	Prev *string `json:"prev"`
	Next *string `json:"next"`
}

type accountsPage struct {
	Data  []AccountResource `json:"data"`
	Links pageLinks         `json:"links"`
}

type transactionsPage struct {
	Data  []TransactionResource `json:"data"`
	Links pageLinks             `json:"links"`
}

type transactionEnvelope struct {
	Data TransactionResource `json:"data"`
}
