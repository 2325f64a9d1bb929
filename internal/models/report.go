package models

import (
	"github.com/shopspring/decimal"
)

// MerchantFrequency is a derived view over all transactions of one merchant.
// It is recomputed from the full transaction set on every run and carries no
// identity of its own.
type MerchantFrequency struct {
	Name          string          `json:"name" yaml:"name" csv:"merchant"`
	Count         int             `json:"count" yaml:"count" csv:"count"`
	TotalAmount   decimal.Decimal `json:"total_amount" yaml:"total_amount" csv:"total_amount"`
	AverageAmount decimal.Decimal `json:"average_amount" yaml:"average_amount" csv:"average_amount"`
}

// PaybillFrequency is the paybill-dimension counterpart of MerchantFrequency.
type PaybillFrequency struct {
	PaybillNumber string          `json:"paybill_number" yaml:"paybill_number" csv:"paybill"`
	MerchantName  string          `json:"merchant_name,omitempty" yaml:"merchant_name,omitempty" csv:"merchant"`
	Count         int             `json:"count" yaml:"count" csv:"count"`
	TotalAmount   decimal.Decimal `json:"total_amount" yaml:"total_amount" csv:"total_amount"`
	AverageAmount decimal.Decimal `json:"average_amount" yaml:"average_amount" csv:"average_amount"`
	// Transactions holds the group members, most recent last. Used by the
	// recurring-bill detector; not serialized.
	Transactions []Transaction `json:"-" yaml:"-" csv:"-"`
}

// RecurringBill flags a paybill whose payments repeat across distinct months
// beyond a configured threshold.
type RecurringBill struct {
	PaybillNumber     string          `json:"paybill_number" yaml:"paybill_number"`
	MerchantName      string          `json:"merchant_name,omitempty" yaml:"merchant_name,omitempty"`
	OccurrenceCount   int             `json:"occurrence_count" yaml:"occurrence_count"`
	AverageAmount     decimal.Decimal `json:"average_amount" yaml:"average_amount"`
	SuggestedCategory string          `json:"suggested_category,omitempty" yaml:"suggested_category,omitempty"`
}

// CategorySuggestion proposes a spending category synthesized from a cluster
// of similarly-clued, currently-unmapped transactions. ReceiptNumbers keeps
// encounter order for auditing.
type CategorySuggestion struct {
	CategoryName     string          `json:"category_name" yaml:"category_name"`
	IconTag          string          `json:"icon_tag" yaml:"icon_tag"`
	ColorTag         string          `json:"color_tag" yaml:"color_tag"`
	TransactionCount int             `json:"transaction_count" yaml:"transaction_count"`
	TotalAmount      decimal.Decimal `json:"total_amount" yaml:"total_amount"`
	ReceiptNumbers   []string        `json:"receipt_numbers" yaml:"receipt_numbers"`
}

// Report is the combined insights view handed to external callers. It is a
// plain serializable structure with no behavior.
type Report struct {
	TotalTransactions   int                  `json:"total_transactions" yaml:"total_transactions"`
	FrequentMerchants   []MerchantFrequency  `json:"frequent_merchants" yaml:"frequent_merchants"`
	RecurringBills      []RecurringBill      `json:"recurring_bills" yaml:"recurring_bills"`
	CategorySuggestions []CategorySuggestion `json:"category_suggestions" yaml:"category_suggestions"`
}
