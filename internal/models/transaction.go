// Package models defines the transaction record produced by the message
// parser and the derived analytics views built on top of it.
package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates whether a transaction moves money in or out.
type Direction string

const (
	DirectionIncome  Direction = "INCOME"
	DirectionExpense Direction = "EXPENSE"
)

// Kind discriminates the transaction shapes the parser recognizes.
type Kind string

const (
	KindSendMoney    Kind = "SEND_MONEY"
	KindReceiveMoney Kind = "RECEIVE_MONEY"
	KindPaybill      Kind = "PAYBILL"
	KindTill         Kind = "TILL"
	KindAirtime      Kind = "AIRTIME"
	KindWithdraw     Kind = "WITHDRAW"
	KindDeposit      Kind = "DEPOSIT"
)

// Transaction is a structured mobile-money event extracted from a
// confirmation message. ReceiptNumber is the identity key: re-ingesting the
// same source message must never create a second record. Amount is always a
// non-negative magnitude; the sign semantics live in Direction.
type Transaction struct {
	ReceiptNumber string          `json:"receipt_number" yaml:"receipt_number"`
	Amount        decimal.Decimal `json:"amount" yaml:"amount"`
	Direction     Direction       `json:"direction" yaml:"direction"`
	Kind          Kind            `json:"kind" yaml:"kind"`
	MerchantName  string          `json:"merchant_name,omitempty" yaml:"merchant_name,omitempty"`
	PhoneNumber   string          `json:"phone_number,omitempty" yaml:"phone_number,omitempty"`
	PaybillNumber string          `json:"paybill_number,omitempty" yaml:"paybill_number,omitempty"`
	TillNumber    string          `json:"till_number,omitempty" yaml:"till_number,omitempty"`
	AccountNumber string          `json:"account_number,omitempty" yaml:"account_number,omitempty"`
	Clues         []string        `json:"clues,omitempty" yaml:"clues,omitempty"`
	Timestamp     time.Time       `json:"timestamp" yaml:"timestamp"`
}

// IsExpense returns true if the transaction moves money out.
func (t Transaction) IsExpense() bool {
	return t.Direction == DirectionExpense
}

// IsIncome returns true if the transaction moves money in.
func (t Transaction) IsIncome() bool {
	return t.Direction == DirectionIncome
}

// HasClue reports whether the transaction carries the given clue.
func (t Transaction) HasClue(clue string) bool {
	for _, c := range t.Clues {
		if c == clue {
			return true
		}
	}
	return false
}

// NormalizeClues deduplicates and sorts a clue set so that structurally
// equal transactions compare equal regardless of detection order.
func NormalizeClues(clues []string) []string {
	if len(clues) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(clues))
	result := make([]string, 0, len(clues))
	for _, clue := range clues {
		if _, ok := seen[clue]; ok {
			continue
		}
		seen[clue] = struct{}{}
		result = append(result, clue)
	}

	sort.Strings(result)
	return result
}
