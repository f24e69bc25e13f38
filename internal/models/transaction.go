package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tells whether money entered or left the account.
type TransactionType string

const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

// Valid reports whether t is one of the two known transaction types.
func (t TransactionType) Valid() bool {
	return t == Credit || t == Debit
}

// Transaction is one normalized statement line.
//
// Amount is always an unsigned magnitude; the sign lives in Type. Category is
// left empty by the conversion pipeline and only filled by the optional
// categorizer.
type Transaction struct {
	ID          string
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	Category    string
}

// IsCredit returns true if the transaction is a credit
func (t Transaction) IsCredit() bool {
	return t.Type == Credit
}

// IsDebit returns true if the transaction is a debit
func (t Transaction) IsDebit() bool {
	return t.Type == Debit
}

// SignedAmount returns the amount with debits negated, the way accounting
// tools expect to read it.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == Debit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ISODate returns the booking date as YYYY-MM-DD.
func (t Transaction) ISODate() string {
	return t.Date.Format(DateLayoutISO)
}

// DedupKey is the composite identity used to detect the same transaction
// imported twice: date, amount and description must all match exactly.
func (t Transaction) DedupKey() string {
	return t.ISODate() + "|" + t.Amount.StringFixed(2) + "|" + t.Description
}
