package domain

import "time"

// TransactionType distinguishes money in from money out.
type TransactionType string

// Transaction type constants
const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a single raw transaction as materialized by the
// transaction store. Amounts are always positive; the type carries the sign.
type Transaction struct {
	ID       string          // unique transaction identifier
	UserID   string          // owning user scope
	Date     time.Time       // transaction date
	Amount   float64         // positive amount
	Type     TransactionType // income or expense
	Category string          // free-form category label, may be empty
}

// IsIncome reports whether the transaction adds to the balance.
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// Signed returns the amount with income positive and expense negative.
func (t *Transaction) Signed() float64 {
	if t.Type == TransactionTypeExpense {
		return -t.Amount
	}
	return t.Amount
}
