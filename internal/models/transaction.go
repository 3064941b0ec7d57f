package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a shared expense.
// Transactions are immutable once created; the only lifecycle step after
// creation is a hard delete.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// PayerID is the user who fronted the money.
	PayerID string

	// Amount is the total paid. Always positive.
	Amount decimal.Decimal

	Description string

	// Involved lists the users sharing the cost, in the order they were
	// selected. The payer may or may not be included.
	Involved []string

	// Splits maps user ID to owed amount. When nil the cost is split equally
	// across Involved. Keys are a subset of Involved.
	Splits map[string]decimal.Decimal

	Category Category

	CreatedAt time.Time
}

// IsInvolved reports whether userID shares the cost of the transaction.
func (t *Transaction) IsInvolved(userID string) bool {
	return slices.Contains(t.Involved, userID)
}

// HasShare reports whether userID carries part of the cost: a split key when
// splits are present, otherwise an involved user.
func (t *Transaction) HasShare(userID string) bool {
	if t.Splits != nil {
		if _, ok := t.Splits[userID]; ok {
			return true
		}
	}
	return t.IsInvolved(userID)
}

// ShareOf returns the amount userID owes for this transaction.
// With explicit splits a missing key owes nothing; otherwise the amount is
// divided equally across Involved. Users outside Involved owe nothing.
func (t *Transaction) ShareOf(userID string) decimal.Decimal {
	if t.Splits != nil {
		return t.Splits[userID]
	}
	if len(t.Involved) == 0 || !t.IsInvolved(userID) {
		return decimal.Zero
	}
	return t.Amount.Div(decimal.NewFromInt(int64(len(t.Involved))))
}

// Parties returns the payer and the involved users, without duplicates and
// without exclude, payer first.
func (t *Transaction) Parties(exclude string) []string {
	parties := make([]string, 0, len(t.Involved)+1)
	for _, id := range append([]string{t.PayerID}, t.Involved...) {
		if id != exclude && !slices.Contains(parties, id) {
			parties = append(parties, id)
		}
	}
	return parties
}

// PersonalExpense is a one-off expense owned by a single user.
type PersonalExpense struct {
	ID          string
	UserID      string
	Amount      decimal.Decimal
	Description string
	Category    Category
	CreatedAt   time.Time
}
