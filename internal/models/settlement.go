package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus is the lifecycle state of a settlement request.
type SettlementStatus string

const (
	SettlementPending  SettlementStatus = "pending"
	SettlementAccepted SettlementStatus = "accepted"
	SettlementRejected SettlementStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s SettlementStatus) Valid() bool {
	switch s {
	case SettlementPending, SettlementAccepted, SettlementRejected:
		return true
	}
	return false
}

// SettlementRequest is a proposal that the borrower has paid the lender.
// It moves from pending to accepted or rejected exactly once.
type SettlementRequest struct {
	// ID is the unique identifier for the settlement request (UUID format).
	ID string

	// LenderID is the party owed money.
	LenderID string

	// BorrowerID is the party who owes and is paying it off.
	BorrowerID string

	// Amount is the settled amount. Always positive.
	Amount decimal.Decimal

	// Note is an optional description for the settlement.
	Note string

	Status SettlementStatus

	// CreatedBy is the user who proposed the settlement. The other party
	// is the one who approves or rejects it.
	CreatedBy string

	CreatedAt time.Time

	// ResolvedAt is set when the request leaves pending. Zero while pending.
	ResolvedAt time.Time
}

// IsPending reports whether the request is still awaiting a response.
func (s *SettlementRequest) IsPending() bool {
	return s.Status == SettlementPending
}

// Involves reports whether userID is the lender or the borrower.
func (s *SettlementRequest) Involves(userID string) bool {
	return s.LenderID == userID || s.BorrowerID == userID
}

// Between reports whether the request is between a and b, in either direction.
func (s *SettlementRequest) Between(a, b string) bool {
	return (s.LenderID == a && s.BorrowerID == b) || (s.LenderID == b && s.BorrowerID == a)
}

// EffectiveTime is the resolution time, falling back to the creation time.
func (s *SettlementRequest) EffectiveTime() time.Time {
	if s.ResolvedAt.IsZero() {
		return s.CreatedAt
	}
	return s.ResolvedAt
}
