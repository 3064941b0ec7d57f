package workflow

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/expensecentral/internal/models"
)

// SettlementProposal is the input to RequestSettlement.
type SettlementProposal struct {
	LenderID   string
	BorrowerID string
	Amount     decimal.Decimal
	Note       string
	// CreatedBy is the proposing user, lender or borrower.
	CreatedBy string
}

// RequestSettlement builds a new pending settlement request.
//
// existing is the set of settlement requests already known between the
// users; a new request is refused with ErrDuplicatePending while another one
// between the same two users (in either direction) is still pending.
func RequestSettlement(p SettlementProposal, existing []*models.SettlementRequest, now time.Time) (*models.SettlementRequest, error) {
	if !p.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", models.ErrInvalidAmount, p.Amount)
	}
	if p.LenderID == "" || p.BorrowerID == "" || p.LenderID == p.BorrowerID {
		return nil, fmt.Errorf("%w: settlement needs two distinct users", models.ErrInvalidParticipants)
	}
	createdBy := p.CreatedBy
	if createdBy == "" {
		createdBy = p.BorrowerID
	}
	if createdBy != p.LenderID && createdBy != p.BorrowerID {
		return nil, fmt.Errorf("%w: %s is not a party to the settlement", models.ErrInvalidParticipants, createdBy)
	}
	for _, s := range existing {
		if s.IsPending() && s.Between(p.LenderID, p.BorrowerID) {
			return nil, fmt.Errorf("%w: %s", models.ErrDuplicatePending, s.ID)
		}
	}

	return &models.SettlementRequest{
		LenderID:   p.LenderID,
		BorrowerID: p.BorrowerID,
		Amount:     p.Amount,
		Note:       p.Note,
		Status:     models.SettlementPending,
		CreatedBy:  createdBy,
		CreatedAt:  now,
	}, nil
}

// RespondToSettlement resolves a pending settlement request in place.
// Resolved requests are terminal and return ErrNotPending.
func RespondToSettlement(s *models.SettlementRequest, accept bool, now time.Time) error {
	if !s.IsPending() {
		return fmt.Errorf("%w: settlement %s is %s", models.ErrNotPending, s.ID, s.Status)
	}
	if accept {
		s.Status = models.SettlementAccepted
	} else {
		s.Status = models.SettlementRejected
	}
	s.ResolvedAt = now
	return nil
}
