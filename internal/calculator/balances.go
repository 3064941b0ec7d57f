package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/expensecentral/internal/models"
)

// Balances maps a counterparty ID to a signed amount from one user's point of view.
// Positive means the counterparty owes the user, negative means the user owes
// the counterparty. Counterparties never seen are absent and read as zero.
type Balances map[string]decimal.Decimal

// Of returns the balance with counterparty, zero when absent.
func (b Balances) Of(counterparty string) decimal.Decimal {
	return b[counterparty]
}

// Net returns the sum of all balances: what the user is owed overall.
func (b Balances) Net() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range b {
		sum = sum.Add(v)
	}
	return sum
}

func (b Balances) add(counterparty string, amount decimal.Decimal) {
	b[counterparty] = b[counterparty].Add(amount)
}

// ComputeBalances folds transactions and accepted settlements into balances
// for userID.
//
// Algorithm:
//   - Transaction paid by the user: every other participant owes the user
//     their share (every split key when splits are present, else every
//     involved user at amount / |involved|).
//   - Transaction paid by someone else that involves the user: the user owes
//     the payer their own share.
//   - Accepted settlement where the user is the lender: the borrower's debt
//     shrinks. Where the user is the borrower: the user's debt shrinks.
//
// Every contribution is an independent exact decimal addition, so the result
// does not depend on the order of either input. Settlements that are not
// accepted are ignored.
func ComputeBalances(userID string, transactions []*models.Transaction, settlements []*models.SettlementRequest) Balances {
	bal := make(Balances)

	for _, t := range transactions {
		switch {
		case t.PayerID == userID:
			if t.Splits != nil {
				for uid, share := range t.Splits {
					if uid != userID {
						bal.add(uid, share)
					}
				}
				continue
			}
			for _, uid := range t.Involved {
				if uid != userID {
					bal.add(uid, t.ShareOf(uid))
				}
			}
		case t.HasShare(userID):
			bal.add(t.PayerID, t.ShareOf(userID).Neg())
		}
	}

	for _, s := range settlements {
		if s.Status != models.SettlementAccepted {
			continue
		}
		if s.LenderID == userID {
			bal.add(s.BorrowerID, s.Amount.Neg())
		} else if s.BorrowerID == userID {
			bal.add(s.LenderID, s.Amount)
		}
	}

	return bal
}
