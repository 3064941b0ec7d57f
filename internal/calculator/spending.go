package calculator

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/expensecentral/internal/models"
)

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category models.Category
	Amount   decimal.Decimal
}

// Spending is what a user spent in a time window.
type Spending struct {
	Total decimal.Decimal
	// ByCategory is sorted by amount, largest first; ties by category name.
	ByCategory []CategoryTotal
}

// ComputeSpending adds up the user's personal expenses and the user's share
// of shared transactions created in [from, to). A zero to means no upper
// bound. Shares of zero are skipped; transactions without a category count
// as CategoryOther.
func ComputeSpending(userID string, personal []*models.PersonalExpense, transactions []*models.Transaction, from, to time.Time) Spending {
	inRange := func(t time.Time) bool {
		if t.Before(from) {
			return false
		}
		return to.IsZero() || t.Before(to)
	}

	byCat := make(map[models.Category]decimal.Decimal)
	total := decimal.Zero
	add := func(c models.Category, amount decimal.Decimal) {
		if c == "" {
			c = models.CategoryOther
		}
		byCat[c] = byCat[c].Add(amount)
		total = total.Add(amount)
	}

	for _, e := range personal {
		if e.UserID == userID && inRange(e.CreatedAt) {
			add(e.Category, e.Amount)
		}
	}
	for _, t := range transactions {
		if !t.IsInvolved(userID) || !inRange(t.CreatedAt) {
			continue
		}
		if share := t.ShareOf(userID); share.IsPositive() {
			add(t.Category, share)
		}
	}

	out := Spending{Total: total}
	for c, amt := range byCat {
		out.ByCategory = append(out.ByCategory, CategoryTotal{Category: c, Amount: amt})
	}
	slices.SortFunc(out.ByCategory, func(a, b CategoryTotal) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// StartOfMonth returns midnight on the first day of now's month, in now's location.
func StartOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
