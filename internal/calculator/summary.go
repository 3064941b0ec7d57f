package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/expensecentral/internal/models"
)

// FriendSummary is one row of the friends list.
type FriendSummary struct {
	FriendID string
	Balance  decimal.Decimal
	// HasNotification is set when the friend paid something involving the
	// user today, or when a settlement or reminder between them is pending.
	HasNotification bool
}

// SummarizeFriends computes the balance and notification flag for each friend
// in the order given.
func SummarizeFriends(userID string, friendIDs []string, transactions []*models.Transaction, settlements []*models.SettlementRequest, reminders []*models.Reminder, now time.Time) []FriendSummary {
	bal := ComputeBalances(userID, transactions, settlements)

	summaries := make([]FriendSummary, 0, len(friendIDs))
	for _, fid := range friendIDs {
		summaries = append(summaries, FriendSummary{
			FriendID: fid,
			Balance:  bal.Of(fid),
			HasNotification: HasRecentActivity(userID, fid, transactions, now) ||
				HasPendingSettlement(userID, fid, settlements) ||
				HasPendingReminder(userID, fid, reminders),
		})
	}
	return summaries
}
