package calculator

import (
	"time"

	"github.com/mmynk/expensecentral/internal/models"
)

// Notifications summarizes the items waiting on a user.
type Notifications struct {
	// IncomingFriendRequests are pending friend requests sent to the user.
	IncomingFriendRequests int
	// IncomingSettlements are pending settlement requests the user must answer.
	IncomingSettlements int
	// OutgoingSettlements are pending settlement requests the user proposed.
	OutgoingSettlements int
	// IncomingReminders are pending reminders sent to the user.
	IncomingReminders int
}

// HasPending reports whether anything needs the user's attention.
func (n Notifications) HasPending() bool {
	return n.IncomingFriendRequests > 0 ||
		n.IncomingSettlements > 0 ||
		n.OutgoingSettlements > 0 ||
		n.IncomingReminders > 0
}

// AggregateNotifications counts the pending items addressed to or from userID.
//
// A settlement is incoming when the user has to respond to it: the user is a
// party and did not create it. When CreatedBy is unknown the lender is the
// responder.
func AggregateNotifications(userID string, friendRequests []*models.FriendRequest, settlements []*models.SettlementRequest, reminders []*models.Reminder) Notifications {
	var n Notifications
	for _, r := range friendRequests {
		if r.IsPending() && r.ReceiverID == userID {
			n.IncomingFriendRequests++
		}
	}
	for _, s := range settlements {
		if !s.IsPending() || !s.Involves(userID) {
			continue
		}
		if Responder(s) == userID {
			n.IncomingSettlements++
		} else {
			n.OutgoingSettlements++
		}
	}
	for _, r := range reminders {
		if r.IsPending() && r.ReceiverID == userID {
			n.IncomingReminders++
		}
	}
	return n
}

// Responder returns the user expected to accept or reject the settlement.
func Responder(s *models.SettlementRequest) string {
	if s.CreatedBy == s.LenderID {
		return s.BorrowerID
	}
	return s.LenderID
}

// HasPendingSettlement reports whether a pending settlement exists between a and b.
func HasPendingSettlement(a, b string, settlements []*models.SettlementRequest) bool {
	for _, s := range settlements {
		if s.IsPending() && s.Between(a, b) {
			return true
		}
	}
	return false
}

// HasPendingReminder reports whether a pending reminder exists between a and b.
func HasPendingReminder(a, b string, reminders []*models.Reminder) bool {
	for _, r := range reminders {
		if r.IsPending() && r.Between(a, b) {
			return true
		}
	}
	return false
}

// HasRecentActivity reports whether friendID paid a transaction involving
// userID on the same calendar day as now, in now's location.
func HasRecentActivity(userID, friendID string, transactions []*models.Transaction, now time.Time) bool {
	y, m, d := now.Date()
	for _, t := range transactions {
		if t.PayerID != friendID || !t.IsInvolved(userID) {
			continue
		}
		ty, tm, td := t.CreatedAt.In(now.Location()).Date()
		if ty == y && tm == m && td == d {
			return true
		}
	}
	return false
}
