package service

import (
	"time"

	"github.com/mmynk/expensecentral/internal/calculator"
	"github.com/mmynk/expensecentral/internal/models"
	"github.com/mmynk/expensecentral/pkg/api"
)

// optionalTime maps the zero time to nil.
func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:             u.ID,
		Email:          u.Email,
		DisplayName:    u.DisplayName,
		AvatarURL:      u.AvatarURL,
		PaymentAddress: u.PaymentAddress,
		CreatedAt:      u.CreatedAt,
	}
}

func toAPITransaction(t *models.Transaction) *api.Transaction {
	return &api.Transaction{
		ID:          t.ID,
		PayerID:     t.PayerID,
		Amount:      t.Amount,
		Description: t.Description,
		Involved:    t.Involved,
		Splits:      t.Splits,
		Category:    string(t.Category),
		CreatedAt:   t.CreatedAt,
	}
}

func toAPIExpense(e *models.PersonalExpense) *api.PersonalExpense {
	return &api.PersonalExpense{
		ID:          e.ID,
		Amount:      e.Amount,
		Description: e.Description,
		Category:    string(e.Category),
		CreatedAt:   e.CreatedAt,
	}
}

func toAPISettlement(s *models.SettlementRequest) *api.SettlementRequest {
	return &api.SettlementRequest{
		ID:         s.ID,
		LenderID:   s.LenderID,
		BorrowerID: s.BorrowerID,
		Amount:     s.Amount,
		Note:       s.Note,
		Status:     string(s.Status),
		CreatedBy:  s.CreatedBy,
		CreatedAt:  s.CreatedAt,
		ResolvedAt: optionalTime(s.ResolvedAt),
	}
}

func toAPIReminder(r *models.Reminder) *api.Reminder {
	return &api.Reminder{
		ID:         r.ID,
		SenderID:   r.SenderID,
		ReceiverID: r.ReceiverID,
		Amount:     r.Amount,
		Message:    r.Message,
		DueDate:    r.DueDate.Format(api.DateLayout),
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		ResolvedAt: optionalTime(r.ResolvedAt),
	}
}

func toAPIFriendRequest(r *models.FriendRequest) *api.FriendRequest {
	return &api.FriendRequest{
		ID:         r.ID,
		SenderID:   r.SenderID,
		ReceiverID: r.ReceiverID,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		ResolvedAt: optionalTime(r.ResolvedAt),
	}
}

// toAPIHistoryItem converts item and computes its signed effect on
// userID's balance with friendID.
func toAPIHistoryItem(userID, friendID string, item calculator.HistoryItem) *api.HistoryItem {
	out := &api.HistoryItem{
		Kind:        string(item.Kind),
		ID:          item.ID,
		PayerID:     item.PayerID,
		Amount:      item.Amount,
		Description: item.Description,
		Category:    string(item.Category),
		Timestamp:   item.Timestamp,
	}

	switch item.Kind {
	case calculator.HistoryTransaction:
		if item.PayerID == userID {
			out.Share = item.Transaction.ShareOf(friendID)
		} else {
			out.Share = item.Transaction.ShareOf(userID).Neg()
		}
	case calculator.HistorySettlement:
		if item.PayerID == userID {
			out.Share = item.Amount
		} else {
			out.Share = item.Amount.Neg()
		}
	}
	return out
}

func mapSlice[T, U any](in []T, f func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
