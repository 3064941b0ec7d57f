package workflow

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/expensecentral/internal/models"
)

// DefaultReminderDue is how far out a reminder's due date is set when none is given.
const DefaultReminderDue = 3 * 24 * time.Hour

// NewReminder builds a pending reminder from sender to receiver.
// A zero dueDate defaults to DefaultReminderDue after now.
func NewReminder(senderID, receiverID string, amount decimal.Decimal, message string, dueDate, now time.Time) (*models.Reminder, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", models.ErrInvalidAmount, amount)
	}
	if senderID == "" || receiverID == "" || senderID == receiverID {
		return nil, fmt.Errorf("%w: reminder needs two distinct users", models.ErrInvalidParticipants)
	}
	if dueDate.IsZero() {
		dueDate = now.Add(DefaultReminderDue)
	}
	y, m, d := dueDate.Date()
	return &models.Reminder{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     amount,
		Message:    message,
		DueDate:    time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Status:     models.ReminderPending,
		CreatedAt:  now,
	}, nil
}

// ReminderMessage is the standard text of a payment reminder.
func ReminderMessage(amount decimal.Decimal) string {
	return fmt.Sprintf("Please pay %s you owe me on ExpenseCentral.", amount.StringFixed(0))
}

// MarkReminderDone resolves a pending reminder in place.
func MarkReminderDone(r *models.Reminder, now time.Time) error {
	if !r.IsPending() {
		return fmt.Errorf("%w: reminder %s is %s", models.ErrNotPending, r.ID, r.Status)
	}
	r.Status = models.ReminderDone
	r.ResolvedAt = now
	return nil
}
