package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReminderStatus is the lifecycle state of a reminder.
type ReminderStatus string

const (
	ReminderPending ReminderStatus = "pending"
	ReminderDone    ReminderStatus = "done"
)

// Reminder asks the receiver to pay the sender. Reminders never affect balances.
type Reminder struct {
	ID         string
	SenderID   string
	ReceiverID string
	Amount     decimal.Decimal
	Message    string

	// DueDate is a calendar date; only the year, month and day are meaningful.
	DueDate time.Time

	Status     ReminderStatus
	CreatedAt  time.Time
	ResolvedAt time.Time
}

// IsPending reports whether the reminder has not been marked done.
func (r *Reminder) IsPending() bool {
	return r.Status == ReminderPending
}

// Between reports whether the reminder is between a and b, in either direction.
func (r *Reminder) Between(a, b string) bool {
	return (r.SenderID == a && r.ReceiverID == b) || (r.SenderID == b && r.ReceiverID == a)
}
