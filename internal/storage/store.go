// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/expensecentral/internal/models"
)

// ErrNotFound is returned (wrapped) when a record does not exist.
var ErrNotFound = errors.New("not found")

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns ErrNotFound when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// GetUsersByIDs returns the users that exist, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// FriendStore persists the social graph.
type FriendStore interface {
	CreateFriendRequest(ctx context.Context, req *models.FriendRequest) error
	GetFriendRequest(ctx context.Context, id string) (*models.FriendRequest, error)
	// ListFriendRequests returns requests the user sent or received, newest first.
	ListFriendRequests(ctx context.Context, userID string) ([]*models.FriendRequest, error)
	// ResolveFriendRequest stores the request's new status and inserts the
	// friendship rows in one database transaction. It returns
	// models.ErrNotPending when the stored request was already resolved.
	ResolveFriendRequest(ctx context.Context, req *models.FriendRequest, friendships []models.Friendship) error
	// ListFriendIDs returns the user's friends, oldest friendship first.
	ListFriendIDs(ctx context.Context, userID string) ([]string, error)
}

// TransactionStore persists shared transactions. Transactions are never
// updated, only created and deleted.
type TransactionStore interface {
	// CreateTransaction persists a new transaction. ID and CreatedAt are
	// populated when empty.
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	// ListTransactions returns the transactions the user paid or is involved
	// in, newest first.
	ListTransactions(ctx context.Context, userID string) ([]*models.Transaction, error)
}

// ExpenseStore persists personal expenses.
type ExpenseStore interface {
	CreatePersonalExpense(ctx context.Context, e *models.PersonalExpense) error
	GetPersonalExpense(ctx context.Context, id string) (*models.PersonalExpense, error)
	DeletePersonalExpense(ctx context.Context, id string) error
	// ListPersonalExpenses returns the user's expenses, newest first.
	ListPersonalExpenses(ctx context.Context, userID string) ([]*models.PersonalExpense, error)
}

// SettlementStore persists settlement requests.
type SettlementStore interface {
	CreateSettlementRequest(ctx context.Context, s *models.SettlementRequest) error
	GetSettlementRequest(ctx context.Context, id string) (*models.SettlementRequest, error)
	// ResolveSettlementRequest stores the new status and resolution time.
	// It returns models.ErrNotPending when the stored request was already resolved.
	ResolveSettlementRequest(ctx context.Context, s *models.SettlementRequest) error
	// ListSettlementRequests returns requests where the user is lender or
	// borrower, newest first.
	ListSettlementRequests(ctx context.Context, userID string) ([]*models.SettlementRequest, error)
}

// ReminderStore persists reminders.
type ReminderStore interface {
	CreateReminder(ctx context.Context, r *models.Reminder) error
	GetReminder(ctx context.Context, id string) (*models.Reminder, error)
	// ResolveReminder stores the done status. It returns models.ErrNotPending
	// when the stored reminder was already done.
	ResolveReminder(ctx context.Context, r *models.Reminder) error
	// ListReminders returns reminders the user sent or received, newest first.
	ListReminders(ctx context.Context, userID string) ([]*models.Reminder, error)
}

// Store is the record store the services read from and write to.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	FriendStore
	TransactionStore
	ExpenseStore
	SettlementStore
	ReminderStore

	// Close releases any resources held by the store.
	Close() error
}
