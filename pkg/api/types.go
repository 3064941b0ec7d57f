// Package api defines the request and response messages of the
// expensecentral.v1 services. Messages travel as JSON; amounts are decimal
// strings and timestamps are RFC 3339.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"displayName"`
	AvatarURL      string    `json:"avatarUrl,omitempty"`
	PaymentAddress string    `json:"paymentAddress,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Transaction struct {
	ID          string                     `json:"id"`
	PayerID     string                     `json:"payerId"`
	Amount      decimal.Decimal            `json:"amount"`
	Description string                     `json:"description"`
	Involved    []string                   `json:"involved"`
	Splits      map[string]decimal.Decimal `json:"splits,omitempty"`
	Category    string                     `json:"category"`
	CreatedAt   time.Time                  `json:"createdAt"`
}

type PersonalExpense struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type SettlementRequest struct {
	ID         string          `json:"id"`
	LenderID   string          `json:"lenderId"`
	BorrowerID string          `json:"borrowerId"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
	Status     string          `json:"status"`
	CreatedBy  string          `json:"createdBy"`
	CreatedAt  time.Time       `json:"createdAt"`
	// ResolvedAt is nil while pending.
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

type Reminder struct {
	ID         string          `json:"id"`
	SenderID   string          `json:"senderId"`
	ReceiverID string          `json:"receiverId"`
	Amount     decimal.Decimal `json:"amount"`
	Message    string          `json:"message"`
	// DueDate is formatted as YYYY-MM-DD.
	DueDate    string     `json:"dueDate"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

type FriendRequest struct {
	ID         string     `json:"id"`
	SenderID   string     `json:"senderId"`
	ReceiverID string     `json:"receiverId"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

// HistoryItem is one row of a friend conversation: a shared transaction or
// a synthesized "Settled Up" row for an accepted settlement.
type HistoryItem struct {
	Kind        string          `json:"kind"`
	ID          string          `json:"id"`
	PayerID     string          `json:"payerId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
	// Share is the signed effect on the caller's balance with the friend.
	Share decimal.Decimal `json:"share"`
}

type FriendSummary struct {
	Friend          *User           `json:"friend"`
	Balance         decimal.Decimal `json:"balance"`
	HasNotification bool            `json:"hasNotification"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Auth

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// UpdateProfileRequest changes the non-nil fields only.
type UpdateProfileRequest struct {
	DisplayName    *string `json:"displayName,omitempty"`
	AvatarURL      *string `json:"avatarUrl,omitempty"`
	PaymentAddress *string `json:"paymentAddress,omitempty"`
}

type UpdateProfileResponse struct {
	User *User `json:"user"`
}

// Friends

type SendFriendRequestRequest struct {
	Email string `json:"email"`
}

type SendFriendRequestResponse struct {
	Request *FriendRequest `json:"request"`
}

type RespondToFriendRequestRequest struct {
	RequestID string `json:"requestId"`
	Accept    bool   `json:"accept"`
}

type RespondToFriendRequestResponse struct {
	Request *FriendRequest `json:"request"`
}

type ListFriendsRequest struct{}

type ListFriendsResponse struct {
	Friends []*User `json:"friends"`
}

type ListFriendRequestsRequest struct{}

type ListFriendRequestsResponse struct {
	Incoming []*FriendRequest `json:"incoming"`
	Outgoing []*FriendRequest `json:"outgoing"`
}

// Ledger

type ComputeSplitsRequest struct {
	Amount       decimal.Decimal            `json:"amount"`
	Participants []string                   `json:"participants"`
	Mode         string                     `json:"mode"`
	Shares       map[string]decimal.Decimal `json:"shares,omitempty"`
	// NoRounding keeps full precision equal shares.
	NoRounding bool `json:"noRounding,omitempty"`
}

type ComputeSplitsResponse struct {
	Splits map[string]decimal.Decimal `json:"splits"`
}

type CreateTransactionRequest struct {
	// PayerID defaults to the caller.
	PayerID     string                     `json:"payerId,omitempty"`
	Amount      decimal.Decimal            `json:"amount"`
	Description string                     `json:"description"`
	Involved    []string                   `json:"involved"`
	Mode        string                     `json:"mode"`
	Shares      map[string]decimal.Decimal `json:"shares,omitempty"`
	NoRounding  bool                       `json:"noRounding,omitempty"`
	// Category is detected from the description when empty.
	Category string `json:"category,omitempty"`
}

type CreateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type DeleteTransactionRequest struct {
	TransactionID string `json:"transactionId"`
}

type DeleteTransactionResponse struct{}

type ListTransactionsRequest struct{}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type AddPersonalExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
}

type AddPersonalExpenseResponse struct {
	Expense *PersonalExpense `json:"expense"`
}

type DeletePersonalExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type DeletePersonalExpenseResponse struct{}

type ListPersonalExpensesRequest struct{}

type ListPersonalExpensesResponse struct {
	Expenses []*PersonalExpense `json:"expenses"`
}

type GetBalancesRequest struct{}

type GetBalancesResponse struct {
	// Balances maps counterparty ID to balance: positive means they owe the caller.
	Balances map[string]decimal.Decimal `json:"balances"`
	Net      decimal.Decimal            `json:"net"`
	Friends  []*FriendSummary           `json:"friends"`
}

type GetHistoryRequest struct {
	FriendID string `json:"friendId"`
}

type GetHistoryResponse struct {
	Items   []*HistoryItem  `json:"items"`
	Balance decimal.Decimal `json:"balance"`
}

type GetSpendingStatsRequest struct {
	// From and To bound the window; a nil From means the start of the current month.
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

type GetSpendingStatsResponse struct {
	Total      decimal.Decimal  `json:"total"`
	ByCategory []*CategoryTotal `json:"byCategory"`
}

// Settlements and reminders

type RequestSettlementRequest struct {
	LenderID   string          `json:"lenderId"`
	BorrowerID string          `json:"borrowerId"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
}

type RequestSettlementResponse struct {
	Settlement *SettlementRequest `json:"settlement"`
}

type RespondToSettlementRequest struct {
	SettlementID string `json:"settlementId"`
	Accept       bool   `json:"accept"`
}

type RespondToSettlementResponse struct {
	Settlement *SettlementRequest `json:"settlement"`
}

type ListSettlementRequestsRequest struct{}

type ListSettlementRequestsResponse struct {
	Settlements []*SettlementRequest `json:"settlements"`
}

// SettleUpRequest asks the friend to confirm payment of everything the
// caller owes them, rounded to a whole unit.
type SettleUpRequest struct {
	FriendID string `json:"friendId"`
}

type SettleUpResponse struct {
	Settlement *SettlementRequest `json:"settlement"`
}

type CreateReminderRequest struct {
	ReceiverID string          `json:"receiverId"`
	Amount     decimal.Decimal `json:"amount"`
	Message    string          `json:"message,omitempty"`
	// DueDate is YYYY-MM-DD; empty means three days from now.
	DueDate string `json:"dueDate,omitempty"`
}

type CreateReminderResponse struct {
	Reminder *Reminder `json:"reminder"`
}

type MarkReminderDoneRequest struct {
	ReminderID string `json:"reminderId"`
}

type MarkReminderDoneResponse struct {
	Reminder *Reminder `json:"reminder"`
}

// RemindFriendRequest reminds the friend of everything they owe the caller,
// rounded to a whole unit.
type RemindFriendRequest struct {
	FriendID string `json:"friendId"`
}

type RemindFriendResponse struct {
	Reminder *Reminder `json:"reminder"`
}

type ListRemindersRequest struct{}

type ListRemindersResponse struct {
	Reminders []*Reminder `json:"reminders"`
}

type GetNotificationsRequest struct{}

type GetNotificationsResponse struct {
	IncomingFriendRequests []*FriendRequest     `json:"incomingFriendRequests"`
	IncomingSettlements    []*SettlementRequest `json:"incomingSettlements"`
	OutgoingSettlements    []*SettlementRequest `json:"outgoingSettlements"`
	IncomingReminders      []*Reminder          `json:"incomingReminders"`
	HasPending             bool                 `json:"hasPending"`
}
