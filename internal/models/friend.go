package models

import "time"

// FriendRequestStatus is the lifecycle state of a friend request.
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// FriendRequest asks the receiver to become friends with the sender.
type FriendRequest struct {
	ID         string
	SenderID   string
	ReceiverID string
	Status     FriendRequestStatus
	CreatedAt  time.Time
	ResolvedAt time.Time
}

// IsPending reports whether the request is still awaiting a response.
func (r *FriendRequest) IsPending() bool {
	return r.Status == FriendRequestPending
}

// Friendship is one direction of a symmetric friend relationship.
// Accepting a request creates both directions together.
type Friendship struct {
	UserID    string
	FriendID  string
	CreatedAt time.Time
}
