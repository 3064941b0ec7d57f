package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/expensecentral/internal/models"
)

var (
	// ErrSelfFriend is returned when a user tries to befriend themselves.
	ErrSelfFriend = errors.New("cannot add yourself as a friend")
	// ErrAlreadyFriends is returned when the users are already friends.
	ErrAlreadyFriends = errors.New("already friends")
	// ErrRequestExists is returned when a pending request between the users exists.
	ErrRequestExists = errors.New("friend request already sent")
)

// NewFriendRequest builds a pending friend request from sender to receiver.
// friends are the sender's current friend IDs and pending the sender's known
// friend requests.
func NewFriendRequest(senderID, receiverID string, friends []string, pending []*models.FriendRequest, now time.Time) (*models.FriendRequest, error) {
	if senderID == receiverID {
		return nil, ErrSelfFriend
	}
	for _, f := range friends {
		if f == receiverID {
			return nil, ErrAlreadyFriends
		}
	}
	for _, r := range pending {
		if !r.IsPending() {
			continue
		}
		if (r.SenderID == senderID && r.ReceiverID == receiverID) ||
			(r.SenderID == receiverID && r.ReceiverID == senderID) {
			return nil, ErrRequestExists
		}
	}
	return &models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.FriendRequestPending,
		CreatedAt:  now,
	}, nil
}

// RespondToFriendRequest resolves a pending friend request in place. On
// accept it returns both directions of the new friendship, to be stored
// together.
func RespondToFriendRequest(r *models.FriendRequest, accept bool, now time.Time) ([]models.Friendship, error) {
	if !r.IsPending() {
		return nil, fmt.Errorf("%w: friend request %s is %s", models.ErrNotPending, r.ID, r.Status)
	}
	r.ResolvedAt = now
	if !accept {
		r.Status = models.FriendRequestRejected
		return nil, nil
	}
	r.Status = models.FriendRequestAccepted
	return []models.Friendship{
		{UserID: r.ReceiverID, FriendID: r.SenderID, CreatedAt: now},
		{UserID: r.SenderID, FriendID: r.ReceiverID, CreatedAt: now},
	}, nil
}
