package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/expensecentral/internal/auth"
	"github.com/mmynk/expensecentral/internal/models"
	"github.com/mmynk/expensecentral/internal/notify"
	"github.com/mmynk/expensecentral/internal/storage"
	"github.com/mmynk/expensecentral/internal/workflow"
	"github.com/mmynk/expensecentral/pkg/api"
	"github.com/mmynk/expensecentral/pkg/api/apiconnect"
)

var _ apiconnect.FriendServiceHandler = (*FriendService)(nil)

// FriendService implements the Connect FriendService.
type FriendService struct {
	base
}

// NewFriendService creates a new FriendService.
func NewFriendService(d Deps) *FriendService {
	return &FriendService{base: newBase(d)}
}

// SendFriendRequest sends a friend request to the account registered with the email.
func (s *FriendService) SendFriendRequest(ctx context.Context, req *connect.Request[api.SendFriendRequestRequest]) (*connect.Response[api.SendFriendRequestResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	email, err := auth.NormalizeEmail(req.Msg.Email)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	receiver, err := s.Store.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("no user with that email"))
	}
	if err != nil {
		return nil, connectError(err)
	}

	friends, err := s.Store.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}
	// Includes requests the receiver sent to the caller.
	requests, err := s.Store.ListFriendRequests(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}

	fr, err := workflow.NewFriendRequest(userID, receiver.ID, friends, requests, s.now())
	if err != nil {
		s.Logger.Warn("Friend request refused", "user_id", userID, "receiver_id", receiver.ID, "error", err)
		return nil, connectError(err)
	}
	if err := s.Store.CreateFriendRequest(ctx, fr); err != nil {
		s.Logger.Error("Failed to create friend request", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	s.publish(ctx, notify.Event{
		Type:       notify.FriendRequestSent,
		ActorID:    userID,
		Recipients: []string{receiver.ID},
		SubjectID:  fr.ID,
	})
	s.Logger.Info("Friend request sent", "request_id", fr.ID, "user_id", userID, "receiver_id", receiver.ID)
	return connect.NewResponse(&api.SendFriendRequestResponse{Request: toAPIFriendRequest(fr)}), nil
}

// RespondToFriendRequest accepts or rejects a request sent to the caller.
func (s *FriendService) RespondToFriendRequest(ctx context.Context, req *connect.Request[api.RespondToFriendRequestRequest]) (*connect.Response[api.RespondToFriendRequestResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	fr, err := s.Store.GetFriendRequest(ctx, req.Msg.RequestID)
	if err != nil {
		return nil, connectError(err)
	}
	if fr.ReceiverID != userID {
		return nil, connectError(errNotParty)
	}

	friendships, err := workflow.RespondToFriendRequest(fr, req.Msg.Accept, s.now())
	if err != nil {
		return nil, connectError(err)
	}
	if err := s.Store.ResolveFriendRequest(ctx, fr, friendships); err != nil {
		s.Logger.Error("Failed to resolve friend request", "request_id", fr.ID, "error", err)
		return nil, connectError(err)
	}

	eventType := notify.FriendRequestRejected
	if fr.Status == models.FriendRequestAccepted {
		eventType = notify.FriendRequestAccepted
	}
	s.publish(ctx, notify.Event{
		Type:       eventType,
		ActorID:    userID,
		Recipients: []string{fr.SenderID},
		SubjectID:  fr.ID,
	})
	s.Logger.Info("Friend request resolved", "request_id", fr.ID, "status", fr.Status)
	return connect.NewResponse(&api.RespondToFriendRequestResponse{Request: toAPIFriendRequest(fr)}), nil
}

// ListFriends returns the caller's friends, oldest friendship first.
func (s *FriendService) ListFriends(ctx context.Context, req *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := s.Store.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}
	users, err := s.Store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, connectError(err)
	}

	friends := make([]*api.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			friends = append(friends, toAPIUser(u))
		}
	}
	return connect.NewResponse(&api.ListFriendsResponse{Friends: friends}), nil
}

// ListFriendRequests returns the caller's friend requests split by direction, newest first.
func (s *FriendService) ListFriendRequests(ctx context.Context, req *connect.Request[api.ListFriendRequestsRequest]) (*connect.Response[api.ListFriendRequestsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := s.Store.ListFriendRequests(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}

	resp := &api.ListFriendRequestsResponse{
		Incoming: []*api.FriendRequest{},
		Outgoing: []*api.FriendRequest{},
	}
	for _, r := range requests {
		if r.ReceiverID == userID {
			resp.Incoming = append(resp.Incoming, toAPIFriendRequest(r))
		} else {
			resp.Outgoing = append(resp.Outgoing, toAPIFriendRequest(r))
		}
	}
	return connect.NewResponse(resp), nil
}
