package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/expensecentral/internal/calculator"
	"github.com/mmynk/expensecentral/internal/models"
	"github.com/mmynk/expensecentral/internal/notify"
	"github.com/mmynk/expensecentral/internal/workflow"
	"github.com/mmynk/expensecentral/pkg/api"
	"github.com/mmynk/expensecentral/pkg/api/apiconnect"
)

var errNothingOwed = errors.New("nothing owed")

var _ apiconnect.SettlementServiceHandler = (*SettlementService)(nil)

// SettlementService implements the Connect SettlementService: settlement
// requests, reminders and the notification summary.
type SettlementService struct {
	base
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(d Deps) *SettlementService {
	return &SettlementService{base: newBase(d)}
}

// createSettlement validates p against the caller's existing requests, stores
// it and tells the responder.
func (s *SettlementService) createSettlement(ctx context.Context, userID string, p workflow.SettlementProposal) (*models.SettlementRequest, error) {
	existing, err := s.Store.ListSettlementRequests(ctx, userID)
	if err != nil {
		return nil, err
	}
	sr, err := workflow.RequestSettlement(p, existing, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.Store.CreateSettlementRequest(ctx, sr); err != nil {
		return nil, err
	}

	s.publish(ctx, notify.Event{
		Type:       notify.SettlementRequested,
		ActorID:    userID,
		Recipients: []string{calculator.Responder(sr)},
		SubjectID:  sr.ID,
		Amount:     sr.Amount.String(),
	})
	s.Logger.Info("Settlement requested",
		"settlement_id", sr.ID,
		"lender_id", sr.LenderID,
		"borrower_id", sr.BorrowerID,
		"amount", sr.Amount.String(),
	)
	return sr, nil
}

// RequestSettlement proposes that the borrower has paid the lender. The
// caller must be one of them and the other must be a friend.
func (s *SettlementService) RequestSettlement(ctx context.Context, req *connect.Request[api.RequestSettlementRequest]) (*connect.Response[api.RequestSettlementResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	var other string
	switch userID {
	case req.Msg.LenderID:
		other = req.Msg.BorrowerID
	case req.Msg.BorrowerID:
		other = req.Msg.LenderID
	default:
		return nil, connectError(errNotParty)
	}
	if other != "" && other != userID {
		if err := s.requireFriend(ctx, userID, other); err != nil {
			return nil, err
		}
	}

	sr, err := s.createSettlement(ctx, userID, workflow.SettlementProposal{
		LenderID:   req.Msg.LenderID,
		BorrowerID: req.Msg.BorrowerID,
		Amount:     req.Msg.Amount,
		Note:       req.Msg.Note,
		CreatedBy:  userID,
	})
	if err != nil {
		s.Logger.Warn("RequestSettlement failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.RequestSettlementResponse{Settlement: toAPISettlement(sr)}), nil
}

// RespondToSettlement accepts or rejects a pending settlement. Only the
// party who did not propose it may respond.
func (s *SettlementService) RespondToSettlement(ctx context.Context, req *connect.Request[api.RespondToSettlementRequest]) (*connect.Response[api.RespondToSettlementResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	sr, err := s.Store.GetSettlementRequest(ctx, req.Msg.SettlementID)
	if err != nil {
		return nil, connectError(err)
	}
	if !sr.Involves(userID) {
		return nil, connectError(errNotParty)
	}
	if !sr.IsPending() {
		return nil, connectError(fmt.Errorf("%w: settlement %s is %s", models.ErrNotPending, sr.ID, sr.Status))
	}
	if calculator.Responder(sr) != userID {
		return nil, connectError(fmt.Errorf("%w: only the other party can respond", errNotParty))
	}

	if err := workflow.RespondToSettlement(sr, req.Msg.Accept, s.now()); err != nil {
		return nil, connectError(err)
	}
	if err := s.Store.ResolveSettlementRequest(ctx, sr); err != nil {
		s.Logger.Warn("Failed to resolve settlement", "settlement_id", sr.ID, "error", err)
		return nil, connectError(err)
	}
	s.Metrics.SettlementOutcomes.WithLabelValues(string(sr.Status)).Inc()

	eventType := notify.SettlementRejected
	if sr.Status == models.SettlementAccepted {
		eventType = notify.SettlementAccepted
	}
	s.publish(ctx, notify.Event{
		Type:       eventType,
		ActorID:    userID,
		Recipients: []string{sr.CreatedBy},
		SubjectID:  sr.ID,
		Amount:     sr.Amount.String(),
	})
	s.Logger.Info("Settlement resolved", "settlement_id", sr.ID, "status", sr.Status, "user_id", userID)
	return connect.NewResponse(&api.RespondToSettlementResponse{Settlement: toAPISettlement(sr)}), nil
}

// ListSettlementRequests returns the caller's settlement requests, newest first.
func (s *SettlementService) ListSettlementRequests(ctx context.Context, req *connect.Request[api.ListSettlementRequestsRequest]) (*connect.Response[api.ListSettlementRequestsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	settlements, err := s.Store.ListSettlementRequests(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.ListSettlementRequestsResponse{
		Settlements: mapSlice(settlements, toAPISettlement),
	}), nil
}

// balances folds the caller's transactions and settlements.
func (s *SettlementService) balances(ctx context.Context, userID string) (calculator.Balances, error) {
	txs, err := s.Store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.Store.ListSettlementRequests(ctx, userID)
	if err != nil {
		return nil, err
	}
	return calculator.ComputeBalances(userID, txs, settlements), nil
}

// SettleUp requests a settlement for everything the caller owes the friend.
func (s *SettlementService) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	friendID := req.Msg.FriendID
	if err := s.requireFriend(ctx, userID, friendID); err != nil {
		return nil, err
	}

	balances, err := s.balances(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}
	owed := balances.Of(friendID)
	if !owed.IsNegative() {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("%w: you do not owe %s", errNothingOwed, friendID))
	}

	friendName := friendID
	if friend, err := s.Store.GetUserByID(ctx, friendID); err == nil {
		friendName = friend.DisplayName
	}

	sr, err := s.createSettlement(ctx, userID, workflow.SettlementProposal{
		LenderID:   friendID,
		BorrowerID: userID,
		Amount:     owed.Abs().Round(0),
		Note:       "Settle up with " + friendName,
		CreatedBy:  userID,
	})
	if err != nil {
		s.Logger.Warn("SettleUp failed", "user_id", userID, "friend_id", friendID, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.SettleUpResponse{Settlement: toAPISettlement(sr)}), nil
}

// createReminder stores r and tells the receiver.
func (s *SettlementService) createReminder(ctx context.Context, r *models.Reminder) error {
	if err := s.Store.CreateReminder(ctx, r); err != nil {
		return err
	}
	s.publish(ctx, notify.Event{
		Type:       notify.ReminderCreated,
		ActorID:    r.SenderID,
		Recipients: []string{r.ReceiverID},
		SubjectID:  r.ID,
		Amount:     r.Amount.String(),
	})
	s.Logger.Info("Reminder created", "reminder_id", r.ID, "sender_id", r.SenderID, "receiver_id", r.ReceiverID)
	return nil
}

// CreateReminder asks a friend to pay the caller. Reminders never change balances.
func (s *SettlementService) CreateReminder(ctx context.Context, req *connect.Request[api.CreateReminderRequest]) (*connect.Response[api.CreateReminderResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	var due time.Time
	if req.Msg.DueDate != "" {
		due, err = time.Parse(api.DateLayout, req.Msg.DueDate)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid due date: %w", err))
		}
	}
	message := req.Msg.Message
	if message == "" {
		message = workflow.ReminderMessage(req.Msg.Amount)
	}

	r, err := workflow.NewReminder(userID, req.Msg.ReceiverID, req.Msg.Amount, message, due, s.now())
	if err != nil {
		return nil, connectError(err)
	}
	if err := s.requireFriend(ctx, userID, r.ReceiverID); err != nil {
		return nil, err
	}
	if err := s.createReminder(ctx, r); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.CreateReminderResponse{Reminder: toAPIReminder(r)}), nil
}

// MarkReminderDone resolves a pending reminder. Either party may do it.
func (s *SettlementService) MarkReminderDone(ctx context.Context, req *connect.Request[api.MarkReminderDoneRequest]) (*connect.Response[api.MarkReminderDoneResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	r, err := s.Store.GetReminder(ctx, req.Msg.ReminderID)
	if err != nil {
		return nil, connectError(err)
	}
	if r.SenderID != userID && r.ReceiverID != userID {
		return nil, connectError(errNotParty)
	}

	if err := workflow.MarkReminderDone(r, s.now()); err != nil {
		return nil, connectError(err)
	}
	if err := s.Store.ResolveReminder(ctx, r); err != nil {
		return nil, connectError(err)
	}

	other := r.SenderID
	if other == userID {
		other = r.ReceiverID
	}
	s.publish(ctx, notify.Event{
		Type:       notify.ReminderDone,
		ActorID:    userID,
		Recipients: []string{other},
		SubjectID:  r.ID,
	})
	return connect.NewResponse(&api.MarkReminderDoneResponse{Reminder: toAPIReminder(r)}), nil
}

// RemindFriend reminds the friend of everything they owe the caller,
// due in three days with the standard message.
func (s *SettlementService) RemindFriend(ctx context.Context, req *connect.Request[api.RemindFriendRequest]) (*connect.Response[api.RemindFriendResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	friendID := req.Msg.FriendID
	if err := s.requireFriend(ctx, userID, friendID); err != nil {
		return nil, err
	}

	balances, err := s.balances(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}
	due := balances.Of(friendID)
	if !due.IsPositive() {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("%w: %s does not owe you", errNothingOwed, friendID))
	}

	amount := due.Round(0)
	r, err := workflow.NewReminder(userID, friendID, amount, workflow.ReminderMessage(amount), time.Time{}, s.now())
	if err != nil {
		return nil, connectError(err)
	}
	if err := s.createReminder(ctx, r); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.RemindFriendResponse{Reminder: toAPIReminder(r)}), nil
}

// ListReminders returns reminders the caller sent or received, newest first.
func (s *SettlementService) ListReminders(ctx context.Context, req *connect.Request[api.ListRemindersRequest]) (*connect.Response[api.ListRemindersResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	reminders, err := s.Store.ListReminders(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.ListRemindersResponse{
		Reminders: mapSlice(reminders, toAPIReminder),
	}), nil
}

// GetNotifications lists the pending items waiting on the caller.
func (s *SettlementService) GetNotifications(ctx context.Context, req *connect.Request[api.GetNotificationsRequest]) (*connect.Response[api.GetNotificationsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	friendRequests, err := s.Store.ListFriendRequests(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}
	settlements, err := s.Store.ListSettlementRequests(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}
	reminders, err := s.Store.ListReminders(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}

	n := calculator.AggregateNotifications(userID, friendRequests, settlements, reminders)
	resp := &api.GetNotificationsResponse{
		IncomingFriendRequests: []*api.FriendRequest{},
		IncomingSettlements:    []*api.SettlementRequest{},
		OutgoingSettlements:    []*api.SettlementRequest{},
		IncomingReminders:      []*api.Reminder{},
		HasPending:             n.HasPending(),
	}
	for _, r := range friendRequests {
		if r.IsPending() && r.ReceiverID == userID {
			resp.IncomingFriendRequests = append(resp.IncomingFriendRequests, toAPIFriendRequest(r))
		}
	}
	for _, sr := range settlements {
		if !sr.IsPending() {
			continue
		}
		if calculator.Responder(sr) == userID {
			resp.IncomingSettlements = append(resp.IncomingSettlements, toAPISettlement(sr))
		} else {
			resp.OutgoingSettlements = append(resp.OutgoingSettlements, toAPISettlement(sr))
		}
	}
	for _, r := range reminders {
		if r.IsPending() && r.ReceiverID == userID {
			resp.IncomingReminders = append(resp.IncomingReminders, toAPIReminder(r))
		}
	}
	return connect.NewResponse(resp), nil
}
