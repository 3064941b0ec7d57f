package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/expensecentral/internal/calculator"
	"github.com/mmynk/expensecentral/internal/metrics"
	"github.com/mmynk/expensecentral/internal/models"
	"github.com/mmynk/expensecentral/internal/notify"
	"github.com/mmynk/expensecentral/pkg/api"
	"github.com/mmynk/expensecentral/pkg/api/apiconnect"
)

var errDescriptionRequired = errors.New("description is required")

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService: shared transactions,
// personal expenses, and the balances and history derived from them.
type LedgerService struct {
	base
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(d Deps) *LedgerService {
	return &LedgerService{base: newBase(d)}
}

func rounding(noRounding bool) calculator.Rounding {
	if noRounding {
		return calculator.RoundNone
	}
	return calculator.RoundInteger
}

// computeSplits runs the split calculator and counts the outcome.
func (s *LedgerService) computeSplits(amount decimal.Decimal, participants []string, mode string, shares map[string]decimal.Decimal, noRounding bool) (map[string]decimal.Decimal, error) {
	splitMode := calculator.SplitMode(mode)
	if splitMode == "" {
		splitMode = calculator.SplitEqual
	}
	splits, err := calculator.ComputeSplits(amount, participants, splitMode, shares, rounding(noRounding))
	s.Metrics.SplitComputations.WithLabelValues(string(splitMode), metrics.Result(err)).Inc()
	if err != nil && !isDomainError(err) {
		// Unknown mode or rounding.
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return splits, err
}

func isDomainError(err error) bool {
	return errors.Is(err, models.ErrInvalidAmount) ||
		errors.Is(err, models.ErrInvalidParticipants) ||
		errors.Is(err, models.ErrSplitMismatch)
}

// ComputeSplits previews the shares of a transaction without storing it.
func (s *LedgerService) ComputeSplits(ctx context.Context, req *connect.Request[api.ComputeSplitsRequest]) (*connect.Response[api.ComputeSplitsResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	splits, err := s.computeSplits(req.Msg.Amount, req.Msg.Participants, req.Msg.Mode, req.Msg.Shares, req.Msg.NoRounding)
	if err != nil {
		s.Logger.Debug("ComputeSplits failed", "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.ComputeSplitsResponse{Splits: splits}), nil
}

// CreateTransaction records a shared transaction with its computed splits.
// The payer defaults to the caller. The caller must pay or be involved, and
// every other party must be one of the caller's friends.
func (s *LedgerService) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(req.Msg.Description)
	if description == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errDescriptionRequired)
	}
	payerID := req.Msg.PayerID
	if payerID == "" {
		payerID = userID
	}

	splits, err := s.computeSplits(req.Msg.Amount, req.Msg.Involved, req.Msg.Mode, req.Msg.Shares, req.Msg.NoRounding)
	if err != nil {
		s.Logger.Warn("Invalid transaction splits", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	t := &models.Transaction{
		PayerID:     payerID,
		Amount:      req.Msg.Amount,
		Description: description,
		Involved:    req.Msg.Involved,
		Splits:      splits,
		Category:    models.ResolveCategory(models.Category(req.Msg.Category), description),
		CreatedAt:   s.now(),
	}
	if payerID != userID && !t.IsInvolved(userID) {
		return nil, connectError(errNotParty)
	}
	others := t.Parties(userID)
	if err := s.requireFriends(ctx, userID, others); err != nil {
		return nil, err
	}

	if err := s.Store.CreateTransaction(ctx, t); err != nil {
		s.Logger.Error("Failed to create transaction", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	s.publish(ctx, notify.Event{
		Type:       notify.TransactionCreated,
		ActorID:    userID,
		Recipients: others,
		SubjectID:  t.ID,
		Amount:     t.Amount.String(),
	})
	s.Logger.Info("Transaction created",
		"transaction_id", t.ID,
		"payer_id", t.PayerID,
		"amount", t.Amount.String(),
		"involved", len(t.Involved),
		"category", t.Category,
	)
	return connect.NewResponse(&api.CreateTransactionResponse{Transaction: toAPITransaction(t)}), nil
}

// requireFriends fails with InvalidArgument naming the first non-friend in ids.
func (s *LedgerService) requireFriends(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	friends, err := s.Store.ListFriendIDs(ctx, userID)
	if err != nil {
		return connectError(err)
	}
	known := make(map[string]bool, len(friends))
	for _, f := range friends {
		known[f] = true
	}
	for _, id := range ids {
		if !known[id] {
			return connectError(fmt.Errorf("%w: %s is %w", models.ErrInvalidParticipants, id, errNotFriend))
		}
	}
	return nil
}

// DeleteTransaction removes a transaction the caller paid or is involved in.
// Balances are recomputed from the remaining records, so nothing else changes.
func (s *LedgerService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	t, err := s.Store.GetTransaction(ctx, req.Msg.TransactionID)
	if err != nil {
		return nil, connectError(err)
	}
	if t.PayerID != userID && !t.HasShare(userID) {
		return nil, connectError(errNotParty)
	}

	if err := s.Store.DeleteTransaction(ctx, t.ID); err != nil {
		s.Logger.Error("Failed to delete transaction", "transaction_id", t.ID, "error", err)
		return nil, connectError(err)
	}

	s.publish(ctx, notify.Event{
		Type:       notify.TransactionDeleted,
		ActorID:    userID,
		Recipients: t.Parties(userID),
		SubjectID:  t.ID,
		Amount:     t.Amount.String(),
	})
	s.Logger.Info("Transaction deleted", "transaction_id", t.ID, "user_id", userID)
	return connect.NewResponse(&api.DeleteTransactionResponse{}), nil
}

// ListTransactions returns the transactions the caller paid or is involved in, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	txs, err := s.Store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.ListTransactionsResponse{
		Transactions: mapSlice(txs, toAPITransaction),
	}), nil
}

// AddPersonalExpense records spending that only concerns the caller.
func (s *LedgerService) AddPersonalExpense(ctx context.Context, req *connect.Request[api.AddPersonalExpenseRequest]) (*connect.Response[api.AddPersonalExpenseResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if !req.Msg.Amount.IsPositive() {
		return nil, connectError(fmt.Errorf("%w: got %s", models.ErrInvalidAmount, req.Msg.Amount))
	}
	description := strings.TrimSpace(req.Msg.Description)
	if description == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errDescriptionRequired)
	}

	e := &models.PersonalExpense{
		UserID:      userID,
		Amount:      req.Msg.Amount,
		Description: description,
		Category:    models.ResolveCategory(models.Category(req.Msg.Category), description),
		CreatedAt:   s.now(),
	}
	if err := s.Store.CreatePersonalExpense(ctx, e); err != nil {
		s.Logger.Error("Failed to add personal expense", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	s.Logger.Info("Personal expense added", "expense_id", e.ID, "user_id", userID, "category", e.Category)
	return connect.NewResponse(&api.AddPersonalExpenseResponse{Expense: toAPIExpense(e)}), nil
}

// DeletePersonalExpense removes one of the caller's personal expenses.
func (s *LedgerService) DeletePersonalExpense(ctx context.Context, req *connect.Request[api.DeletePersonalExpenseRequest]) (*connect.Response[api.DeletePersonalExpenseResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	e, err := s.Store.GetPersonalExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, connectError(err)
	}
	if e.UserID != userID {
		return nil, connectError(errNotParty)
	}
	if err := s.Store.DeletePersonalExpense(ctx, e.ID); err != nil {
		return nil, connectError(err)
	}

	s.Logger.Info("Personal expense deleted", "expense_id", e.ID, "user_id", userID)
	return connect.NewResponse(&api.DeletePersonalExpenseResponse{}), nil
}

// ListPersonalExpenses returns the caller's personal expenses, newest first.
func (s *LedgerService) ListPersonalExpenses(ctx context.Context, req *connect.Request[api.ListPersonalExpensesRequest]) (*connect.Response[api.ListPersonalExpensesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := s.Store.ListPersonalExpenses(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.ListPersonalExpensesResponse{
		Expenses: mapSlice(expenses, toAPIExpense),
	}), nil
}

// GetBalances folds the caller's transactions and accepted settlements into
// pairwise balances, and summarizes each friend.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	txs, err := s.Store.ListTransactions(ctx, userID)
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
	friendIDs, err := s.Store.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}
	users, err := s.Store.GetUsersByIDs(ctx, friendIDs)
	if err != nil {
		return nil, connectError(err)
	}

	balances := calculator.ComputeBalances(userID, txs, settlements)
	summaries := calculator.SummarizeFriends(userID, friendIDs, txs, settlements, reminders, s.now())

	resp := &api.GetBalancesResponse{
		Balances: map[string]decimal.Decimal(balances),
		Net:      balances.Net(),
		Friends:  make([]*api.FriendSummary, 0, len(summaries)),
	}
	for _, fs := range summaries {
		friend := &api.User{ID: fs.FriendID}
		if u, ok := users[fs.FriendID]; ok {
			friend = toAPIUser(u)
		}
		resp.Friends = append(resp.Friends, &api.FriendSummary{
			Friend:          friend,
			Balance:         fs.Balance,
			HasNotification: fs.HasNotification,
		})
	}

	s.Logger.Debug("Balances computed", "user_id", userID, "counterparties", len(balances), "net", resp.Net.String())
	return connect.NewResponse(resp), nil
}

// GetHistory returns the chronological conversation between the caller and a friend.
func (s *LedgerService) GetHistory(ctx context.Context, req *connect.Request[api.GetHistoryRequest]) (*connect.Response[api.GetHistoryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	friendID := req.Msg.FriendID
	if friendID == "" || friendID == userID {
		return nil, connectError(fmt.Errorf("%w: history needs another user", models.ErrInvalidParticipants))
	}

	txs, err := s.Store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}
	settlements, err := s.Store.ListSettlementRequests(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}

	resp := &api.GetHistoryResponse{
		Items:   []*api.HistoryItem{},
		Balance: calculator.ComputeBalances(userID, txs, settlements).Of(friendID),
	}
	for item := range calculator.MergeHistory(userID, friendID, txs, settlements) {
		resp.Items = append(resp.Items, toAPIHistoryItem(userID, friendID, item))
	}
	return connect.NewResponse(resp), nil
}

// GetSpendingStats totals the caller's spending in a window, by category.
func (s *LedgerService) GetSpendingStats(ctx context.Context, req *connect.Request[api.GetSpendingStatsRequest]) (*connect.Response[api.GetSpendingStatsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	from := calculator.StartOfMonth(s.now())
	if req.Msg.From != nil {
		from = *req.Msg.From
	}
	var to time.Time
	if req.Msg.To != nil {
		to = *req.Msg.To
	}

	expenses, err := s.Store.ListPersonalExpenses(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}
	txs, err := s.Store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}

	spending := calculator.ComputeSpending(userID, expenses, txs, from, to)
	resp := &api.GetSpendingStatsResponse{
		Total:      spending.Total,
		ByCategory: make([]*api.CategoryTotal, 0, len(spending.ByCategory)),
	}
	for _, ct := range spending.ByCategory {
		resp.ByCategory = append(resp.ByCategory, &api.CategoryTotal{
			Category: string(ct.Category),
			Amount:   ct.Amount,
		})
	}
	return connect.NewResponse(resp), nil
}
