package service

import (
	"context"
	"slices"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/mmynk/expensecentral/internal/notify"
	"github.com/mmynk/expensecentral/pkg/api"
)

// setupTrio creates alice, bob and carol, all friends with each other.
func setupTrio(t *testing.T) (env *testEnv, alice, bob, carol string) {
	t.Helper()
	env = setupTestServer(t)
	alice = env.newUser(t, "alice")
	bob = env.newUser(t, "bob")
	carol = env.newUser(t, "carol")
	env.befriend(t, alice, bob)
	env.befriend(t, alice, carol)
	env.befriend(t, bob, carol)
	return env, alice, bob, carol
}

func (e *testEnv) createTransaction(t *testing.T, caller string, req *api.CreateTransactionRequest) *api.Transaction {
	t.Helper()
	resp, err := e.ledger.CreateTransaction(context.Background(), as(caller, req))
	if err != nil {
		t.Fatalf("CreateTransaction(%q) failed: %v", req.Description, err)
	}
	return resp.Msg.Transaction
}

func TestLedgerService_ComputeSplits(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	user := env.newUser(t, "alice")

	t.Run("equal with residual on first participant", func(t *testing.T) {
		resp, err := env.ledger.ComputeSplits(ctx, as(user, &api.ComputeSplitsRequest{
			Amount:       dec("302"),
			Participants: []string{"a", "b", "c"},
			Mode:         "equal",
		}))
		if err != nil {
			t.Fatalf("ComputeSplits failed: %v", err)
		}
		assertAmount(t, "a", resp.Msg.Splits["a"], "100")
		assertAmount(t, "b", resp.Msg.Splits["b"], "101")
		assertAmount(t, "c", resp.Msg.Splits["c"], "101")
	})

	t.Run("no rounding", func(t *testing.T) {
		resp, err := env.ledger.ComputeSplits(ctx, as(user, &api.ComputeSplitsRequest{
			Amount:       dec("100"),
			Participants: []string{"a", "b", "c"},
			NoRounding:   true,
		}))
		if err != nil {
			t.Fatalf("ComputeSplits failed: %v", err)
		}
		a := resp.Msg.Splits["a"]
		if !a.Equal(resp.Msg.Splits["b"]) || !a.Equal(resp.Msg.Splits["c"]) {
			t.Errorf("expected equal shares, got %v", resp.Msg.Splits)
		}
		if a.IsInteger() {
			t.Errorf("expected a fractional share, got %s", a)
		}
	})

	t.Run("unequal within tolerance", func(t *testing.T) {
		resp, err := env.ledger.ComputeSplits(ctx, as(user, &api.ComputeSplitsRequest{
			Amount:       dec("100"),
			Participants: []string{"a", "b"},
			Mode:         "unequal",
			Shares:       map[string]decimal.Decimal{"a": dec("70"), "b": dec("30.5")},
		}))
		if err != nil {
			t.Fatalf("ComputeSplits failed: %v", err)
		}
		assertAmount(t, "b", resp.Msg.Splits["b"], "30.5")
	})

	errorTests := []struct {
		name string
		req  *api.ComputeSplitsRequest
	}{
		{"zero amount", &api.ComputeSplitsRequest{Amount: decimal.Zero, Participants: []string{"a"}}},
		{"no participants", &api.ComputeSplitsRequest{Amount: dec("10")}},
		{"duplicate participant", &api.ComputeSplitsRequest{Amount: dec("10"), Participants: []string{"a", "a"}}},
		{"mismatch", &api.ComputeSplitsRequest{
			Amount:       dec("300"),
			Participants: []string{"a", "b"},
			Mode:         "unequal",
			Shares:       map[string]decimal.Decimal{"a": dec("150"), "b": dec("100")},
		}},
		{"unknown mode", &api.ComputeSplitsRequest{Amount: dec("10"), Participants: []string{"a"}, Mode: "by-weight"}},
	}
	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.ledger.ComputeSplits(ctx, as(user, tt.req))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}

	if got := testutil.ToFloat64(env.metrics.SplitComputations.WithLabelValues("equal", "ok")); got != 2 {
		t.Errorf("expected 2 successful equal splits, got %v", got)
	}
}

func TestLedgerService_TransactionsAndBalances(t *testing.T) {
	env, alice, bob, carol := setupTrio(t)
	ctx := context.Background()

	tx := env.createTransaction(t, alice, &api.CreateTransactionRequest{
		Amount:      dec("300"),
		Description: "Dinner",
		Involved:    []string{alice, bob, carol},
	})
	if tx.PayerID != alice {
		t.Errorf("expected payer to default to caller, got %s", tx.PayerID)
	}
	if tx.Category != "Food" {
		t.Errorf("expected detected category Food, got %s", tx.Category)
	}
	assertAmount(t, "bob's split", tx.Splits[bob], "100")

	// Bob pays for something only Alice uses.
	env.createTransaction(t, bob, &api.CreateTransactionRequest{
		Amount:      dec("40"),
		Description: "Taxi",
		Involved:    []string{alice},
	})

	resp, err := env.ledger.GetBalances(ctx, as(alice, &api.GetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	assertAmount(t, "alice/bob", resp.Msg.Balances[bob], "60")
	assertAmount(t, "alice/carol", resp.Msg.Balances[carol], "100")
	assertAmount(t, "alice net", resp.Msg.Net, "160")

	if len(resp.Msg.Friends) != 2 {
		t.Fatalf("expected 2 friend summaries, got %d", len(resp.Msg.Friends))
	}
	for _, fs := range resp.Msg.Friends {
		if fs.Friend.DisplayName == "" {
			t.Errorf("friend %s has no display name", fs.Friend.ID)
		}
		if fs.Friend.ID == bob && !fs.HasNotification {
			t.Error("expected a notification for bob's payment today")
		}
		if fs.Friend.ID == carol && fs.HasNotification {
			t.Error("expected no notification for carol")
		}
	}

	bobView, err := env.ledger.GetBalances(ctx, as(bob, &api.GetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	assertAmount(t, "bob/alice", bobView.Msg.Balances[alice], "-60")

	list, err := env.ledger.ListTransactions(ctx, as(carol, &api.ListTransactionsRequest{}))
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(list.Msg.Transactions) != 1 || list.Msg.Transactions[0].ID != tx.ID {
		t.Errorf("expected carol to see only the dinner, got %d transactions", len(list.Msg.Transactions))
	}

	want := []notify.EventType{notify.TransactionCreated, notify.TransactionCreated}
	if got := env.publisher.Types(); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestLedgerService_CreateTransactionErrors(t *testing.T) {
	env, alice, bob, carol := setupTrio(t)
	stranger := env.newUser(t, "stranger")
	ctx := context.Background()

	tests := []struct {
		name string
		req  *api.CreateTransactionRequest
		want connect.Code
	}{
		{
			name: "missing description",
			req:  &api.CreateTransactionRequest{Amount: dec("10"), Involved: []string{alice, bob}},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "negative amount",
			req:  &api.CreateTransactionRequest{Amount: dec("-10"), Description: "Lunch", Involved: []string{alice, bob}},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "split mismatch",
			req: &api.CreateTransactionRequest{
				Amount:      dec("100"),
				Description: "Lunch",
				Involved:    []string{alice, bob},
				Mode:        "unequal",
				Shares:      map[string]decimal.Decimal{alice: dec("20"), bob: dec("20")},
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "not a friend",
			req:  &api.CreateTransactionRequest{Amount: dec("10"), Description: "Lunch", Involved: []string{alice, stranger}},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "caller not a party",
			req:  &api.CreateTransactionRequest{PayerID: bob, Amount: dec("10"), Description: "Lunch", Involved: []string{bob, carol}},
			want: connect.CodePermissionDenied,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.ledger.CreateTransaction(ctx, as(alice, tt.req))
			assertCode(t, err, tt.want)
		})
	}

	list, err := env.ledger.ListTransactions(ctx, as(alice, &api.ListTransactionsRequest{}))
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(list.Msg.Transactions) != 0 {
		t.Errorf("expected no stored transactions, got %d", len(list.Msg.Transactions))
	}
}

func TestLedgerService_DeleteTransaction(t *testing.T) {
	env, alice, bob, carol := setupTrio(t)
	ctx := context.Background()

	tx := env.createTransaction(t, alice, &api.CreateTransactionRequest{
		Amount:      dec("50"),
		Description: "Movie",
		Involved:    []string{alice, bob},
	})

	_, err := env.ledger.DeleteTransaction(ctx, as(carol, &api.DeleteTransactionRequest{TransactionID: tx.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	if _, err := env.ledger.DeleteTransaction(ctx, as(bob, &api.DeleteTransactionRequest{TransactionID: tx.ID})); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}

	resp, err := env.ledger.GetBalances(ctx, as(alice, &api.GetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if !resp.Msg.Balances[bob].IsZero() || !resp.Msg.Net.IsZero() {
		t.Errorf("expected balances to clear after delete, got %v", resp.Msg.Balances)
	}

	_, err = env.ledger.DeleteTransaction(ctx, as(alice, &api.DeleteTransactionRequest{TransactionID: tx.ID}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestLedgerService_History(t *testing.T) {
	env, alice, bob, carol := setupTrio(t)
	ctx := context.Background()

	dinner := env.createTransaction(t, alice, &api.CreateTransactionRequest{
		Amount:      dec("300"),
		Description: "Dinner",
		Involved:    []string{alice, bob, carol},
	})
	cab := env.createTransaction(t, bob, &api.CreateTransactionRequest{
		Amount:      dec("50"),
		Description: "Cab",
		Involved:    []string{alice, bob},
	})
	// Not between alice and bob.
	env.createTransaction(t, carol, &api.CreateTransactionRequest{
		Amount:      dec("20"),
		Description: "Snacks",
		Involved:    []string{bob, carol},
	})

	hist, err := env.ledger.GetHistory(ctx, as(alice, &api.GetHistoryRequest{FriendID: bob}))
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(hist.Msg.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(hist.Msg.Items))
	}
	if hist.Msg.Items[0].ID != dinner.ID || hist.Msg.Items[1].ID != cab.ID {
		t.Errorf("expected dinner then cab, got %s then %s", hist.Msg.Items[0].Description, hist.Msg.Items[1].Description)
	}
	assertAmount(t, "dinner share", hist.Msg.Items[0].Share, "100")
	assertAmount(t, "cab share", hist.Msg.Items[1].Share, "-25")
	assertAmount(t, "balance", hist.Msg.Balance, "75")

	settle, err := env.settlements.RequestSettlement(ctx, as(bob, &api.RequestSettlementRequest{
		LenderID: alice, BorrowerID: bob, Amount: dec("75"),
	}))
	if err != nil {
		t.Fatalf("RequestSettlement failed: %v", err)
	}

	// Pending settlements are not part of the history.
	hist, err = env.ledger.GetHistory(ctx, as(alice, &api.GetHistoryRequest{FriendID: bob}))
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(hist.Msg.Items) != 2 {
		t.Errorf("expected 2 items while pending, got %d", len(hist.Msg.Items))
	}

	if _, err := env.settlements.RespondToSettlement(ctx, as(alice, &api.RespondToSettlementRequest{
		SettlementID: settle.Msg.Settlement.ID, Accept: true,
	})); err != nil {
		t.Fatalf("RespondToSettlement failed: %v", err)
	}

	hist, err = env.ledger.GetHistory(ctx, as(alice, &api.GetHistoryRequest{FriendID: bob}))
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(hist.Msg.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(hist.Msg.Items))
	}
	last := hist.Msg.Items[2]
	if last.Kind != "settlement" || last.Description != "Settled Up" || last.PayerID != bob {
		t.Errorf("unexpected settlement item: %+v", last)
	}
	assertAmount(t, "settlement share", last.Share, "-75")
	assertAmount(t, "balance after settling", hist.Msg.Balance, "0")

	_, err = env.ledger.GetHistory(ctx, as(alice, &api.GetHistoryRequest{FriendID: alice}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestLedgerService_PersonalExpensesAndSpending(t *testing.T) {
	env, alice, bob, carol := setupTrio(t)
	ctx := context.Background()

	coffee, err := env.ledger.AddPersonalExpense(ctx, as(alice, &api.AddPersonalExpenseRequest{
		Amount: dec("50"), Description: "Coffee",
	}))
	if err != nil {
		t.Fatalf("AddPersonalExpense failed: %v", err)
	}
	if coffee.Msg.Expense.Category != "Food" {
		t.Errorf("expected Food, got %s", coffee.Msg.Expense.Category)
	}
	if _, err := env.ledger.AddPersonalExpense(ctx, as(alice, &api.AddPersonalExpenseRequest{
		Amount: dec("200"), Description: "Uber to airport",
	})); err != nil {
		t.Fatalf("AddPersonalExpense failed: %v", err)
	}
	env.createTransaction(t, bob, &api.CreateTransactionRequest{
		Amount:      dec("300"),
		Description: "Dinner",
		Involved:    []string{alice, bob, carol},
	})

	stats, err := env.ledger.GetSpendingStats(ctx, as(alice, &api.GetSpendingStatsRequest{}))
	if err != nil {
		t.Fatalf("GetSpendingStats failed: %v", err)
	}
	assertAmount(t, "total", stats.Msg.Total, "350")
	if len(stats.Msg.ByCategory) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(stats.Msg.ByCategory))
	}
	if stats.Msg.ByCategory[0].Category != "Transport" || stats.Msg.ByCategory[1].Category != "Food" {
		t.Errorf("unexpected category order: %s, %s", stats.Msg.ByCategory[0].Category, stats.Msg.ByCategory[1].Category)
	}
	assertAmount(t, "food", stats.Msg.ByCategory[1].Amount, "150")

	tomorrow := clockStart.Add(24 * time.Hour)
	later, err := env.ledger.GetSpendingStats(ctx, as(alice, &api.GetSpendingStatsRequest{From: &tomorrow}))
	if err != nil {
		t.Fatalf("GetSpendingStats failed: %v", err)
	}
	if !later.Msg.Total.IsZero() || len(later.Msg.ByCategory) != 0 {
		t.Errorf("expected nothing after tomorrow, got %s", later.Msg.Total)
	}

	_, err = env.ledger.DeletePersonalExpense(ctx, as(bob, &api.DeletePersonalExpenseRequest{ExpenseID: coffee.Msg.Expense.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	if _, err := env.ledger.DeletePersonalExpense(ctx, as(alice, &api.DeletePersonalExpenseRequest{ExpenseID: coffee.Msg.Expense.ID})); err != nil {
		t.Fatalf("DeletePersonalExpense failed: %v", err)
	}
	list, err := env.ledger.ListPersonalExpenses(ctx, as(alice, &api.ListPersonalExpensesRequest{}))
	if err != nil {
		t.Fatalf("ListPersonalExpenses failed: %v", err)
	}
	if len(list.Msg.Expenses) != 1 || list.Msg.Expenses[0].Description != "Uber to airport" {
		t.Errorf("expected only the Uber expense to remain, got %d", len(list.Msg.Expenses))
	}

	_, err = env.ledger.AddPersonalExpense(ctx, as(alice, &api.AddPersonalExpenseRequest{Amount: decimal.Zero, Description: "Nothing"}))
	assertCode(t, err, connect.CodeInvalidArgument)
}
