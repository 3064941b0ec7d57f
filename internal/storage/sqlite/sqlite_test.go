package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/expensecentral/internal/models"
	"github.com/mmynk/expensecentral/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")

	t.Run("CreateUser and lookups", func(t *testing.T) {
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail.ID != user.ID {
			t.Errorf("ID mismatch: got %s, want %s", byEmail.ID, user.ID)
		}

		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.DisplayName != "Alice" {
			t.Errorf("DisplayName mismatch: got %s, want Alice", byID.DisplayName)
		}
	})

	t.Run("duplicate email fails", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "Other", "hash")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("Expected error for duplicate email, got nil")
		}
	})

	t.Run("missing user is ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateUser stores profile fields", func(t *testing.T) {
		user.PaymentAddress = "alice@upi"
		user.UpdatedAt = time.Now().UTC()
		if err := store.UpdateUser(ctx, user); err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}
		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.PaymentAddress != "alice@upi" {
			t.Errorf("PaymentAddress = %q, want alice@upi", got.PaymentAddress)
		}
	})

	t.Run("GetUsersByIDs omits unknown", func(t *testing.T) {
		users, err := store.GetUsersByIDs(ctx, []string{user.ID, "ghost"})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(users) != 1 || users[user.ID] == nil {
			t.Errorf("Expected only %s, got %v", user.ID, users)
		}
	})
}

func TestSQLiteStore_Transactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("equal split round trip keeps participant order", func(t *testing.T) {
		tx := &models.Transaction{
			PayerID:     "alice",
			Amount:      decimal.RequireFromString("301.50"),
			Description: "Dinner",
			Involved:    []string{"carol", "alice", "bob"},
			Category:    models.CategoryFood,
		}
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
		if tx.ID == "" {
			t.Error("Expected transaction ID to be generated")
		}

		got, err := store.GetTransaction(ctx, tx.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if !got.Amount.Equal(tx.Amount) {
			t.Errorf("Amount = %s, want %s", got.Amount, tx.Amount)
		}
		if got.Splits != nil {
			t.Errorf("Expected nil splits, got %v", got.Splits)
		}
		want := []string{"carol", "alice", "bob"}
		if len(got.Involved) != len(want) {
			t.Fatalf("Involved = %v, want %v", got.Involved, want)
		}
		for i := range want {
			if got.Involved[i] != want[i] {
				t.Errorf("Involved[%d] = %s, want %s", i, got.Involved[i], want[i])
			}
		}
	})

	t.Run("explicit splits round trip", func(t *testing.T) {
		tx := &models.Transaction{
			PayerID:     "alice",
			Amount:      decimal.NewFromInt(100),
			Description: "Cab",
			Involved:    []string{"alice", "bob"},
			Splits: map[string]decimal.Decimal{
				"alice": decimal.NewFromInt(30),
				"bob":   decimal.NewFromInt(70),
			},
			Category: models.CategoryTransport,
		}
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
		got, err := store.GetTransaction(ctx, tx.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if len(got.Splits) != 2 || !got.Splits["bob"].Equal(decimal.NewFromInt(70)) {
			t.Errorf("Splits = %v", got.Splits)
		}
	})

	t.Run("ListTransactions includes payer and participants", func(t *testing.T) {
		for _, user := range []string{"alice", "bob"} {
			txs, err := store.ListTransactions(ctx, user)
			if err != nil {
				t.Fatalf("ListTransactions failed: %v", err)
			}
			if len(txs) != 2 {
				t.Errorf("%s: expected 2 transactions, got %d", user, len(txs))
			}
		}
		txs, err := store.ListTransactions(ctx, "carol")
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 1 {
			t.Errorf("carol: expected 1 transaction, got %d", len(txs))
		}
	})

	t.Run("DeleteTransaction removes it", func(t *testing.T) {
		tx := &models.Transaction{
			PayerID:  "dave",
			Amount:   decimal.NewFromInt(10),
			Involved: []string{"dave", "erin"},
		}
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
		if err := store.DeleteTransaction(ctx, tx.ID); err != nil {
			t.Fatalf("DeleteTransaction failed: %v", err)
		}
		if _, err := store.GetTransaction(ctx, tx.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		txs, err := store.ListTransactions(ctx, "erin")
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 0 {
			t.Errorf("Expected no transactions for erin, got %d", len(txs))
		}
		if err := store.DeleteTransaction(ctx, tx.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestSQLiteStore_PersonalExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := &models.PersonalExpense{
		UserID:      "alice",
		Amount:      decimal.RequireFromString("12.75"),
		Description: "Coffee",
		Category:    models.CategoryFood,
	}
	if err := store.CreatePersonalExpense(ctx, e); err != nil {
		t.Fatalf("CreatePersonalExpense failed: %v", err)
	}

	got, err := store.ListPersonalExpenses(ctx, "alice")
	if err != nil {
		t.Fatalf("ListPersonalExpenses failed: %v", err)
	}
	if len(got) != 1 || !got[0].Amount.Equal(e.Amount) || got[0].Category != models.CategoryFood {
		t.Fatalf("Unexpected expenses: %+v", got)
	}

	if err := store.DeletePersonalExpense(ctx, e.ID); err != nil {
		t.Fatalf("DeletePersonalExpense failed: %v", err)
	}
	if _, err := store.GetPersonalExpense(ctx, e.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_Settlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	req := &models.SettlementRequest{
		LenderID:   "alice",
		BorrowerID: "bob",
		Amount:     decimal.NewFromInt(50),
		Status:     models.SettlementPending,
		CreatedBy:  "bob",
		CreatedAt:  created,
	}
	if err := store.CreateSettlementRequest(ctx, req); err != nil {
		t.Fatalf("CreateSettlementRequest failed: %v", err)
	}

	t.Run("round trip keeps empty note and zero ResolvedAt", func(t *testing.T) {
		got, err := store.GetSettlementRequest(ctx, req.ID)
		if err != nil {
			t.Fatalf("GetSettlementRequest failed: %v", err)
		}
		if got.Note != "" {
			t.Errorf("Note = %q, want empty", got.Note)
		}
		if !got.ResolvedAt.IsZero() {
			t.Errorf("ResolvedAt = %v, want zero", got.ResolvedAt)
		}
		if !got.CreatedAt.Equal(created) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
		}
		if !got.IsPending() {
			t.Errorf("Status = %s, want pending", got.Status)
		}
	})

	t.Run("resolve once", func(t *testing.T) {
		req.Status = models.SettlementAccepted
		req.ResolvedAt = created.Add(time.Hour)
		if err := store.ResolveSettlementRequest(ctx, req); err != nil {
			t.Fatalf("ResolveSettlementRequest failed: %v", err)
		}

		again := *req
		again.Status = models.SettlementRejected
		if err := store.ResolveSettlementRequest(ctx, &again); !errors.Is(err, models.ErrNotPending) {
			t.Errorf("Expected ErrNotPending, got %v", err)
		}

		got, err := store.GetSettlementRequest(ctx, req.ID)
		if err != nil {
			t.Fatalf("GetSettlementRequest failed: %v", err)
		}
		if got.Status != models.SettlementAccepted {
			t.Errorf("Status = %s, want accepted", got.Status)
		}
		if !got.ResolvedAt.Equal(req.ResolvedAt) {
			t.Errorf("ResolvedAt = %v, want %v", got.ResolvedAt, req.ResolvedAt)
		}
	})

	t.Run("resolve unknown is ErrNotFound", func(t *testing.T) {
		missing := &models.SettlementRequest{ID: "missing", Status: models.SettlementAccepted}
		if err := store.ResolveSettlementRequest(ctx, missing); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list for either party", func(t *testing.T) {
		for _, user := range []string{"alice", "bob"} {
			list, err := store.ListSettlementRequests(ctx, user)
			if err != nil {
				t.Fatalf("ListSettlementRequests failed: %v", err)
			}
			if len(list) != 1 {
				t.Errorf("%s: expected 1 request, got %d", user, len(list))
			}
		}
	})
}

func TestSQLiteStore_Reminders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := &models.Reminder{
		SenderID:   "alice",
		ReceiverID: "bob",
		Amount:     decimal.NewFromInt(40),
		Message:    "pay up",
		DueDate:    time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
	}
	if err := store.CreateReminder(ctx, r); err != nil {
		t.Fatalf("CreateReminder failed: %v", err)
	}
	if r.Status != models.ReminderPending {
		t.Errorf("Status = %s, want pending", r.Status)
	}

	r.Status = models.ReminderDone
	r.ResolvedAt = time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	if err := store.ResolveReminder(ctx, r); err != nil {
		t.Fatalf("ResolveReminder failed: %v", err)
	}
	if err := store.ResolveReminder(ctx, r); !errors.Is(err, models.ErrNotPending) {
		t.Errorf("Expected ErrNotPending, got %v", err)
	}

	list, err := store.ListReminders(ctx, "bob")
	if err != nil {
		t.Fatalf("ListReminders failed: %v", err)
	}
	if len(list) != 1 || list[0].Status != models.ReminderDone || !list[0].DueDate.Equal(r.DueDate) {
		t.Errorf("Unexpected reminders: %+v", list)
	}
}

func TestSQLiteStore_Friends(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	req := &models.FriendRequest{SenderID: "alice", ReceiverID: "bob", CreatedAt: now}
	if err := store.CreateFriendRequest(ctx, req); err != nil {
		t.Fatalf("CreateFriendRequest failed: %v", err)
	}

	req.Status = models.FriendRequestAccepted
	req.ResolvedAt = now
	friendships := []models.Friendship{
		{UserID: "alice", FriendID: "bob", CreatedAt: now},
		{UserID: "bob", FriendID: "alice", CreatedAt: now},
	}
	if err := store.ResolveFriendRequest(ctx, req, friendships); err != nil {
		t.Fatalf("ResolveFriendRequest failed: %v", err)
	}

	for user, want := range map[string]string{"alice": "bob", "bob": "alice"} {
		ids, err := store.ListFriendIDs(ctx, user)
		if err != nil {
			t.Fatalf("ListFriendIDs failed: %v", err)
		}
		if len(ids) != 1 || ids[0] != want {
			t.Errorf("%s friends = %v, want [%s]", user, ids, want)
		}
	}

	if err := store.ResolveFriendRequest(ctx, req, friendships); !errors.Is(err, models.ErrNotPending) {
		t.Errorf("Expected ErrNotPending on second resolve, got %v", err)
	}

	requests, err := store.ListFriendRequests(ctx, "bob")
	if err != nil {
		t.Fatalf("ListFriendRequests failed: %v", err)
	}
	if len(requests) != 1 || requests[0].Status != models.FriendRequestAccepted {
		t.Errorf("Unexpected requests: %+v", requests)
	}
}
