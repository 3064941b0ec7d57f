package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/expensecentral/internal/models"
)

// CreateTransaction persists a new transaction with its participants and splits.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	// Generate IDs if not set
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	hasSplits := 0
	if t.Splits != nil {
		hasSplits = 1
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, payer_id, amount, description, category, has_splits, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.PayerID, t.Amount.String(), t.Description, string(t.Category), hasSplits, toMillis(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	// Insert participants, keeping their order
	for i, uid := range t.Involved {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO transaction_participants (transaction_id, user_id, position) VALUES (?, ?, ?)",
			t.ID, uid, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for uid, amount := range t.Splits {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO transaction_splits (transaction_id, user_id, amount) VALUES (?, ?, ?)",
			t.ID, uid, amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTransaction retrieves a transaction by ID, including participants and splits.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payer_id, amount, description, category, has_splits, created_at
		 FROM transactions WHERE id = ?`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	txs, err := s.scanTransactions(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, notFound("transaction", id)
	}
	return txs[0], nil
}

// ListTransactions retrieves the transactions the user paid or is involved in.
func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.payer_id, t.amount, t.description, t.category, t.has_splits, t.created_at
		 FROM transactions t
		 WHERE t.payer_id = ?
		    OR EXISTS (SELECT 1 FROM transaction_participants p WHERE p.transaction_id = t.id AND p.user_id = ?)
		 ORDER BY t.created_at DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return s.scanTransactions(ctx, rows)
}

// DeleteTransaction removes a transaction and its participants and splits.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("transaction", id)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM transaction_participants WHERE transaction_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM transaction_splits WHERE transaction_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete splits: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// scanTransactions reads transaction rows, then loads participants and
// splits for all of them in two batched queries. It closes rows.
func (s *SQLiteStore) scanTransactions(ctx context.Context, rows *sql.Rows) ([]*models.Transaction, error) {
	defer rows.Close()

	var txs []*models.Transaction
	byID := make(map[string]*models.Transaction)
	for rows.Next() {
		t := &models.Transaction{}
		var category string
		var hasSplits int
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.PayerID, &t.Amount, &t.Description, &category, &hasSplits, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Category = models.Category(category)
		t.CreatedAt = fromMillis(createdAt)
		if hasSplits == 1 {
			t.Splits = make(map[string]decimal.Decimal)
		}
		txs = append(txs, t)
		byID[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	rows.Close()

	if len(txs) == 0 {
		return txs, nil
	}

	ids := make([]string, len(txs))
	for i, t := range txs {
		ids[i] = t.ID
	}
	if err := s.loadParticipants(ctx, ids, byID); err != nil {
		return nil, err
	}
	if err := s.loadSplits(ctx, ids, byID); err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *SQLiteStore) loadParticipants(ctx context.Context, ids []string, byID map[string]*models.Transaction) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT transaction_id, user_id FROM transaction_participants
		 WHERE transaction_id IN (`+placeholders(len(ids))+`)
		 ORDER BY transaction_id, position`,
		stringArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var txID, uid string
		if err := rows.Scan(&txID, &uid); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		if t, ok := byID[txID]; ok {
			t.Involved = append(t.Involved, uid)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadSplits(ctx context.Context, ids []string, byID map[string]*models.Transaction) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT transaction_id, user_id, amount FROM transaction_splits
		 WHERE transaction_id IN (`+placeholders(len(ids))+`)`,
		stringArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var txID, uid string
		var amount decimal.Decimal
		if err := rows.Scan(&txID, &uid, &amount); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		t, ok := byID[txID]
		if !ok {
			continue
		}
		if t.Splits == nil {
			return fmt.Errorf("transaction %s has split rows but no split flag", txID)
		}
		t.Splits[uid] = amount
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}
