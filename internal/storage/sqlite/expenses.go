package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/expensecentral/internal/models"
)

const expenseColumns = `id, user_id, amount, description, category, created_at`

func scanExpense(row rowScanner) (*models.PersonalExpense, error) {
	e := &models.PersonalExpense{}
	var category string
	var createdAt int64
	if err := row.Scan(&e.ID, &e.UserID, &e.Amount, &e.Description, &category, &createdAt); err != nil {
		return nil, err
	}
	e.Category = models.Category(category)
	e.CreatedAt = fromMillis(createdAt)
	return e, nil
}

// CreatePersonalExpense persists a new personal expense.
func (s *SQLiteStore) CreatePersonalExpense(ctx context.Context, e *models.PersonalExpense) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO personal_expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Amount.String(), e.Description, string(e.Category), toMillis(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert personal expense: %w", err)
	}
	return nil
}

// GetPersonalExpense retrieves a personal expense by ID.
func (s *SQLiteStore) GetPersonalExpense(ctx context.Context, id string) (*models.PersonalExpense, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM personal_expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("personal expense", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get personal expense: %w", err)
	}
	return e, nil
}

// DeletePersonalExpense removes a personal expense by ID.
func (s *SQLiteStore) DeletePersonalExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM personal_expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete personal expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("personal expense", id)
	}
	return nil
}

// ListPersonalExpenses retrieves the user's personal expenses.
func (s *SQLiteStore) ListPersonalExpenses(ctx context.Context, userID string) ([]*models.PersonalExpense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM personal_expenses WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list personal expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.PersonalExpense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan personal expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate personal expenses: %w", err)
	}
	return expenses, nil
}
