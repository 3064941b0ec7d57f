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

const reminderColumns = `id, sender_id, receiver_id, amount, message, due_date, status, created_at, resolved_at`

func scanReminder(row rowScanner) (*models.Reminder, error) {
	r := &models.Reminder{}
	var status string
	var dueDate, createdAt, resolvedAt int64
	if err := row.Scan(&r.ID, &r.SenderID, &r.ReceiverID, &r.Amount, &r.Message, &dueDate, &status, &createdAt, &resolvedAt); err != nil {
		return nil, err
	}
	r.Status = models.ReminderStatus(status)
	r.DueDate = fromMillis(dueDate)
	r.CreatedAt = fromMillis(createdAt)
	r.ResolvedAt = fromMillis(resolvedAt)
	return r, nil
}

// CreateReminder persists a new reminder.
func (s *SQLiteStore) CreateReminder(ctx context.Context, r *models.Reminder) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if r.Status == "" {
		r.Status = models.ReminderPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders (`+reminderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SenderID, r.ReceiverID, r.Amount.String(), r.Message, toMillis(r.DueDate),
		string(r.Status), toMillis(r.CreatedAt), toMillis(r.ResolvedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

// GetReminder retrieves a reminder by ID.
func (s *SQLiteStore) GetReminder(ctx context.Context, id string) (*models.Reminder, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)
	r, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("reminder", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return r, nil
}

// ResolveReminder marks a pending reminder done.
func (s *SQLiteStore) ResolveReminder(ctx context.Context, r *models.Reminder) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reminders SET status = ?, resolved_at = ? WHERE id = ? AND status = ?`,
		string(r.Status), toMillis(r.ResolvedAt), r.ID, string(models.ReminderPending),
	)
	if err != nil {
		return fmt.Errorf("failed to resolve reminder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.GetReminder(ctx, r.ID); err != nil {
			return err
		}
		return fmt.Errorf("%w: reminder %s", models.ErrNotPending, r.ID)
	}
	return nil
}

// ListReminders retrieves reminders the user sent or received.
func (s *SQLiteStore) ListReminders(ctx context.Context, userID string) ([]*models.Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders
		 WHERE sender_id = ? OR receiver_id = ? ORDER BY created_at DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}
	return reminders, nil
}
