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

const settlementColumns = `id, lender_id, borrower_id, amount, note, status, created_by, created_at, resolved_at`

func scanSettlement(row rowScanner) (*models.SettlementRequest, error) {
	s := &models.SettlementRequest{}
	var note sql.NullString
	var status string
	var createdAt, resolvedAt int64
	if err := row.Scan(&s.ID, &s.LenderID, &s.BorrowerID, &s.Amount, &note, &status, &s.CreatedBy, &createdAt, &resolvedAt); err != nil {
		return nil, err
	}
	if note.Valid {
		s.Note = note.String
	}
	s.Status = models.SettlementStatus(status)
	if !s.Status.Valid() {
		return nil, fmt.Errorf("settlement %s has unknown status %q", s.ID, status)
	}
	s.CreatedAt = fromMillis(createdAt)
	s.ResolvedAt = fromMillis(resolvedAt)
	return s, nil
}

// CreateSettlementRequest persists a new settlement request.
func (s *SQLiteStore) CreateSettlementRequest(ctx context.Context, req *models.SettlementRequest) error {
	// Generate ID if not set
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	if req.Status == "" {
		req.Status = models.SettlementPending
	}
	if !req.Status.Valid() {
		return fmt.Errorf("invalid settlement status %q", req.Status)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlement_requests (`+settlementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.LenderID, req.BorrowerID, req.Amount.String(), nullString(req.Note),
		string(req.Status), req.CreatedBy, toMillis(req.CreatedAt), toMillis(req.ResolvedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement request: %w", err)
	}

	return nil
}

// GetSettlementRequest retrieves a settlement request by ID.
func (s *SQLiteStore) GetSettlementRequest(ctx context.Context, id string) (*models.SettlementRequest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+settlementColumns+` FROM settlement_requests WHERE id = ?`, id)
	req, err := scanSettlement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("settlement request", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement request: %w", err)
	}
	return req, nil
}

// ResolveSettlementRequest moves a pending request to its new status.
// The update only matches pending rows, so concurrent responses resolve it once.
func (s *SQLiteStore) ResolveSettlementRequest(ctx context.Context, req *models.SettlementRequest) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE settlement_requests SET status = ?, resolved_at = ? WHERE id = ? AND status = ?`,
		string(req.Status), toMillis(req.ResolvedAt), req.ID, string(models.SettlementPending),
	)
	if err != nil {
		return fmt.Errorf("failed to resolve settlement request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.GetSettlementRequest(ctx, req.ID); err != nil {
			return err
		}
		return fmt.Errorf("%w: settlement %s", models.ErrNotPending, req.ID)
	}
	return nil
}

// ListSettlementRequests retrieves requests where the user is lender or borrower.
func (s *SQLiteStore) ListSettlementRequests(ctx context.Context, userID string) ([]*models.SettlementRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+settlementColumns+` FROM settlement_requests
		 WHERE lender_id = ? OR borrower_id = ? ORDER BY created_at DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlement requests: %w", err)
	}
	defer rows.Close()

	var settlements []*models.SettlementRequest
	for rows.Next() {
		req, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement request: %w", err)
		}
		settlements = append(settlements, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlement requests: %w", err)
	}

	return settlements, nil
}
