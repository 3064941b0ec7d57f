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

const friendRequestColumns = `id, sender_id, receiver_id, status, created_at, resolved_at`

func scanFriendRequest(row rowScanner) (*models.FriendRequest, error) {
	r := &models.FriendRequest{}
	var status string
	var createdAt, resolvedAt int64
	if err := row.Scan(&r.ID, &r.SenderID, &r.ReceiverID, &status, &createdAt, &resolvedAt); err != nil {
		return nil, err
	}
	r.Status = models.FriendRequestStatus(status)
	r.CreatedAt = fromMillis(createdAt)
	r.ResolvedAt = fromMillis(resolvedAt)
	return r, nil
}

// CreateFriendRequest persists a new friend request.
func (s *SQLiteStore) CreateFriendRequest(ctx context.Context, req *models.FriendRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	if req.Status == "" {
		req.Status = models.FriendRequestPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO friend_requests (`+friendRequestColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		req.ID, req.SenderID, req.ReceiverID, string(req.Status), toMillis(req.CreatedAt), toMillis(req.ResolvedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert friend request: %w", err)
	}
	return nil
}

// GetFriendRequest retrieves a friend request by ID.
func (s *SQLiteStore) GetFriendRequest(ctx context.Context, id string) (*models.FriendRequest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+friendRequestColumns+` FROM friend_requests WHERE id = ?`, id)
	req, err := scanFriendRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("friend request", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friend request: %w", err)
	}
	return req, nil
}

// ListFriendRequests retrieves requests the user sent or received.
func (s *SQLiteStore) ListFriendRequests(ctx context.Context, userID string) ([]*models.FriendRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+friendRequestColumns+` FROM friend_requests
		 WHERE sender_id = ? OR receiver_id = ? ORDER BY created_at DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.FriendRequest
	for rows.Next() {
		req, err := scanFriendRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friend request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friend requests: %w", err)
	}
	return requests, nil
}

// ResolveFriendRequest stores the request's status and the new friendship
// rows in one transaction.
func (s *SQLiteStore) ResolveFriendRequest(ctx context.Context, req *models.FriendRequest, friendships []models.Friendship) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE friend_requests SET status = ?, resolved_at = ? WHERE id = ? AND status = ?`,
		string(req.Status), toMillis(req.ResolvedAt), req.ID, string(models.FriendRequestPending),
	)
	if err != nil {
		return fmt.Errorf("failed to resolve friend request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: friend request %s", models.ErrNotPending, req.ID)
	}

	for _, f := range friendships {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO friends (user_id, friend_id, created_at) VALUES (?, ?, ?)`,
			f.UserID, f.FriendID, toMillis(f.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert friendship: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListFriendIDs retrieves the user's friends.
func (s *SQLiteStore) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT friend_id FROM friends WHERE user_id = ? ORDER BY created_at, friend_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}
	return ids, nil
}
