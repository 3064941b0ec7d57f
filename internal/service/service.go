// Package service implements the expensecentral.v1 Connect services on top
// of the record store and the pure ledger packages.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/expensecentral/internal/auth"
	"github.com/mmynk/expensecentral/internal/metrics"
	"github.com/mmynk/expensecentral/internal/middleware"
	"github.com/mmynk/expensecentral/internal/models"
	"github.com/mmynk/expensecentral/internal/notify"
	"github.com/mmynk/expensecentral/internal/storage"
	"github.com/mmynk/expensecentral/internal/workflow"
)

var (
	errNotParty  = errors.New("not a party to this record")
	errNotFriend = errors.New("not a friend")
)

// Deps are the collaborators shared by the ledger services.
type Deps struct {
	Store     storage.Store
	Publisher notify.Publisher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// base carries Deps and a clock.
type base struct {
	Deps
	now func() time.Time
}

func newBase(d Deps) base {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Publisher == nil {
		d.Publisher = notify.NewLogPublisher(d.Logger)
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	return base{Deps: d, now: func() time.Time { return time.Now().UTC() }}
}

// requireUser returns the authenticated user ID set by middleware.RequireAuth.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// publish sends e and logs, but does not return, delivery failures.
func (b *base) publish(ctx context.Context, e notify.Event) {
	e.OccurredAt = b.now()
	err := b.Publisher.Publish(ctx, e)
	b.Metrics.EventsPublished.WithLabelValues(string(e.Type), metrics.Result(err)).Inc()
	if err != nil {
		b.Logger.Warn("Failed to publish event", "type", e.Type, "subject_id", e.SubjectID, "error", err)
	}
}

// requireFriend fails unless friendID is one of userID's friends.
func (b *base) requireFriend(ctx context.Context, userID, friendID string) error {
	friends, err := b.Store.ListFriendIDs(ctx, userID)
	if err != nil {
		return err
	}
	if !slices.Contains(friends, friendID) {
		return connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("%w: %s", errNotFriend, friendID))
	}
	return nil
}

// connectError maps domain and storage errors to Connect codes.
// Errors that already carry a code pass through.
func connectError(err error) error {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return err
	}

	switch {
	case errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidParticipants),
		errors.Is(err, models.ErrSplitMismatch),
		errors.Is(err, workflow.ErrSelfFriend):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, models.ErrNotPending):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, models.ErrDuplicatePending),
		errors.Is(err, workflow.ErrAlreadyFriends),
		errors.Is(err, workflow.ErrRequestExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, errNotParty):
		return connect.NewError(connect.CodePermissionDenied, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
