// Package notify publishes ledger events to interested parties.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// EventType names a ledger event.
type EventType string

const (
	FriendRequestSent     EventType = "friend_request.sent"
	FriendRequestAccepted EventType = "friend_request.accepted"
	FriendRequestRejected EventType = "friend_request.rejected"
	TransactionCreated    EventType = "transaction.created"
	TransactionDeleted    EventType = "transaction.deleted"
	SettlementRequested   EventType = "settlement.requested"
	SettlementAccepted    EventType = "settlement.accepted"
	SettlementRejected    EventType = "settlement.rejected"
	ReminderCreated       EventType = "reminder.created"
	ReminderDone          EventType = "reminder.done"
)

// Event is one published change. Recipients are the users who should be
// told about it; ActorID is the user who caused it.
type Event struct {
	Type       EventType `json:"type"`
	ActorID    string    `json:"actor_id"`
	Recipients []string  `json:"recipients"`
	SubjectID  string    `json:"subject_id"`
	Amount     string    `json:"amount,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events. Publishing is best effort: callers log errors
// and never fail the originating operation on them.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// LogPublisher writes events to a logger. It is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) error {
	p.logger.InfoContext(ctx, "Event",
		"type", e.Type,
		"actor_id", e.ActorID,
		"recipients", e.Recipients,
		"subject_id", e.SubjectID,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// MemoryPublisher keeps events in memory.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *MemoryPublisher) Publish(_ context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *MemoryPublisher) Close() error { return nil }

// Events returns a copy of the published events in order.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// Types returns the published event types in order.
func (p *MemoryPublisher) Types() []EventType {
	events := p.Events()
	types := make([]EventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}
