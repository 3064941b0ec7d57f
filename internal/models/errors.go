package models

import "errors"

// Ledger errors. They are returned wrapped with detail; match with errors.Is.
var (
	// ErrInvalidAmount is returned when a non-positive amount is supplied
	// to split, settlement or reminder creation.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidParticipants is returned for an empty or malformed participant set.
	ErrInvalidParticipants = errors.New("invalid participants")

	// ErrSplitMismatch is returned when unequal shares do not add up to the total.
	ErrSplitMismatch = errors.New("split amounts do not match total")

	// ErrNotPending is returned when responding to a request that was already resolved.
	ErrNotPending = errors.New("request is not pending")

	// ErrDuplicatePending is returned when a pending settlement request
	// already exists between the same two users.
	ErrDuplicatePending = errors.New("a pending settlement request already exists")
)
