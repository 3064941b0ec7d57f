// Package models defines the core domain models for the ledger.
//
// # Records
//
// The following records are read from and written to the record store:
//   - User: a registered account with an optional payment address
//   - Transaction: a shared expense fronted by one payer and split across involved users
//   - PersonalExpense: a one-off expense with no counterparties
//   - SettlementRequest: a proposal that a borrower paid a lender, pending approval
//   - Reminder: a nudge from a lender to a borrower; never affects balances
//   - FriendRequest / Friendship: the social graph that scopes every query
//
// # Design Principles
//
// 1. **Exact money**: amounts are decimal.Decimal, never float64
// 2. **IDs, not pointers**: relationships are expressed with ID strings
// 3. **Derived values are not stored**: balances and history are recomputed
// from the records on every read
package models
