package calculator

import (
	"iter"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/expensecentral/internal/models"
)

// SettledUpLabel is the description of history items synthesized from
// accepted settlements.
const SettledUpLabel = "Settled Up"

// HistoryKind tells transaction items apart from settlement items.
type HistoryKind string

const (
	HistoryTransaction HistoryKind = "transaction"
	HistorySettlement  HistoryKind = "settlement"
)

// HistoryItem is one entry of the conversation between two users.
type HistoryItem struct {
	Kind        HistoryKind
	ID          string
	PayerID     string
	Amount      decimal.Decimal
	Description string
	Category    models.Category
	Timestamp   time.Time

	// Transaction is set for HistoryTransaction items.
	Transaction *models.Transaction
	// Settlement is set for HistorySettlement items.
	Settlement *models.SettlementRequest
}

// MergeHistory returns the chronological conversation between userID and
// friendID: transactions one of them paid that involve the other, plus one
// "Settled Up" item per accepted settlement between them (paid by the
// borrower, stamped with the resolution time or the creation time when
// unresolved). Items are sorted ascending by timestamp with a stable sort;
// the relative order of equal timestamps is not part of the contract.
//
// The returned sequence is lazy and restartable: every range over it filters
// and sorts the inputs again.
func MergeHistory(userID, friendID string, transactions []*models.Transaction, settlements []*models.SettlementRequest) iter.Seq[HistoryItem] {
	return func(yield func(HistoryItem) bool) {
		for _, item := range buildHistory(userID, friendID, transactions, settlements) {
			if !yield(item) {
				return
			}
		}
	}
}

func buildHistory(userID, friendID string, transactions []*models.Transaction, settlements []*models.SettlementRequest) []HistoryItem {
	if userID == friendID {
		return nil
	}
	var items []HistoryItem

	for _, t := range transactions {
		between := (t.PayerID == userID && t.IsInvolved(friendID)) ||
			(t.PayerID == friendID && t.IsInvolved(userID))
		if !between {
			continue
		}
		items = append(items, HistoryItem{
			Kind:        HistoryTransaction,
			ID:          t.ID,
			PayerID:     t.PayerID,
			Amount:      t.Amount,
			Description: t.Description,
			Category:    t.Category,
			Timestamp:   t.CreatedAt,
			Transaction: t,
		})
	}

	for _, s := range settlements {
		if s.Status != models.SettlementAccepted || !s.Between(userID, friendID) {
			continue
		}
		items = append(items, HistoryItem{
			Kind:        HistorySettlement,
			ID:          s.ID,
			PayerID:     s.BorrowerID,
			Amount:      s.Amount,
			Description: SettledUpLabel,
			Timestamp:   s.EffectiveTime(),
			Settlement:  s,
		})
	}

	slices.SortStableFunc(items, func(a, b HistoryItem) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return items
}
