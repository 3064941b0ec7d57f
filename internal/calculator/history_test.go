package calculator

import (
	"slices"
	"testing"
	"time"

	"github.com/mmynk/expensecentral/internal/models"
)

func TestMergeHistory(t *testing.T) {
	txs := []*models.Transaction{
		tx("t3", "B", "40", []string{"A", "B"}, nil, t0.Add(3*time.Hour)),
		tx("t1", "A", "300", []string{"A", "B", "C"}, nil, t0.Add(1*time.Hour)),
		tx("t2", "A", "50", []string{"A", "C"}, nil, t0.Add(2*time.Hour)), // not involving B
		tx("t4", "C", "90", []string{"A", "B", "C"}, nil, t0),             // paid by a third party
		tx("t5", "B", "10", []string{"B", "C"}, nil, t0),                  // B paid without A
	}
	sts := []*models.SettlementRequest{
		settled("s1", "A", "B", "100", models.SettlementAccepted, t0, t0.Add(4*time.Hour)),
		settled("s2", "B", "A", "20", models.SettlementAccepted, t0.Add(90*time.Minute), time.Time{}),
		settled("s3", "A", "B", "5", models.SettlementPending, t0, time.Time{}),
		settled("s4", "A", "B", "5", models.SettlementRejected, t0, t0),
		settled("s5", "A", "C", "7", models.SettlementAccepted, t0, t0),
	}

	items := slices.Collect(MergeHistory("A", "B", txs, sts))

	gotIDs := make([]string, len(items))
	for i, it := range items {
		gotIDs[i] = it.ID
	}
	wantIDs := []string{"t1", "s2", "t3", "s1"}
	if !slices.Equal(gotIDs, wantIDs) {
		t.Fatalf("history ids = %v, want %v", gotIDs, wantIDs)
	}

	s1 := items[3]
	if s1.Kind != HistorySettlement {
		t.Errorf("s1 kind = %s, want %s", s1.Kind, HistorySettlement)
	}
	if s1.PayerID != "B" {
		t.Errorf("settlement payer = %s, want borrower B", s1.PayerID)
	}
	if s1.Description != SettledUpLabel {
		t.Errorf("settlement description = %q, want %q", s1.Description, SettledUpLabel)
	}
	if !s1.Timestamp.Equal(t0.Add(4 * time.Hour)) {
		t.Errorf("settlement timestamp = %v, want resolution time", s1.Timestamp)
	}
	if !items[1].Timestamp.Equal(t0.Add(90 * time.Minute)) {
		t.Errorf("unresolved settlement timestamp = %v, want creation time", items[1].Timestamp)
	}
	if items[0].Transaction == nil || items[0].Transaction.ID != "t1" {
		t.Errorf("transaction item does not carry its transaction")
	}
}

func TestMergeHistory_SortedNonDecreasing(t *testing.T) {
	txs, sts := sampleLedger()
	// Equal timestamps on purpose.
	txs = append(txs, tx("t6", "B", "12", []string{"A", "B"}, nil, t0))

	for _, friend := range []string{"B", "C", "D"} {
		var prev time.Time
		for item := range MergeHistory("A", friend, txs, sts) {
			if item.Timestamp.Before(prev) {
				t.Fatalf("history with %s not sorted: %v before %v", friend, item.Timestamp, prev)
			}
			prev = item.Timestamp
		}
	}
}

func TestMergeHistory_Restartable(t *testing.T) {
	txs, sts := sampleLedger()
	seq := MergeHistory("A", "B", txs, sts)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("ranging twice gave %d and %d items", len(first), len(second))
	}

	// Stopping early must not panic.
	for range seq {
		break
	}
}

func TestMergeHistory_SameUser(t *testing.T) {
	txs, sts := sampleLedger()
	if items := slices.Collect(MergeHistory("A", "A", txs, sts)); len(items) != 0 {
		t.Errorf("history with self = %d items, want 0", len(items))
	}
}
