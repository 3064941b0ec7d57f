package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/expensecentral/internal/models"
)

// SplitMode selects how a transaction's amount is divided.
type SplitMode string

const (
	// SplitEqual divides the amount evenly across all participants.
	SplitEqual SplitMode = "equal"
	// SplitUnequal uses caller-supplied shares, validated against the amount.
	SplitUnequal SplitMode = "unequal"
)

// Rounding controls the precision of equal shares.
type Rounding string

const (
	// RoundInteger rounds each share to a whole unit; the residual goes to
	// the first participant so the shares sum to the amount exactly.
	RoundInteger Rounding = "integer"
	// RoundNone keeps full-precision shares. They need not sum exactly.
	RoundNone Rounding = "none"
)

// SplitTolerance is the largest absolute difference allowed between the sum
// of unequal shares and the transaction amount.
var SplitTolerance = decimal.NewFromInt(1)

// ComputeSplits derives the owed amount for each participant of a transaction.
//
// Participants are taken in order; the first participant absorbs any rounding
// residual under RoundInteger. For SplitUnequal the explicit shares are only
// validated: every key must be a participant, no share may be negative, and
// the shares must add up to amount within SplitTolerance. Participants
// without an explicit share owe zero.
func ComputeSplits(amount decimal.Decimal, participants []string, mode SplitMode, explicit map[string]decimal.Decimal, rounding Rounding) (map[string]decimal.Decimal, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", models.ErrInvalidAmount, amount)
	}
	if err := validateParticipants(participants); err != nil {
		return nil, err
	}

	switch mode {
	case SplitEqual, "":
		return equalSplits(amount, participants, rounding)
	case SplitUnequal:
		return unequalSplits(amount, participants, explicit)
	default:
		return nil, fmt.Errorf("unknown split mode %q", mode)
	}
}

func validateParticipants(participants []string) error {
	if len(participants) == 0 {
		return fmt.Errorf("%w: must have at least one participant", models.ErrInvalidParticipants)
	}
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p == "" {
			return fmt.Errorf("%w: empty participant id", models.ErrInvalidParticipants)
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate participant %s", models.ErrInvalidParticipants, p)
		}
		seen[p] = true
	}
	return nil
}

func equalSplits(amount decimal.Decimal, participants []string, rounding Rounding) (map[string]decimal.Decimal, error) {
	count := decimal.NewFromInt(int64(len(participants)))
	share := amount.Div(count)
	splits := make(map[string]decimal.Decimal, len(participants))

	switch rounding {
	case RoundNone:
		for _, p := range participants {
			splits[p] = share
		}
	case RoundInteger, "":
		rounded := share.Round(0)
		sum := decimal.Zero
		for _, p := range participants {
			splits[p] = rounded
			sum = sum.Add(rounded)
		}
		if residual := amount.Sub(sum); !residual.IsZero() {
			splits[participants[0]] = splits[participants[0]].Add(residual)
		}
	default:
		return nil, fmt.Errorf("unknown rounding %q", rounding)
	}
	return splits, nil
}

func unequalSplits(amount decimal.Decimal, participants []string, explicit map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	involved := make(map[string]bool, len(participants))
	for _, p := range participants {
		involved[p] = true
	}
	for uid, share := range explicit {
		if !involved[uid] {
			return nil, fmt.Errorf("%w: share given for %s who is not involved", models.ErrInvalidParticipants, uid)
		}
		if share.IsNegative() {
			return nil, fmt.Errorf("%w: share for %s is negative", models.ErrInvalidAmount, uid)
		}
	}

	splits := make(map[string]decimal.Decimal, len(participants))
	sum := decimal.Zero
	for _, p := range participants {
		share := explicit[p]
		splits[p] = share
		sum = sum.Add(share)
	}

	if sum.Sub(amount).Abs().GreaterThan(SplitTolerance) {
		return nil, fmt.Errorf("%w: shares sum to %s, total is %s", models.ErrSplitMismatch, sum, amount)
	}
	return splits, nil
}

// SumSplits adds up all shares of a split.
func SumSplits(splits map[string]decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range splits {
		sum = sum.Add(v)
	}
	return sum
}
