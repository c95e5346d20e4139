package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/smile1346/travel-card-phase2-splitspending/internal/models"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/money"
)

// RawShare is a participant's unrounded amount and percentage as produced
// by a Strategy.
type RawShare struct {
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

// Strategy divides a total among participants for one split type.
type Strategy interface {
	// Type returns the split type this strategy implements.
	Type() models.SplitType

	// Validate checks the strategy-specific participant fields.
	Validate(total decimal.Decimal, participants []models.ParticipantInput) error

	// Raw computes unrounded shares in participant order.
	// Validate must have succeeded first.
	Raw(total decimal.Decimal, participants []models.ParticipantInput) []RawShare
}

// StrategyFor returns the strategy implementing splitType.
func StrategyFor(splitType models.SplitType) (Strategy, error) {
	switch splitType {
	case models.SplitTypeEqual:
		return equalStrategy{}, nil
	case models.SplitTypePercentage:
		return percentageStrategy{}, nil
	case models.SplitTypeFixedAmount:
		return fixedAmountStrategy{}, nil
	case models.SplitTypeByShares:
		return bySharesStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown split type %q", models.ErrInvalidInput, splitType)
	}
}

var hundred = money.Hundred()

// valueOrZero treats a missing optional field as zero.
func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func unitsOrZero(u *int64) int64 {
	if u == nil {
		return 0
	}
	return *u
}

type equalStrategy struct{}

func (equalStrategy) Type() models.SplitType { return models.SplitTypeEqual }

func (equalStrategy) Validate(decimal.Decimal, []models.ParticipantInput) error { return nil }

func (equalStrategy) Raw(total decimal.Decimal, participants []models.ParticipantInput) []RawShare {
	n := decimal.NewFromInt(int64(len(participants)))
	share := RawShare{
		Amount:     total.Div(n),
		Percentage: hundred.Div(n),
	}
	out := make([]RawShare, len(participants))
	for i := range out {
		out[i] = share
	}
	return out
}

type percentageStrategy struct{}

func (percentageStrategy) Type() models.SplitType { return models.SplitTypePercentage }

func (percentageStrategy) Validate(_ decimal.Decimal, participants []models.ParticipantInput) error {
	for _, p := range participants {
		pct := valueOrZero(p.SharePercentage)
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return fmt.Errorf("%w: percentage %s for member %s must be between 0 and 100",
				models.ErrInvalidInput, pct, p.MemberID)
		}
	}
	return nil
}

func (percentageStrategy) Raw(total decimal.Decimal, participants []models.ParticipantInput) []RawShare {
	out := make([]RawShare, len(participants))
	for i, p := range participants {
		pct := valueOrZero(p.SharePercentage)
		out[i] = RawShare{
			Amount:     total.Mul(pct).Div(hundred),
			Percentage: pct,
		}
	}
	return out
}

type fixedAmountStrategy struct{}

func (fixedAmountStrategy) Type() models.SplitType { return models.SplitTypeFixedAmount }

func (fixedAmountStrategy) Validate(_ decimal.Decimal, participants []models.ParticipantInput) error {
	for _, p := range participants {
		if amount := valueOrZero(p.ShareAmount); amount.IsNegative() {
			return fmt.Errorf("%w: amount %s for member %s cannot be negative",
				models.ErrInvalidInput, amount, p.MemberID)
		}
	}
	return nil
}

func (fixedAmountStrategy) Raw(total decimal.Decimal, participants []models.ParticipantInput) []RawShare {
	out := make([]RawShare, len(participants))
	for i, p := range participants {
		amount := valueOrZero(p.ShareAmount)
		out[i] = RawShare{
			Amount:     amount,
			Percentage: amount.Mul(hundred).Div(total),
		}
	}
	return out
}

type bySharesStrategy struct{}

func (bySharesStrategy) Type() models.SplitType { return models.SplitTypeByShares }

func (bySharesStrategy) Validate(_ decimal.Decimal, participants []models.ParticipantInput) error {
	var totalUnits int64
	for _, p := range participants {
		units := unitsOrZero(p.ShareUnits)
		if units < 0 {
			return fmt.Errorf("%w: share units %d for member %s cannot be negative",
				models.ErrInvalidInput, units, p.MemberID)
		}
		totalUnits += units
	}
	if totalUnits <= 0 {
		return fmt.Errorf("%w: total share units must be greater than zero", models.ErrInvalidInput)
	}
	return nil
}

func (bySharesStrategy) Raw(total decimal.Decimal, participants []models.ParticipantInput) []RawShare {
	var totalUnits int64
	for _, p := range participants {
		totalUnits += unitsOrZero(p.ShareUnits)
	}
	denominator := decimal.NewFromInt(totalUnits)

	out := make([]RawShare, len(participants))
	for i, p := range participants {
		units := decimal.NewFromInt(unitsOrZero(p.ShareUnits))
		out[i] = RawShare{
			Amount:     total.Mul(units).Div(denominator),
			Percentage: units.Mul(hundred).Div(denominator),
		}
	}
	return out
}
