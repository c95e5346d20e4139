package calculator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smile1346/travel-card-phase2-splitspending/internal/models"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/money"
)

// percentagePlaces is the scale of emitted share percentages.
const percentagePlaces int32 = 2

// CalculateShares divides total among participants according to splitType.
//
// Amounts are rounded down to the currency's minor unit and the residual goes
// to one designated participant, so the returned amounts always sum to exactly
// total. The designated participant is the first one in input order whose raw
// share is positive. That is not always participants[0]: a member at 0% or
// zero weight is skipped and never absorbs the residual. Only when every raw
// share is zero does participants[0] take it.
// Caller-supplied percentages or amounts that miss the total by more than one
// minor unit fail with models.ErrValidation. Nothing is returned on error.
func CalculateShares(total decimal.Decimal, currency string, splitType models.SplitType, participants []models.ParticipantInput) ([]models.ParticipantShare, error) {
	places := money.Places(currency)

	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: total amount must be greater than zero", models.ErrInvalidInput)
	}
	if !money.HasPlaces(total, places) {
		return nil, fmt.Errorf("%w: total amount %s has more than %d decimal places", models.ErrInvalidInput, total, places)
	}
	if err := validateParticipants(participants); err != nil {
		return nil, err
	}

	strategy, err := StrategyFor(splitType)
	if err != nil {
		return nil, err
	}
	if err := strategy.Validate(total, participants); err != nil {
		return nil, err
	}

	raw := strategy.Raw(total, participants)

	rawAmounts := make([]decimal.Decimal, len(raw))
	for i, r := range raw {
		rawAmounts[i] = r.Amount
	}
	unit := money.Unit(places)
	if diff := money.Sum(rawAmounts).Sub(total); diff.Abs().GreaterThan(unit) {
		return nil, fmt.Errorf("%w: %s shares sum to %s, expected %s",
			models.ErrValidation, strings.ToLower(string(splitType)), money.Sum(rawAmounts).Round(places), total)
	}

	designated := designatedIndex(raw)

	amounts := roundWithResidual(rawAmounts, total, places, designated)
	if amounts[designated].IsNegative() {
		return nil, fmt.Errorf("%w: rounding residual leaves member %s with a negative share",
			models.ErrValidation, participants[designated].MemberID)
	}

	percentages := make([]decimal.Decimal, len(raw))
	for i, r := range raw {
		percentages[i] = r.Percentage
	}
	if splitType == models.SplitTypePercentage {
		// Supplied percentages are kept as given.
		for i := range percentages {
			percentages[i] = money.Round(percentages[i], percentagePlaces)
		}
	} else {
		percentages = roundWithResidual(percentages, hundred, percentagePlaces, designated)
	}

	shares := make([]models.ParticipantShare, len(participants))
	for i, p := range participants {
		shares[i] = models.ParticipantShare{
			MemberID:        p.MemberID,
			MemberName:      p.MemberName,
			ShareAmount:     amounts[i],
			SharePercentage: percentages[i],
		}
	}
	return shares, nil
}

func validateParticipants(participants []models.ParticipantInput) error {
	if len(participants) == 0 {
		return fmt.Errorf("%w: at least one participant is required", models.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(participants))
	for i, p := range participants {
		if strings.TrimSpace(p.MemberID) == "" {
			return fmt.Errorf("%w: participant %d has no member id", models.ErrInvalidInput, i+1)
		}
		if seen[p.MemberID] {
			return fmt.Errorf("%w: member %s appears more than once", models.ErrInvalidInput, p.MemberID)
		}
		seen[p.MemberID] = true
	}
	return nil
}

// designatedIndex picks the participant that absorbs rounding residuals: the
// first with a positive raw share, else index 0.
func designatedIndex(raw []RawShare) int {
	for i, r := range raw {
		if r.Amount.IsPositive() {
			return i
		}
	}
	return 0
}

// roundWithResidual rounds every value down to places and adds target minus
// the rounded sum to values[designated].
func roundWithResidual(values []decimal.Decimal, target decimal.Decimal, places int32, designated int) []decimal.Decimal {
	rounded := make([]decimal.Decimal, len(values))
	for i, v := range values {
		rounded[i] = money.RoundDown(v, places)
	}
	residual := target.Sub(money.Sum(rounded))
	rounded[designated] = rounded[designated].Add(residual)
	return rounded
}
