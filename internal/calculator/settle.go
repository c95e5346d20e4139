package calculator

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smile1346/travel-card-phase2-splitspending/internal/models"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/money"
)

// position is a creditor's remaining credit or a debtor's remaining debt,
// both kept positive.
type position struct {
	memberID string
	name     string
	amount   decimal.Decimal
}

// Settle nets all splits of a trip into a list of pending transfers that
// zero every member's balance. See SettleWithPayments.
func Settle(tripID string, splits []models.Split) ([]models.Settlement, error) {
	return SettleWithPayments(tripID, splits, nil)
}

// SettleWithPayments is Settle with completed settlements already applied to
// the balances, so only what is still owed is proposed.
//
// Creditors are matched greedily: debtors in order of largest debt, each
// paying down creditors in order of largest credit, ties broken by member
// ID. The result is deterministic and has at most creditors+debtors-1
// transfers, but is not guaranteed to be the minimum possible count.
// Splits in more than one currency fail with models.ErrValidation.
// Returned settlements have no ID or CreatedAt; the store assigns them.
func SettleWithPayments(tripID string, splits []models.Split, payments []models.Settlement) ([]models.Settlement, error) {
	l, err := buildLedger(splits, payments)
	if err != nil {
		return nil, err
	}

	eps := money.Epsilon(l.places)
	var creditors, debtors []position
	for _, m := range l.members {
		switch {
		case m.Net.GreaterThan(eps):
			creditors = append(creditors, position{m.MemberID, m.MemberName, m.Net})
		case m.Net.LessThan(eps.Neg()):
			debtors = append(debtors, position{m.MemberID, m.MemberName, m.Net.Neg()})
		}
	}
	slices.SortFunc(creditors, byAmountDesc)
	slices.SortFunc(debtors, byAmountDesc)

	settlements := []models.Settlement{}
	for _, debtor := range debtors {
		remaining := debtor.amount
		for j := range creditors {
			if money.IsZero(remaining, l.places) {
				break
			}
			creditor := &creditors[j]
			if money.IsZero(creditor.amount, l.places) {
				continue
			}

			amount := decimal.Min(remaining, creditor.amount)
			settlements = append(settlements, models.Settlement{
				TripID:         tripID,
				FromMemberID:   debtor.memberID,
				FromMemberName: debtor.name,
				ToMemberID:     creditor.memberID,
				ToMemberName:   creditor.name,
				Amount:         amount,
				Currency:       l.currency,
				Status:         models.SettlementStatusPending,
			})

			remaining = remaining.Sub(amount)
			creditor.amount = creditor.amount.Sub(amount)
		}
	}
	return settlements, nil
}

// byAmountDesc orders positions by amount, largest first, then member ID.
// Debts are stored positive, so for debtors this is "most negative first".
func byAmountDesc(a, b position) int {
	if c := b.amount.Cmp(a.amount); c != 0 {
		return c
	}
	return strings.Compare(a.memberID, b.memberID)
}
