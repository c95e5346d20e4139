package calculator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smile1346/travel-card-phase2-splitspending/internal/models"
	"github.com/smile1346/travel-card-phase2-splitspending/internal/money"
)

// MemberBalance is the aggregated position of one trip member.
type MemberBalance struct {
	MemberID   string          `json:"memberId"`
	MemberName string          `json:"memberName"`
	TotalPaid  decimal.Decimal `json:"totalPaid"` // fronted for splits plus settlements paid out
	TotalOwed  decimal.Decimal `json:"totalOwed"` // own shares plus settlements received
	Net        decimal.Decimal `json:"net"`       // positive = owed money, negative = owes money
}

// ledger accumulates member balances of one trip in a single currency.
type ledger struct {
	currency string
	places   int32
	members  map[string]*MemberBalance
}

// CalculateBalances aggregates every split of a trip (and any completed
// settlements) into per-member balances, sorted by member ID.
//
// For each split the payer is credited the total and each participant is
// debited their share; a payer who also participates nets out naturally. A
// split whose shares miss the total by at most one minor unit is accepted and
// the gap is charged to its first participant with a positive share, so the
// balances of a trip always sum to zero.
// A completed settlement credits its sender and debits its receiver.
func CalculateBalances(splits []models.Split, payments []models.Settlement) ([]MemberBalance, error) {
	l, err := buildLedger(splits, payments)
	if err != nil {
		return nil, err
	}
	return l.balances(), nil
}

func buildLedger(splits []models.Split, payments []models.Settlement) (*ledger, error) {
	l := &ledger{members: make(map[string]*MemberBalance)}

	for i := range splits {
		split := &splits[i]
		if err := l.useCurrency(split.Currency, "split "+split.ID); err != nil {
			return nil, err
		}
		if strings.TrimSpace(split.PayerID) == "" {
			return nil, fmt.Errorf("%w: split %s has no payer", models.ErrInvalidInput, split.ID)
		}
		if !split.TotalAmount.IsPositive() {
			return nil, fmt.Errorf("%w: split %s total must be greater than zero", models.ErrInvalidInput, split.ID)
		}
		residual := split.TotalAmount.Sub(split.ShareTotal())
		if residual.Abs().GreaterThan(money.Unit(l.places)) {
			return nil, fmt.Errorf("%w: split %s shares sum to %s, expected %s",
				models.ErrValidation, split.ID, split.ShareTotal(), split.TotalAmount)
		}

		payer := l.member(split.PayerID, split.PayerName)
		payer.TotalPaid = payer.TotalPaid.Add(split.TotalAmount)

		// A stored split may miss its total by up to one unit; the first
		// participant with a positive share absorbs the gap so the payer's
		// credit is fully owed by someone.
		designated := firstPositiveShare(split.Participants)
		for j, p := range split.Participants {
			owed := p.ShareAmount
			if j == designated {
				owed = owed.Add(residual)
			}
			m := l.member(p.MemberID, p.MemberName)
			m.TotalOwed = m.TotalOwed.Add(owed)
		}
	}

	for i := range payments {
		s := &payments[i]
		if s.Status != models.SettlementStatusCompleted {
			continue
		}
		if err := l.useCurrency(s.Currency, "settlement "+s.ID); err != nil {
			return nil, err
		}
		from := l.member(s.FromMemberID, s.FromMemberName)
		from.TotalPaid = from.TotalPaid.Add(s.Amount)
		to := l.member(s.ToMemberID, s.ToMemberName)
		to.TotalOwed = to.TotalOwed.Add(s.Amount)
	}

	for _, m := range l.members {
		m.Net = m.TotalPaid.Sub(m.TotalOwed)
	}
	return l, nil
}

func firstPositiveShare(shares []models.ParticipantShare) int {
	for i, p := range shares {
		if p.ShareAmount.IsPositive() {
			return i
		}
	}
	return 0
}

// useCurrency pins the ledger to the first currency seen and rejects any other.
func (l *ledger) useCurrency(code, source string) error {
	c, err := money.NormalizeCurrency(code)
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	if l.currency == "" {
		l.currency = c
		l.places = money.Places(c)
		return nil
	}
	if c != l.currency {
		return fmt.Errorf("%w: %s uses %s but the trip uses %s", models.ErrValidation, source, c, l.currency)
	}
	return nil
}

// member returns the balance entry for id, creating it on first sight. The
// first non-empty name seen for a member wins.
func (l *ledger) member(id, name string) *MemberBalance {
	m, ok := l.members[id]
	if !ok {
		m = &MemberBalance{MemberID: id}
		l.members[id] = m
	}
	if m.MemberName == "" {
		m.MemberName = name
	}
	return m
}

func (l *ledger) balances() []MemberBalance {
	out := make([]MemberBalance, 0, len(l.members))
	for _, m := range l.members {
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b MemberBalance) int {
		return strings.Compare(a.MemberID, b.MemberID)
	})
	return out
}
