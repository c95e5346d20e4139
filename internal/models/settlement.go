package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus is the lifecycle state of a settlement.
type SettlementStatus string

const (
	SettlementStatusPending   SettlementStatus = "PENDING"
	SettlementStatusCompleted SettlementStatus = "COMPLETED"
	SettlementStatusCancelled SettlementStatus = "CANCELLED"
)

// Terminal reports whether no transition leaves s.
func (s SettlementStatus) Terminal() bool {
	return s == SettlementStatusCompleted || s == SettlementStatusCancelled
}

// Settlement is a transfer from a debtor to a creditor that helps zero the
// balances of a trip.
type Settlement struct {
	// ID is assigned by the store.
	ID string `json:"id"`

	TripID         string           `json:"tripId"`
	FromMemberID   string           `json:"fromMemberId"`
	FromMemberName string           `json:"fromMemberName"`
	ToMemberID     string           `json:"toMemberId"`
	ToMemberName   string           `json:"toMemberName"`
	Amount         decimal.Decimal  `json:"amount"`
	Currency       string           `json:"currency"`
	Status         SettlementStatus `json:"status"`

	// CreatedAt is assigned by the store.
	CreatedAt time.Time `json:"createdAt"`

	// SettledAt is set when the settlement reaches a terminal state.
	SettledAt *time.Time `json:"settledAt,omitempty"`
}

// Complete moves a pending settlement to COMPLETED.
func (s *Settlement) Complete(now time.Time) error {
	return s.transition(SettlementStatusCompleted, now)
}

// Cancel moves a pending settlement to CANCELLED.
func (s *Settlement) Cancel(now time.Time) error {
	return s.transition(SettlementStatusCancelled, now)
}

func (s *Settlement) transition(to SettlementStatus, now time.Time) error {
	if s.Status != SettlementStatusPending {
		return fmt.Errorf("%w: settlement %s is %s, cannot move to %s", ErrInvalidState, s.ID, s.Status, to)
	}
	s.Status = to
	at := now.UTC()
	s.SettledAt = &at
	return nil
}
